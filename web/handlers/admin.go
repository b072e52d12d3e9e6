package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"bluemark.com/bluemark/core/attendance"
	"bluemark.com/bluemark/utils"
	"bluemark.com/bluemark/web/common"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type adminStats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Flagged int `json:"flagged"`
}

// StatsHandler returns today's headline counts for the admin dashboard.
func (h *Handler) StatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		today := h.Now().Format("2006-01-02")
		todayLogs := utils.Filter(h.Store.Logs(), func(l attendance.AttendanceLog) bool {
			return strings.HasPrefix(l.Date, today)
		})
		byStatus := utils.GroupBy(todayLogs, func(l attendance.AttendanceLog) attendance.Status {
			return l.Status
		})

		c.JSON(http.StatusOK, common.NewSuccessResponse(adminStats{
			Total:   len(todayLogs),
			Present: len(byStatus[attendance.StatusPresent]),
			Flagged: len(byStatus[attendance.StatusFlagged]),
		}))
	}
}

// filterLogs applies the admin listing filters: case-insensitive name
// substring, exact status, and calendar date.
func (h *Handler) filterLogs(c *gin.Context) []attendance.AttendanceLog {
	name := strings.ToLower(c.Query("name"))
	status := c.Query("status")
	date := c.Query("date") // YYYY-MM-DD

	return utils.Filter(h.Store.Logs(), func(l attendance.AttendanceLog) bool {
		if name != "" && !strings.Contains(strings.ToLower(l.UserName), name) {
			return false
		}
		if status != "" && string(l.Status) != status {
			return false
		}
		if date != "" && !strings.HasPrefix(l.Date, date) {
			return false
		}
		return true
	})
}

// SearchLogsHandler lists all records, filtered, newest first.
func (h *Handler) SearchLogsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logs := h.filterLogs(c)
		c.JSON(http.StatusOK, common.NewSearchResponse(logs, int64(len(logs))))
	}
}

// ApproveHandler clears a flagged record: status back to Present, flag off.
func (h *Handler) ApproveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		logs := h.Store.Logs()
		record := utils.Find(logs, func(l attendance.AttendanceLog) bool { return l.ID == id })
		if record == nil {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("no log found with the given ID"))
			return
		}
		if record.Status != attendance.StatusFlagged {
			c.JSON(http.StatusConflict, common.NewErrorResponse("log is not flagged"))
			return
		}

		h.Store.UpdateByID(id, attendance.LogUpdate{
			Status:  utils.Ptr(attendance.StatusPresent),
			Flagged: utils.Ptr(false),
		})

		updated := utils.Find(h.Store.Logs(), func(l attendance.AttendanceLog) bool { return l.ID == id })
		c.JSON(http.StatusOK, common.NewSuccessResponse(updated))
	}
}

// ExportHandler streams the filtered logs as an XLSX workbook.
func (h *Handler) ExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logs := h.filterLogs(c)

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Attendance"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Date", "Name", "Check In", "Check Out", "Status", "Flagged", "Location"}
		for i, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, header)
		}

		for row, l := range logs {
			date := l.Date
			if t, err := utils.ParseISOTime(l.Date); err == nil {
				date = utils.FormatDate(*t)
			}
			values := []interface{}{
				date,
				l.UserName,
				utils.Format(l.CheckInTime),
				utils.Format(l.CheckOutTime),
				string(l.Status),
				utils.FormatBoolean(l.Flagged, "Yes", "No"),
				utils.Format(l.CheckInAddress),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		c.Header("Content-Disposition", `attachment; filename="attendance_report.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(fmt.Sprintf("write workbook: %v", err)))
		}
	}
}
