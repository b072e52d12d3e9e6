package attendance

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"bluemark.com/bluemark/utils"
)

// StorageKey is the fixed key the whole collection is persisted under.
const StorageKey = "bluemark_logs"

// Cache is the durable key-value mirror behind the store. Implementations
// live in infrastructure/cache.
type Cache interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
}

// Store owns the in-session attendance collection, newest record first.
// Every mutation replaces the snapshot wholesale and rewrites the cache under
// StorageKey; record volume is small enough that whole-collection persistence
// is acceptable.
type Store struct {
	mu    sync.Mutex
	logs  []AttendanceLog
	cache Cache
}

// NewStore loads the cached collection, falling back to the built-in seed
// dataset when the cache is empty or unreadable.
func NewStore(cache Cache, now time.Time) *Store {
	s := &Store{cache: cache}

	data, err := cache.Load(StorageKey)
	if err != nil {
		s.logs = SeedLogs(now)
		return s
	}

	var logs []AttendanceLog
	if err := json.Unmarshal(data, &logs); err != nil {
		log.Printf("attendance: discarding unreadable cache: %v", err)
		s.logs = SeedLogs(now)
		return s
	}

	s.logs = logs
	return s
}

// Append inserts the record at the front of the collection. Uniqueness per
// (user, day) is the caller's responsibility; gate with FindToday first.
func (s *Store) Append(record AttendanceLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]AttendanceLog, 0, len(s.logs)+1)
	next = append(next, record)
	next = append(next, s.logs...)
	s.logs = next

	s.persist()
}

// UpdateByID merges the given fields over the matching record and reports
// whether a record matched. A miss leaves the collection unchanged.
func (s *Store) UpdateByID(id string, update LogUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	next := make([]AttendanceLog, len(s.logs))
	for i, record := range s.logs {
		if record.ID == id {
			found = true
			record = merge(record, update)
		}
		next[i] = record
	}
	if !found {
		return false
	}

	s.logs = next
	s.persist()
	return true
}

// FindToday returns the user's record whose date falls on the same calendar
// day as now. At most one such record exists when callers gate appends.
func (s *Store) FindToday(userID string, now time.Time) (AttendanceLog, bool) {
	today := now.Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.logs {
		if record.UserID == userID && strings.HasPrefix(record.Date, today) {
			return record, true
		}
	}
	return AttendanceLog{}, false
}

// Logs returns a copy of the current snapshot, newest first.
func (s *Store) Logs() []AttendanceLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]AttendanceLog, len(s.logs))
	copy(out, s.logs)
	return out
}

// ForUser returns the user's records, newest first.
func (s *Store) ForUser(userID string) []AttendanceLog {
	return utils.Filter(s.Logs(), func(l AttendanceLog) bool {
		return l.UserID == userID
	})
}

// persist writes the whole collection to the cache. Callers hold the lock.
// Cache failures are logged and swallowed; the in-session snapshot stays
// authoritative.
func (s *Store) persist() {
	data, err := json.Marshal(s.logs)
	if err != nil {
		log.Printf("attendance: marshal logs: %v", err)
		return
	}
	if err := s.cache.Save(StorageKey, data); err != nil {
		log.Printf("attendance: persist logs: %v", err)
	}
}

func merge(record AttendanceLog, update LogUpdate) AttendanceLog {
	if update.CheckOutTime != nil {
		record.CheckOutTime = update.CheckOutTime
	}
	if update.CheckOutLat != nil {
		record.CheckOutLat = update.CheckOutLat
	}
	if update.CheckOutLng != nil {
		record.CheckOutLng = update.CheckOutLng
	}
	if update.CheckOutAddress != nil {
		record.CheckOutAddress = update.CheckOutAddress
	}
	if update.Status != nil {
		record.Status = *update.Status
	}
	if update.Flagged != nil {
		record.Flagged = *update.Flagged
	}
	if update.Reason != nil {
		record.Reason = *update.Reason
	}
	return record
}
