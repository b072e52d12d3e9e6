package identity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bluemark.com/bluemark/core/attendance"
)

// loginPayload is the union of every response shape the login webhook has
// been seen answering with: PascalCase columns straight from the sheet,
// snake_case user_* fields, and an optional status/message envelope.
type loginPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`

	Email      string `json:"Email"`
	EmailLower string `json:"email"`
	Name       string `json:"Name"`
	UserName   string `json:"user_name"`
	Role       string `json:"Role"`
	UserRole   string `json:"user_role"`
	Department string     `json:"Department"`
	DeptLower  string     `json:"department"`
	UserID     flexString `json:"user_id"`
	ID         flexString `json:"id"`
	Avatar     string     `json:"avatar"`
}

// flexString tolerates identifiers sent as JSON numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// Normalize collapses an accepted external login response into the canonical
// User. The webhook may answer with a single object or an array of matches;
// an array is reduced to its first element. When no recognizable identity
// field is present the credentials are treated as invalid.
func Normalize(raw json.RawMessage, email string) (attendance.User, error) {
	payload, err := unwrap(raw)
	if err != nil {
		return attendance.User{}, err
	}

	if payload.Status == "unsuccess" {
		msg := payload.Message
		if msg == "" {
			msg = "login unsuccessful"
		}
		return attendance.User{}, fmt.Errorf("%w: %s", ErrAuthenticationFailed, msg)
	}

	if payload.Email == "" && payload.EmailLower == "" &&
		payload.Name == "" && payload.UserName == "" &&
		payload.Role == "" && payload.UserRole == "" {
		return attendance.User{}, fmt.Errorf("%w: no identity fields in response", ErrAuthenticationFailed)
	}

	userEmail := coalesce(payload.Email, payload.EmailLower, email)
	userName := coalesce(payload.Name, payload.UserName, localPart(email))
	role := attendance.RoleEmployee
	if strings.EqualFold(coalesce(payload.Role, payload.UserRole), string(attendance.RoleAdmin)) {
		role = attendance.RoleAdmin
	}

	id := coalesce(string(payload.UserID), string(payload.ID))
	if id == "" {
		id = fmt.Sprintf("user-%d", time.Now().UnixMilli())
	}

	avatar := payload.Avatar
	if avatar == "" {
		avatar = fmt.Sprintf("https://picsum.photos/seed/%s/200", userEmail)
	}

	return attendance.User{
		ID:         id,
		Name:       userName,
		Email:      userEmail,
		Role:       role,
		Department: coalesce(payload.Department, payload.DeptLower, "General"),
		Avatar:     avatar,
	}, nil
}

func unwrap(raw json.RawMessage) (loginPayload, error) {
	var payload loginPayload
	if err := json.Unmarshal(raw, &payload); err == nil {
		return payload, nil
	}

	var list []loginPayload
	if err := json.Unmarshal(raw, &list); err != nil {
		return loginPayload{}, fmt.Errorf("%w: unrecognized response shape", ErrAuthenticationFailed)
	}
	if len(list) == 0 {
		return loginPayload{}, fmt.Errorf("%w: no user found", ErrAuthenticationFailed)
	}
	return list[0], nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
