package models

import "time"

// Response is the result envelope returned for every inbound action.
// Success=false always carries Error.
type Response struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     string     `json:"error,omitempty"`
	Message   string     `json:"message,omitempty"`
	User      *User      `json:"user,omitempty"`
	HasAuth   *bool      `json:"hasAuth,omitempty"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Fail builds a failed envelope.
func Fail(msg string) Response {
	return Response{Success: false, Error: msg}
}
