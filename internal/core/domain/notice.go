package domain

import "time"

// NoticeLevel styles a user-facing notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is an outbound user-visible signal produced by an explicit
// credential action. Background events (bootstrap, auth-state changes)
// never produce notices.
type Notice struct {
	Level     NoticeLevel `json:"level"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`
}
