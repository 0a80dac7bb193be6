package domain

import "time"

// User represents a registered account
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// ChatState represents a Telegram user's current interaction state
type ChatState string

const (
	StateIdle         ChatState = "idle"
	StateWaitingEmail ChatState = "waiting_email"
	StateWaitingPass  ChatState = "waiting_password"
	StateWaitingFront ChatState = "waiting_front"
	StateWaitingBack  ChatState = "waiting_back"
)

// StateData holds temporary data for a chat's current state
type StateData struct {
	State        ChatState
	PendingEmail string
	PendingFront string
}
