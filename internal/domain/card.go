package domain

import "time"

// Card represents a single flashcard row (id, front, back)
type Card struct {
	ID        int64     `json:"id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
}

// CardPair is a front/back pair that has not been stored yet
type CardPair struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}
