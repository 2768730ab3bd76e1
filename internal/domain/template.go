package domain

import "time"

type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SavedDraft is a draft kept in the persistence surface together with the
// platforms it was aimed at.
type SavedDraft struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Draft        Draft       `json:"draft"`
	Platforms    PlatformSet `json:"platforms"`
	LastModified time.Time   `json:"lastModified"`
}
