package domain

import "time"

// Document holds the identity and timestamps shared by every persisted entity.
// It is embedded in User and Post.
type Document struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (d *Document) Touch() {
	d.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (d *Document) InitTimestamps() {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
}
