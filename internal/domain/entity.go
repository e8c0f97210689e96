package domain

import "time"

// Entity provides the identity and timestamp fields shared by every stored record.
type Entity struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch sets UpdatedAt to now. Call this whenever the entity changes.
func (e *Entity) Touch(now time.Time) {
	e.UpdatedAt = now
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (e *Entity) InitTimestamps(now time.Time) {
	e.CreatedAt = now
	e.UpdatedAt = now
}
