package models

import "time"

// Meta carries the identity and bookkeeping timestamps shared by every record.
type Meta struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CreatedAt time.Time `json:"createdAt,omitzero" example:"2025-11-05T10:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" example:"2025-11-05T10:00:00Z"`
}

// RecordID returns the record identifier.
func (m Meta) RecordID() string { return m.ID }

// SetRecordID assigns the record identifier.
func (m *Meta) SetRecordID(id string) { m.ID = id }

// Touch stamps UpdatedAt, and CreatedAt when it has never been set.
func (m *Meta) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// MessageResponse is returned by operations that have no record to echo.
type MessageResponse struct {
	Message string `json:"message" example:"Event deleted"`
} // @name MessageResponse
