package model

import "time"

// Session holds the full (unsanitized) questions handed out to one quiz
// client. Questions are index-aligned with the sanitized set the client got.
type Session struct {
	ID        string     `json:"sessionId"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
