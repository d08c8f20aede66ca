package model

import (
	"strings"
	"time"
)

// Modality is the input mode a user answers with.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityAudio Modality = "audio"
	ModalityVideo Modality = "video"
)

// Valid reports whether m is a known modality.
func (m Modality) Valid() bool {
	switch m {
	case ModalityText, ModalityAudio, ModalityVideo:
		return true
	}
	return false
}

// CapturesMedia reports whether this modality records from a capture device.
func (m Modality) CapturesMedia() bool {
	return m == ModalityAudio || m == ModalityVideo
}

// AttemptStatus tracks an attempt through its lifecycle.
type AttemptStatus string

const (
	AttemptActive    AttemptStatus = "active"
	AttemptSubmitted AttemptStatus = "submitted"
	AttemptAbandoned AttemptStatus = "abandoned"
)

// Attempt is one user's in-progress or submitted answer to one question.
// QuestionID, Category, Difficulty and StartedAt are fixed at creation.
type Attempt struct {
	ID          string        `json:"id"`
	UserID      string        `json:"-"`
	QuestionID  string        `json:"questionId"`
	Category    string        `json:"category"`
	Difficulty  Difficulty    `json:"difficulty"`
	Modality    Modality      `json:"modality"`
	TextContent string        `json:"textContent,omitempty"`
	MediaKey    string        `json:"mediaKey,omitempty"` // object-store key, set only after a successful capture
	StartedAt   time.Time     `json:"startedAt"`
	Status      AttemptStatus `json:"status"`
}

// Submittable reports whether exactly one answer source is present:
// non-empty text or a captured media blob, never both, never neither.
func (a *Attempt) Submittable() bool {
	hasText := strings.TrimSpace(a.TextContent) != ""
	hasMedia := a.MediaKey != ""
	return hasText != hasMedia
}

// DraftKey identifies the persisted draft for a question instance.
// At most one draft exists per identity.
type DraftKey struct {
	Category   string
	QuestionID string
}

// String renders the composite key in its storage format.
func (k DraftKey) String() string {
	return "draft:" + k.Category + ":" + k.QuestionID
}
