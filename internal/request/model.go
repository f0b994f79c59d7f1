package request

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further transition is defined from s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ValidDecision reports whether s is an acceptable review outcome.
// The acceptable outcomes are exactly the terminal statuses.
func ValidDecision(s Status) bool {
	return s.Terminal()
}

type Type string

const (
	TypeAppointmentBooking Type = "appointment_booking"
	TypeFreeConsultation   Type = "free_consultation"
	TypeArticleApproval    Type = "article_approval"
	TypeProductApproval    Type = "product_approval"
	TypeUserRegistration   Type = "user_registration"
	TypeContactInquiry     Type = "contact_us_inquiry"
)

// Request is the generic moderated-workflow entity. Type and the
// payload shape are fixed at creation; status moves one-directionally
// out of pending, and reviewedBy/reviewNotes are set exactly once at
// that transition.
type Request struct {
	ID          uuid.UUID  `json:"id"`
	Type        Type       `json:"type"`
	Status      Status     `json:"status"`
	Data        Payload    `json:"data"`
	SubmittedBy *uuid.UUID `json:"submittedBy,omitempty"`
	ReviewedBy  *uuid.UUID `json:"reviewedBy,omitempty"`
	ReviewNotes string     `json:"reviewNotes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
