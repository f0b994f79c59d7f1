package request

import (
	"encoding/json"

	"healthai-backend/internal/apperr"
)

// Registry maps a request type tag to its payload decoder and to
// whether the type demands an authenticated submitter. Only contact
// inquiries may be submitted anonymously.
type Registry struct {
	entries map[Type]registryEntry
}

type registryEntry struct {
	decode            func(raw []byte) (Payload, error)
	requiresSubmitter bool
}

func decodeInto[P Payload](raw []byte) (Payload, error) {
	var p P
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, apperr.Validation("malformed request data")
	}
	return p, nil
}

func NewRegistry() *Registry {
	return &Registry{entries: map[Type]registryEntry{
		TypeAppointmentBooking: {decode: decodeInto[AppointmentBooking], requiresSubmitter: true},
		TypeFreeConsultation:   {decode: decodeInto[FreeConsultation], requiresSubmitter: true},
		TypeArticleApproval:    {decode: decodeInto[ArticleApproval], requiresSubmitter: true},
		TypeProductApproval:    {decode: decodeInto[ProductApproval], requiresSubmitter: true},
		TypeUserRegistration:   {decode: decodeInto[UserRegistration], requiresSubmitter: true},
		TypeContactInquiry:     {decode: decodeInto[ContactInquiry], requiresSubmitter: false},
	}}
}

// Known reports whether t is a registered request type.
func (r *Registry) Known(t Type) bool {
	_, ok := r.entries[t]
	return ok
}

// RequiresSubmitter reports whether t rejects anonymous submissions.
func (r *Registry) RequiresSubmitter(t Type) bool {
	return r.entries[t].requiresSubmitter
}

// Decode parses raw into the payload struct registered for t.
func (r *Registry) Decode(t Type, raw []byte) (Payload, error) {
	entry, ok := r.entries[t]
	if !ok {
		return nil, apperr.Validation("unknown request type: %s", t)
	}
	if len(raw) == 0 {
		return nil, apperr.Validation("request data is required")
	}
	return entry.decode(raw)
}
