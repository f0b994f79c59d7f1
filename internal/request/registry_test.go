package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthai-backend/internal/apperr"
)

func TestRegistryKnowsAllTypes(t *testing.T) {
	r := NewRegistry()
	for _, typ := range []Type{
		TypeAppointmentBooking,
		TypeFreeConsultation,
		TypeArticleApproval,
		TypeProductApproval,
		TypeUserRegistration,
		TypeContactInquiry,
	} {
		assert.True(t, r.Known(typ), "type %s should be registered", typ)
	}
	assert.False(t, r.Known(Type("pet_grooming")))
}

func TestRegistryOnlyContactInquiryIsAnonymous(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.RequiresSubmitter(TypeContactInquiry))
	assert.True(t, r.RequiresSubmitter(TypeAppointmentBooking))
	assert.True(t, r.RequiresSubmitter(TypeFreeConsultation))
}

func TestRegistryDecodeDispatchesByType(t *testing.T) {
	r := NewRegistry()

	raw, _ := json.Marshal(map[string]string{
		"fullName":        "Jane Doe",
		"email":           "jane@example.com",
		"service":         "Dermatology",
		"appointmentDate": "2025-03-01",
	})
	payload, err := r.Decode(TypeFreeConsultation, raw)
	require.NoError(t, err)

	consult, ok := payload.(FreeConsultation)
	require.True(t, ok)
	assert.Equal(t, "Dermatology", consult.Service)
	assert.Equal(t, TypeFreeConsultation, payload.RequestType())
}

func TestRegistryDecodeUnknownTypeFails(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(Type("mystery"), []byte(`{}`))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRegistryDecodeEmptyDataFails(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(TypeContactInquiry, nil)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
