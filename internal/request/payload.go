package request

import (
	"sort"
	"strings"

	"healthai-backend/internal/apperr"
)

// Payload is the type-dependent request body. Modelling each type as
// its own struct gives exhaustive dispatch where the payload is
// consumed, instead of a stringly-typed map.
type Payload interface {
	RequestType() Type
	Validate() error
}

type AppointmentBooking struct {
	PatientName     string `json:"patientName"`
	PatientEmail    string `json:"patientEmail"`
	PatientPhone    string `json:"patientPhone"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	ReasonForVisit  string `json:"reasonForVisit"`
}

func (AppointmentBooking) RequestType() Type { return TypeAppointmentBooking }

func (p AppointmentBooking) Validate() error {
	return requireFields(map[string]string{
		"patientName":     p.PatientName,
		"patientEmail":    p.PatientEmail,
		"appointmentDate": p.AppointmentDate,
		"appointmentTime": p.AppointmentTime,
	})
}

type FreeConsultation struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Service         string `json:"service"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
}

func (FreeConsultation) RequestType() Type { return TypeFreeConsultation }

func (p FreeConsultation) Validate() error {
	return requireFields(map[string]string{
		"fullName":        p.FullName,
		"email":           p.Email,
		"service":         p.Service,
		"appointmentDate": p.AppointmentDate,
	})
}

type ArticleApproval struct {
	ArticleID string `json:"articleId"`
	Title     string `json:"title"`
}

func (ArticleApproval) RequestType() Type { return TypeArticleApproval }

func (p ArticleApproval) Validate() error {
	return requireFields(map[string]string{
		"articleId": p.ArticleID,
		"title":     p.Title,
	})
}

type ProductApproval struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
}

func (ProductApproval) RequestType() Type { return TypeProductApproval }

func (p ProductApproval) Validate() error {
	return requireFields(map[string]string{
		"productId": p.ProductID,
		"name":      p.Name,
	})
}

type UserRegistration struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (UserRegistration) RequestType() Type { return TypeUserRegistration }

func (p UserRegistration) Validate() error {
	return requireFields(map[string]string{
		"name":  p.Name,
		"email": p.Email,
	})
}

type ContactInquiry struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

func (ContactInquiry) RequestType() Type { return TypeContactInquiry }

func (p ContactInquiry) Validate() error {
	return requireFields(map[string]string{
		"fullName": p.FullName,
		"email":    p.Email,
		"message":  p.Message,
	})
}

func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
