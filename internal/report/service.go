package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/signintech/gopdf"

	"healthai-backend/internal/request"
)

// TelegramClient is the notification channel to the clinic staff chat.
type TelegramClient interface {
	SendMessage(chatID int64, text string) error
	SendDocument(chatID int64, fileData []byte, fileName string) error
}

// Service pushes best-effort notifications to the clinic when requests
// move through the moderation workflow. It implements request.Notifier.
type Service struct {
	tgClient     TelegramClient
	clinicChatID int64
}

func NewService(tg TelegramClient, clinicChatID int64) *Service {
	return &Service{tgClient: tg, clinicChatID: clinicChatID}
}

func (s *Service) RequestSubmitted(ctx context.Context, req request.Request) error {
	text := fmt.Sprintf("New %s request pending review (id %s).", req.Type, req.ID)
	return s.tgClient.SendMessage(s.clinicChatID, text)
}

// AppointmentApproved generates a one-page confirmation PDF and sends
// it to the clinic chat.
func (s *Service) AppointmentApproved(ctx context.Context, req request.Request, booking request.AppointmentBooking) error {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	fontPaths := []string{
		"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	}
	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return fmt.Errorf("failed to load font for PDF, ensure ttf-dejavu is installed: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return err
	}
	pdf.Cell(nil, "Appointment Confirmation")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return err
	}
	lines := []string{
		fmt.Sprintf("Generated: %s", time.Now().Format("02 Jan 2006 15:04")),
		fmt.Sprintf("Request ID: %s", req.ID),
		fmt.Sprintf("Patient: %s", booking.PatientName),
		fmt.Sprintf("Email: %s", booking.PatientEmail),
		fmt.Sprintf("Phone: %s", booking.PatientPhone),
		fmt.Sprintf("Date: %s at %s", booking.AppointmentDate, booking.AppointmentTime),
	}
	for _, line := range lines {
		pdf.Cell(nil, line)
		pdf.Br(15)
	}

	if booking.ReasonForVisit != "" {
		pdf.Br(10)
		if err := pdf.SetFont("DejaVu", "", 14); err != nil {
			return err
		}
		pdf.Cell(nil, "Reason for visit:")
		pdf.Br(15)
		if err := pdf.SetFont("DejaVu", "", 11); err != nil {
			return err
		}
		wrapped, _ := pdf.SplitText(booking.ReasonForVisit, 500)
		for _, l := range wrapped {
			pdf.Cell(nil, l)
			pdf.Br(12)
		}
	}

	if req.ReviewNotes != "" {
		pdf.Br(10)
		if err := pdf.SetFont("DejaVu", "", 14); err != nil {
			return err
		}
		pdf.Cell(nil, "Review notes:")
		pdf.Br(15)
		if err := pdf.SetFont("DejaVu", "", 11); err != nil {
			return err
		}
		wrapped, _ := pdf.SplitText(req.ReviewNotes, 500)
		for _, l := range wrapped {
			pdf.Cell(nil, l)
			pdf.Br(12)
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	fileName := fmt.Sprintf("appointment_%s.pdf", req.ID)
	return s.tgClient.SendDocument(s.clinicChatID, buf.Bytes(), fileName)
}
