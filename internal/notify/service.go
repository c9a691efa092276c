package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/oakpoint-health/intake-scheduler/internal/events"
	"github.com/oakpoint-health/intake-scheduler/pkg/logging"
)

// Service delivers booking confirmations to clinic staff. Delivery is best
// effort: the booking itself is already committed by the time this runs, so
// errors are reported to the caller only for logging and metrics.
type Service struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		recipients: recipients,
		logger:     logger,
	}
}

// NotifyBookingConfirmed emails the booking-confirmed event to every
// configured recipient. Partial failures don't stop the remaining sends.
func (s *Service) NotifyBookingConfirmed(ctx context.Context, evt events.BookingConfirmedV1) error {
	if s.email == nil || len(s.recipients) == 0 {
		s.logger.Debug("notify: no email sender or recipients configured, skipping")
		return nil
	}

	subject := fmt.Sprintf("Appointment confirmed - %s", evt.PatientName)
	body := fmt.Sprintf(`Appointment confirmed.

Physician: %s
Patient: %s
Time slot: %s

Booked at: %s`,
		evt.PhysicianName,
		evt.PatientName,
		evt.SlotDescription,
		evt.BookedAt.Format("January 2, 2006 at 3:04 PM"),
	)

	var errs []error
	for _, recipient := range s.recipients {
		msg := EmailMessage{
			To:      recipient,
			Subject: subject,
			Body:    body,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: failed to send booking confirmation", "error", err, "to", recipient, "appointment_id", evt.AppointmentID)
			errs = append(errs, err)
			continue
		}
		s.logger.Info("notify: booking confirmation sent", "to", recipient, "appointment_id", evt.AppointmentID)
	}
	return errors.Join(errs...)
}
