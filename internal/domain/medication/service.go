package medication

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/pkg/caldate"
)

type Service struct {
	meds   Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(meds Store, logger zerolog.Logger) *Service {
	return &Service{meds: meds, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]*Medication, error) {
	return s.meds.List(ctx)
}

// ForPatient returns the medications prescribed to a patient. Any other
// viewer gets an empty list.
func (s *Service) ForPatient(ctx context.Context, viewer *identity.User) ([]*Medication, error) {
	if viewer == nil || viewer.Role != identity.RolePatient || !viewer.Consistent() {
		return []*Medication{}, nil
	}
	all, err := s.meds.List(ctx)
	if err != nil {
		return nil, err
	}
	return ForPatient(all, viewer.ID), nil
}

// ActiveFor is the reminder widget's source: the patient's medications
// active today.
func (s *Service) ActiveFor(ctx context.Context, viewer *identity.User, today caldate.Date) ([]*Medication, error) {
	meds, err := s.ForPatient(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return Active(meds, today), nil
}

// MarkTaken stamps a reminder with the current time.
func (s *Service) MarkTaken(ctx context.Context, viewer *identity.User, medicationID, reminderID string) (*Medication, error) {
	if viewer == nil || viewer.Role != identity.RolePatient {
		return nil, ErrNotPermitted
	}
	taken := s.now().UTC()
	m, err := s.meds.Update(ctx, medicationID, func(m *Medication) error {
		if m.PatientID != viewer.ID {
			return ErrNotPermitted
		}
		for i := range m.Reminders {
			if m.Reminders[i].ID == reminderID {
				m.Reminders[i].LastTaken = &taken
				return nil
			}
		}
		return ErrReminderNotFound
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("medication_id", medicationID).
		Str("reminder_id", reminderID).
		Str("patient_id", viewer.ID).
		Msg("reminder marked taken")
	return m, nil
}
