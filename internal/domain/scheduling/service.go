package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/pkg/caldate"
)

var ErrPastDate = errors.New("appointment date is in the past")

type Service struct {
	appts  Store
	logger zerolog.Logger
}

func NewService(appts Store, logger zerolog.Logger) *Service {
	return &Service{appts: appts, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]*Appointment, error) {
	return s.appts.List(ctx)
}

// ForViewer returns the viewer's appointments. Inconsistent users see nothing.
func (s *Service) ForViewer(ctx context.Context, viewer *identity.User) ([]*Appointment, error) {
	if !viewer.Consistent() {
		return []*Appointment{}, nil
	}
	all, err := s.appts.List(ctx)
	if err != nil {
		return nil, err
	}
	return ForViewer(all, viewer.Role, viewer.ID), nil
}

func (s *Service) Get(ctx context.Context, viewer *identity.User, id string) (*Appointment, error) {
	visible, err := s.ForViewer(ctx, viewer)
	if err != nil {
		return nil, err
	}
	for _, a := range visible {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, ErrNotFound
}

// Apply runs a status transition on behalf of viewer.
func (s *Service) Apply(ctx context.Context, viewer *identity.User, id string, action Action) (*Appointment, error) {
	if action == ActionReschedule {
		return nil, fmt.Errorf("reschedule needs a new date: %w", ErrInvalidTransition)
	}
	return s.update(ctx, viewer, id, action, func(a *Appointment) error {
		next, err := Next(a.Status, action)
		if err != nil {
			return fmt.Errorf("%s %s appointment: %w", action, a.Status, err)
		}
		a.Status = next
		return nil
	})
}

// Reschedule moves a scheduled appointment to a new slot. It stays scheduled.
func (s *Service) Reschedule(ctx context.Context, viewer *identity.User, id string, date caldate.Date, at caldate.TimeOfDay, today caldate.Date) (*Appointment, error) {
	if date.IsZero() || date.Before(today) {
		return nil, ErrPastDate
	}
	return s.update(ctx, viewer, id, ActionReschedule, func(a *Appointment) error {
		if _, err := Next(a.Status, ActionReschedule); err != nil {
			return fmt.Errorf("reschedule %s appointment: %w", a.Status, err)
		}
		a.Date = date
		a.Time = at
		return nil
	})
}

func (s *Service) update(ctx context.Context, viewer *identity.User, id string, action Action, fn func(a *Appointment) error) (*Appointment, error) {
	if !viewer.Consistent() {
		return nil, ErrNotPermitted
	}
	from := Status("")
	updated, err := s.appts.Update(ctx, id, func(a *Appointment) error {
		if !Permitted(a, viewer.Role, viewer.ID, action) {
			return ErrNotPermitted
		}
		from = a.Status
		return fn(a)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("appointment_id", id).
		Str("action", string(action)).
		Str("actor_id", viewer.ID).
		Str("from", string(from)).
		Str("to", string(updated.Status)).
		Msg("appointment updated")
	return updated, nil
}
