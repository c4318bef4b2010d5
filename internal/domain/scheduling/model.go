package scheduling

import (
	"errors"

	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/pkg/caldate"
)

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrInvalidTransition = errors.New("invalid appointment transition")
	ErrNotPermitted      = errors.New("action not permitted for this user")
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Terminal statuses accept no further actions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

type Appointment struct {
	ID          string            `json:"id"`
	PatientID   string            `json:"patient_id"`
	PatientName string            `json:"patient_name"`
	DoctorID    string            `json:"doctor_id"`
	DoctorName  string            `json:"doctor_name"`
	Date        caldate.Date      `json:"date"`
	Time        caldate.TimeOfDay `json:"time"`
	Status      Status            `json:"status"`
	Reason      string            `json:"reason"`
	Notes       string            `json:"notes,omitempty"`
}

type Action string

const (
	ActionConfirm    Action = "confirm"
	ActionComplete   Action = "complete"
	ActionCancel     Action = "cancel"
	ActionReschedule Action = "reschedule"
)

// Next returns the status an action moves an appointment to.
func Next(from Status, action Action) (Status, error) {
	switch {
	case action == ActionConfirm && from == StatusScheduled:
		return StatusConfirmed, nil
	case action == ActionComplete && from == StatusConfirmed:
		return StatusCompleted, nil
	case action == ActionCancel && (from == StatusScheduled || from == StatusConfirmed):
		return StatusCanceled, nil
	case action == ActionReschedule && from == StatusScheduled:
		return StatusScheduled, nil
	}
	return from, ErrInvalidTransition
}

// Permitted reports whether the actor may perform action on a. Patients and
// doctors act only on their own appointments; admins may only cancel.
func Permitted(a *Appointment, role identity.Role, userID string, action Action) bool {
	if a == nil || userID == "" {
		return false
	}
	switch role {
	case identity.RolePatient:
		return a.PatientID == userID && (action == ActionCancel || action == ActionReschedule)
	case identity.RoleDoctor:
		return a.DoctorID == userID && (action == ActionConfirm || action == ActionComplete || action == ActionCancel)
	case identity.RoleAdmin:
		return action == ActionCancel
	}
	return false
}

// ActionsFor lists the actions offered to the viewer in calendar order.
func ActionsFor(a *Appointment, role identity.Role, userID string) []Action {
	out := []Action{}
	if a == nil {
		return out
	}
	for _, action := range []Action{ActionConfirm, ActionComplete, ActionReschedule, ActionCancel} {
		if _, err := Next(a.Status, action); err == nil && Permitted(a, role, userID, action) {
			out = append(out, action)
		}
	}
	return out
}
