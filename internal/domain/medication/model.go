package medication

import (
	"errors"
	"time"

	"github.com/carehub/portal/pkg/caldate"
)

var (
	ErrNotFound         = errors.New("medication not found")
	ErrReminderNotFound = errors.New("reminder not found")
	ErrNotPermitted     = errors.New("medication belongs to another patient")
)

type Reminder struct {
	ID           string            `json:"id"`
	MedicationID string            `json:"medication_id"`
	Time         caldate.TimeOfDay `json:"time"`
	IsActive     bool              `json:"is_active"`
	LastTaken    *time.Time        `json:"last_taken,omitempty"`
}

func (r Reminder) Taken() bool { return r.LastTaken != nil }

type Medication struct {
	ID           string       `json:"id"`
	PatientID    string       `json:"patient_id"`
	Name         string       `json:"name"`
	Dosage       string       `json:"dosage"`
	Frequency    string       `json:"frequency"`
	StartDate    caldate.Date `json:"start_date"`
	EndDate      caldate.Date `json:"end_date"`
	PrescribedBy string       `json:"prescribed_by"`
	Reminders    []Reminder   `json:"reminders"`
}

// ActiveOn is inclusive at both ends of the prescription.
func (m *Medication) ActiveOn(today caldate.Date) bool {
	return today.Within(m.StartDate, m.EndDate)
}

func (m *Medication) clone() *Medication {
	cp := *m
	cp.Reminders = make([]Reminder, len(m.Reminders))
	copy(cp.Reminders, m.Reminders)
	return &cp
}

func ForPatient(meds []*Medication, patientID string) []*Medication {
	if patientID == "" {
		return []*Medication{}
	}
	return keep(meds, func(m *Medication) bool { return m.PatientID == patientID })
}

// Active keeps medications whose prescription window contains today.
func Active(meds []*Medication, today caldate.Date) []*Medication {
	return keep(meds, func(m *Medication) bool { return m.ActiveOn(today) })
}

// Current keeps medications that have not ended yet, including future ones.
func Current(meds []*Medication, today caldate.Date) []*Medication {
	return keep(meds, func(m *Medication) bool { return !m.EndDate.Before(today) })
}

func History(meds []*Medication, today caldate.Date) []*Medication {
	return keep(meds, func(m *Medication) bool { return m.EndDate.Before(today) })
}

func keep(meds []*Medication, pred func(*Medication) bool) []*Medication {
	out := []*Medication{}
	for _, m := range meds {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}
