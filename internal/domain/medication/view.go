package medication

import (
	"time"

	"github.com/carehub/portal/pkg/caldate"
)

type ReminderView struct {
	ID        string            `json:"id"`
	Time      caldate.TimeOfDay `json:"time"`
	Display   string            `json:"display"`
	IsActive  bool              `json:"is_active"`
	Taken     bool              `json:"taken"`
	LastTaken *time.Time        `json:"last_taken,omitempty"`
}

// MedicationView is the display form of a medication on a given day.
type MedicationView struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Dosage       string         `json:"dosage"`
	Frequency    string         `json:"frequency"`
	StartDate    caldate.Date   `json:"start_date"`
	EndDate      caldate.Date   `json:"end_date"`
	PrescribedBy string         `json:"prescribed_by"`
	Active       bool           `json:"active"`
	Reminders    []ReminderView `json:"reminders"`
}

func NewView(m *Medication, today caldate.Date) MedicationView {
	v := MedicationView{
		ID:           m.ID,
		Name:         m.Name,
		Dosage:       m.Dosage,
		Frequency:    m.Frequency,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		PrescribedBy: m.PrescribedBy,
		Active:       m.ActiveOn(today),
		Reminders:    make([]ReminderView, len(m.Reminders)),
	}
	for i, r := range m.Reminders {
		v.Reminders[i] = ReminderView{
			ID:        r.ID,
			Time:      r.Time,
			Display:   r.Time.Format12h(),
			IsActive:  r.IsActive,
			Taken:     r.Taken(),
			LastTaken: r.LastTaken,
		}
	}
	return v
}

func Views(meds []*Medication, today caldate.Date) []MedicationView {
	out := make([]MedicationView, len(meds))
	for i, m := range meds {
		out[i] = NewView(m, today)
	}
	return out
}
