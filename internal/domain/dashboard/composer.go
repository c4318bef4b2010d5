package dashboard

import (
	"context"
	"math"

	"github.com/carehub/portal/internal/domain/clinical"
	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/internal/domain/inventory"
	"github.com/carehub/portal/internal/domain/medication"
	"github.com/carehub/portal/internal/domain/scheduling"
	"github.com/carehub/portal/pkg/caldate"
)

const (
	patientUpcomingLimit = 3
	patientRecordsLimit  = 3
	doctorUpcomingLimit  = 5
	adminLowStockLimit   = 5
)

// Composer assembles the role-specific dashboard from the current data.
// Nothing is cached between calls.
type Composer struct {
	users        *identity.Service
	appointments scheduling.Repository
	medications  medication.Repository
	records      clinical.Repository
	inventory    inventory.Repository
}

func NewComposer(users *identity.Service, appts scheduling.Repository, meds medication.Repository,
	records clinical.Repository, items inventory.Repository) *Composer {
	return &Composer{users: users, appointments: appts, medications: meds, records: records, inventory: items}
}

// Compose picks the view by the viewer's role. A missing viewer, an
// unknown role or an inconsistent record yields the redirect payload.
func (c *Composer) Compose(ctx context.Context, viewer *identity.User, today caldate.Date) (Payload, error) {
	if !viewer.Consistent() {
		return redirect(), nil
	}
	switch viewer.Role {
	case identity.RolePatient:
		return c.patient(ctx, viewer, today)
	case identity.RoleDoctor:
		return c.doctor(ctx, viewer, today)
	case identity.RoleAdmin:
		return c.admin(ctx, viewer)
	}
	return redirect(), nil
}

func (c *Composer) patient(ctx context.Context, viewer *identity.User, today caldate.Date) (Payload, error) {
	all, err := c.appointments.List(ctx)
	if err != nil {
		return Payload{}, err
	}
	appts := scheduling.ForViewer(all, viewer.Role, viewer.ID)
	upcoming := scheduling.Upcoming(appts)

	meds, err := c.medications.List(ctx)
	if err != nil {
		return Payload{}, err
	}
	active := medication.Active(medication.ForPatient(meds, viewer.ID), today)

	records, err := c.records.List(ctx)
	if err != nil {
		return Payload{}, err
	}
	history := clinical.History(records, viewer.ID, viewer.Patient.MedicalHistory)

	return Payload{
		Mode:   ModePatient,
		Viewer: viewer,
		Stats: []Stat{
			{Label: "Upcoming Appointments", Value: len(upcoming)},
			{Label: "Completed Visits", Value: scheduling.CountStatus(appts, scheduling.StatusCompleted)},
			{Label: "Active Medications", Value: len(active)},
			{Label: "Medical Records", Value: len(history)},
		},
		Lists: []List{
			{
				Title:        "Upcoming Appointments",
				Items:        scheduling.First(upcoming, patientUpcomingLimit),
				EmptyMessage: "No upcoming appointments",
				Total:        len(upcoming),
			},
			{
				Title:        "Recent Medical Records",
				Items:        clinical.Recent(history, patientRecordsLimit),
				EmptyMessage: "No medical records found",
				Total:        len(history),
			},
			{
				Title:        "Medication Reminders",
				Items:        medication.Views(active, today),
				EmptyMessage: "No active medications",
				Total:        len(active),
			},
		},
	}, nil
}

// PatientSummary is a row of the doctor's patient list.
type PatientSummary struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Age       int           `json:"age"`
	BloodType string        `json:"blood_type"`
	Allergies []string      `json:"allergies"`
	LastVisit *caldate.Date `json:"last_visit,omitempty"`
}

func (c *Composer) doctor(ctx context.Context, viewer *identity.User, today caldate.Date) (Payload, error) {
	all, err := c.appointments.List(ctx)
	if err != nil {
		return Payload{}, err
	}
	appts := scheduling.ForViewer(all, viewer.Role, viewer.ID)
	todays := scheduling.OnDate(appts, today)
	upcoming := scheduling.UpcomingFrom(appts, today)

	patients, err := c.users.PatientsOf(ctx, viewer)
	if err != nil {
		return Payload{}, err
	}
	records, err := c.records.List(ctx)
	if err != nil {
		return Payload{}, err
	}
	summaries := make([]PatientSummary, len(patients))
	for i, p := range patients {
		s := PatientSummary{
			ID:        p.ID,
			Name:      p.Name,
			Age:       today.YearsSince(p.Patient.BirthDate),
			BloodType: p.Patient.BloodType,
			Allergies: p.Patient.Allergies,
		}
		if d, ok := clinical.LastVisit(clinical.History(records, p.ID, p.Patient.MedicalHistory)); ok {
			s.LastVisit = &d
		}
		summaries[i] = s
	}

	return Payload{
		Mode:   ModeDoctor,
		Viewer: viewer,
		Stats: []Stat{
			{Label: "Total Patients", Value: len(patients)},
			{Label: "Appointments Today", Value: len(todays)},
			{Label: "Upcoming Appointments", Value: len(upcoming)},
			{Label: "Completed Appointments", Value: scheduling.CountStatus(appts, scheduling.StatusCompleted)},
		},
		Lists: []List{
			{
				Title:        "Today's Appointments",
				Items:        todays,
				EmptyMessage: "No appointments scheduled for today",
				Total:        len(todays),
			},
			{
				Title:        "Upcoming Appointments",
				Items:        scheduling.First(upcoming, doctorUpcomingLimit),
				EmptyMessage: "No upcoming appointments",
				Total:        len(upcoming),
			},
			{
				Title:        "My Patients",
				Items:        summaries,
				EmptyMessage: "No patients assigned",
				Total:        len(summaries),
			},
		},
	}, nil
}

func (c *Composer) admin(ctx context.Context, viewer *identity.User) (Payload, error) {
	patients, err := c.users.Patients(ctx)
	if err != nil {
		return Payload{}, err
	}
	doctors, err := c.users.Doctors(ctx)
	if err != nil {
		return Payload{}, err
	}
	items, err := c.inventory.List(ctx)
	if err != nil {
		return Payload{}, err
	}
	low := inventory.LowStockSorted(items)
	appts, err := c.appointments.List(ctx)
	if err != nil {
		return Payload{}, err
	}
	completed := scheduling.CountStatus(appts, scheduling.StatusCompleted)

	lowStat := Stat{Label: "Low Stock Items", Value: len(low)}
	if inventory.CountCritical(low) > 0 {
		lowStat.Trend = &Trend{Direction: "attention"}
	}

	head := low
	if len(head) > adminLowStockLimit {
		head = head[:adminLowStockLimit]
	}
	rows := make([]inventory.Row, len(head))
	for i, it := range head {
		rows[i] = inventory.NewRow(it)
	}

	return Payload{
		Mode:   ModeAdmin,
		Viewer: viewer,
		Stats: []Stat{
			{Label: "Total Patients", Value: len(patients)},
			{Label: "Total Doctors", Value: len(doctors)},
			{Label: "Inventory Items", Value: len(items)},
			lowStat,
			{Label: "Total Appointments", Value: len(appts)},
			{Label: "Completed Appointments", Value: completed},
			{Label: "Scheduled Appointments", Value: scheduling.CountStatus(appts, scheduling.StatusScheduled, scheduling.StatusConfirmed)},
			{Label: "Completion Rate", Value: percent(completed, len(appts)), Unit: "%"},
		},
		Lists: []List{
			{
				Title:        "Low Stock",
				Items:        rows,
				EmptyMessage: "All inventory items are well-stocked",
				Total:        len(low),
			},
		},
	}, nil
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
