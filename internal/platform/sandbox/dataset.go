// Package sandbox provides the fixed demo dataset the portal serves out of
// the box, the in-memory stores built from it, and seeding of the same data
// into PostgreSQL for demo environments.
package sandbox

import (
	"time"

	"github.com/carehub/portal/internal/domain/clinical"
	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/internal/domain/inventory"
	"github.com/carehub/portal/internal/domain/medication"
	"github.com/carehub/portal/internal/domain/notification"
	"github.com/carehub/portal/internal/domain/scheduling"
	"github.com/carehub/portal/pkg/caldate"
)

// ---------------------------------------------------------------------------
// Dataset
// ---------------------------------------------------------------------------

// Dataset is a complete snapshot of portal data in source order.
type Dataset struct {
	Users         []*identity.User
	Records       []*clinical.MedicalRecord
	Appointments  []*scheduling.Appointment
	Medications   []*medication.Medication
	Inventory     []*inventory.Item
	Notifications []*notification.Notification
}

// DemoToday is a date on which every demo view has content.
var DemoToday = caldate.MustParse("2025-06-15")

// Demo returns a fresh copy of the demo dataset. Users carry no password
// hashes; see WithPassword.
func Demo() Dataset {
	return Dataset{
		Users:         demoUsers(),
		Records:       demoRecords(),
		Appointments:  demoAppointments(),
		Medications:   demoMedications(),
		Inventory:     demoInventory(),
		Notifications: demoNotifications(),
	}
}

// WithPassword sets the same bcrypt hash on every user.
func (d Dataset) WithPassword(hash string) Dataset {
	for _, u := range d.Users {
		u.PasswordHash = hash
	}
	return d
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func demoUsers() []*identity.User {
	p1 := identity.NewPatient("p1", "Vaibhav Pandarkar", "john.doe@example.com", identity.PatientProfile{
		BirthDate:      caldate.MustParse("2005-05-15"),
		BloodType:      "O+",
		Allergies:      []string{"Penicillin", "Peanuts"},
		MedicalHistory: []string{"mr1", "mr2"},
		Medications:    []string{"med1"},
	})
	p2 := identity.NewPatient("p2", "Tithi M", "jane.smith@example.com", identity.PatientProfile{
		BirthDate:      caldate.MustParse("2004-01-06"),
		BloodType:      "A-",
		Allergies:      []string{"Sulfa drugs"},
		MedicalHistory: []string{"mr3"},
		Medications:    []string{"med2"},
	})
	d1 := identity.NewDoctor("d1", "Dr. Pratik More", "pratikmore868@gmail.com", identity.DoctorProfile{
		Specialty:  "Cardiology",
		Department: "Cardiology",
		Availability: []identity.Availability{
			availability("Monday", "09:00", "17:00"),
			availability("Wednesday", "09:00", "17:00"),
			availability("Friday", "09:00", "13:00"),
		},
		PatientIDs: []string{"p1", "p2"},
	})
	d2 := identity.NewDoctor("d2", "Dr. Michael Chen", "michael.chen@example.com", identity.DoctorProfile{
		Specialty:  "Orthopedics",
		Department: "Orthopedics",
		Availability: []identity.Availability{
			availability("Tuesday", "08:00", "16:00"),
			availability("Thursday", "08:00", "16:00"),
			availability("Saturday", "10:00", "14:00"),
		},
		PatientIDs: []string{"p1"},
	})
	a1 := identity.NewAdmin("a1", "Admin User", "admin@example.com", identity.AdminProfile{
		Department:  "Administration",
		AccessLevel: 1,
	})
	return []*identity.User{p1, p2, d1, d2, a1}
}

func availability(day, start, end string) identity.Availability {
	return identity.Availability{
		Day:       day,
		StartTime: caldate.MustParseTimeOfDay(start),
		EndTime:   caldate.MustParseTimeOfDay(end),
	}
}

// ---------------------------------------------------------------------------
// Clinical data
// ---------------------------------------------------------------------------

func demoRecords() []*clinical.MedicalRecord {
	return []*clinical.MedicalRecord{
		{ID: "mr1", PatientID: "p1", Date: caldate.MustParse("2025-01-15"), Diagnosis: "Common Cold",
			Treatment: "Rest and fluids", DoctorID: "d1", DoctorName: "Dr. Praik More"},
		{ID: "mr2", PatientID: "p1", Date: caldate.MustParse("2024-08-10"), Diagnosis: "Sprained Ankle",
			Treatment: "RICE protocol, pain medication", DoctorID: "d2", DoctorName: "Dr. Michael Chen"},
		{ID: "mr3", PatientID: "p2", Date: caldate.MustParse("2025-02-20"), Diagnosis: "Migraine",
			Treatment: "Sumatriptan, rest in dark room", DoctorID: "d1", DoctorName: "Dr. Sarah Johnson"},
	}
}

func demoAppointments() []*scheduling.Appointment {
	return []*scheduling.Appointment{
		{ID: "app1", PatientID: "p1", PatientName: "Vaibhav Pandarkar", DoctorID: "d1", DoctorName: "Dr. Pratik More",
			Date: caldate.MustParse("2025-06-15"), Time: caldate.MustParseTimeOfDay("10:00"),
			Status: scheduling.StatusConfirmed, Reason: "Annual checkup"},
		{ID: "app2", PatientID: "p2", PatientName: "Tithi M", DoctorID: "d1", DoctorName: "Dr. Pratik More",
			Date: caldate.MustParse("2025-03-16"), Time: caldate.MustParseTimeOfDay("14:30"),
			Status: scheduling.StatusScheduled, Reason: "Migraine follow-up"},
		{ID: "app3", PatientID: "p1", PatientName: "Vaibhav Pandarkar", DoctorID: "d2", DoctorName: "Dr. Michael Chen",
			Date: caldate.MustParse("2025-06-20"), Time: caldate.MustParseTimeOfDay("11:15"),
			Status: scheduling.StatusScheduled, Reason: "Ankle pain follow-up"},
	}
}

func demoMedications() []*medication.Medication {
	return []*medication.Medication{
		{ID: "med1", PatientID: "p1", Name: "Amoxicillin", Dosage: "500mg", Frequency: "Twice daily",
			StartDate: caldate.MustParse("2025-05-01"), EndDate: caldate.MustParse("2025-05-10"),
			PrescribedBy: "Dr. Pratik More",
			Reminders: []medication.Reminder{
				{ID: "rem1", MedicationID: "med1", Time: caldate.MustParseTimeOfDay("09:00"), IsActive: true},
				{ID: "rem2", MedicationID: "med1", Time: caldate.MustParseTimeOfDay("21:00"), IsActive: true},
			}},
		{ID: "med2", PatientID: "p2", Name: "Sumatriptan", Dosage: "50mg", Frequency: "As needed for migraine",
			StartDate: caldate.MustParse("2025-02-20"), EndDate: caldate.MustParse("2025-08-20"),
			PrescribedBy: "Dr. Pratik More",
			Reminders: []medication.Reminder{
				{ID: "rem3", MedicationID: "med2", Time: caldate.MustParseTimeOfDay("10:00"), IsActive: true},
			}},
	}
}

// ---------------------------------------------------------------------------
// Operations data
// ---------------------------------------------------------------------------

func demoInventory() []*inventory.Item {
	return []*inventory.Item{
		{ID: "inv1", Name: "Surgical Masks", Category: "PPE", Quantity: 500, Unit: "pieces", Threshold: 100,
			LastRestocked: caldate.MustParse("2023-05-01")},
		{ID: "inv2", Name: "Disposable Gloves", Category: "PPE", Quantity: 200, Unit: "boxes", Threshold: 50,
			LastRestocked: caldate.MustParse("2023-05-10")},
		{ID: "inv3", Name: "Paracetamol", Category: "Medication", Quantity: 30, Unit: "boxes", Threshold: 10,
			LastRestocked: caldate.MustParse("2023-04-15"), ExpiryDate: caldate.MustParse("2024-04-15")},
		{ID: "inv4", Name: "Antibiotics", Category: "Medication", Quantity: 5, Unit: "boxes", Threshold: 10,
			LastRestocked: caldate.MustParse("2023-03-20"), ExpiryDate: caldate.MustParse("2023-09-20")},
		{ID: "inv5", Name: "Syringes", Category: "Equipment", Quantity: 150, Unit: "pieces", Threshold: 50,
			LastRestocked: caldate.MustParse("2023-05-05")},
	}
}

func demoNotifications() []*notification.Notification {
	return []*notification.Notification{
		{ID: "not1", UserID: "p1", Title: "Appointment Reminder",
			Message: "You have an appointment with Dr. Sarah Johnson tomorrow at 10:00 AM.",
			Type:    notification.TypeAppointment, CreatedAt: mustTime("2023-06-14T10:00:00Z")},
		{ID: "not2", UserID: "p1", Title: "Medication Reminder",
			Message: "Time to take your Amoxicillin (500mg).",
			Type:    notification.TypeMedication, IsRead: true, CreatedAt: mustTime("2023-06-14T09:00:00Z")},
		{ID: "not3", UserID: "d1", Title: "New Appointment",
			Message: "You have a new appointment with Tithi M on June 16 at 2:30 PM.",
			Type:    notification.TypeAppointment, CreatedAt: mustTime("2025-06-13T15:30:00Z")},
		{ID: "not4", UserID: "a1", Title: "Low Inventory Alert",
			Message: "Antibiotics stock is below threshold. Current quantity: 5 boxes.",
			Type:    notification.TypeInventory, CreatedAt: mustTime("2025-06-12T11:45:00Z")},
	}
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
