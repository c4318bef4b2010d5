package scheduling

import (
	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/pkg/caldate"
)

// ForViewer keeps the appointments a viewer may see. An unknown role or an
// empty user id yields an empty result.
func ForViewer(appts []*Appointment, role identity.Role, userID string) []*Appointment {
	out := []*Appointment{}
	if userID == "" {
		return out
	}
	for _, a := range appts {
		switch role {
		case identity.RolePatient:
			if a.PatientID == userID {
				out = append(out, a)
			}
		case identity.RoleDoctor:
			if a.DoctorID == userID {
				out = append(out, a)
			}
		case identity.RoleAdmin:
			out = append(out, a)
		}
	}
	return out
}

func OnDate(appts []*Appointment, date caldate.Date) []*Appointment {
	return keep(appts, func(a *Appointment) bool { return a.Date.Equal(date) })
}

// Upcoming keeps appointments that are still scheduled or confirmed.
func Upcoming(appts []*Appointment) []*Appointment {
	return keep(appts, isOpen)
}

// UpcomingFrom is Upcoming restricted to dates on or after today.
func UpcomingFrom(appts []*Appointment, today caldate.Date) []*Appointment {
	return keep(appts, func(a *Appointment) bool { return isOpen(a) && !a.Date.Before(today) })
}

func WithStatus(appts []*Appointment, status Status) []*Appointment {
	return keep(appts, func(a *Appointment) bool { return a.Status == status })
}

func CountStatus(appts []*Appointment, statuses ...Status) int {
	n := 0
	for _, a := range appts {
		for _, s := range statuses {
			if a.Status == s {
				n++
				break
			}
		}
	}
	return n
}

// DatesWithAppointments returns the distinct dates in first-seen order.
func DatesWithAppointments(appts []*Appointment) []caldate.Date {
	seen := map[caldate.Date]bool{}
	out := []caldate.Date{}
	for _, a := range appts {
		if !seen[a.Date] {
			seen[a.Date] = true
			out = append(out, a.Date)
		}
	}
	return out
}

func First(appts []*Appointment, n int) []*Appointment {
	if n < 0 {
		n = 0
	}
	if len(appts) < n {
		n = len(appts)
	}
	out := make([]*Appointment, n)
	copy(out, appts[:n])
	return out
}

func isOpen(a *Appointment) bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

func keep(appts []*Appointment, pred func(*Appointment) bool) []*Appointment {
	out := []*Appointment{}
	for _, a := range appts {
		if pred(a) {
			out = append(out, a)
		}
	}
	return out
}
