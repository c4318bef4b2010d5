package clinical

import (
	"errors"

	"github.com/carehub/portal/pkg/caldate"
)

var ErrNotFound = errors.New("medical record not found")

// MedicalRecord is a read-only visit summary written by a doctor.
type MedicalRecord struct {
	ID         string       `json:"id"`
	PatientID  string       `json:"patient_id"`
	Date       caldate.Date `json:"date"`
	Diagnosis  string       `json:"diagnosis"`
	Treatment  string       `json:"treatment"`
	DoctorID   string       `json:"doctor_id"`
	DoctorName string       `json:"doctor_name"`
	Notes      string       `json:"notes,omitempty"`
}

// History resolves a patient's medical-history id list against the record
// collection, keeping the list order. Ids that are missing or that point
// at another patient's record are dropped.
func History(records []*MedicalRecord, patientID string, historyIDs []string) []*MedicalRecord {
	byID := make(map[string]*MedicalRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	out := []*MedicalRecord{}
	for _, id := range historyIDs {
		if r, ok := byID[id]; ok && r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out
}

// ForPatients keeps records belonging to any of patientIDs, in source order.
func ForPatients(records []*MedicalRecord, patientIDs ...string) []*MedicalRecord {
	want := make(map[string]bool, len(patientIDs))
	for _, id := range patientIDs {
		want[id] = true
	}
	out := []*MedicalRecord{}
	for _, r := range records {
		if want[r.PatientID] {
			out = append(out, r)
		}
	}
	return out
}

// Recent returns at most n records from the head of history.
func Recent(history []*MedicalRecord, n int) []*MedicalRecord {
	if n < 0 {
		n = 0
	}
	if len(history) < n {
		n = len(history)
	}
	out := make([]*MedicalRecord, n)
	copy(out, history[:n])
	return out
}

// LastVisit is the date of the first entry in a patient's history.
func LastVisit(history []*MedicalRecord) (caldate.Date, bool) {
	if len(history) == 0 {
		return caldate.Date{}, false
	}
	return history[0].Date, true
}
