package clinical

import (
	"testing"

	"github.com/carehub/portal/pkg/caldate"
)

func testRecords() []*MedicalRecord {
	return []*MedicalRecord{
		{ID: "mr1", PatientID: "p1", Date: caldate.MustParse("2023-05-15"), Diagnosis: "Hypertension", DoctorID: "d1"},
		{ID: "mr2", PatientID: "p1", Date: caldate.MustParse("2023-03-10"), Diagnosis: "Type 2 Diabetes", DoctorID: "d1"},
		{ID: "mr3", PatientID: "p2", Date: caldate.MustParse("2023-06-05"), Diagnosis: "Asthma", DoctorID: "d1"},
	}
}

func recordIDs(records []*MedicalRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestHistory(t *testing.T) {
	records := testRecords()

	got := History(records, "p1", []string{"mr2", "mr1", "mr3", "mr404"})
	if len(got) != 2 || got[0].ID != "mr2" || got[1].ID != "mr1" {
		t.Errorf("expected [mr2 mr1], got %v", recordIDs(got))
	}

	if got := History(records, "p1", nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil history, got %v", got)
	}
}

func TestForPatients(t *testing.T) {
	got := ForPatients(testRecords(), "p2")
	if len(got) != 1 || got[0].ID != "mr3" {
		t.Errorf("expected [mr3], got %v", recordIDs(got))
	}
	if got := ForPatients(testRecords()); len(got) != 0 {
		t.Errorf("expected no records for no patients, got %d", len(got))
	}
}

func TestRecent(t *testing.T) {
	records := testRecords()
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{2, 2},
		{3, 3},
		{10, 3},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := Recent(records, tt.n); len(got) != tt.want {
			t.Errorf("Recent(%d) returned %d records, want %d", tt.n, len(got), tt.want)
		}
	}
}

func TestLastVisit(t *testing.T) {
	d, ok := LastVisit(testRecords())
	if !ok || d.String() != "2023-05-15" {
		t.Errorf("expected 2023-05-15, got %s (%v)", d, ok)
	}
	if _, ok := LastVisit(nil); ok {
		t.Error("expected no last visit for empty history")
	}
}
