package identity

import (
	"errors"
	"testing"

	"github.com/carehub/portal/pkg/caldate"
)

func testPatient(id, email string) *User {
	return NewPatient(id, "Patient "+id, email, PatientProfile{
		BirthDate: caldate.MustParse("2005-05-15"),
		BloodType: "O+",
		Allergies: []string{"Penicillin"},
	})
}

func testDoctor(id, email string, patients ...string) *User {
	return NewDoctor(id, "Dr. "+id, email, DoctorProfile{
		Specialty:  "Cardiology",
		Department: "Cardiology",
		PatientIDs: patients,
	})
}

func TestUser_Consistent(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want bool
	}{
		{"patient", testPatient("p1", "p1@example.com"), true},
		{"doctor", testDoctor("d1", "d1@example.com"), true},
		{"admin", NewAdmin("a1", "Admin", "a@example.com", AdminProfile{AccessLevel: 1}), true},
		{"nil", nil, false},
		{"no profile", &User{ID: "x", Role: RolePatient}, false},
		{"wrong profile", &User{ID: "x", Role: RolePatient, Doctor: &DoctorProfile{}}, false},
		{"two profiles", &User{ID: "x", Role: RoleAdmin, Admin: &AdminProfile{}, Patient: &PatientProfile{}}, false},
		{"unknown role", &User{ID: "x", Role: "nurse", Admin: &AdminProfile{}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.Consistent(); got != tt.want {
				t.Errorf("Consistent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_Validate(t *testing.T) {
	if err := testPatient("p1", "john.doe@example.com").Validate(); err != nil {
		t.Errorf("expected valid patient, got %v", err)
	}

	bad := testPatient("p1", "not-an-email")
	if err := bad.Validate(); err == nil {
		t.Error("expected error for malformed email")
	}

	mismatched := &User{ID: "p9", Name: "Mismatch", Email: "m@example.com", Role: RolePatient, Admin: &AdminProfile{}}
	if err := mismatched.Validate(); !errors.Is(err, ErrInconsistentRecord) {
		t.Errorf("expected ErrInconsistentRecord, got %v", err)
	}

	unknown := &User{ID: "x", Name: "X", Email: "x@example.com", Role: "nurse"}
	if err := unknown.Validate(); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestUser_OwnsPatient(t *testing.T) {
	d := testDoctor("d1", "d1@example.com", "p1", "p2")
	if !d.OwnsPatient("p2") {
		t.Error("expected doctor to own p2")
	}
	if d.OwnsPatient("p3") {
		t.Error("expected doctor not to own p3")
	}
	if testPatient("p1", "p1@example.com").OwnsPatient("p1") {
		t.Error("patients own no patients")
	}
}
