package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/carehub/portal/pkg/caldate"
)

func newTestService() *Service {
	return NewService(NewMemoryRepo([]*User{
		testPatient("p1", "john.doe@example.com"),
		testPatient("p2", "jane.smith@example.com"),
		testDoctor("d1", "Doctor@Example.com", "p2", "p1", "p404"),
		NewAdmin("a1", "Admin User", "admin@example.com", AdminProfile{Department: "Administration", AccessLevel: 1}),
		// A second record with the same address must never win a login.
		testPatient("p3", "JOHN.DOE@example.com"),
		{ID: "x1", Name: "Broken", Email: "broken@example.com", Role: RolePatient},
	}))
}

func TestService_FindByEmail_CaseInsensitiveFirstMatch(t *testing.T) {
	svc := newTestService()
	u, err := svc.FindByEmail(context.Background(), "  John.Doe@EXAMPLE.com ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "p1" {
		t.Errorf("expected first match p1, got %s", u.ID)
	}
}

func TestService_FindByEmail_NoMatch(t *testing.T) {
	svc := newTestService()
	for _, email := range []string{"nobody@example.com", "", "   "} {
		if _, err := svc.FindByEmail(context.Background(), email); !errors.Is(err, ErrNotFound) {
			t.Errorf("FindByEmail(%q): expected ErrNotFound, got %v", email, err)
		}
	}
}

func TestService_Patients_SkipsInconsistent(t *testing.T) {
	svc := newTestService()
	patients, err := svc.Patients(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patients) != 3 {
		t.Fatalf("expected 3 well-formed patients, got %d", len(patients))
	}
	for _, p := range patients {
		if p.ID == "x1" {
			t.Error("inconsistent record must be omitted")
		}
	}
}

func TestService_PatientsOf(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	d, _ := svc.GetUser(ctx, "d1")

	patients, err := svc.PatientsOf(ctx, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patients) != 2 || patients[0].ID != "p2" || patients[1].ID != "p1" {
		t.Errorf("expected [p2 p1] in doctor order, got %v", ids(patients))
	}

	p, _ := svc.GetUser(ctx, "p1")
	if got, _ := svc.PatientsOf(ctx, p); len(got) != 0 {
		t.Errorf("expected no patients for a patient viewer, got %d", len(got))
	}
}

func TestService_ListUsers(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	items, total, err := svc.ListUsers(ctx, RolePatient, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 4 || len(items) != 2 {
		t.Errorf("expected 2 of 4 patient-tagged users, got %d of %d", len(items), total)
	}

	if _, _, err := svc.ListUsers(ctx, "nurse", 10, 0); err == nil {
		t.Error("expected error for invalid role")
	}
}

func TestService_Profile(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	today := caldate.MustParse("2025-06-15")

	p, _ := svc.GetUser(ctx, "p1")
	view, err := svc.Profile(p, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Age == nil || *view.Age != 20 {
		t.Errorf("expected age 20, got %v", view.Age)
	}

	d, _ := svc.GetUser(ctx, "d1")
	view, _ = svc.Profile(d, today)
	if view.PatientCount == nil || *view.PatientCount != 3 {
		t.Errorf("expected patient count 3, got %v", view.PatientCount)
	}

	broken, _ := svc.GetUser(ctx, "x1")
	if _, err := svc.Profile(broken, today); !errors.Is(err, ErrInconsistentRecord) {
		t.Errorf("expected ErrInconsistentRecord, got %v", err)
	}
}

func ids(users []*User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}
