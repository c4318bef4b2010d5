package clinical

import (
	"context"
	"errors"
	"testing"

	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/pkg/caldate"
)

func testUsers() []*identity.User {
	return []*identity.User{
		identity.NewPatient("p1", "John Doe", "john.doe@example.com", identity.PatientProfile{
			BirthDate:      caldate.MustParse("1985-05-15"),
			MedicalHistory: []string{"mr1", "mr2"},
		}),
		identity.NewPatient("p2", "Jane Smith", "jane.smith@example.com", identity.PatientProfile{
			BirthDate:      caldate.MustParse("1990-08-22"),
			MedicalHistory: []string{"mr3"},
		}),
		identity.NewDoctor("d1", "Dr. Sarah Johnson", "sarah.johnson@example.com", identity.DoctorProfile{
			PatientIDs: []string{"p2"},
		}),
		identity.NewAdmin("a1", "Admin User", "admin@example.com", identity.AdminProfile{AccessLevel: 1}),
	}
}

func userByID(t *testing.T, id string) *identity.User {
	t.Helper()
	for _, u := range testUsers() {
		if u.ID == id {
			return u
		}
	}
	t.Fatalf("no test user %s", id)
	return nil
}

func TestService_ForViewer(t *testing.T) {
	svc := NewService(NewMemoryRepo(testRecords()))
	ctx := context.Background()

	tests := []struct {
		viewer string
		want   []string
	}{
		{"p1", []string{"mr1", "mr2"}},
		{"p2", []string{"mr3"}},
		{"d1", []string{"mr3"}},
		{"a1", []string{"mr1", "mr2", "mr3"}},
	}
	for _, tt := range tests {
		t.Run(tt.viewer, func(t *testing.T) {
			got, err := svc.ForViewer(ctx, userByID(t, tt.viewer))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			ids := recordIDs(got)
			if len(ids) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, ids)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, ids)
				}
			}
		})
	}
}

func TestService_ForViewer_Inconsistent(t *testing.T) {
	svc := NewService(NewMemoryRepo(testRecords()))
	broken := &identity.User{ID: "x1", Role: identity.RoleAdmin}

	got, err := svc.ForViewer(context.Background(), broken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records for an inconsistent viewer, got %v", recordIDs(got))
	}
}

func TestService_Get(t *testing.T) {
	svc := NewService(NewMemoryRepo(testRecords()))
	ctx := context.Background()

	rec, err := svc.Get(ctx, userByID(t, "p1"), "mr2")
	if err != nil || rec.ID != "mr2" {
		t.Errorf("expected mr2, got %v (%v)", rec, err)
	}

	if _, err := svc.Get(ctx, userByID(t, "p1"), "mr3"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another patient's record, got %v", err)
	}
	if _, err := svc.Get(ctx, userByID(t, "d1"), "mr1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a non-assigned patient's record, got %v", err)
	}
}
