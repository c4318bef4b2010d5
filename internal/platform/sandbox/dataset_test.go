package sandbox

import (
	"context"
	"testing"

	"github.com/carehub/portal/internal/domain/identity"
)

func TestDemo_Consistent(t *testing.T) {
	d := Demo()
	if len(d.Users) != 5 {
		t.Fatalf("expected 5 users, got %d", len(d.Users))
	}
	for _, u := range d.Users {
		if err := u.Validate(); err != nil {
			t.Errorf("user %s: %v", u.ID, err)
		}
	}

	records := map[string]string{}
	for _, r := range d.Records {
		records[r.ID] = r.PatientID
	}
	for _, u := range d.Users {
		if u.Role != identity.RolePatient {
			continue
		}
		for _, id := range u.Patient.MedicalHistory {
			if records[id] != u.ID {
				t.Errorf("patient %s history entry %s points at %q", u.ID, id, records[id])
			}
		}
	}
}

func TestDemo_FreshCopies(t *testing.T) {
	a := Demo()
	a.Appointments[0].Status = "canceled"
	a.Users[0].Name = "changed"

	b := Demo()
	if b.Appointments[0].Status == "canceled" || b.Users[0].Name == "changed" {
		t.Error("Demo must return independent copies")
	}
}

func TestWithPassword(t *testing.T) {
	d := Demo().WithPassword("hash")
	for _, u := range d.Users {
		if u.PasswordHash != "hash" {
			t.Errorf("user %s has no hash", u.ID)
		}
	}
}

func TestLoad_IntoMemory(t *testing.T) {
	d := Demo()
	s := MemoryStores(Dataset{})

	res, err := Load(context.Background(), s, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Users != 5 || res.Appointments != 3 || res.Inventory != 5 || res.Notifications != 4 {
		t.Errorf("unexpected counts %+v", res)
	}
	users, _ := s.Users.List(context.Background())
	if len(users) != 5 || users[0].ID != "p1" {
		t.Error("expected users in dataset order")
	}
}

func TestLoad_RejectsInconsistentUser(t *testing.T) {
	d := Demo()
	d.Users = append(d.Users, &identity.User{ID: "x1", Name: "Broken", Email: "x@example.com", Role: identity.RoleAdmin})

	if _, err := Load(context.Background(), MemoryStores(Dataset{}), d); err == nil {
		t.Error("expected an error for an inconsistent user")
	}
}

func TestSeed_NoPool(t *testing.T) {
	if _, err := Seed(context.Background(), nil, Demo()); err == nil {
		t.Error("expected an error without a pool")
	}
}
