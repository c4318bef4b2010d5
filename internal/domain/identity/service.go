package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/carehub/portal/pkg/caldate"
)

type Service struct {
	users Repository
}

func NewService(users Repository) *Service {
	return &Service{users: users}
}

// Directory returns every user in directory order, consistent or not.
func (s *Service) Directory(ctx context.Context) ([]*User, error) {
	return s.users.List(ctx)
}

// FindByEmail matches case-insensitively and returns the first user in
// directory order. A miss is ErrNotFound.
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrNotFound
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, role Role, limit, offset int) ([]*User, int, error) {
	if role != "" && !role.Valid() {
		return nil, 0, fmt.Errorf("invalid role: %s", role)
	}
	return s.users.ListByRole(ctx, role, limit, offset)
}

// Patients returns the well-formed patient records.
func (s *Service) Patients(ctx context.Context) ([]*User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return WithRole(users, RolePatient), nil
}

func (s *Service) Doctors(ctx context.Context) ([]*User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return WithRole(users, RoleDoctor), nil
}

// PatientsOf returns the doctor's patients in the order the doctor lists
// them. Unknown ids and malformed records are skipped.
func (s *Service) PatientsOf(ctx context.Context, doctor *User) ([]*User, error) {
	if doctor == nil || doctor.Role != RoleDoctor || !doctor.Consistent() {
		return []*User{}, nil
	}
	patients, err := s.Patients(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*User, len(patients))
	for _, p := range patients {
		byID[p.ID] = p
	}
	out := []*User{}
	for _, id := range doctor.Doctor.PatientIDs {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// WithRole keeps users tagged role whose profile matches the tag.
func WithRole(users []*User, role Role) []*User {
	out := []*User{}
	for _, u := range users {
		if u.Role == role && u.Consistent() {
			out = append(out, u)
		}
	}
	return out
}

// -- Profile --

// ProfileView is a user plus the figures the profile page derives.
type ProfileView struct {
	*User
	Age          *int `json:"age,omitempty"`
	PatientCount *int `json:"patient_count,omitempty"`
}

func (s *Service) Profile(u *User, today caldate.Date) (*ProfileView, error) {
	if !u.Consistent() {
		return nil, ErrInconsistentRecord
	}
	view := &ProfileView{User: u}
	switch u.Role {
	case RolePatient:
		age := today.YearsSince(u.Patient.BirthDate)
		view.Age = &age
	case RoleDoctor:
		n := len(u.Doctor.PatientIDs)
		view.PatientCount = &n
	}
	return view, nil
}
