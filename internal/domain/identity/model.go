package identity

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/carehub/portal/pkg/caldate"
)

// Role is the closed discriminator selecting which profile a User carries.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

var (
	ErrNotFound = errors.New("user not found")
	// ErrInconsistentRecord marks a user whose role tag disagrees with the
	// profile it carries. Such users are left out of role-specific views.
	ErrInconsistentRecord = errors.New("role does not match profile")
)

// Availability is one weekly slot in which a doctor sees patients.
type Availability struct {
	Day       string            `json:"day"`
	StartTime caldate.TimeOfDay `json:"start_time"`
	EndTime   caldate.TimeOfDay `json:"end_time"`
}

type PatientProfile struct {
	BirthDate      caldate.Date `json:"birth_date"`
	BloodType      string       `json:"blood_type"`
	Allergies      []string     `json:"allergies"`
	MedicalHistory []string     `json:"medical_history"`
	Medications    []string     `json:"medications"`
}

type DoctorProfile struct {
	Specialty    string         `json:"specialty"`
	Department   string         `json:"department"`
	Availability []Availability `json:"availability"`
	PatientIDs   []string       `json:"patient_ids"`
}

type AdminProfile struct {
	Department  string `json:"department"`
	AccessLevel int    `json:"access_level"`
}

// User is a tagged variant: exactly the profile matching Role is set.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	ProfileImage string `json:"profile_image,omitempty"`
	PasswordHash string `json:"-"`

	Patient *PatientProfile `json:"patient,omitempty"`
	Doctor  *DoctorProfile  `json:"doctor,omitempty"`
	Admin   *AdminProfile   `json:"admin,omitempty"`
}

func NewPatient(id, name, email string, p PatientProfile) *User {
	return &User{ID: id, Name: name, Email: email, Role: RolePatient, Patient: &p}
}

func NewDoctor(id, name, email string, d DoctorProfile) *User {
	return &User{ID: id, Name: name, Email: email, Role: RoleDoctor, Doctor: &d}
}

func NewAdmin(id, name, email string, a AdminProfile) *User {
	return &User{ID: id, Name: name, Email: email, Role: RoleAdmin, Admin: &a}
}

// Consistent reports whether the role tag and the profile fields agree.
func (u *User) Consistent() bool {
	if u == nil {
		return false
	}
	set := 0
	for _, p := range []bool{u.Patient != nil, u.Doctor != nil, u.Admin != nil} {
		if p {
			set++
		}
	}
	if set != 1 {
		return false
	}
	switch u.Role {
	case RolePatient:
		return u.Patient != nil
	case RoleDoctor:
		return u.Doctor != nil
	case RoleAdmin:
		return u.Admin != nil
	}
	return false
}

func (u *User) HasPassword() bool { return u.PasswordHash != "" }

// OwnsPatient reports whether a doctor lists patientID among their patients.
func (u *User) OwnsPatient(patientID string) bool {
	if u.Role != RoleDoctor || u.Doctor == nil {
		return false
	}
	for _, id := range u.Doctor.PatientIDs {
		if id == patientID {
			return true
		}
	}
	return false
}

func (u *User) Validate() error {
	err := validation.ValidateStruct(u,
		validation.Field(&u.ID, validation.Required),
		validation.Field(&u.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&u.Email, validation.Required, is.EmailFormat),
		validation.Field(&u.Role, validation.Required, validation.In(RolePatient, RoleDoctor, RoleAdmin)),
	)
	if err != nil {
		return err
	}
	if !u.Consistent() {
		return ErrInconsistentRecord
	}
	if u.Admin != nil && u.Admin.AccessLevel < 0 {
		return errors.New("access_level must not be negative")
	}
	return nil
}
