package clinical

import (
	"context"

	"github.com/carehub/portal/internal/domain/identity"
)

type Service struct {
	records Repository
}

func NewService(records Repository) *Service {
	return &Service{records: records}
}

// HistoryOf returns the patient's records in medical-history order.
func (s *Service) HistoryOf(ctx context.Context, patient *identity.User) ([]*MedicalRecord, error) {
	if patient == nil || patient.Role != identity.RolePatient || !patient.Consistent() {
		return []*MedicalRecord{}, nil
	}
	all, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	return History(all, patient.ID, patient.Patient.MedicalHistory), nil
}

// ForViewer scopes records to what a viewer may read: a patient their own
// history, a doctor the records of their patients, an admin everything.
func (s *Service) ForViewer(ctx context.Context, viewer *identity.User) ([]*MedicalRecord, error) {
	if !viewer.Consistent() {
		return []*MedicalRecord{}, nil
	}
	switch viewer.Role {
	case identity.RolePatient:
		return s.HistoryOf(ctx, viewer)
	case identity.RoleDoctor:
		all, err := s.records.List(ctx)
		if err != nil {
			return nil, err
		}
		return ForPatients(all, viewer.Doctor.PatientIDs...), nil
	case identity.RoleAdmin:
		return s.records.List(ctx)
	}
	return []*MedicalRecord{}, nil
}

func (s *Service) Get(ctx context.Context, viewer *identity.User, id string) (*MedicalRecord, error) {
	visible, err := s.ForViewer(ctx, viewer)
	if err != nil {
		return nil, err
	}
	for _, r := range visible {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, ErrNotFound
}
