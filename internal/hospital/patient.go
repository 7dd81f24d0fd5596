package hospital

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"avicenna.org/internal/ids"
)

// PatientService owns the patient lifecycle and admission status.
type PatientService struct {
	store Store[Patient]
	seq   *ids.Sequence
}

// NewPatientService creates the service over the given store.
func NewPatientService(store Store[Patient]) *PatientService {
	return &PatientService{
		store: store,
		seq:   ids.NewSequence("P", 101),
	}
}

func validatePatient(p Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: patient name is required", ErrInvalidArgument)
	}
	if p.DateOfBirth.IsZero() {
		return fmt.Errorf("%w: date of birth is required", ErrInvalidArgument)
	}
	if p.DateOfBirth.After(time.Now().UTC()) {
		return fmt.Errorf("%w: date of birth is in the future", ErrInvalidArgument)
	}
	return nil
}

// Register validates the patient, assigns its ID and stores it.
// New patients always start not admitted.
func (s *PatientService) Register(ctx context.Context, p Patient) (Patient, error) {
	if err := validatePatient(p); err != nil {
		return Patient{}, err
	}
	p.ID = s.seq.Next()
	p.Admitted = false
	if err := s.store.Insert(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

// Admit marks the patient admitted. Admitting an already admitted
// patient is a no-op.
func (s *PatientService) Admit(ctx context.Context, id string) (Patient, error) {
	return s.store.Mutate(ctx, id, func(p Patient) (Patient, error) {
		p.Admitted = true
		return p, nil
	})
}

// Discharge clears the admitted flag. Idempotent, like Admit.
func (s *PatientService) Discharge(ctx context.Context, id string) (Patient, error) {
	return s.store.Mutate(ctx, id, func(p Patient) (Patient, error) {
		p.Admitted = false
		return p, nil
	})
}

// Update replaces the stored patient wholesale after re-validation.
func (s *PatientService) Update(ctx context.Context, p Patient) (Patient, error) {
	if err := validatePatient(p); err != nil {
		return Patient{}, err
	}
	if err := s.store.Update(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *PatientService) Delete(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, id)
}

func (s *PatientService) FindByID(ctx context.Context, id string) (Patient, error) {
	return s.store.FindByID(ctx, id)
}

func (s *PatientService) FindAll(ctx context.Context) ([]Patient, error) {
	return s.store.FindAll(ctx)
}

// Exists is the read-only existence check other services use. It never
// mutates the patient.
func (s *PatientService) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
