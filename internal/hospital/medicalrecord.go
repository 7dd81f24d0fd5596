package hospital

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"avicenna.org/internal/ids"
)

// AppointmentReader is the read-only view of appointments used for
// linkage checks.
type AppointmentReader interface {
	FindByID(ctx context.Context, id string) (Appointment, error)
}

// MedicalRecordService links patients and appointments to diagnoses.
type MedicalRecordService struct {
	store        Store[MedicalRecord]
	patients     PatientDirectory
	appointments AppointmentReader
	seq          *ids.Sequence
}

// NewMedicalRecordService creates the service. Both dependencies are
// used for existence checks only.
func NewMedicalRecordService(store Store[MedicalRecord], patients PatientDirectory, appointments AppointmentReader) *MedicalRecordService {
	return &MedicalRecordService{
		store:        store,
		patients:     patients,
		appointments: appointments,
		seq:          ids.NewSequence("MR", 10001),
	}
}

func validateRecordFields(r MedicalRecord) error {
	if strings.TrimSpace(r.Diagnosis) == "" {
		return fmt.Errorf("%w: diagnosis is required", ErrInvalidArgument)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: record date is required", ErrInvalidArgument)
	}
	if r.Date.After(time.Now().UTC()) {
		return fmt.Errorf("%w: record date is in the future", ErrInvalidArgument)
	}
	return nil
}

func (s *MedicalRecordService) checkLinkage(ctx context.Context, r MedicalRecord) error {
	ok, err := s.patients.Exists(ctx, r.PatientID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: patient %s", ErrReferenceNotFound, r.PatientID)
	}
	appt, err := s.appointments.FindByID(ctx, r.AppointmentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: appointment %s", ErrReferenceNotFound, r.AppointmentID)
		}
		return err
	}
	if appt.PatientID != r.PatientID {
		return fmt.Errorf("%w: appointment %s belongs to patient %s, not %s",
			ErrReferenceMismatch, r.AppointmentID, appt.PatientID, r.PatientID)
	}
	return nil
}

// Add validates fields and linkage, assigns the ID and stores the
// record.
func (s *MedicalRecordService) Add(ctx context.Context, r MedicalRecord) (MedicalRecord, error) {
	if err := validateRecordFields(r); err != nil {
		return MedicalRecord{}, err
	}
	if err := s.checkLinkage(ctx, r); err != nil {
		return MedicalRecord{}, err
	}
	r.ID = s.seq.Next()
	if err := s.store.Insert(ctx, r); err != nil {
		return MedicalRecord{}, err
	}
	return r, nil
}

// Update edits diagnosis, notes and date. The patient/appointment
// linkage is fixed after creation: the stored references override
// whatever the caller sent, and the (re-validated) linkage check runs
// against them.
func (s *MedicalRecordService) Update(ctx context.Context, r MedicalRecord) (MedicalRecord, error) {
	if err := validateRecordFields(r); err != nil {
		return MedicalRecord{}, err
	}
	return s.store.Mutate(ctx, r.ID, func(stored MedicalRecord) (MedicalRecord, error) {
		r.PatientID = stored.PatientID
		r.AppointmentID = stored.AppointmentID
		if err := s.checkLinkage(ctx, r); err != nil {
			return MedicalRecord{}, err
		}
		return r, nil
	})
}

func (s *MedicalRecordService) Delete(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, id)
}

// FindByID returns the record as stored. A record whose appointment was
// since deleted is still returned; dangling references are tolerated on
// reads.
func (s *MedicalRecordService) FindByID(ctx context.Context, id string) (MedicalRecord, error) {
	return s.store.FindByID(ctx, id)
}

func (s *MedicalRecordService) FindAll(ctx context.Context) ([]MedicalRecord, error) {
	return s.store.FindAll(ctx)
}
