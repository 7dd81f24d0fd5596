package hospital

import (
	"context"
	"fmt"
	"strings"
	"time"

	"avicenna.org/internal/ids"
)

// PatientDirectory is the read-only view of patients that dependent
// services use for existence checks. The check and the subsequent
// insert are deliberately not atomic: a delete of the referenced
// patient in between is an accepted weak-consistency window, left to
// caller discipline.
type PatientDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// AppointmentService owns the scheduling lifecycle.
//
// State machine: Scheduled -> Completed | Cancelled. Both targets are
// terminal.
type AppointmentService struct {
	store    Store[Appointment]
	patients PatientDirectory
	seq      *ids.Sequence
}

// NewAppointmentService creates the service. patients is used only for
// existence checks, never for mutation.
func NewAppointmentService(store Store[Appointment], patients PatientDirectory) *AppointmentService {
	return &AppointmentService{
		store:    store,
		patients: patients,
		seq:      ids.NewSequence("A", 1001),
	}
}

func validateAppointmentFields(a Appointment) error {
	if strings.TrimSpace(a.Type) == "" {
		return fmt.Errorf("%w: appointment type is required", ErrInvalidArgument)
	}
	if a.StartsAt.IsZero() {
		return fmt.Errorf("%w: appointment time is required", ErrInvalidArgument)
	}
	if a.StartsAt.Before(time.Now().UTC()) {
		return fmt.Errorf("%w: appointment time is in the past", ErrInvalidArgument)
	}
	return nil
}

// Schedule validates the appointment, checks the patient reference,
// assigns the ID and stores it with status Scheduled.
func (s *AppointmentService) Schedule(ctx context.Context, a Appointment) (Appointment, error) {
	if err := validateAppointmentFields(a); err != nil {
		return Appointment{}, err
	}
	if strings.TrimSpace(a.PatientID) == "" {
		return Appointment{}, fmt.Errorf("%w: patient id is required", ErrInvalidArgument)
	}
	ok, err := s.patients.Exists(ctx, a.PatientID)
	if err != nil {
		return Appointment{}, err
	}
	if !ok {
		return Appointment{}, fmt.Errorf("%w: patient %s", ErrReferenceNotFound, a.PatientID)
	}

	a.ID = s.seq.Next()
	a.Status = AppointmentScheduled
	if err := s.store.Insert(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// Complete moves a Scheduled appointment to Completed.
func (s *AppointmentService) Complete(ctx context.Context, id string) (Appointment, error) {
	return s.store.Mutate(ctx, id, func(a Appointment) (Appointment, error) {
		if a.Status != AppointmentScheduled {
			return Appointment{}, fmt.Errorf("%w: cannot complete appointment in status %s", ErrInvalidTransition, a.Status)
		}
		a.Status = AppointmentCompleted
		return a, nil
	})
}

// Cancel moves a Scheduled appointment to Cancelled. The boolean
// reports whether the cancellation took effect.
func (s *AppointmentService) Cancel(ctx context.Context, id string) (bool, error) {
	_, err := s.store.Mutate(ctx, id, func(a Appointment) (Appointment, error) {
		if a.Status != AppointmentScheduled {
			return Appointment{}, fmt.Errorf("%w: cannot cancel appointment in status %s", ErrInvalidTransition, a.Status)
		}
		a.Status = AppointmentCancelled
		return a, nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update replaces time and type while the appointment is still
// Scheduled. ID, patient reference and status are preserved from the
// stored value.
func (s *AppointmentService) Update(ctx context.Context, a Appointment) (Appointment, error) {
	if err := validateAppointmentFields(a); err != nil {
		return Appointment{}, err
	}
	return s.store.Mutate(ctx, a.ID, func(stored Appointment) (Appointment, error) {
		if stored.Status != AppointmentScheduled {
			return Appointment{}, fmt.Errorf("%w: cannot update appointment in status %s", ErrInvalidTransition, stored.Status)
		}
		stored.StartsAt = a.StartsAt
		stored.Type = a.Type
		return stored, nil
	})
}

// Delete removes the appointment regardless of status (administrative
// correction). It does not cascade to medical records; their linkage is
// validated only at add/update time.
func (s *AppointmentService) Delete(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, id)
}

func (s *AppointmentService) FindByID(ctx context.Context, id string) (Appointment, error) {
	return s.store.FindByID(ctx, id)
}

func (s *AppointmentService) FindAll(ctx context.Context) ([]Appointment, error) {
	return s.store.FindAll(ctx)
}
