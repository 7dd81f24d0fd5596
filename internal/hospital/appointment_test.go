package hospital

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newAppointmentFixture(t *testing.T) (*AppointmentService, Patient) {
	t.Helper()
	patients := newPatientService()
	p, err := patients.Register(context.Background(), Patient{
		Name:        "Alice",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewAppointmentService(NewMemoryStore[Appointment](), patients), p
}

func futureTime() time.Time {
	return time.Now().UTC().Add(48 * time.Hour)
}

func TestScheduleAppointment(t *testing.T) {
	svc, p := newAppointmentFixture(t)
	ctx := context.Background()

	a, err := svc.Schedule(ctx, Appointment{PatientID: p.ID, StartsAt: futureTime(), Type: "Checkup"})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "A1001" {
		t.Fatalf("unexpected id: %s", a.ID)
	}
	if a.Status != AppointmentScheduled {
		t.Fatalf("fresh appointment must be Scheduled, got %s", a.Status)
	}
}

func TestScheduleRejectsPastTime(t *testing.T) {
	svc, p := newAppointmentFixture(t)
	_, err := svc.Schedule(context.Background(), Appointment{
		PatientID: p.ID,
		StartsAt:  time.Now().UTC().Add(-time.Hour),
		Type:      "Checkup",
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestScheduleRejectsUnknownPatient(t *testing.T) {
	svc, _ := newAppointmentFixture(t)
	_, err := svc.Schedule(context.Background(), Appointment{
		PatientID: "P999",
		StartsAt:  futureTime(),
		Type:      "Checkup",
	})
	if !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
}

func TestCompleteThenCancelFails(t *testing.T) {
	svc, p := newAppointmentFixture(t)
	ctx := context.Background()

	a, err := svc.Schedule(ctx, Appointment{PatientID: p.ID, StartsAt: futureTime(), Type: "Checkup"})
	if err != nil {
		t.Fatal(err)
	}

	done, err := svc.Complete(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != AppointmentCompleted {
		t.Fatalf("expected Completed, got %s", done.Status)
	}

	ok, err := svc.Cancel(ctx, a.ID)
	if ok || !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected failed cancel, got ok=%v err=%v", ok, err)
	}
}

func TestCancelThenCompleteFails(t *testing.T) {
	svc, p := newAppointmentFixture(t)
	ctx := context.Background()

	a, err := svc.Schedule(ctx, Appointment{PatientID: p.ID, StartsAt: futureTime(), Type: "Checkup"})
	if err != nil {
		t.Fatal(err)
	}

	ok, err := svc.Cancel(ctx, a.ID)
	if !ok || err != nil {
		t.Fatalf("cancel failed: %v %v", ok, err)
	}
	if _, err := svc.Complete(ctx, a.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestConcurrentCancelExactlyOneSucceeds(t *testing.T) {
	svc, p := newAppointmentFixture(t)
	ctx := context.Background()

	a, err := svc.Schedule(ctx, Appointment{PatientID: p.ID, StartsAt: futureTime(), Type: "Checkup"})
	if err != nil {
		t.Fatal(err)
	}

	var (
		wg        sync.WaitGroup
		successMu sync.Mutex
		successes int
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := svc.Cancel(ctx, a.ID); ok && err == nil {
				successMu.Lock()
				successes++
				successMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one successful cancel, got %d", successes)
	}
}

func TestAppointmentUpdatePreservesIDAndPatient(t *testing.T) {
	svc, p := newAppointmentFixture(t)
	ctx := context.Background()

	a, err := svc.Schedule(ctx, Appointment{PatientID: p.ID, StartsAt: futureTime(), Type: "Checkup"})
	if err != nil {
		t.Fatal(err)
	}

	newTime := futureTime().Add(24 * time.Hour)
	updated, err := svc.Update(ctx, Appointment{
		ID:        a.ID,
		PatientID: "P999", // must be ignored
		StartsAt:  newTime,
		Type:      "Surgery",
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.PatientID != p.ID {
		t.Fatalf("patient reference changed: %s", updated.PatientID)
	}
	if updated.Type != "Surgery" || !updated.StartsAt.Equal(newTime) {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Status != AppointmentScheduled {
		t.Fatalf("status changed: %s", updated.Status)
	}
}

func TestAppointmentUpdateRejectedAfterCompletion(t *testing.T) {
	svc, p := newAppointmentFixture(t)
	ctx := context.Background()

	a, err := svc.Schedule(ctx, Appointment{PatientID: p.ID, StartsAt: futureTime(), Type: "Checkup"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Complete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	_, err = svc.Update(ctx, Appointment{ID: a.ID, StartsAt: futureTime(), Type: "Follow-up"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestAppointmentDeleteAnyStatus(t *testing.T) {
	svc, p := newAppointmentFixture(t)
	ctx := context.Background()

	a, err := svc.Schedule(ctx, Appointment{PatientID: p.ID, StartsAt: futureTime(), Type: "Checkup"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Complete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}

	removed, err := svc.Delete(ctx, a.ID)
	if err != nil || !removed {
		t.Fatalf("expected delete of completed appointment, got %v %v", removed, err)
	}
	removed, err = svc.Delete(ctx, a.ID)
	if err != nil || removed {
		t.Fatalf("expected no-op delete, got %v %v", removed, err)
	}
}
