package hospital

import (
	"context"
	"errors"
	"testing"
	"time"
)

// End-to-end scenario: register -> schedule -> complete -> bill -> pay.
func TestFacadeAdmissionToPaymentFlow(t *testing.T) {
	f := NewInMemoryFacade()
	ctx := context.Background()

	p, err := f.RegisterPatient(ctx, Patient{
		Name:        "Alice",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "P101" {
		t.Fatalf("unexpected patient id: %s", p.ID)
	}

	a, err := f.ScheduleAppointment(ctx, Appointment{
		PatientID: p.ID,
		StartsAt:  time.Now().UTC().Add(48 * time.Hour),
		Type:      "Checkup",
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "A1001" || a.Status != AppointmentScheduled {
		t.Fatalf("unexpected appointment: %+v", a)
	}

	done, err := f.CompleteAppointment(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != AppointmentCompleted {
		t.Fatalf("expected Completed, got %s", done.Status)
	}
	if ok, err := f.CancelAppointment(ctx, a.ID); ok || !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected failed cancel after completion, got ok=%v err=%v", ok, err)
	}

	rec, err := f.AddMedicalRecord(ctx, MedicalRecord{
		PatientID:     p.ID,
		AppointmentID: a.ID,
		Diagnosis:     "Healthy",
		Date:          time.Now().UTC().Add(-time.Minute),
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != "MR10001" {
		t.Fatalf("unexpected record id: %s", rec.ID)
	}

	b, err := f.CreateBill(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if b.ID != "B101" {
		t.Fatalf("unexpected bill id: %s", b.ID)
	}
	b, err = f.AddLineItem(ctx, b.ID, LineItem{Description: "X-ray", Amount: 15000})
	if err != nil {
		t.Fatal(err)
	}
	if b.Total() != 15000 {
		t.Fatalf("expected total 15000, got %d", b.Total())
	}
	if _, err := f.MarkBillPaid(ctx, b.ID, "REF1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.AddLineItem(ctx, b.ID, LineItem{Description: "Extra", Amount: 1000}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition after payment, got %v", err)
	}
}

func TestFacadeMissingDependencies(t *testing.T) {
	f := NewFacade(nil, nil, nil, nil, nil)
	ctx := context.Background()

	if _, err := f.RegisterPatient(ctx, Patient{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := f.ScheduleAppointment(ctx, Appointment{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := f.AddMedicalRecord(ctx, MedicalRecord{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := f.CreateBill(ctx, "P101"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := f.AddInventoryItem(ctx, InventoryItem{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := f.ListInventoryItems(ctx); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestFacadePassesErrorsThroughUnchanged(t *testing.T) {
	f := NewInMemoryFacade()
	ctx := context.Background()

	_, err := f.FindPatientByID(ctx, "P999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound through the facade, got %v", err)
	}

	_, err = f.ScheduleAppointment(ctx, Appointment{
		PatientID: "P999",
		StartsAt:  time.Now().UTC().Add(time.Hour),
		Type:      "Checkup",
	})
	if !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound through the facade, got %v", err)
	}
}

func TestFacadeDistinctIDsPerType(t *testing.T) {
	f := NewInMemoryFacade()
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 3; i++ {
		p, err := f.RegisterPatient(ctx, Patient{
			Name:        "Patient",
			DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, dup := seen[p.ID]; dup {
			t.Fatalf("duplicate id issued: %s", p.ID)
		}
		seen[p.ID] = struct{}{}

		item, err := f.AddInventoryItem(ctx, InventoryItem{Name: "Gloves", Quantity: 1, UnitPrice: 10})
		if err != nil {
			t.Fatal(err)
		}
		if _, dup := seen[item.ID]; dup {
			t.Fatalf("duplicate id issued: %s", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
}
