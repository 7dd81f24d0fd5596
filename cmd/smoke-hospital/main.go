package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"avicenna.org/internal/hospital"
)

// In-process scenario sweep over the facade. Exits non-zero on the
// first rule violation, so it doubles as a release gate.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	f := hospital.NewInMemoryFacade()

	patient, err := f.RegisterPatient(ctx, hospital.Patient{
		Name:        "Smoke Test",
		DateOfBirth: time.Date(1990, 4, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		log.Fatalf("register patient: %v", err)
	}
	if patient.Admitted {
		log.Fatalf("new patient must not be admitted")
	}

	if _, err := f.AdmitPatient(ctx, patient.ID); err != nil {
		log.Fatalf("admit: %v", err)
	}

	appt, err := f.ScheduleAppointment(ctx, hospital.Appointment{
		PatientID: patient.ID,
		StartsAt:  time.Now().UTC().Add(24 * time.Hour),
		Type:      "Consultation",
	})
	if err != nil {
		log.Fatalf("schedule: %v", err)
	}
	if appt.Status != hospital.AppointmentScheduled {
		log.Fatalf("unexpected appointment status: %q", appt.Status)
	}

	if _, err := f.CompleteAppointment(ctx, appt.ID); err != nil {
		log.Fatalf("complete: %v", err)
	}
	// A completed appointment cannot be cancelled.
	if _, err := f.CancelAppointment(ctx, appt.ID); !errors.Is(err, hospital.ErrInvalidTransition) {
		log.Fatalf("cancel after complete: expected invalid transition, got %v", err)
	}

	record, err := f.AddMedicalRecord(ctx, hospital.MedicalRecord{
		PatientID:     patient.ID,
		AppointmentID: appt.ID,
		Diagnosis:     "Routine check",
		Date:          time.Now().UTC(),
	})
	if err != nil {
		log.Fatalf("add record: %v", err)
	}

	bill, err := f.CreateBill(ctx, patient.ID)
	if err != nil {
		log.Fatalf("create bill: %v", err)
	}
	// Paying an empty bill must fail.
	if _, err := f.MarkBillPaid(ctx, bill.ID, "SMOKE-0"); !errors.Is(err, hospital.ErrInvalidState) {
		log.Fatalf("pay empty bill: expected invalid state, got %v", err)
	}
	bill, err = f.AddLineItem(ctx, bill.ID, hospital.LineItem{Description: "Consultation", Amount: 15000})
	if err != nil {
		log.Fatalf("add line item: %v", err)
	}
	bill, err = f.MarkBillPaid(ctx, bill.ID, "SMOKE-1")
	if err != nil {
		log.Fatalf("mark paid: %v", err)
	}
	if bill.Status != hospital.BillPaid || bill.Total() != 15000 {
		log.Fatalf("unexpected bill after payment: %+v", bill)
	}
	if _, err := f.MarkBillPaid(ctx, bill.ID, "SMOKE-2"); !errors.Is(err, hospital.ErrInvalidTransition) {
		log.Fatalf("double pay: expected invalid transition, got %v", err)
	}

	item, err := f.AddInventoryItem(ctx, hospital.InventoryItem{
		Name:      "Gauze",
		Quantity:  10,
		UnitPrice: 250,
	})
	if err != nil {
		log.Fatalf("add inventory: %v", err)
	}
	if _, err := f.RemoveStock(ctx, item.ID, 15); !errors.Is(err, hospital.ErrInvalidArgument) {
		log.Fatalf("overdraw: expected invalid argument, got %v", err)
	}
	item, err = f.RemoveStock(ctx, item.ID, 10)
	if err != nil {
		log.Fatalf("remove stock: %v", err)
	}
	if item.Quantity != 0 {
		log.Fatalf("unexpected quantity: %d", item.Quantity)
	}

	if _, err := f.DischargePatient(ctx, patient.ID); err != nil {
		log.Fatalf("discharge: %v", err)
	}

	fmt.Printf("✅ hospital smoke test passed: patient=%s appointment=%s record=%s bill=%s\n",
		patient.ID, appt.ID, record.ID, bill.ID)
}
