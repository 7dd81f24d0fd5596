package hospital

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newBillingFixture(t *testing.T) (*BillingService, Patient) {
	t.Helper()
	patients := newPatientService()
	p, err := patients.Register(context.Background(), Patient{
		Name:        "Alice",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewBillingService(NewMemoryStore[Bill](), patients), p
}

func TestCreateBill(t *testing.T) {
	svc, p := newBillingFixture(t)
	b, err := svc.Create(context.Background(), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if b.ID != "B101" || b.Status != BillUnpaid || len(b.LineItems) != 0 {
		t.Fatalf("unexpected bill: %+v", b)
	}
}

func TestCreateBillUnknownPatient(t *testing.T) {
	svc, _ := newBillingFixture(t)
	if _, err := svc.Create(context.Background(), "P999"); !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
}

func TestTotalRecomputedAfterEveryItem(t *testing.T) {
	svc, p := newBillingFixture(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}

	b, err = svc.AddLineItem(ctx, b.ID, LineItem{Description: "X-ray", Amount: 15000})
	if err != nil {
		t.Fatal(err)
	}
	if b.Total() != 15000 {
		t.Fatalf("expected total 15000, got %d", b.Total())
	}

	b, err = svc.AddLineItem(ctx, b.ID, LineItem{Description: "Consultation", Amount: 5000})
	if err != nil {
		t.Fatal(err)
	}
	if b.Total() != 20000 {
		t.Fatalf("expected total 20000, got %d", b.Total())
	}
}

func TestAddLineItemValidation(t *testing.T) {
	svc, p := newBillingFixture(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AddLineItem(ctx, b.ID, LineItem{Description: "", Amount: 100}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty description, got %v", err)
	}
	if _, err := svc.AddLineItem(ctx, b.ID, LineItem{Description: "Free", Amount: 0}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero amount, got %v", err)
	}
	if _, err := svc.AddLineItem(ctx, b.ID, LineItem{Description: "Refund", Amount: -100}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for negative amount, got %v", err)
	}
}

func TestMarkPaidLifecycle(t *testing.T) {
	svc, p := newBillingFixture(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}

	// Empty bill cannot be settled.
	if _, err := svc.MarkPaid(ctx, b.ID, "REF1"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for empty bill, got %v", err)
	}

	if _, err := svc.AddLineItem(ctx, b.ID, LineItem{Description: "X-ray", Amount: 15000}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.MarkPaid(ctx, b.ID, "  "); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for blank reference, got %v", err)
	}

	paid, err := svc.MarkPaid(ctx, b.ID, "REF1")
	if err != nil {
		t.Fatal(err)
	}
	if paid.Status != BillPaid || paid.PaymentRef != "REF1" {
		t.Fatalf("unexpected bill after payment: %+v", paid)
	}

	// Terminal: a second settle fails, and items are frozen.
	if _, err := svc.MarkPaid(ctx, b.ID, "REF2"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on second settle, got %v", err)
	}
	if _, err := svc.AddLineItem(ctx, b.ID, LineItem{Description: "Extra", Amount: 1000}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition adding to paid bill, got %v", err)
	}
}

func TestConcurrentMarkPaidExactlyOneSucceeds(t *testing.T) {
	svc, p := newBillingFixture(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddLineItem(ctx, b.ID, LineItem{Description: "X-ray", Amount: 15000}); err != nil {
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
			if _, err := svc.MarkPaid(ctx, b.ID, "REF1"); err == nil {
				successMu.Lock()
				successes++
				successMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one successful MarkPaid, got %d", successes)
	}
}

func TestBillUpdateCannotUnfreezePaidBill(t *testing.T) {
	svc, p := newBillingFixture(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	b, err = svc.AddLineItem(ctx, b.ID, LineItem{Description: "X-ray", Amount: 15000})
	if err != nil {
		t.Fatal(err)
	}
	paid, err := svc.MarkPaid(ctx, b.ID, "REF1")
	if err != nil {
		t.Fatal(err)
	}

	// Reverting to Unpaid is rejected.
	revert := paid
	revert.Status = BillUnpaid
	if _, err := svc.Update(ctx, revert); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on revert, got %v", err)
	}

	// Retroactive items are rejected.
	padded := paid.Clone()
	padded.LineItems = append(padded.LineItems, LineItem{Description: "Extra", Amount: 1000})
	if _, err := svc.Update(ctx, padded); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on retroactive item, got %v", err)
	}

	// Settling via raw replace is rejected too; MarkPaid is the only path.
	unpaidBill, err := svc.Create(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	sneak := unpaidBill
	sneak.Status = BillPaid
	if _, err := svc.Update(ctx, sneak); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on raw settle, got %v", err)
	}
}

func TestBillUpdateWhileUnpaid(t *testing.T) {
	svc, p := newBillingFixture(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	b, err = svc.AddLineItem(ctx, b.ID, LineItem{Description: "X-ray", Amount: 15000})
	if err != nil {
		t.Fatal(err)
	}

	// A correcting replace while Unpaid is allowed.
	correction := b.Clone()
	correction.LineItems = []LineItem{{Description: "X-ray (corrected)", Amount: 12000}}
	updated, err := svc.Update(ctx, correction)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Total() != 12000 {
		t.Fatalf("expected total 12000, got %d", updated.Total())
	}
	if updated.PatientID != p.ID {
		t.Fatalf("patient reference changed: %s", updated.PatientID)
	}
}
