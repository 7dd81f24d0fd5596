package hospital

import (
	"context"
	"fmt"
	"strings"

	"avicenna.org/internal/ids"
)

// BillingService owns bill lifecycles and line items.
//
// State machine: Unpaid -> Paid. Paid is terminal; line items are
// frozen from that point on.
type BillingService struct {
	store    Store[Bill]
	patients PatientDirectory
	seq      *ids.Sequence
}

// NewBillingService creates the service. patients is used only for
// existence checks.
func NewBillingService(store Store[Bill], patients PatientDirectory) *BillingService {
	return &BillingService{
		store:    store,
		patients: patients,
		seq:      ids.NewSequence("B", 101),
	}
}

func validateLineItem(item LineItem) error {
	if strings.TrimSpace(item.Description) == "" {
		return fmt.Errorf("%w: line item description is required", ErrInvalidArgument)
	}
	if item.Amount <= 0 {
		return fmt.Errorf("%w: line item amount must be > 0", ErrInvalidArgument)
	}
	return nil
}

// Create opens an empty Unpaid bill for the patient.
func (s *BillingService) Create(ctx context.Context, patientID string) (Bill, error) {
	if strings.TrimSpace(patientID) == "" {
		return Bill{}, fmt.Errorf("%w: patient id is required", ErrInvalidArgument)
	}
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return Bill{}, err
	}
	if !ok {
		return Bill{}, fmt.Errorf("%w: patient %s", ErrReferenceNotFound, patientID)
	}

	b := Bill{
		ID:        s.seq.Next(),
		PatientID: patientID,
		Status:    BillUnpaid,
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return Bill{}, err
	}
	return b, nil
}

// AddLineItem appends an item while the bill is Unpaid.
func (s *BillingService) AddLineItem(ctx context.Context, billID string, item LineItem) (Bill, error) {
	if err := validateLineItem(item); err != nil {
		return Bill{}, err
	}
	return s.store.Mutate(ctx, billID, func(b Bill) (Bill, error) {
		if b.Status != BillUnpaid {
			return Bill{}, fmt.Errorf("%w: cannot add items to a %s bill", ErrInvalidTransition, b.Status)
		}
		b.LineItems = append(b.LineItems, item)
		return b, nil
	})
}

// MarkPaid settles the bill. The bill must be Unpaid with a positive
// total; the transition is terminal.
func (s *BillingService) MarkPaid(ctx context.Context, billID, paymentRef string) (Bill, error) {
	if strings.TrimSpace(paymentRef) == "" {
		return Bill{}, fmt.Errorf("%w: payment reference is required", ErrInvalidArgument)
	}
	return s.store.Mutate(ctx, billID, func(b Bill) (Bill, error) {
		if b.Status != BillUnpaid {
			return Bill{}, fmt.Errorf("%w: bill is already %s", ErrInvalidTransition, b.Status)
		}
		if b.Total() <= 0 {
			return Bill{}, fmt.Errorf("%w: cannot mark an empty bill paid", ErrInvalidState)
		}
		b.Status = BillPaid
		b.PaymentRef = paymentRef
		return b, nil
	})
}

// Update replaces the bill while it is Unpaid and stays Unpaid. Status
// changes go through MarkPaid; once Paid, line items and status are
// frozen and any divergent replace is rejected.
func (s *BillingService) Update(ctx context.Context, bill Bill) (Bill, error) {
	for _, item := range bill.LineItems {
		if err := validateLineItem(item); err != nil {
			return Bill{}, err
		}
	}
	return s.store.Mutate(ctx, bill.ID, func(stored Bill) (Bill, error) {
		if stored.Status == BillPaid {
			if bill.Status != BillPaid || !lineItemsEqual(stored.LineItems, bill.LineItems) {
				return Bill{}, fmt.Errorf("%w: paid bills are frozen", ErrInvalidTransition)
			}
		} else if bill.Status != BillUnpaid {
			return Bill{}, fmt.Errorf("%w: use MarkPaid to settle a bill", ErrInvalidTransition)
		}
		bill.PatientID = stored.PatientID
		bill.PaymentRef = stored.PaymentRef
		return bill, nil
	})
}

func lineItemsEqual(a, b []LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *BillingService) Delete(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, id)
}

func (s *BillingService) FindByID(ctx context.Context, id string) (Bill, error) {
	return s.store.FindByID(ctx, id)
}

func (s *BillingService) FindAll(ctx context.Context) ([]Bill, error) {
	return s.store.FindAll(ctx)
}
