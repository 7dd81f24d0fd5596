package hospital

import "time"

// All monetary amounts are minor units (e.g., cents). No floats.

// AppointmentStatus is the appointment lifecycle state.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "Scheduled"
	AppointmentCompleted AppointmentStatus = "Completed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
)

// BillStatus is the bill lifecycle state.
type BillStatus string

const (
	BillUnpaid BillStatus = "Unpaid"
	BillPaid   BillStatus = "Paid"
)

// Patient is a registered patient. Age is derived, never stored.
type Patient struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Admitted    bool      `json:"admitted"`
}

func (p Patient) EntityID() string { return p.ID }

func (p Patient) Clone() Patient { return p }

// Age returns the patient's age in whole years at the given instant.
func (p Patient) Age(now time.Time) int {
	years := now.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// Appointment links a patient to a scheduled visit. Only the patient ID
// is stored; callers resolve it through the patient service when they
// need current patient data.
type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patient_id"`
	StartsAt  time.Time         `json:"starts_at"`
	Type      string            `json:"type"`
	Status    AppointmentStatus `json:"status"`
}

func (a Appointment) EntityID() string { return a.ID }

func (a Appointment) Clone() Appointment { return a }

// MedicalRecord ties a diagnosis to a patient and the appointment it
// was made in.
type MedicalRecord struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patient_id"`
	AppointmentID string    `json:"appointment_id"`
	Diagnosis     string    `json:"diagnosis"`
	Notes         string    `json:"notes,omitempty"`
	Date          time.Time `json:"date"`
}

func (r MedicalRecord) EntityID() string { return r.ID }

func (r MedicalRecord) Clone() MedicalRecord { return r }

// LineItem is an immutable (description, amount) pair on a bill.
type LineItem struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"` // minor units, > 0
}

// Bill is a patient's bill. The total is always recomputed from the
// line items, never stored.
type Bill struct {
	ID         string     `json:"id"`
	PatientID  string     `json:"patient_id"`
	LineItems  []LineItem `json:"line_items"`
	Status     BillStatus `json:"status"`
	PaymentRef string     `json:"payment_ref,omitempty"`
}

func (b Bill) EntityID() string { return b.ID }

func (b Bill) Clone() Bill {
	out := b
	out.LineItems = append([]LineItem(nil), b.LineItems...)
	return out
}

// Total returns the sum of line-item amounts in minor units.
func (b Bill) Total() int64 {
	var total int64
	for _, item := range b.LineItems {
		total += item.Amount
	}
	return total
}

// InventoryItem is a stocked supply. Quantity is never negative at any
// observable point.
type InventoryItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"` // minor units, > 0
}

func (i InventoryItem) EntityID() string { return i.ID }

func (i InventoryItem) Clone() InventoryItem { return i }
