package hospital

import (
	"context"
	"fmt"
)

// Facade is the single entry point external callers (HTTP, CLI, tests)
// depend on. It holds no business logic: each method guards against a
// missing dependency and passes through. Errors from the services are
// returned unchanged.
type Facade struct {
	patients     *PatientService
	appointments *AppointmentService
	records      *MedicalRecordService
	billing      *BillingService
	inventory    *InventoryService
}

// NewFacade wires the five services. Any of them may be nil; the
// corresponding operations then fail with ErrNotConfigured.
func NewFacade(
	patients *PatientService,
	appointments *AppointmentService,
	records *MedicalRecordService,
	billing *BillingService,
	inventory *InventoryService,
) *Facade {
	return &Facade{
		patients:     patients,
		appointments: appointments,
		records:      records,
		billing:      billing,
		inventory:    inventory,
	}
}

// NewInMemoryFacade assembles a fully wired facade over fresh memory
// stores. This is the memory-resident reference configuration.
func NewInMemoryFacade() *Facade {
	patients := NewPatientService(NewMemoryStore[Patient]())
	appointments := NewAppointmentService(NewMemoryStore[Appointment](), patients)
	records := NewMedicalRecordService(NewMemoryStore[MedicalRecord](), patients, appointments)
	billing := NewBillingService(NewMemoryStore[Bill](), patients)
	inventory := NewInventoryService(NewMemoryStore[InventoryItem]())
	return NewFacade(patients, appointments, records, billing, inventory)
}

func notConfigured(name string) error {
	return fmt.Errorf("%w: %s", ErrNotConfigured, name)
}

// --- Patients ---

func (f *Facade) RegisterPatient(ctx context.Context, p Patient) (Patient, error) {
	if f.patients == nil {
		return Patient{}, notConfigured("patient service")
	}
	return f.patients.Register(ctx, p)
}

func (f *Facade) FindPatientByID(ctx context.Context, id string) (Patient, error) {
	if f.patients == nil {
		return Patient{}, notConfigured("patient service")
	}
	return f.patients.FindByID(ctx, id)
}

func (f *Facade) ListPatients(ctx context.Context) ([]Patient, error) {
	if f.patients == nil {
		return nil, notConfigured("patient service")
	}
	return f.patients.FindAll(ctx)
}

func (f *Facade) UpdatePatient(ctx context.Context, p Patient) (Patient, error) {
	if f.patients == nil {
		return Patient{}, notConfigured("patient service")
	}
	return f.patients.Update(ctx, p)
}

func (f *Facade) DeletePatient(ctx context.Context, id string) (bool, error) {
	if f.patients == nil {
		return false, notConfigured("patient service")
	}
	return f.patients.Delete(ctx, id)
}

func (f *Facade) AdmitPatient(ctx context.Context, id string) (Patient, error) {
	if f.patients == nil {
		return Patient{}, notConfigured("patient service")
	}
	return f.patients.Admit(ctx, id)
}

func (f *Facade) DischargePatient(ctx context.Context, id string) (Patient, error) {
	if f.patients == nil {
		return Patient{}, notConfigured("patient service")
	}
	return f.patients.Discharge(ctx, id)
}

// --- Appointments ---

func (f *Facade) ScheduleAppointment(ctx context.Context, a Appointment) (Appointment, error) {
	if f.appointments == nil {
		return Appointment{}, notConfigured("appointment service")
	}
	return f.appointments.Schedule(ctx, a)
}

func (f *Facade) FindAppointmentByID(ctx context.Context, id string) (Appointment, error) {
	if f.appointments == nil {
		return Appointment{}, notConfigured("appointment service")
	}
	return f.appointments.FindByID(ctx, id)
}

func (f *Facade) ListAppointments(ctx context.Context) ([]Appointment, error) {
	if f.appointments == nil {
		return nil, notConfigured("appointment service")
	}
	return f.appointments.FindAll(ctx)
}

func (f *Facade) UpdateAppointment(ctx context.Context, a Appointment) (Appointment, error) {
	if f.appointments == nil {
		return Appointment{}, notConfigured("appointment service")
	}
	return f.appointments.Update(ctx, a)
}

func (f *Facade) CompleteAppointment(ctx context.Context, id string) (Appointment, error) {
	if f.appointments == nil {
		return Appointment{}, notConfigured("appointment service")
	}
	return f.appointments.Complete(ctx, id)
}

func (f *Facade) CancelAppointment(ctx context.Context, id string) (bool, error) {
	if f.appointments == nil {
		return false, notConfigured("appointment service")
	}
	return f.appointments.Cancel(ctx, id)
}

func (f *Facade) DeleteAppointment(ctx context.Context, id string) (bool, error) {
	if f.appointments == nil {
		return false, notConfigured("appointment service")
	}
	return f.appointments.Delete(ctx, id)
}

// --- Medical records ---

func (f *Facade) AddMedicalRecord(ctx context.Context, r MedicalRecord) (MedicalRecord, error) {
	if f.records == nil {
		return MedicalRecord{}, notConfigured("medical record service")
	}
	return f.records.Add(ctx, r)
}

func (f *Facade) FindMedicalRecordByID(ctx context.Context, id string) (MedicalRecord, error) {
	if f.records == nil {
		return MedicalRecord{}, notConfigured("medical record service")
	}
	return f.records.FindByID(ctx, id)
}

func (f *Facade) ListMedicalRecords(ctx context.Context) ([]MedicalRecord, error) {
	if f.records == nil {
		return nil, notConfigured("medical record service")
	}
	return f.records.FindAll(ctx)
}

func (f *Facade) UpdateMedicalRecord(ctx context.Context, r MedicalRecord) (MedicalRecord, error) {
	if f.records == nil {
		return MedicalRecord{}, notConfigured("medical record service")
	}
	return f.records.Update(ctx, r)
}

func (f *Facade) DeleteMedicalRecord(ctx context.Context, id string) (bool, error) {
	if f.records == nil {
		return false, notConfigured("medical record service")
	}
	return f.records.Delete(ctx, id)
}

// --- Billing ---

func (f *Facade) CreateBill(ctx context.Context, patientID string) (Bill, error) {
	if f.billing == nil {
		return Bill{}, notConfigured("billing service")
	}
	return f.billing.Create(ctx, patientID)
}

func (f *Facade) FindBillByID(ctx context.Context, id string) (Bill, error) {
	if f.billing == nil {
		return Bill{}, notConfigured("billing service")
	}
	return f.billing.FindByID(ctx, id)
}

func (f *Facade) ListBills(ctx context.Context) ([]Bill, error) {
	if f.billing == nil {
		return nil, notConfigured("billing service")
	}
	return f.billing.FindAll(ctx)
}

func (f *Facade) UpdateBill(ctx context.Context, b Bill) (Bill, error) {
	if f.billing == nil {
		return Bill{}, notConfigured("billing service")
	}
	return f.billing.Update(ctx, b)
}

func (f *Facade) AddLineItem(ctx context.Context, billID string, item LineItem) (Bill, error) {
	if f.billing == nil {
		return Bill{}, notConfigured("billing service")
	}
	return f.billing.AddLineItem(ctx, billID, item)
}

func (f *Facade) MarkBillPaid(ctx context.Context, billID, paymentRef string) (Bill, error) {
	if f.billing == nil {
		return Bill{}, notConfigured("billing service")
	}
	return f.billing.MarkPaid(ctx, billID, paymentRef)
}

func (f *Facade) DeleteBill(ctx context.Context, id string) (bool, error) {
	if f.billing == nil {
		return false, notConfigured("billing service")
	}
	return f.billing.Delete(ctx, id)
}

// --- Inventory ---

func (f *Facade) AddInventoryItem(ctx context.Context, item InventoryItem) (InventoryItem, error) {
	if f.inventory == nil {
		return InventoryItem{}, notConfigured("inventory service")
	}
	return f.inventory.Add(ctx, item)
}

func (f *Facade) FindInventoryItemByID(ctx context.Context, id string) (InventoryItem, error) {
	if f.inventory == nil {
		return InventoryItem{}, notConfigured("inventory service")
	}
	return f.inventory.FindByID(ctx, id)
}

func (f *Facade) ListInventoryItems(ctx context.Context) ([]InventoryItem, error) {
	if f.inventory == nil {
		return nil, notConfigured("inventory service")
	}
	return f.inventory.FindAll(ctx)
}

func (f *Facade) UpdateInventoryItem(ctx context.Context, item InventoryItem) (InventoryItem, error) {
	if f.inventory == nil {
		return InventoryItem{}, notConfigured("inventory service")
	}
	return f.inventory.Update(ctx, item)
}

func (f *Facade) AddStock(ctx context.Context, id string, amount int64) (InventoryItem, error) {
	if f.inventory == nil {
		return InventoryItem{}, notConfigured("inventory service")
	}
	return f.inventory.AddStock(ctx, id, amount)
}

func (f *Facade) RemoveStock(ctx context.Context, id string, amount int64) (InventoryItem, error) {
	if f.inventory == nil {
		return InventoryItem{}, notConfigured("inventory service")
	}
	return f.inventory.RemoveStock(ctx, id, amount)
}

func (f *Facade) DeleteInventoryItem(ctx context.Context, id string) (bool, error) {
	if f.inventory == nil {
		return false, notConfigured("inventory service")
	}
	return f.inventory.Delete(ctx, id)
}
