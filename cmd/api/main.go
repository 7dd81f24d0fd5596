package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"avicenna.org/internal/hospital"
	"avicenna.org/internal/httpapi"
	"avicenna.org/internal/obs"
	"avicenna.org/internal/store/pg"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	// The facade runs over in-memory stores by default. When a DSN is
	// configured the patient store becomes durable and /readyz pings
	// the database.
	facade := hospital.NewInMemoryFacade()
	probe := httpapi.ReadyProbe{}

	var pgStore *pg.PatientStore
	if dsn := os.Getenv("AVICENNA_PG_DSN"); dsn != "" {
		var err error
		pgStore, err = pg.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		probe.DB = pgStore.DB()
		patients := hospital.NewPatientService(pgStore)
		appointments := hospital.NewAppointmentService(hospital.NewMemoryStore[hospital.Appointment](), patients)
		records := hospital.NewMedicalRecordService(hospital.NewMemoryStore[hospital.MedicalRecord](), patients, appointments)
		billing := hospital.NewBillingService(hospital.NewMemoryStore[hospital.Bill](), patients)
		inventory := hospital.NewInventoryService(hospital.NewMemoryStore[hospital.InventoryItem]())
		facade = hospital.NewFacade(patients, appointments, records, billing, inventory)
	}

	addr := os.Getenv("AVICENNA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	api := httpapi.New(probe, version, facade)

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting avicenna-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if pgStore != nil {
		_ = pgStore.Close()
	}
	log.Println("Stopped")
}
