package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"avicenna.org/internal/hospital"
)

const pgErrUniqueViolation = "23505"

// PatientStore is a durable patient store backed by Postgres. The
// in-memory store remains the default; this is wired in when a DSN is
// configured.
type PatientStore struct {
	db *sql.DB
}

var _ hospital.Store[hospital.Patient] = (*PatientStore)(nil)

func Open(dsn string) (*PatientStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &PatientStore{db: db}, nil
}

// NewPatientStore wraps an existing connection. Used by tests.
func NewPatientStore(db *sql.DB) *PatientStore {
	return &PatientStore{db: db}
}

func (s *PatientStore) Close() error { return s.db.Close() }

func (s *PatientStore) DB() *sql.DB { return s.db }

func (s *PatientStore) Insert(ctx context.Context, p hospital.Patient) error {
	_, err := s.db.ExecContext(ctx, `
		insert into patients(id, name, date_of_birth, admitted)
		values ($1,$2,$3,$4)
	`, p.ID, p.Name, p.DateOfBirth, p.Admitted)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: patient %s", hospital.ErrDuplicateKey, p.ID)
		}
		return err
	}
	return nil
}

func (s *PatientStore) FindByID(ctx context.Context, id string) (hospital.Patient, error) {
	return scanPatient(s.db.QueryRowContext(ctx, `
		select id, name, date_of_birth, admitted from patients where id=$1
	`, id), id)
}

func (s *PatientStore) FindAll(ctx context.Context) ([]hospital.Patient, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, name, date_of_birth, admitted from patients order by created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []hospital.Patient
	for rows.Next() {
		var p hospital.Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.DateOfBirth, &p.Admitted); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PatientStore) Update(ctx context.Context, p hospital.Patient) error {
	res, err := s.db.ExecContext(ctx, `
		update patients set name=$2, date_of_birth=$3, admitted=$4 where id=$1
	`, p.ID, p.Name, p.DateOfBirth, p.Admitted)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: patient %s", hospital.ErrNotFound, p.ID)
	}
	return nil
}

func (s *PatientStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from patients where id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Mutate applies fn to the stored patient inside a transaction. The row
// is locked for the duration, matching the memory store's guarantee
// that concurrent mutations of one patient serialize.
func (s *PatientStore) Mutate(ctx context.Context, id string, fn func(hospital.Patient) (hospital.Patient, error)) (hospital.Patient, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return hospital.Patient{}, err
	}
	defer func() { _ = tx.Rollback() }()

	p, err := scanPatient(tx.QueryRowContext(ctx, `
		select id, name, date_of_birth, admitted from patients where id=$1 for update
	`, id), id)
	if err != nil {
		return hospital.Patient{}, err
	}

	updated, err := fn(p)
	if err != nil {
		return hospital.Patient{}, err
	}
	if updated.ID != id {
		return hospital.Patient{}, fmt.Errorf("%w: mutation must not change the ID", hospital.ErrInvalidArgument)
	}

	if _, err := tx.ExecContext(ctx, `
		update patients set name=$2, date_of_birth=$3, admitted=$4 where id=$1
	`, updated.ID, updated.Name, updated.DateOfBirth, updated.Admitted); err != nil {
		return hospital.Patient{}, err
	}
	if err := tx.Commit(); err != nil {
		return hospital.Patient{}, err
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner, id string) (hospital.Patient, error) {
	var p hospital.Patient
	err := row.Scan(&p.ID, &p.Name, &p.DateOfBirth, &p.Admitted)
	if errors.Is(err, sql.ErrNoRows) {
		return hospital.Patient{}, fmt.Errorf("%w: patient %s", hospital.ErrNotFound, id)
	}
	if err != nil {
		return hospital.Patient{}, err
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}
