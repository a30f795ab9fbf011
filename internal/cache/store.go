// Package cache keeps a local sqlite copy of the patients last fetched from
// the API, so the list remains browsable when the clinic's connection is
// down. It is a read-through convenience, never a source of truth: the API
// owns every record, and the cache only ever reflects the last sync.
package cache

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lnclinic/prontuario/internal/domain"
)

//go:embed schema.sql
var schema string

// Store handles the local patient cache.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertPatients records the given patients as of now, replacing any
// previously synced copy.
func (s *Store) UpsertPatients(patients []domain.Patient) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("cache: begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range patients {
		var latest any
		if p.LatestEvaluation != nil {
			latest = p.LatestEvaluation.UTC().Format(time.RFC3339)
		}
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO patients
			 (id, full_name, age, birth_date, cpf, email, phone, latest_evaluation, synced_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.FullName, p.Age, p.BirthDate.UTC().Format(time.RFC3339),
			p.CPF, p.Email, p.Phone, latest, now,
		)
		if err != nil {
			return fmt.Errorf("cache: upsert patient %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cache: commit: %w", err)
	}
	return nil
}

// ListPatients returns cached patients whose names contain search (already
// normalized by the caller), ordered by name. An empty search matches all.
func (s *Store) ListPatients(search string, limit int) ([]domain.Patient, error) {
	rows, err := s.db.Query(
		`SELECT id, full_name, age, birth_date, cpf, email, phone, latest_evaluation
		 FROM patients
		 WHERE full_name LIKE '%' || ? || '%'
		 ORDER BY full_name
		 LIMIT ?`,
		search, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("cache: list patients: %w", err)
	}
	defer rows.Close()

	var patients []domain.Patient
	for rows.Next() {
		p, err := scanPatient(rows.Scan)
		if err != nil {
			return nil, err
		}
		patients = append(patients, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache: list patients: %w", err)
	}
	return patients, nil
}

// GetPatient returns one cached patient, or domain.ErrNotFound when the
// patient was never synced.
func (s *Store) GetPatient(id string) (*domain.Patient, error) {
	row := s.db.QueryRow(
		`SELECT id, full_name, age, birth_date, cpf, email, phone, latest_evaluation
		 FROM patients WHERE id = ?`,
		id,
	)
	p, err := scanPatient(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cache: patient %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanPatient(scan func(dest ...any) error) (*domain.Patient, error) {
	var (
		p         domain.Patient
		birthDate string
		latest    sql.NullString
	)
	if err := scan(&p.ID, &p.FullName, &p.Age, &birthDate, &p.CPF, &p.Email, &p.Phone, &latest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("cache: scan patient: %w", err)
	}

	t, err := time.Parse(time.RFC3339, birthDate)
	if err != nil {
		return nil, fmt.Errorf("cache: parse birth date: %w", err)
	}
	p.BirthDate = t

	if latest.Valid {
		le, err := time.Parse(time.RFC3339, latest.String)
		if err != nil {
			return nil, fmt.Errorf("cache: parse latest evaluation: %w", err)
		}
		p.LatestEvaluation = &le
	}

	return &p, nil
}
