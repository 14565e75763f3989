// Package pgstore provides PostgreSQL implementations of
// triage.PatientStore and triage.DoctorStore.
package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/intake/internal/triage"
)

var tracer = otel.Tracer("github.com/linnemanlabs/intake/internal/triage/pgstore")

//go:embed schema.sql
var schema string

// Store persists patients and doctors in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema and returns a ready Store over the given pool.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const patientColumns = `id, name, age, gender, conditions, vitals, risk, department, created_at, updated_at`

// FindByName retrieves a patient record with its full symptom history.
func (s *Store) FindByName(ctx context.Context, name string) (*triage.Patient, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.FindByName", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + patientColumns + ` FROM patients WHERE name = $1`
	p, err := s.scanPatientRow(s.pool.QueryRow(ctx, query, name))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if p == nil {
		return nil, false, nil
	}

	if err := s.loadEvents(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}

	return p, true, nil
}

// Create inserts a new patient record.
func (s *Store) Create(ctx context.Context, p *triage.Patient) error {
	ctx, span := tracer.Start(ctx, "pgstore.Create", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	vitalsJSON, err := json.Marshal(p.Vitals)
	if err != nil {
		return fmt.Errorf("marshal vitals: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO patients (`+patientColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.Name, p.Age, p.Gender, p.Conditions, vitalsJSON,
		string(p.Risk), p.Department, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

// Update rewrites the patient row and appends any new symptom events in a
// single transaction. Event rows are keyed by their ULID, so re-running an
// update never duplicates history.
func (s *Store) Update(ctx context.Context, p *triage.Patient) error {
	ctx, span := tracer.Start(ctx, "pgstore.Update", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPDATE"),
	))
	defer span.End()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is harmless

	if err := s.updatePatient(ctx, tx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// FindByDepartment resolves the department's doctor, lexically smallest ID
// first for determinism.
func (s *Store) FindByDepartment(ctx context.Context, department string) (*triage.Doctor, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.FindByDepartment", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	var (
		d         triage.Doctor
		queueJSON []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, department, queue FROM doctors WHERE department = $1 ORDER BY id LIMIT 1`,
		department,
	).Scan(&d.ID, &d.Name, &d.Department, &queueJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, fmt.Errorf("scan doctor: %w", err)
	}

	if err := json.Unmarshal(queueJSON, &d.Queue); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, fmt.Errorf("unmarshal queue: %w", err)
	}

	return &d, true, nil
}

// Save upserts the doctor record with its queue.
func (s *Store) Save(ctx context.Context, d *triage.Doctor) error {
	ctx, span := tracer.Start(ctx, "pgstore.Save", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPSERT"),
	))
	defer span.End()

	queueJSON, err := json.Marshal(d.Queue)
	if err != nil {
		return fmt.Errorf("marshal queue: %w", err)
	}
	if d.Queue == nil {
		queueJSON = []byte(`[]`)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO doctors (id, name, department, queue) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (id) DO UPDATE SET
			name       = EXCLUDED.name,
			department = EXCLUDED.department,
			queue      = EXCLUDED.queue`,
		d.ID, d.Name, d.Department, queueJSON,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upsert doctor: %w", err)
	}
	return nil
}

func (s *Store) updatePatient(ctx context.Context, tx pgx.Tx, p *triage.Patient) error {
	vitalsJSON, err := json.Marshal(p.Vitals)
	if err != nil {
		return fmt.Errorf("marshal vitals: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE patients SET
			age        = $2,
			gender     = $3,
			conditions = $4,
			vitals     = $5,
			risk       = $6,
			department = $7,
			updated_at = $8
		 WHERE id = $1`,
		p.ID, p.Age, p.Gender, p.Conditions, vitalsJSON,
		string(p.Risk), p.Department, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update patient: no row for id %s", p.ID)
	}

	for i, ev := range p.Events {
		_, err := tx.Exec(ctx,
			`INSERT INTO symptom_events (id, patient_id, seq, description, at, risk, department)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)
			 ON CONFLICT (id) DO NOTHING`,
			ev.ID, p.ID, i, ev.Description, ev.At, string(ev.Risk), ev.Department,
		)
		if err != nil {
			return fmt.Errorf("insert event seq %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) loadEvents(ctx context.Context, p *triage.Patient) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, description, at, risk, department
		 FROM symptom_events WHERE patient_id = $1 ORDER BY seq`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ev   triage.SymptomEvent
			risk string
		)
		if err := rows.Scan(&ev.ID, &ev.Description, &ev.At, &risk, &ev.Department); err != nil {
			return fmt.Errorf("scan event: %w", err)
		}
		ev.Risk = triage.RiskLevel(risk)
		p.Events = append(p.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate events: %w", err)
	}
	return nil
}

// scanPatientRow scans a single patient row (without events). Returns
// (nil, nil) when no row is found.
func (s *Store) scanPatientRow(row pgx.Row) (*triage.Patient, error) {
	var (
		p          triage.Patient
		risk       string
		vitalsJSON []byte
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.Age, &p.Gender, &p.Conditions, &vitalsJSON,
		&risk, &p.Department, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}

	p.Risk = triage.RiskLevel(risk)

	if err := json.Unmarshal(vitalsJSON, &p.Vitals); err != nil {
		return nil, fmt.Errorf("unmarshal vitals: %w", err)
	}

	return &p, nil
}
