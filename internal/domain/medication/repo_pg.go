package medication

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carehub/portal/internal/platform/db"
	"github.com/carehub/portal/pkg/caldate"
)

type medicationRepoPG struct{ pool *pgxpool.Pool }

// NewRepoPG stores medications with their reminders in a child table.
func NewRepoPG(pool *pgxpool.Pool) Store { return &medicationRepoPG{pool: pool} }

const medCols = `id, patient_id, name, dosage, frequency, start_date, end_date, prescribed_by`

const reminderCols = `id, medication_id, time, is_active, last_taken`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	var start, end time.Time
	if err := row.Scan(&m.ID, &m.PatientID, &m.Name, &m.Dosage, &m.Frequency,
		&start, &end, &m.PrescribedBy); err != nil {
		return nil, err
	}
	m.StartDate = caldate.Of(start)
	m.EndDate = caldate.Of(end)
	m.Reminders = []Reminder{}
	return &m, nil
}

func scanReminder(row pgx.Row) (Reminder, error) {
	var r Reminder
	var tod string
	if err := row.Scan(&r.ID, &r.MedicationID, &tod, &r.IsActive, &r.LastTaken); err != nil {
		return r, err
	}
	t, err := caldate.ParseTimeOfDay(tod)
	if err != nil {
		return r, err
	}
	r.Time = t
	return r, nil
}

func (r *medicationRepoPG) List(ctx context.Context) ([]*Medication, error) {
	conn := db.Conn(ctx, r.pool)
	rows, err := conn.Query(ctx, `SELECT `+medCols+` FROM medications ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	var meds []*Medication
	byID := map[string]*Medication{}
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		meds = append(meds, m)
		byID[m.ID] = m
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = conn.Query(ctx, `SELECT `+reminderCols+` FROM medication_reminders ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		if m, ok := byID[rem.MedicationID]; ok {
			m.Reminders = append(m.Reminders, rem)
		}
	}
	return meds, rows.Err()
}

func (r *medicationRepoPG) GetByID(ctx context.Context, id string) (*Medication, error) {
	return r.get(ctx, id, "")
}

func (r *medicationRepoPG) get(ctx context.Context, id, lock string) (*Medication, error) {
	conn := db.Conn(ctx, r.pool)
	m, err := scanMedication(conn.QueryRow(ctx, `SELECT `+medCols+` FROM medications WHERE id = $1`+lock, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, `SELECT `+reminderCols+` FROM medication_reminders WHERE medication_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		m.Reminders = append(m.Reminders, rem)
	}
	return m, rows.Err()
}

func (r *medicationRepoPG) Upsert(ctx context.Context, m *Medication) error {
	conn := db.Conn(ctx, r.pool)
	if _, err := conn.Exec(ctx, `
		INSERT INTO medications (id, patient_id, name, dosage, frequency, start_date, end_date, prescribed_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET patient_id=$2, name=$3, dosage=$4, frequency=$5,
			start_date=$6, end_date=$7, prescribed_by=$8`,
		m.ID, m.PatientID, m.Name, m.Dosage, m.Frequency,
		m.StartDate.Time(), m.EndDate.Time(), m.PrescribedBy); err != nil {
		return err
	}
	for _, rem := range m.Reminders {
		if _, err := conn.Exec(ctx, `
			INSERT INTO medication_reminders (id, medication_id, time, is_active, last_taken)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (id) DO UPDATE SET medication_id=$2, time=$3, is_active=$4, last_taken=$5`,
			rem.ID, m.ID, rem.Time.String(), rem.IsActive, rem.LastTaken); err != nil {
			return err
		}
	}
	return nil
}

func (r *medicationRepoPG) Update(ctx context.Context, id string, fn func(m *Medication) error) (*Medication, error) {
	var out *Medication
	err := db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		m, err := r.get(ctx, id, " FOR UPDATE")
		if err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
		out = m
		return r.Upsert(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
