package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carehub/portal/internal/platform/db"
	"github.com/carehub/portal/pkg/caldate"
)

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Store { return &appointmentRepoPG{pool: pool} }

const apptCols = `id, patient_id, patient_name, doctor_id, doctor_name, date, time, status, reason, notes`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var date time.Time
	var tod, status string
	if err := row.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.DoctorID, &a.DoctorName,
		&date, &tod, &status, &a.Reason, &a.Notes); err != nil {
		return nil, err
	}
	t, err := caldate.ParseTimeOfDay(tod)
	if err != nil {
		return nil, err
	}
	a.Date = caldate.Of(date)
	a.Time = t
	a.Status = Status(status)
	return &a, nil
}

func (r *appointmentRepoPG) List(ctx context.Context) ([]*Appointment, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+apptCols+` FROM appointments ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id string) (*Appointment, error) {
	a, err := scanAppointment(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *appointmentRepoPG) Upsert(ctx context.Context, a *Appointment) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, patient_name, doctor_id, doctor_name, date, time, status, reason, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET patient_id=$2, patient_name=$3, doctor_id=$4, doctor_name=$5,
			date=$6, time=$7, status=$8, reason=$9, notes=$10`,
		a.ID, a.PatientID, a.PatientName, a.DoctorID, a.DoctorName,
		a.Date.Time(), a.Time.String(), string(a.Status), a.Reason, a.Notes)
	return err
}

// Update locks the row for the duration of fn.
func (r *appointmentRepoPG) Update(ctx context.Context, id string, fn func(a *Appointment) error) (*Appointment, error) {
	var out *Appointment
	err := db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		a, err := scanAppointment(db.Conn(ctx, r.pool).QueryRow(ctx,
			`SELECT `+apptCols+` FROM appointments WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
		out = a
		return r.Upsert(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
