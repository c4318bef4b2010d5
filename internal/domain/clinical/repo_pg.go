package clinical

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carehub/portal/internal/platform/db"
	"github.com/carehub/portal/pkg/caldate"
)

type recordRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Store { return &recordRepoPG{pool: pool} }

const recordCols = `id, patient_id, date, diagnosis, treatment, doctor_id, doctor_name, notes`

func scanRecord(row pgx.Row) (*MedicalRecord, error) {
	var r MedicalRecord
	var date time.Time
	if err := row.Scan(&r.ID, &r.PatientID, &date, &r.Diagnosis, &r.Treatment,
		&r.DoctorID, &r.DoctorName, &r.Notes); err != nil {
		return nil, err
	}
	r.Date = caldate.Of(date)
	return &r, nil
}

func (r *recordRepoPG) List(ctx context.Context) ([]*MedicalRecord, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+recordCols+` FROM medical_records ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*MedicalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

func (r *recordRepoPG) GetByID(ctx context.Context, id string) (*MedicalRecord, error) {
	rec, err := scanRecord(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+recordCols+` FROM medical_records WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (r *recordRepoPG) Upsert(ctx context.Context, rec *MedicalRecord) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO medical_records (id, patient_id, date, diagnosis, treatment, doctor_id, doctor_name, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET patient_id=$2, date=$3, diagnosis=$4, treatment=$5,
			doctor_id=$6, doctor_name=$7, notes=$8`,
		rec.ID, rec.PatientID, rec.Date.Time(), rec.Diagnosis, rec.Treatment,
		rec.DoctorID, rec.DoctorName, rec.Notes)
	return err
}
