package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carehub/portal/internal/platform/db"
)

type userRepoPG struct{ pool *pgxpool.Pool }

// NewRepoPG reads the user directory from the users table. Role profiles
// are stored as JSONB keyed by the role column.
func NewRepoPG(pool *pgxpool.Pool) Store { return &userRepoPG{pool: pool} }

const userCols = `id, name, email, role, profile_image, password_hash, profile`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var role string
	var profile []byte
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.ProfileImage, &u.PasswordHash, &profile); err != nil {
		return nil, err
	}
	u.Role = Role(role)
	if err := decodeProfile(&u, profile); err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return &u, nil
}

// decodeProfile leaves every profile nil for an unknown role, which makes
// the record inconsistent rather than failing the whole query.
func decodeProfile(u *User, raw []byte) error {
	switch u.Role {
	case RolePatient:
		u.Patient = &PatientProfile{}
		return json.Unmarshal(raw, u.Patient)
	case RoleDoctor:
		u.Doctor = &DoctorProfile{}
		return json.Unmarshal(raw, u.Doctor)
	case RoleAdmin:
		u.Admin = &AdminProfile{}
		return json.Unmarshal(raw, u.Admin)
	}
	return nil
}

func encodeProfile(u *User) ([]byte, error) {
	switch {
	case u.Patient != nil:
		return json.Marshal(u.Patient)
	case u.Doctor != nil:
		return json.Marshal(u.Doctor)
	case u.Admin != nil:
		return json.Marshal(u.Admin)
	}
	return []byte("{}"), nil
}

func (r *userRepoPG) List(ctx context.Context) ([]*User, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+userCols+` FROM users ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepoPG) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := scanUser(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *userRepoPG) ListByRole(ctx context.Context, role Role, limit, offset int) ([]*User, int, error) {
	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE ($1 = '' OR role = $1)`, string(role)).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn.Query(ctx, `SELECT `+userCols+` FROM users WHERE ($1 = '' OR role = $1) ORDER BY seq LIMIT $2 OFFSET $3`,
		string(role), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *userRepoPG) Upsert(ctx context.Context, u *User) error {
	profile, err := encodeProfile(u)
	if err != nil {
		return err
	}
	_, err = db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO users (id, name, email, role, profile_image, password_hash, profile)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET name=$2, email=$3, role=$4, profile_image=$5,
			password_hash=$6, profile=$7`,
		u.ID, u.Name, u.Email, string(u.Role), u.ProfileImage, u.PasswordHash, profile)
	return err
}
