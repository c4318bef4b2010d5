package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carehub/portal/internal/platform/db"
	"github.com/carehub/portal/pkg/caldate"
)

type itemRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Store { return &itemRepoPG{pool: pool} }

const itemCols = `id, name, category, quantity, unit, threshold, last_restocked, expiry_date`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	var restocked time.Time
	var expiry *time.Time
	if err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity, &it.Unit,
		&it.Threshold, &restocked, &expiry); err != nil {
		return nil, err
	}
	it.LastRestocked = caldate.Of(restocked)
	if expiry != nil {
		it.ExpiryDate = caldate.Of(*expiry)
	}
	return &it, nil
}

func (r *itemRepoPG) List(ctx context.Context) ([]*Item, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+itemCols+` FROM inventory_items ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *itemRepoPG) GetByID(ctx context.Context, id string) (*Item, error) {
	it, err := scanItem(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+itemCols+` FROM inventory_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return it, err
}

func (r *itemRepoPG) Upsert(ctx context.Context, it *Item) error {
	var expiry *time.Time
	if !it.ExpiryDate.IsZero() {
		t := it.ExpiryDate.Time()
		expiry = &t
	}
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO inventory_items (id, name, category, quantity, unit, threshold, last_restocked, expiry_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET name=$2, category=$3, quantity=$4, unit=$5,
			threshold=$6, last_restocked=$7, expiry_date=$8`,
		it.ID, it.Name, it.Category, it.Quantity, it.Unit, it.Threshold, it.LastRestocked.Time(), expiry)
	return err
}
