package sandbox

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/carehub/portal/internal/domain/clinical"
	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/internal/domain/inventory"
	"github.com/carehub/portal/internal/domain/medication"
	"github.com/carehub/portal/internal/domain/notification"
	"github.com/carehub/portal/internal/domain/scheduling"
	"github.com/carehub/portal/internal/platform/db"
)

// ---------------------------------------------------------------------------
// Stores
// ---------------------------------------------------------------------------

// Stores bundles one repository per domain.
type Stores struct {
	Users         identity.Store
	Records       clinical.Store
	Appointments  scheduling.Store
	Medications   medication.Store
	Inventory     inventory.Store
	Notifications notification.Store
}

// MemoryStores serves d from memory.
func MemoryStores(d Dataset) Stores {
	return Stores{
		Users:         identity.NewMemoryRepo(d.Users),
		Records:       clinical.NewMemoryRepo(d.Records),
		Appointments:  scheduling.NewMemoryRepo(d.Appointments),
		Medications:   medication.NewMemoryRepo(d.Medications),
		Inventory:     inventory.NewMemoryRepo(d.Inventory),
		Notifications: notification.NewMemoryRepo(d.Notifications),
	}
}

// PostgresStores reads the portal tables through pool.
func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Users:         identity.NewRepoPG(pool),
		Records:       clinical.NewRepoPG(pool),
		Appointments:  scheduling.NewRepoPG(pool),
		Medications:   medication.NewRepoPG(pool),
		Inventory:     inventory.NewRepoPG(pool),
		Notifications: notification.NewRepoPG(pool),
	}
}

// ---------------------------------------------------------------------------
// Seeding
// ---------------------------------------------------------------------------

// SeedResult counts the rows written per collection.
type SeedResult struct {
	Users         int `json:"users"`
	Records       int `json:"records"`
	Appointments  int `json:"appointments"`
	Medications   int `json:"medications"`
	Inventory     int `json:"inventory"`
	Notifications int `json:"notifications"`
}

// Load upserts every entity of d into s in dataset order. Existing rows
// with the same ids are overwritten.
func Load(ctx context.Context, s Stores, d Dataset) (SeedResult, error) {
	var res SeedResult
	for _, u := range d.Users {
		if err := u.Validate(); err != nil {
			return res, errors.Wrapf(err, "user %s", u.ID)
		}
		if err := s.Users.Upsert(ctx, u); err != nil {
			return res, errors.Wrapf(err, "seed user %s", u.ID)
		}
		res.Users++
	}
	for _, r := range d.Records {
		if err := s.Records.Upsert(ctx, r); err != nil {
			return res, errors.Wrapf(err, "seed medical record %s", r.ID)
		}
		res.Records++
	}
	for _, a := range d.Appointments {
		if err := s.Appointments.Upsert(ctx, a); err != nil {
			return res, errors.Wrapf(err, "seed appointment %s", a.ID)
		}
		res.Appointments++
	}
	for _, m := range d.Medications {
		if err := s.Medications.Upsert(ctx, m); err != nil {
			return res, errors.Wrapf(err, "seed medication %s", m.ID)
		}
		res.Medications++
	}
	for _, it := range d.Inventory {
		if err := s.Inventory.Upsert(ctx, it); err != nil {
			return res, errors.Wrapf(err, "seed inventory item %s", it.ID)
		}
		res.Inventory++
	}
	for _, n := range d.Notifications {
		if err := s.Notifications.Upsert(ctx, n); err != nil {
			return res, errors.Wrapf(err, "seed notification %s", n.ID)
		}
		res.Notifications++
	}
	return res, nil
}

// Seed writes d into PostgreSQL in a single transaction.
func Seed(ctx context.Context, pool *pgxpool.Pool, d Dataset) (SeedResult, error) {
	var res SeedResult
	err := db.WithTx(ctx, pool, func(ctx context.Context) error {
		var err error
		res, err = Load(ctx, PostgresStores(pool), d)
		return err
	})
	return res, err
}
