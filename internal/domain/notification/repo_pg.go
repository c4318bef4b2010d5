package notification

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carehub/portal/internal/platform/db"
)

type notificationRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Store { return &notificationRepoPG{pool: pool} }

const noteCols = `id, user_id, title, message, type, is_read, created_at`

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	var typ string
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &typ, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Type = Type(typ)
	return &n, nil
}

func (r *notificationRepoPG) List(ctx context.Context) ([]*Notification, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+noteCols+` FROM notifications ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var notes []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *notificationRepoPG) Upsert(ctx context.Context, n *Notification) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, message, type, is_read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET user_id=$2, title=$3, message=$4, type=$5,
			is_read=$6, created_at=$7`,
		n.ID, n.UserID, n.Title, n.Message, string(n.Type), n.IsRead, n.CreatedAt)
	return err
}

func (r *notificationRepoPG) MarkRead(ctx context.Context, userID, id string) (int, error) {
	conn := db.Conn(ctx, r.pool)
	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1 AND user_id = $2)`,
		id, userID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrNotFound
	}
	tag, err := conn.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2 AND NOT is_read`, id, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *notificationRepoPG) MarkAllRead(ctx context.Context, userID string) (int, error) {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
