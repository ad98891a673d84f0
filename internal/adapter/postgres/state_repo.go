package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"healthweb/internal/domain"
)

var _ domain.StateRepository = (*DB)(nil)

// GetState returns the value stored under key for clientID.
func (d *DB) GetState(ctx context.Context, clientID, key string) (string, bool, error) {
	var v string
	err := d.sql.QueryRowContext(ctx,
		"SELECT value FROM client_state WHERE client_id = $1 AND key = $2",
		clientID, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// PutState stores value under key for clientID, replacing any previous value.
func (d *DB) PutState(ctx context.Context, clientID, key, value string) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO client_state (client_id, key, value, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (client_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		clientID, key, value, time.Now().UTC(),
	)
	return err
}

// DeleteState removes key for clientID.
func (d *DB) DeleteState(ctx context.Context, clientID, key string) error {
	_, err := d.sql.ExecContext(ctx,
		"DELETE FROM client_state WHERE client_id = $1 AND key = $2",
		clientID, key,
	)
	return err
}

// PurgeStateBefore deletes every client whose newest value was written before
// cutoff. A client's keys are kept or removed together.
func (d *DB) PurgeStateBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := d.sql.ExecContext(ctx,
		`DELETE FROM client_state WHERE client_id IN (
			SELECT client_id FROM client_state GROUP BY client_id HAVING max(updated_at) < $1
		)`,
		cutoff.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
