package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Binding records which profile a remote resolved to, so re-binding
// after a restart never depends on the next event carrying the hardware
// type.
type Binding struct {
	DeviceID     string
	Name         string
	HardwareType string
	Profile      Profile
	BoundAt      time.Time
}

// Registry persists profile bindings.
type Registry interface {
	// Get retrieves the binding for a device.
	// Returns ErrBindingNotFound if the device has never bound.
	Get(ctx context.Context, deviceID string) (*Binding, error)

	// Save upserts a binding. Binding is idempotent, so saving the same
	// device again just refreshes the row.
	Save(ctx context.Context, binding *Binding) error

	// List retrieves all persisted bindings.
	List(ctx context.Context) ([]Binding, error)

	// Delete removes a binding.
	Delete(ctx context.Context, deviceID string) error
}

// SQLiteRegistry implements Registry using SQLite.
type SQLiteRegistry struct {
	db *sql.DB
}

// NewSQLiteRegistry creates a SQLite-backed registry. The db parameter
// should be an open, migrated connection.
func NewSQLiteRegistry(db *sql.DB) *SQLiteRegistry {
	return &SQLiteRegistry{db: db}
}

// Get retrieves the binding for a device.
func (r *SQLiteRegistry) Get(ctx context.Context, deviceID string) (*Binding, error) {
	query := `
		SELECT device_id, name, hw_type, profile, bound_at
		FROM remotes
		WHERE device_id = ?`

	var b Binding
	var profile, boundAt string
	err := r.db.QueryRowContext(ctx, query, deviceID).Scan(
		&b.DeviceID, &b.Name, &b.HardwareType, &profile, &boundAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBindingNotFound
		}
		return nil, fmt.Errorf("querying binding: %w", err)
	}
	b.Profile = Profile(profile)
	if b.BoundAt, err = time.Parse(time.RFC3339, boundAt); err != nil {
		return nil, fmt.Errorf("parsing bound_at: %w", err)
	}
	return &b, nil
}

// Save upserts a binding.
func (r *SQLiteRegistry) Save(ctx context.Context, binding *Binding) error {
	query := `
		INSERT INTO remotes (device_id, name, hw_type, profile, bound_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?,
			strftime('%Y-%m-%dT%H:%M:%SZ', 'now'),
			strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(device_id) DO UPDATE SET
			name = excluded.name,
			hw_type = excluded.hw_type,
			profile = excluded.profile,
			bound_at = excluded.bound_at,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`

	boundAt := binding.BoundAt
	if boundAt.IsZero() {
		boundAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		binding.DeviceID, binding.Name, binding.HardwareType,
		string(binding.Profile), boundAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving binding: %w", err)
	}
	return nil
}

// List retrieves all persisted bindings ordered by device ID.
func (r *SQLiteRegistry) List(ctx context.Context) ([]Binding, error) {
	query := `
		SELECT device_id, name, hw_type, profile, bound_at
		FROM remotes
		ORDER BY device_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing bindings: %w", err)
	}
	defer rows.Close()

	var bindings []Binding
	for rows.Next() {
		var b Binding
		var profile, boundAt string
		if err := rows.Scan(&b.DeviceID, &b.Name, &b.HardwareType, &profile, &boundAt); err != nil {
			return nil, fmt.Errorf("scanning binding: %w", err)
		}
		b.Profile = Profile(profile)
		if b.BoundAt, err = time.Parse(time.RFC3339, boundAt); err != nil {
			return nil, fmt.Errorf("parsing bound_at: %w", err)
		}
		bindings = append(bindings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bindings: %w", err)
	}
	return bindings, nil
}

// Delete removes a binding.
func (r *SQLiteRegistry) Delete(ctx context.Context, deviceID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM remotes WHERE device_id = ?`, deviceID)
	if err != nil {
		return fmt.Errorf("deleting binding: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrBindingNotFound
	}
	return nil
}
