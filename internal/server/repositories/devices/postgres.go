package devices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/dbx"
	"github.com/dmitrijs2005/scalehub/internal/server/models"
)

// deviceColumns is the column list every SELECT here scans in this order.
const deviceColumns = `id, owner_id, name, description, host, port, protocol,
	cached_dirty, cached_count, au_enabled, au_interval_minutes, au_last_run_utc`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(s rowScanner) (*models.Device, error) {
	d := &models.Device{}
	var lastRun sql.NullTime
	err := s.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Description, &d.Host, &d.Port, &d.Protocol,
		&d.CachedDirty, &d.CachedCount, &d.AutoUpdateEnabled, &d.AutoUpdateIntervalMinutes, &lastRun)
	if err != nil {
		return nil, err
	}
	if lastRun.Valid {
		t := lastRun.Time.UTC()
		d.AutoUpdateLastRun = &t
	}
	return d, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Device, error) {
	query := `SELECT ` + deviceColumns + `
		 FROM devices
		 WHERE owner_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID string, id int64) (*models.Device, error) {
	query := `SELECT ` + deviceColumns + `
		 FROM devices
		 WHERE id = $1 AND owner_id = $2
		 `

	d, err := scanDevice(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, device *models.Device) (*models.Device, error) {
	query :=
		`INSERT INTO devices (owner_id, name, description, host, port, protocol)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		device.OwnerID, device.Name, device.Description, device.Host, device.Port, device.Protocol).
		Scan(&device.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return device, nil
}

func (r *PostgresRepository) Update(ctx context.Context, device *models.Device) error {
	query :=
		`UPDATE devices
		 SET name = $1, description = $2, host = $3, port = $4, protocol = $5
		 WHERE id = $6 AND owner_id = $7
		 `

	res, err := r.db.ExecContext(ctx, query,
		device.Name, device.Description, device.Host, device.Port, device.Protocol,
		device.ID, device.OwnerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireRowAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	query :=
		`DELETE FROM devices
		 WHERE id = $1 AND owner_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireRowAffected(res)
}

func (r *PostgresRepository) SetAutoUpdate(ctx context.Context, ownerID string, id int64, enabled bool, intervalMinutes int) error {
	query :=
		`UPDATE devices
		 SET au_enabled = $1, au_interval_minutes = $2
		 WHERE id = $3 AND owner_id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, enabled, intervalMinutes, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireRowAffected(res)
}

func (r *PostgresRepository) SetCacheState(ctx context.Context, id int64, dirty bool, count int) error {
	query :=
		`UPDATE devices
		 SET cached_dirty = $1, cached_count = $2
		 WHERE id = $3
		 `

	if _, err := r.db.ExecContext(ctx, query, dirty, count, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) SetDirty(ctx context.Context, id int64, dirty bool) error {
	query :=
		`UPDATE devices
		 SET cached_dirty = $1
		 WHERE id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, dirty, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) StampAutoUpdateRun(ctx context.Context, id int64, at time.Time) error {
	query :=
		`UPDATE devices
		 SET au_last_run_utc = $1
		 WHERE id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, at.UTC(), id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListAutoUpdateDue(ctx context.Context, now time.Time) ([]*models.Device, error) {
	query := `SELECT ` + deviceColumns + `
		 FROM devices
		 WHERE au_enabled
		   AND (au_last_run_utc IS NULL
		        OR au_last_run_utc + make_interval(mins => au_interval_minutes) <= $1)
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// requireRowAffected maps zero-row writes to ErrorNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
