package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// windowBounds fills in absent bounds independently: two days back and now.
func windowBounds(from, to *time.Time) (time.Time, time.Time) {
	start := time.Now().AddDate(0, 0, -2)
	if from != nil {
		start = *from
	}
	end := time.Now()
	if to != nil {
		end = *to
	}
	return start, end
}

func (db *Database) GetEvents(ctx context.Context, uid string, from, to *time.Time) (EventRecords, error) {
	start, end := windowBounds(from, to)
	const query = `
	SELECT id, uid, name, platform, device_class, unit_of_measurement, value, device_identifier, observed_at
	FROM Events
	WHERE uid = $1 AND observed_at BETWEEN $2 AND $3
	ORDER BY observed_at DESC;
	`

	rows, err := db.conn.Query(ctx, query, uid, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetLatestEvents returns the newest row per entity UID.
func (db *Database) GetLatestEvents(ctx context.Context) (EventRecords, error) {
	const query = `
	SELECT DISTINCT ON (uid) id, uid, name, platform, device_class, unit_of_measurement, value, device_identifier, observed_at
	FROM Events
	ORDER BY uid, observed_at DESC;
	`

	rows, err := db.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) (EventRecords, error) {
	var records EventRecords
	for rows.Next() {
		var record EventRecord
		if err := rows.Scan(&record.ID, &record.UID, &record.Name, &record.Platform, &record.DeviceClass,
			&record.Unit, &record.Value, &record.DeviceIdentifier, &record.ObservedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		if err == pgx.ErrNoRows {
			return records, nil
		}
		return nil, err
	}

	return records, nil
}
