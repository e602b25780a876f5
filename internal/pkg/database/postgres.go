package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Database struct {
	conn *pgx.Conn
}

func NewDatabase(conn *pgx.Conn) *Database {
	return &Database{
		conn: conn,
	}
}

func (db *Database) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close(context.Background())
}

// EventRecord is one row of event history.
type EventRecord struct {
	ID               int64     `json:"id"`
	UID              string    `json:"uid"`
	Name             string    `json:"name"`
	Platform         string    `json:"platform"`
	DeviceClass      string    `json:"device_class,omitempty"`
	Unit             string    `json:"unit_of_measurement,omitempty"`
	Value            string    `json:"value"`
	DeviceIdentifier string    `json:"device_identifier"`
	ObservedAt       time.Time `json:"observed_at"`
}

type EventRecords []EventRecord
