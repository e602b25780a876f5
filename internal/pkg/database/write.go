package database

import (
	"context"
	"time"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

func (db *Database) PublishEvents(ctx context.Context, device model.Device, events []model.Event) error {
	tx, err := db.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	for _, event := range events {
		if _, err := tx.Exec(ctx, `
			INSERT INTO Events (uid, name, platform, device_class, unit_of_measurement, value, device_identifier, observed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, event.UID, event.Name, event.Platform.String(), event.DeviceClass.String(), event.Unit,
			event.StateString(), device.SlugIdentifier(), now); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (db *Database) RegisterDevice(device *model.Device) error {
	_, err := db.conn.Exec(context.Background(), `
		INSERT INTO Devices (uid, name, model, manufacturer)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING;`, device.UID, device.Name, device.Model, device.Manufacturer)
	if err != nil {
		return err
	}

	return nil
}
