package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/onvif-integration/internal/pkg/database/migration"
	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

// These tests need a live Postgres; point ONVIF_TEST_DATABASE_URL at one to
// run them.
func testDatabase(t *testing.T) *Database {
	t.Helper()
	dsn := os.Getenv("ONVIF_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ONVIF_TEST_DATABASE_URL not set")
	}

	require.NoError(t, migration.Migrate(dsn, "../../../migrations"))

	conn, err := pgx.Connect(context.Background(), dsn)
	require.NoError(t, err)
	db := NewDatabase(conn)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestWriteAndReadEvents(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	device := model.Device{UID: "cam-db-test"}
	events := []model.Event{
		{
			UID:           "cam-db-test_tns1:VideoSource/MotionAlarm_VideoSource_1",
			Name:          "Motion Alarm",
			Platform:      model.PlatformBinarySensor,
			DeviceClass:   model.DeviceClassMotion,
			Value:         true,
			EntityEnabled: true,
		},
	}
	require.NoError(t, db.PublishEvents(ctx, device, events))

	records, err := db.GetLatestEvents(ctx)
	require.NoError(t, err)

	var found bool
	for _, record := range records {
		if record.UID == events[0].UID {
			found = true
			assert.Equal(t, "Motion Alarm", record.Name)
			assert.Equal(t, "on", record.Value)
			assert.Equal(t, "cam_db_test", record.DeviceIdentifier)
		}
	}
	assert.True(t, found, "written event should come back from GetLatestEvents")
}

func TestWindowBounds(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	// One-sided from: the given bound survives, to defaults to now.
	start, end := windowBounds(&from, nil)
	assert.True(t, start.Equal(from))
	assert.WithinDuration(t, time.Now(), end, time.Minute)

	// One-sided to.
	start, end = windowBounds(nil, &to)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -2), start, time.Minute)
	assert.True(t, end.Equal(to))

	// Both absent: last two days.
	start, end = windowBounds(nil, nil)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -2), start, time.Minute)
	assert.WithinDuration(t, time.Now(), end, time.Minute)
}

func TestRegisterDeviceIsIdempotent(t *testing.T) {
	db := testDatabase(t)

	device := &model.Device{UID: "cam-db-register", Name: "Front Door"}
	require.NoError(t, db.RegisterDevice(device))
	require.NoError(t, db.RegisterDevice(device))
}

func TestCleanup(t *testing.T) {
	db := testDatabase(t)
	assert.NoError(t, db.Cleanup(context.Background()))
}
