package parsers

import (
	"context"
	"strconv"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

// Topic: tns1:Monitoring/ProcessorUsage
//
// Firmwares disagree on presentation: some report a 0..1 fraction, some an
// already-scaled percentage. Fractions are rescaled before truncation.
func parseProcessorUsage(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	usage, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	if usage <= 1 {
		usage *= 100
	}
	return &model.Event{
		UID:            eventUID(deviceUID, msg.Topic),
		Name:           "Processor Usage",
		Platform:       model.PlatformSensor,
		Unit:           "percent",
		Value:          int(usage),
		EntityCategory: model.EntityCategoryDiagnostic,
		EntityEnabled:  true,
	}
}

func parseOperatingTimestamp(deviceUID string, msg *model.NotificationMessage, name string, enabled bool) *model.Event {
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	// An unparseable timestamp is a benign null value, not a dropped event.
	return &model.Event{
		UID:            eventUID(deviceUID, msg.Topic),
		Name:           name,
		Platform:       model.PlatformSensor,
		DeviceClass:    model.DeviceClassTimestamp,
		Value:          localDatetimeOrNil(value),
		EntityCategory: model.EntityCategoryDiagnostic,
		EntityEnabled:  enabled,
	}
}

// Topic: tns1:Monitoring/OperatingTime/LastReboot
func parseLastReboot(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	return parseOperatingTimestamp(deviceUID, msg, "Last Reboot", true)
}

// Topic: tns1:Monitoring/OperatingTime/LastReset
func parseLastReset(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	return parseOperatingTimestamp(deviceUID, msg, "Last Reset", false)
}

// Topic: tns1:Monitoring/Backup/Last
func parseLastBackup(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	return parseOperatingTimestamp(deviceUID, msg, "Last Backup", false)
}

// Topic: tns1:Monitoring/OperatingTime/LastClockSynchronization
func parseLastClockSync(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	return parseOperatingTimestamp(deviceUID, msg, "Last Clock Synchronization", false)
}

func init() {
	register(parseProcessorUsage, "tns1:Monitoring/ProcessorUsage")
	register(parseLastReboot, "tns1:Monitoring/OperatingTime/LastReboot")
	register(parseLastReset, "tns1:Monitoring/OperatingTime/LastReset")
	register(parseLastBackup, "tns1:Monitoring/Backup/Last")
	register(parseLastClockSync, "tns1:Monitoring/OperatingTime/LastClockSynchronization")
}
