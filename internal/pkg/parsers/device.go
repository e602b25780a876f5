package parsers

import (
	"context"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

// Topic: tns1:Device/Trigger/DigitalInput
func parseDigitalInput(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	source, ok := msg.Message.Source.First()
	if !ok {
		return nil
	}
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	return &model.Event{
		UID:           eventUID(deviceUID, msg.Topic, source),
		Name:          "Digital Input",
		Platform:      model.PlatformBinarySensor,
		Value:         value == "true",
		EntityEnabled: true,
	}
}

// Topic: tns1:Device/Trigger/Relay
//
// Relay outputs report "active"/"inactive", not "true"/"false".
func parseRelay(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	source, ok := msg.Message.Source.First()
	if !ok {
		return nil
	}
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	return &model.Event{
		UID:           eventUID(deviceUID, msg.Topic, source),
		Name:          "Relay Triggered",
		Platform:      model.PlatformBinarySensor,
		Value:         value == "active",
		EntityEnabled: true,
	}
}

// Topic: tns1:Device/HardwareFailure/StorageFailure
func parseStorageFailure(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	source, ok := msg.Message.Source.First()
	if !ok {
		return nil
	}
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	return &model.Event{
		UID:            eventUID(deviceUID, msg.Topic, source),
		Name:           "Storage Failure",
		Platform:       model.PlatformBinarySensor,
		DeviceClass:    model.DeviceClassProblem,
		Value:          value == "true",
		EntityCategory: model.EntityCategoryDiagnostic,
		EntityEnabled:  true,
	}
}

// Topic: tns1:RecordingConfig/JobState
func parseRecordingJobState(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	source, ok := msg.Message.Source.First()
	if !ok {
		return nil
	}
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	return &model.Event{
		UID:            eventUID(deviceUID, msg.Topic, source),
		Name:           "Recording Job State",
		Platform:       model.PlatformBinarySensor,
		Value:          value == "Active",
		EntityCategory: model.EntityCategoryDiagnostic,
		EntityEnabled:  true,
	}
}

func init() {
	register(parseDigitalInput, "tns1:Device/Trigger/DigitalInput")
	register(parseRelay, "tns1:Device/Trigger/Relay")
	register(parseStorageFailure, "tns1:Device/HardwareFailure/StorageFailure")
	register(parseRecordingJobState, "tns1:RecordingConfig/JobState")
}
