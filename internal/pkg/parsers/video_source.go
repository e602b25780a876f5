package parsers

import (
	"context"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

// Topic: tns1:VideoSource/MotionAlarm
func parseMotionAlarm(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
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
		Name:          "Motion Alarm",
		Platform:      model.PlatformBinarySensor,
		DeviceClass:   model.DeviceClassMotion,
		Value:         value == "true",
		EntityEnabled: true,
	}
}

// Topic: tns1:VideoSource/ImageTooBlurry/*
func parseImageTooBlurry(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	return parseImagingProblem(deviceUID, msg, "Image Too Blurry")
}

// Topic: tns1:VideoSource/ImageTooDark/*
func parseImageTooDark(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	return parseImagingProblem(deviceUID, msg, "Image Too Dark")
}

// Topic: tns1:VideoSource/ImageTooBright/*
func parseImageTooBright(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	return parseImagingProblem(deviceUID, msg, "Image Too Bright")
}

func parseImagingProblem(deviceUID string, msg *model.NotificationMessage, name string) *model.Event {
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
		Name:           name,
		Platform:       model.PlatformBinarySensor,
		DeviceClass:    model.DeviceClassProblem,
		Value:          value == "true",
		EntityCategory: model.EntityCategoryDiagnostic,
		EntityEnabled:  true,
	}
}

// Topic: tns1:VideoSource/GlobalSceneChange/*
func parseSceneChange(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
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
		Name:          "Global Scene Change",
		Platform:      model.PlatformBinarySensor,
		DeviceClass:   model.DeviceClassProblem,
		Value:         value == "true",
		EntityEnabled: true,
	}
}

func init() {
	register(parseMotionAlarm, "tns1:VideoSource/MotionAlarm")
	register(parseImageTooBlurry,
		"tns1:VideoSource/ImageTooBlurry/AnalyticsService",
		"tns1:VideoSource/ImageTooBlurry/ImagingService",
		"tns1:VideoSource/ImageTooBlurry/RecordingService",
	)
	register(parseImageTooDark,
		"tns1:VideoSource/ImageTooDark/AnalyticsService",
		"tns1:VideoSource/ImageTooDark/ImagingService",
		"tns1:VideoSource/ImageTooDark/RecordingService",
	)
	register(parseImageTooBright,
		"tns1:VideoSource/ImageTooBright/AnalyticsService",
		"tns1:VideoSource/ImageTooBright/ImagingService",
		"tns1:VideoSource/ImageTooBright/RecordingService",
	)
	register(parseSceneChange,
		"tns1:VideoSource/GlobalSceneChange/AnalyticsService",
		"tns1:VideoSource/GlobalSceneChange/ImagingService",
		"tns1:VideoSource/GlobalSceneChange/RecordingService",
	)
}
