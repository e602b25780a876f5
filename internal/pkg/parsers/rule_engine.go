package parsers

import (
	"context"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

// Topic: tns1:RuleEngine/FieldDetector/ObjectsInside
func parseFieldDetector(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	videoSource, videoAnalytics, rule := analyticsTokens(msg, true)
	return &model.Event{
		UID:           eventUID(deviceUID, msg.Topic, videoSource, videoAnalytics, rule),
		Name:          "Field Detection",
		Platform:      model.PlatformBinarySensor,
		DeviceClass:   model.DeviceClassMotion,
		Value:         value == "true",
		EntityEnabled: true,
	}
}

// Topic: tns1:RuleEngine/CellMotionDetector/Motion
func parseCellMotionDetector(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	videoSource, videoAnalytics, rule := analyticsTokens(msg, true)
	return &model.Event{
		UID:           eventUID(deviceUID, msg.Topic, videoSource, videoAnalytics, rule),
		Name:          "Cell Motion Detection",
		Platform:      model.PlatformBinarySensor,
		DeviceClass:   model.DeviceClassMotion,
		Value:         value == "true",
		EntityEnabled: true,
	}
}

// Topic: tns1:RuleEngine/MotionRegionDetector/Motion
//
// Region detectors report "1" or "true" depending on firmware; both mean
// active.
func parseMotionRegionDetector(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	videoSource, videoAnalytics, rule := analyticsTokens(msg, true)
	return &model.Event{
		UID:           eventUID(deviceUID, msg.Topic, videoSource, videoAnalytics, rule),
		Name:          "Motion Region Detection",
		Platform:      model.PlatformBinarySensor,
		DeviceClass:   model.DeviceClassMotion,
		Value:         value == "1" || value == "true",
		EntityEnabled: true,
	}
}

// Topic: tns1:RuleEngine/TamperDetector/Tamper
func parseTamperDetector(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	videoSource, videoAnalytics, rule := analyticsTokens(msg, true)
	return &model.Event{
		UID:            eventUID(deviceUID, msg.Topic, videoSource, videoAnalytics, rule),
		Name:           "Tamper Detection",
		Platform:       model.PlatformBinarySensor,
		DeviceClass:    model.DeviceClassProblem,
		Value:          value == "true",
		EntityCategory: model.EntityCategoryDiagnostic,
		EntityEnabled:  true,
	}
}

// The MyRuleDetector family (Dahua and friends) carries a single "Source"
// item instead of the analytics token triple.
func parseMyRuleDetector(deviceUID string, msg *model.NotificationMessage, name string, deviceClass model.DeviceClass) *model.Event {
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	videoSource := normalizeVideoSource(msg.Message.Source.Value("Source"))
	return &model.Event{
		UID:           eventUID(deviceUID, msg.Topic, videoSource),
		Name:          name,
		Platform:      model.PlatformBinarySensor,
		DeviceClass:   deviceClass,
		Value:         value == "true",
		EntityEnabled: true,
	}
}

// Topic: tns1:RuleEngine/MyRuleDetector/DogCatDetect
func parseDogCatDetector(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	return parseMyRuleDetector(deviceUID, msg, "Pet Detection", model.DeviceClassMotion)
}

// Topic: tns1:RuleEngine/MyRuleDetector/VehicleDetect
func parseVehicleDetector(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	return parseMyRuleDetector(deviceUID, msg, "Vehicle Detection", model.DeviceClassMotion)
}

// Topic: tns1:RuleEngine/MyRuleDetector/PeopleDetect
func parsePersonDetector(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	return parseMyRuleDetector(deviceUID, msg, "Person Detection", model.DeviceClassMotion)
}

// Topic: tns1:RuleEngine/MyRuleDetector/FaceDetect
func parseFaceDetector(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	return parseMyRuleDetector(deviceUID, msg, "Face Detection", model.DeviceClassMotion)
}

// Topic: tns1:RuleEngine/MyRuleDetector/Visitor
func parseVisitorDetector(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	return parseMyRuleDetector(deviceUID, msg, "Visitor Detection", model.DeviceClassOccupancy)
}

// Topic: tns1:RuleEngine/LineDetector/Crossed
//
// The crossing counter keeps the raw source token: normalizing here would
// change established entity keys.
func parseLineDetectorCrossed(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	videoSource, videoAnalytics, rule := analyticsTokens(msg, false)
	return &model.Event{
		UID:            eventUID(deviceUID, msg.Topic, videoSource, videoAnalytics, rule),
		Name:           "Line Detector Crossed",
		Platform:       model.PlatformSensor,
		Value:          value,
		EntityCategory: model.EntityCategoryDiagnostic,
		EntityEnabled:  true,
	}
}

// Topic: tns1:RuleEngine/CountAggregation/Counter
func parseCountAggregationCounter(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	videoSource, videoAnalytics, rule := analyticsTokens(msg, true)
	return &model.Event{
		UID:            eventUID(deviceUID, msg.Topic, videoSource, videoAnalytics, rule),
		Name:           "Count Aggregation Counter",
		Platform:       model.PlatformSensor,
		Value:          value,
		EntityCategory: model.EntityCategoryDiagnostic,
		EntityEnabled:  true,
	}
}

func init() {
	register(parseFieldDetector, "tns1:RuleEngine/FieldDetector/ObjectsInside")
	register(parseCellMotionDetector, "tns1:RuleEngine/CellMotionDetector/Motion")
	register(parseMotionRegionDetector, "tns1:RuleEngine/MotionRegionDetector/Motion")
	register(parseTamperDetector, "tns1:RuleEngine/TamperDetector/Tamper")
	register(parseDogCatDetector, "tns1:RuleEngine/MyRuleDetector/DogCatDetect")
	register(parseVehicleDetector, "tns1:RuleEngine/MyRuleDetector/VehicleDetect")
	register(parsePersonDetector, "tns1:RuleEngine/MyRuleDetector/PeopleDetect")
	register(parseFaceDetector, "tns1:RuleEngine/MyRuleDetector/FaceDetect")
	register(parseVisitorDetector, "tns1:RuleEngine/MyRuleDetector/Visitor")
	register(parseLineDetectorCrossed, "tns1:RuleEngine/LineDetector/Crossed")
	register(parseCountAggregationCounter, "tns1:RuleEngine/CountAggregation/Counter")
}
