package parsers

import (
	"context"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

// Topic: tns1:AudioAnalytics/Audio/DetectedSound
func parseDetectedSound(_ context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event {
	value, ok := msg.Message.Data.First()
	if !ok {
		return nil
	}
	audioSource := msg.Message.Source.Value("AudioSourceConfigurationToken")
	audioAnalytics := msg.Message.Source.Value("AudioAnalyticsConfigurationToken")
	rule := msg.Message.Source.Value("Rule")
	return &model.Event{
		UID:           eventUID(deviceUID, msg.Topic, audioSource, audioAnalytics, rule),
		Name:          "Detected Sound",
		Platform:      model.PlatformBinarySensor,
		DeviceClass:   model.DeviceClassSound,
		Value:         value == "true",
		EntityEnabled: true,
	}
}

func init() {
	register(parseDetectedSound, "tns1:AudioAnalytics/Audio/DetectedSound")
}
