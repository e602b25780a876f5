package parsers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

func notification(topic string, source, data []model.SimpleItem) *model.NotificationMessage {
	return &model.NotificationMessage{
		Topic: topic,
		Message: model.Message{
			Source: model.ItemList{SimpleItems: source},
			Data:   model.ItemList{SimpleItems: data},
		},
	}
}

func item(name, value string) model.SimpleItem {
	return model.SimpleItem{Name: name, Value: value}
}

func TestRegistryCompleteness(t *testing.T) {
	expectedTopics := []string{
		"tns1:VideoSource/MotionAlarm",
		"tns1:VideoSource/ImageTooBlurry/AnalyticsService",
		"tns1:VideoSource/ImageTooBlurry/ImagingService",
		"tns1:VideoSource/ImageTooBlurry/RecordingService",
		"tns1:VideoSource/ImageTooDark/AnalyticsService",
		"tns1:VideoSource/ImageTooDark/ImagingService",
		"tns1:VideoSource/ImageTooDark/RecordingService",
		"tns1:VideoSource/ImageTooBright/AnalyticsService",
		"tns1:VideoSource/ImageTooBright/ImagingService",
		"tns1:VideoSource/ImageTooBright/RecordingService",
		"tns1:VideoSource/GlobalSceneChange/AnalyticsService",
		"tns1:VideoSource/GlobalSceneChange/ImagingService",
		"tns1:VideoSource/GlobalSceneChange/RecordingService",
		"tns1:AudioAnalytics/Audio/DetectedSound",
		"tns1:RuleEngine/FieldDetector/ObjectsInside",
		"tns1:RuleEngine/CellMotionDetector/Motion",
		"tns1:RuleEngine/MotionRegionDetector/Motion",
		"tns1:RuleEngine/TamperDetector/Tamper",
		"tns1:RuleEngine/MyRuleDetector/DogCatDetect",
		"tns1:RuleEngine/MyRuleDetector/VehicleDetect",
		"tns1:RuleEngine/MyRuleDetector/PeopleDetect",
		"tns1:RuleEngine/MyRuleDetector/FaceDetect",
		"tns1:RuleEngine/MyRuleDetector/Visitor",
		"tns1:Device/Trigger/DigitalInput",
		"tns1:Device/Trigger/Relay",
		"tns1:Device/HardwareFailure/StorageFailure",
		"tns1:Monitoring/ProcessorUsage",
		"tns1:Monitoring/OperatingTime/LastReboot",
		"tns1:Monitoring/OperatingTime/LastReset",
		"tns1:Monitoring/Backup/Last",
		"tns1:Monitoring/OperatingTime/LastClockSynchronization",
		"tns1:RecordingConfig/JobState",
		"tns1:RuleEngine/LineDetector/Crossed",
		"tns1:RuleEngine/CountAggregation/Counter",
	}
	for _, topic := range expectedTopics {
		parser, ok := Lookup(topic)
		assert.True(t, ok, "no parser registered for %s", topic)
		assert.NotNil(t, parser, topic)
	}
	assert.ElementsMatch(t, expectedTopics, Topics())
	_, ok := Lookup("tns1:VideoSource/MotionAlarm/")
	assert.False(t, ok, "lookup must be exact-match only")
}

func TestMissingAnchorYieldsNil(t *testing.T) {
	ctx := context.Background()
	for _, topic := range Topics() {
		parser, ok := Lookup(topic)
		require.True(t, ok)
		// Empty Source and Data lists: every parser reads at least one
		// positional anchor and must bail out without panicking.
		event := parser(ctx, "cam1", notification(topic, nil, nil))
		assert.Nil(t, event, "topic %s should drop an anchorless notification", topic)
	}
}

func TestMotionAlarm(t *testing.T) {
	msg := notification("tns1:VideoSource/MotionAlarm",
		[]model.SimpleItem{item("VideoSourceToken", "VideoSource_1")},
		[]model.SimpleItem{item("State", "true")},
	)
	parser, _ := Lookup("tns1:VideoSource/MotionAlarm")
	event := parser(context.Background(), "cam1", msg)
	require.NotNil(t, event)
	assert.Equal(t, "cam1_tns1:VideoSource/MotionAlarm_VideoSource_1", event.UID)
	assert.Equal(t, "Motion Alarm", event.Name)
	assert.Equal(t, model.PlatformBinarySensor, event.Platform)
	assert.Equal(t, model.DeviceClassMotion, event.DeviceClass)
	assert.Equal(t, true, event.Value)
	assert.True(t, event.EntityEnabled)

	msg.Message.Data.SimpleItems[0].Value = "false"
	event = parser(context.Background(), "cam1", msg)
	require.NotNil(t, event)
	assert.Equal(t, false, event.Value)
}

func TestVideoSourceNormalization(t *testing.T) {
	parser, _ := Lookup("tns1:RuleEngine/CellMotionDetector/Motion")
	msg := notification("tns1:RuleEngine/CellMotionDetector/Motion",
		[]model.SimpleItem{
			item("VideoSourceConfigurationToken", "vsconf"),
			item("VideoAnalyticsConfigurationToken", "VideoAnalytics_1"),
			item("Rule", "MyMotionDetectorRule"),
		},
		[]model.SimpleItem{item("IsMotion", "true")},
	)
	event := parser(context.Background(), "cam1", msg)
	require.NotNil(t, event)
	assert.Contains(t, event.UID, "VideoSourceToken")
	assert.NotContains(t, event.UID, "vsconf")

	msg.Message.Source.SimpleItems[0].Value = "VideoSource_2"
	event = parser(context.Background(), "cam1", msg)
	require.NotNil(t, event)
	assert.Contains(t, event.UID, "VideoSource_2")
}

func TestLineDetectorSkipsNormalization(t *testing.T) {
	parser, _ := Lookup("tns1:RuleEngine/LineDetector/Crossed")
	msg := notification("tns1:RuleEngine/LineDetector/Crossed",
		[]model.SimpleItem{
			item("VideoSourceConfigurationToken", "vsconf"),
			item("VideoAnalyticsConfigurationToken", "VideoAnalytics_1"),
			item("Rule", "MyLine"),
		},
		[]model.SimpleItem{item("Count", "12")},
	)
	event := parser(context.Background(), "cam1", msg)
	require.NotNil(t, event)
	assert.Contains(t, event.UID, "vsconf")
	assert.Equal(t, "12", event.Value)
	assert.Equal(t, model.PlatformSensor, event.Platform)
}

func TestProcessorUsageRescaling(t *testing.T) {
	parser, _ := Lookup("tns1:Monitoring/ProcessorUsage")
	tests := []struct {
		raw  string
		want int
	}{
		{raw: "0.42", want: 42},
		{raw: "77", want: 77},
		{raw: "1", want: 100},
		{raw: "0", want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			msg := notification("tns1:Monitoring/ProcessorUsage",
				[]model.SimpleItem{item("Token", "Processor_1")},
				[]model.SimpleItem{item("Value", tc.raw)},
			)
			event := parser(context.Background(), "cam1", msg)
			require.NotNil(t, event)
			assert.Equal(t, tc.want, event.Value)
			assert.Equal(t, "percent", event.Unit)
		})
	}

	msg := notification("tns1:Monitoring/ProcessorUsage",
		nil,
		[]model.SimpleItem{item("Value", "not-a-number")},
	)
	assert.Nil(t, parser(context.Background(), "cam1", msg))
}

func TestBooleanCoercionPerTopic(t *testing.T) {
	tests := []struct {
		name   string
		topic  string
		source []model.SimpleItem
		raw    string
		want   bool
	}{
		{
			name:   "relay requires active",
			topic:  "tns1:Device/Trigger/Relay",
			source: []model.SimpleItem{item("RelayToken", "Relay_1")},
			raw:    "active",
			want:   true,
		},
		{
			name:   "relay rejects true",
			topic:  "tns1:Device/Trigger/Relay",
			source: []model.SimpleItem{item("RelayToken", "Relay_1")},
			raw:    "true",
			want:   false,
		},
		{
			name:   "motion region accepts 1",
			topic:  "tns1:RuleEngine/MotionRegionDetector/Motion",
			source: []model.SimpleItem{item("VideoSourceConfigurationToken", "VideoSource_1")},
			raw:    "1",
			want:   true,
		},
		{
			name:   "motion region accepts true",
			topic:  "tns1:RuleEngine/MotionRegionDetector/Motion",
			source: []model.SimpleItem{item("VideoSourceConfigurationToken", "VideoSource_1")},
			raw:    "true",
			want:   true,
		},
		{
			name:   "motion region rejects active",
			topic:  "tns1:RuleEngine/MotionRegionDetector/Motion",
			source: []model.SimpleItem{item("VideoSourceConfigurationToken", "VideoSource_1")},
			raw:    "active",
			want:   false,
		},
		{
			name:   "tamper uses true",
			topic:  "tns1:RuleEngine/TamperDetector/Tamper",
			source: []model.SimpleItem{item("VideoSourceConfigurationToken", "VideoSource_1")},
			raw:    "true",
			want:   true,
		},
		{
			name:   "recording job state uses Active",
			topic:  "tns1:RecordingConfig/JobState",
			source: []model.SimpleItem{item("RecordingJobToken", "Job_1")},
			raw:    "Active",
			want:   true,
		},
		{
			name:   "recording job state rejects lowercase active",
			topic:  "tns1:RecordingConfig/JobState",
			source: []model.SimpleItem{item("RecordingJobToken", "Job_1")},
			raw:    "active",
			want:   false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parser, ok := Lookup(tc.topic)
			require.True(t, ok)
			msg := notification(tc.topic, tc.source, []model.SimpleItem{item("State", tc.raw)})
			event := parser(context.Background(), "cam1", msg)
			require.NotNil(t, event)
			assert.Equal(t, tc.want, event.Value)
		})
	}
}

func TestLastRebootInvalidTimestamp(t *testing.T) {
	parser, _ := Lookup("tns1:Monitoring/OperatingTime/LastReboot")
	// Hikvision-style sentinel: the event must still surface, value nil.
	msg := notification("tns1:Monitoring/OperatingTime/LastReboot",
		nil,
		[]model.SimpleItem{item("Status", "0000-00-00T00:00:00Z")},
	)
	event := parser(context.Background(), "cam1", msg)
	require.NotNil(t, event)
	assert.Nil(t, event.Value.(*time.Time))
	assert.Equal(t, model.DeviceClassTimestamp, event.DeviceClass)
	assert.True(t, event.EntityEnabled)
}

func TestLastRebootValidTimestamp(t *testing.T) {
	parser, _ := Lookup("tns1:Monitoring/OperatingTime/LastReboot")
	msg := notification("tns1:Monitoring/OperatingTime/LastReboot",
		nil,
		[]model.SimpleItem{item("Status", "2024-03-01T10:30:00Z")},
	)
	event := parser(context.Background(), "cam1", msg)
	require.NotNil(t, event)
	ts := event.Value.(*time.Time)
	require.NotNil(t, ts)
	assert.True(t, ts.Equal(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
}

func TestTimestampSensorsDisabledByDefault(t *testing.T) {
	disabled := []string{
		"tns1:Monitoring/OperatingTime/LastReset",
		"tns1:Monitoring/Backup/Last",
		"tns1:Monitoring/OperatingTime/LastClockSynchronization",
	}
	for _, topic := range disabled {
		parser, _ := Lookup(topic)
		msg := notification(topic, nil, []model.SimpleItem{item("Status", "2024-03-01T10:30:00Z")})
		event := parser(context.Background(), "cam1", msg)
		require.NotNil(t, event, topic)
		assert.False(t, event.EntityEnabled, topic)
	}
}

func TestUIDDeterminism(t *testing.T) {
	parser, _ := Lookup("tns1:RuleEngine/CellMotionDetector/Motion")
	build := func(rule string) *model.NotificationMessage {
		return notification("tns1:RuleEngine/CellMotionDetector/Motion",
			[]model.SimpleItem{
				item("VideoSourceConfigurationToken", "VideoSource_1"),
				item("VideoAnalyticsConfigurationToken", "VideoAnalytics_1"),
				item("Rule", rule),
			},
			[]model.SimpleItem{item("IsMotion", "true")},
		)
	}

	first := parser(context.Background(), "cam1", build("RuleA"))
	second := parser(context.Background(), "cam1", build("RuleA"))
	other := parser(context.Background(), "cam1", build("RuleB"))
	require.NotNil(t, first)
	require.NotNil(t, second)
	require.NotNil(t, other)
	assert.Equal(t, first.UID, second.UID)
	assert.NotEqual(t, first.UID, other.UID)
}

func TestDetectedSoundDiscriminators(t *testing.T) {
	parser, _ := Lookup("tns1:AudioAnalytics/Audio/DetectedSound")
	msg := notification("tns1:AudioAnalytics/Audio/DetectedSound",
		[]model.SimpleItem{
			item("AudioSourceConfigurationToken", "AudioSource_1"),
			item("AudioAnalyticsConfigurationToken", "AudioAnalytics_1"),
			item("Rule", "DetectSound"),
		},
		[]model.SimpleItem{item("IsSoundDetected", "true")},
	)
	event := parser(context.Background(), "cam1", msg)
	require.NotNil(t, event)
	assert.Equal(t, model.DeviceClassSound, event.DeviceClass)
	assert.Contains(t, event.UID, "AudioSource_1")
	assert.Contains(t, event.UID, "AudioAnalytics_1")
	assert.Contains(t, event.UID, "DetectSound")
}

func TestMyRuleDetectorSourceItem(t *testing.T) {
	parser, _ := Lookup("tns1:RuleEngine/MyRuleDetector/PeopleDetect")
	msg := notification("tns1:RuleEngine/MyRuleDetector/PeopleDetect",
		[]model.SimpleItem{item("Source", "vsconf")},
		[]model.SimpleItem{item("State", "true")},
	)
	event := parser(context.Background(), "cam1", msg)
	require.NotNil(t, event)
	assert.Equal(t, "Person Detection", event.Name)
	assert.Contains(t, event.UID, "VideoSourceToken")
	assert.Equal(t, true, event.Value)
}

func TestVisitorIsOccupancy(t *testing.T) {
	parser, _ := Lookup("tns1:RuleEngine/MyRuleDetector/Visitor")
	msg := notification("tns1:RuleEngine/MyRuleDetector/Visitor",
		[]model.SimpleItem{item("Source", "VideoSource_1")},
		[]model.SimpleItem{item("State", "true")},
	)
	event := parser(context.Background(), "cam1", msg)
	require.NotNil(t, event)
	assert.Equal(t, model.DeviceClassOccupancy, event.DeviceClass)
}
