// Package parsers translates ONVIF event notifications into normalized
// model.Event values. Each supported topic maps to one parser; several
// service-variant topics share a parser. Parsers are pure and best-effort: a
// notification whose shape does not match yields a nil Event, never an error.
package parsers

import (
	"context"
	"strings"
	"time"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

// Parser extracts an Event from one notification. A nil return means the
// notification is not parseable (missing anchor field, malformed shape); the
// dispatch loop drops it and moves on.
type Parser func(ctx context.Context, deviceUID string, msg *model.NotificationMessage) *model.Event

var registry = map[string]Parser{}

// register wires a parser to one or more topic keys. All registrations happen
// in package init functions; the registry is read-only afterwards.
func register(parser Parser, topics ...string) {
	for _, topic := range topics {
		registry[topic] = parser
	}
}

// Lookup returns the parser for an exact topic string. No wildcard or prefix
// matching.
func Lookup(topic string) (Parser, bool) {
	p, ok := registry[topic]
	return p, ok
}

// Topics lists every registered topic key.
func Topics() []string {
	topics := make([]string, 0, len(registry))
	for topic := range registry {
		topics = append(topics, topic)
	}
	return topics
}

// Some cameras do not set the VideoSourceToken correctly, which would fan out
// into duplicate entities downstream. Known-bad spellings map to the
// canonical token.
var videoSourceMapping = map[string]string{
	"vsconf": "VideoSourceToken",
}

func normalizeVideoSource(source string) string {
	if canonical, ok := videoSourceMapping[source]; ok {
		return canonical
	}
	return source
}

// eventUID builds the deterministic entity key: device uid, topic, then the
// discriminator tokens read from the message, joined by underscores.
func eventUID(deviceUID, topic string, discriminators ...string) string {
	parts := append([]string{deviceUID, topic}, discriminators...)
	return strings.Join(parts, "_")
}

// localDatetimeOrNil parses a camera-reported timestamp, converting valid
// results to local time. Some firmwares report sentinel values like
// "0000-00-00T00:00:00Z"; those come back nil rather than failing the event.
func localDatetimeOrNil(value string) *time.Time {
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			local := ts.Local()
			return &local
		}
	}
	return nil
}

// analyticsTokens reads the rule-engine discriminator triple out of Source.
// Absent names default to empty strings; the anchor check stays with the
// caller.
func analyticsTokens(msg *model.NotificationMessage, normalize bool) (videoSource, videoAnalytics, rule string) {
	for _, item := range msg.Message.Source.SimpleItems {
		switch item.Name {
		case "VideoSourceConfigurationToken":
			if normalize {
				videoSource = normalizeVideoSource(item.Value)
			} else {
				videoSource = item.Value
			}
		case "VideoAnalyticsConfigurationToken":
			videoAnalytics = item.Value
		case "Rule":
			rule = item.Value
		}
	}
	return videoSource, videoAnalytics, rule
}
