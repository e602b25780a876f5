// Package bridge dispatches incoming camera notifications through the parser
// registry and forwards the resulting events to the publisher layer.
package bridge

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
	"github.com/anicoll/onvif-integration/internal/pkg/parsers"
)

type eventSink interface {
	PublishEvents(ctx context.Context, device model.Device, events []model.Event) error
	RegisterDevice(device *model.Device) error
}

type broadcaster interface {
	BroadcastEvent(device model.Device, event model.Event)
}

type Bridge struct {
	logger *zap.Logger
	sink   eventSink
	hub    broadcaster
	seen   sync.Map
}

// New wires the dispatcher to its sink. hub may be nil when no websocket
// stream is running.
func New(sink eventSink, hub broadcaster) *Bridge {
	return &Bridge{
		logger: zap.L(),
		sink:   sink,
		hub:    hub,
	}
}

// Handle parses every notification in msgs and forwards what survives.
// Unknown topics and unparseable notifications are counted and skipped; the
// only error surface is the sink itself. Safe for concurrent callers.
func (b *Bridge) Handle(ctx context.Context, device model.Device, msgs []model.NotificationMessage) error {
	if _, loaded := b.seen.LoadOrStore(device.UID, struct{}{}); !loaded {
		if err := b.sink.RegisterDevice(&device); err != nil {
			b.logger.Error("failed to register device", zap.String("device", device.UID), zap.Error(err))
		}
	}

	events := make([]model.Event, 0, len(msgs))
	for i := range msgs {
		msg := &msgs[i]
		parser, ok := parsers.Lookup(msg.Topic)
		if !ok {
			unknownTopics.Inc()
			b.logger.Debug("no parser for topic", zap.String("topic", msg.Topic), zap.String("device", device.UID))
			continue
		}
		event := parser(ctx, device.UID, msg)
		if event == nil {
			unparsableEvents.Inc()
			b.logger.Debug("unparseable notification", zap.String("topic", msg.Topic), zap.String("device", device.UID))
			continue
		}
		parsedEvents.WithLabelValues(msg.Topic).Inc()
		events = append(events, *event)
	}

	if len(events) == 0 {
		return nil
	}
	if b.hub != nil {
		for _, event := range events {
			b.hub.BroadcastEvent(device, event)
		}
	}
	return b.sink.PublishEvents(ctx, device, events)
}
