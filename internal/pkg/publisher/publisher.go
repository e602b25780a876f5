// Package publisher fans parsed events out to the registered adapters (MQTT,
// Postgres, NATS). A process-wide change detector suppresses republication of
// unchanged values so downstream consumers only see transitions.
package publisher

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

var errAlreadyRegistered = errors.New("publisher already registered")

var (
	mu                   sync.Mutex
	registeredPublishers = make(map[string]publisher)
	sensors              sync.Map
)

type publisher interface {
	// PublishEvents delivers normalized events for one device.
	PublishEvents(ctx context.Context, device model.Device, events []model.Event) error
	RegisterDevice(device *model.Device) error
}

func RegisterPublisher(name string, p publisher) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registeredPublishers[name]; ok {
		return errAlreadyRegistered
	}
	registeredPublishers[name] = p
	return nil
}

// PublishEvents drops events whose rendered value matches the last published
// value for the same UID, then broadcasts the remainder to every adapter. An
// adapter failure is logged and skipped; one bad sink must not starve the
// others.
func PublishEvents(ctx context.Context, device model.Device, events []model.Event) error {
	changed := make([]model.Event, 0, len(events))
	for _, event := range events {
		if !shouldUpdate(event.UID, event.StateString()) {
			continue
		}
		changed = append(changed, event)
	}
	if len(changed) == 0 {
		return nil
	}
	for name, p := range registeredPublishers {
		if err := p.PublishEvents(ctx, device, changed); err != nil {
			zap.L().Error("failed to publish events", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("published events", zap.Int("count", len(changed)), zap.String("publisher", name))
	}
	return nil
}

func RegisterDevice(device *model.Device) error {
	for name, p := range registeredPublishers {
		if err := p.RegisterDevice(device); err != nil {
			zap.L().Error("failed to register device", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("registered device", zap.String("device", device.UID), zap.String("publisher", name))
	}
	return nil
}

func shouldUpdate(uid, newValue string) bool {
	oldValue, exists := sensors.Load(uid)
	if exists && oldValue.(string) == newValue {
		return false
	}
	if !exists {
		zap.L().Info("configured sensor", zap.String("uid", uid), zap.String("value", newValue))
	}
	sensors.Store(uid, newValue)
	return true
}
