package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

// entitySlug renders an event UID into an MQTT-safe topic fragment.
func entitySlug(uid string) string {
	return strings.Replace(slug.Make(uid), "-", "_", -1)
}

func (s *service) PublishEvents(ctx context.Context, device model.Device, events []model.Event) error {
	for _, event := range events {
		if err := s.configureEntity(device, event); err != nil {
			return err
		}
		if err := s.publishState(ctx, device, event); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) RegisterDevice(device *model.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.configuredDevices[device.UID]; exists {
		return nil
	}
	s.configuredDevices[device.UID] = struct{}{}
	return nil
}

// configureEntity publishes the retained Home Assistant discovery document
// the first time an entity UID is seen. The lock is held across the publish
// so one notify request configures each entity exactly once.
func (s *service) configureEntity(device model.Device, event model.Event) error {
	entity := entitySlug(event.UID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.configuredEntities[entity]; exists {
		return nil
	}

	base := fmt.Sprintf("%s/%s/%s", s.discoveryPrefix, event.Platform, entity)
	payload, err := json.Marshal(model.DiscoveryMessage{
		Tilda:          base,
		Name:           event.Name,
		ID:             entity,
		StateTopic:     "~/state",
		DeviceClass:    event.DeviceClass.String(),
		Unit:           event.Unit,
		EntityCategory: event.EntityCategory.String(),
		EnabledDefault: event.EntityEnabled,
		Device: model.DiscoveryDevice{
			Name:         device.Name,
			Identifiers:  []string{device.SlugIdentifier()},
			Model:        device.Model,
			Manufacturer: device.Manufacturer,
		},
	})
	if err != nil {
		return err
	}

	token := s.client.Publish(base+"/config", 1, true, payload)
	if err := token.Error(); err != nil {
		return err
	}
	if res := token.WaitTimeout(time.Second * 5); res {
		s.configuredEntities[entity] = struct{}{}
	}
	return nil
}

func (s *service) publishState(_ context.Context, _ model.Device, event model.Event) error {
	entity := entitySlug(event.UID)
	topic := fmt.Sprintf("%s/%s/%s/state", s.discoveryPrefix, event.Platform, entity)

	publishData := []byte(event.StateString())
	token := s.client.Publish(topic, 0, false, publishData)
	res := token.WaitTimeout(time.Second * 10)
	if res {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return nil
}
