// Package natspub publishes events onto a NATS subject tree for consumers
// outside the Home Assistant world.
package natspub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

const subjectPrefix = "onvif.events"

type service struct {
	nc *nats.Conn
}

func New(url string) (*service, error) {
	nc, err := nats.Connect(url,
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &service{nc: nc}, nil
}

type eventPayload struct {
	Device     string `json:"device"`
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Platform   string `json:"platform"`
	Value      string `json:"value"`
	ObservedAt string `json:"observed_at"`
}

func (s *service) PublishEvents(_ context.Context, device model.Device, events []model.Event) error {
	now := time.Now().Format(time.RFC3339)
	for _, event := range events {
		payload, err := json.Marshal(eventPayload{
			Device:     device.UID,
			UID:        event.UID,
			Name:       event.Name,
			Platform:   event.Platform.String(),
			Value:      event.StateString(),
			ObservedAt: now,
		})
		if err != nil {
			return err
		}
		subject := fmt.Sprintf("%s.%s.%s", subjectPrefix,
			device.SlugIdentifier(),
			strings.Replace(slug.Make(event.Name), "-", "_", -1),
		)
		if err := s.nc.Publish(subject, payload); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) RegisterDevice(_ *model.Device) error {
	return nil
}

func (s *service) Close() error {
	s.nc.Close()
	return nil
}
