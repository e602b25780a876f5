package mqtt

import (
	"errors"
	"sync"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
)

type service struct {
	client          paho_mqtt.Client
	discoveryPrefix string

	// mu guards both maps; publishes arrive from concurrent notify requests.
	mu                 sync.Mutex
	configuredDevices  map[string]struct{}
	configuredEntities map[string]struct{}
}

func New(client paho_mqtt.Client, discoveryPrefix string) *service {
	if discoveryPrefix == "" {
		discoveryPrefix = "homeassistant"
	}
	return &service{
		client:             client,
		discoveryPrefix:    discoveryPrefix,
		configuredDevices:  make(map[string]struct{}),
		configuredEntities: make(map[string]struct{}),
	}
}

func (s *service) Connect() error {
	token := s.client.Connect()
	res := token.WaitTimeout(time.Second * 5)
	if res {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return errors.New("unable to connect in time")
}
