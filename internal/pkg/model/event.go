package model

import (
	"fmt"
	"strconv"
	"time"
)

type Platform string

func (p Platform) String() string {
	return string(p)
}

const (
	PlatformBinarySensor Platform = "binary_sensor"
	PlatformSensor       Platform = "sensor"
)

type DeviceClass string

func (dc DeviceClass) String() string {
	return string(dc)
}

const (
	DeviceClassMotion    DeviceClass = "motion"
	DeviceClassProblem   DeviceClass = "problem"
	DeviceClassSound     DeviceClass = "sound"
	DeviceClassOccupancy DeviceClass = "occupancy"
	DeviceClassTimestamp DeviceClass = "timestamp"
)

type EntityCategory string

func (ec EntityCategory) String() string {
	return string(ec)
}

const EntityCategoryDiagnostic EntityCategory = "diagnostic"

// Event is a normalized camera notification. It is constructed once per
// incoming notification and handed to the publisher layer; nothing mutates it
// afterwards.
type Event struct {
	// UID is derived from the device uid, the notification topic and the
	// discriminator tokens read out of the message. Repeated notifications
	// from the same physical source/rule combination produce the same UID.
	UID            string
	Name           string
	Platform       Platform
	DeviceClass    DeviceClass
	Unit           string
	Value          any // bool, int, string or *time.Time depending on the parser.
	EntityCategory EntityCategory
	EntityEnabled  bool
}

// StateString renders Value for wire payloads (MQTT state, NATS, websocket).
func (e Event) StateString() string {
	switch v := e.Value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "on"
		}
		return "off"
	case int:
		return strconv.Itoa(v)
	case string:
		return v
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
