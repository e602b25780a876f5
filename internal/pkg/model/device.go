package model

import (
	"strings"

	"github.com/gosimple/slug"
)

// Device identifies the camera a notification originated from.
type Device struct {
	UID          string
	Name         string
	Model        string
	Manufacturer string
}

// SlugIdentifier is the stable identifier used in MQTT topics, NATS subjects
// and the events table.
func (d Device) SlugIdentifier() string {
	base := d.UID
	if d.Model != "" {
		base = strings.Replace(d.Model, ".", "", -1) + "_" + d.UID
	}
	return strings.Replace(slug.Make(base), "-", "_", -1)
}
