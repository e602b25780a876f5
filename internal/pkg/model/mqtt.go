package model

// Home Assistant MQTT discovery payloads.

type DiscoveryDevice struct {
	Name         string   `json:"name"`
	Identifiers  []string `json:"identifiers"`
	Model        string   `json:"model,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty"`
}

type DiscoveryMessage struct {
	Tilda          string          `json:"~"`
	Name           string          `json:"name"`
	ID             string          `json:"unique_id"`
	StateTopic     string          `json:"state_topic"`
	DeviceClass    string          `json:"device_class,omitempty"`
	Unit           string          `json:"unit_of_measurement,omitempty"`
	EntityCategory string          `json:"entity_category,omitempty"`
	EnabledDefault bool            `json:"enabled_by_default"`
	Device         DiscoveryDevice `json:"device"`
}
