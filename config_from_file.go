package amplitude

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/ghodss/yaml.v1"

	"github.com/amplitude/go-client-sdk/ampcomponents"
)

// fileConfigBody is the schema of a client configuration file. The file may be in YAML or JSON
// format (YAML is a superset of JSON, so both are parsed by the same path).
type fileConfigBody struct {
	APIKey                       string `json:"apiKey"`
	UserID                       string `json:"userId"`
	DeviceID                     string `json:"deviceId"`
	OptOut                       bool   `json:"optOut"`
	StoragePath                  string `json:"storagePath"`
	EventsBaseURI                string `json:"eventsBaseUri"`
	EventUploadThreshold         int    `json:"eventUploadThreshold"`
	EventUploadMaxBatchSize      int    `json:"eventUploadMaxBatchSize"`
	EventMaxCount                int    `json:"eventMaxCount"`
	EventUploadPeriodSeconds     int    `json:"eventUploadPeriodSeconds"`
	MinTimeBetweenSessionsMillis int64  `json:"minTimeBetweenSessionsMillis"`
	TrackingSessionEvents        bool   `json:"trackingSessionEvents"`
}

// ConfigFromFile reads client configuration from a YAML or JSON file, returning the API key and a
// Config ready to pass to MakeCustomClient. Unset fields keep their defaults.
//
//	apiKey, config, err := amplitude.ConfigFromFile("amplitude.yaml")
//	if err != nil { ... }
//	client, err := amplitude.MakeCustomClient(apiKey, config)
func ConfigFromFile(path string) (string, Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", Config{}, fmt.Errorf("unable to read configuration file: %w", err)
	}
	var body fileConfigBody
	if err := yaml.Unmarshal(data, &body); err != nil {
		return "", Config{}, fmt.Errorf("unable to parse configuration file %q: %w", path, err)
	}

	events := ampcomponents.SendEvents()
	if body.EventsBaseURI != "" {
		events.BaseURI(body.EventsBaseURI)
	}
	if body.EventUploadThreshold > 0 {
		events.UploadThreshold(body.EventUploadThreshold)
	}
	if body.EventUploadMaxBatchSize > 0 {
		events.MaxBatchSize(body.EventUploadMaxBatchSize)
	}
	if body.EventMaxCount > 0 {
		events.EventMaxCount(body.EventMaxCount)
	}
	if body.EventUploadPeriodSeconds > 0 {
		events.UploadPeriod(time.Duration(body.EventUploadPeriodSeconds) * time.Second)
	}
	if body.MinTimeBetweenSessionsMillis > 0 {
		events.MinTimeBetweenSessions(time.Duration(body.MinTimeBetweenSessionsMillis) * time.Millisecond)
	}
	events.TrackSessionEvents(body.TrackingSessionEvents)

	config := Config{
		Events:      events,
		UserID:      body.UserID,
		DeviceID:    body.DeviceID,
		OptOut:      body.OptOut,
		StoragePath: body.StoragePath,
	}
	return body.APIKey, config, nil
}
