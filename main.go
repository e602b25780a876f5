package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/onvif-integration/cmd"
)

func main() {
	app := &cli.App{
		Name:   "onvif-bridge",
		Usage:  "bridges ONVIF camera event notifications to MQTT, Postgres and NATS",
		Action: cmd.BridgeCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mqtt-host",
				EnvVars: []string{"MQTT_HOST"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "mqtt-user",
				EnvVars: []string{"MQTT_USER"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "mqtt-pass",
				EnvVars: []string{"MQTT_PASS"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "mqtt-discovery-prefix",
				EnvVars: []string{"MQTT_DISCOVERY_PREFIX"},
				Value:   "homeassistant",
			},
			&cli.StringFlag{
				Name:    "nats-url",
				EnvVars: []string{"NATS_URL"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:     "database-url",
				EnvVars:  []string{"DATABASE_URL"},
				Value:    "",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "migrations-folder",
				EnvVars: []string{"MIGRATIONS_FOLDER"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "http-addr",
				EnvVars: []string{"HTTP_ADDR"},
				Value:   "0.0.0.0:8000",
			},
			&cli.StringFlag{
				Name:    "api-password-hash",
				EnvVars: []string{"API_PASSWORD_HASH"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "jwt-secret",
				EnvVars: []string{"JWT_SECRET"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "INFO",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
