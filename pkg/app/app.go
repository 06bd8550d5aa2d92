package app

import (
	"github.com/sirupsen/logrus"

	"github.com/vibecoden/homeassistant-stats-bridge/pkg/config"
	"github.com/vibecoden/homeassistant-stats-bridge/pkg/dashboard"
	"github.com/vibecoden/homeassistant-stats-bridge/pkg/hastate"
	"github.com/vibecoden/homeassistant-stats-bridge/pkg/homeassistant"
	"github.com/vibecoden/homeassistant-stats-bridge/pkg/host"
	"github.com/vibecoden/homeassistant-stats-bridge/pkg/mqtt"
	"github.com/vibecoden/homeassistant-stats-bridge/pkg/stats"
)

type Application struct {
	config   *config.Config
	logger   *logrus.Logger
	version  string
	services *ServiceManager
}

func NewApplication(cfg *config.Config, logger *logrus.Logger, version string) *Application {
	return &Application{
		config:   cfg,
		logger:   logger,
		version:  version,
		services: NewServiceManager(logger),
	}
}

func (app *Application) Initialize() error {
	app.logger.Info("Initializing application components...")

	bridgeAvailabilityTopic := homeassistant.GenerateBridgeAvailabilityTopic(&app.config.HomeAssistant)

	mqttClient, err := mqtt.NewClient(
		&app.config.MQTT,
		bridgeAvailabilityTopic,
		app.logger,
	)
	if err != nil {
		return err
	}

	haClient := hastate.NewClient(&app.config.HomeAssistant, app.logger)
	hostReader := host.NewReader(app.logger)

	coordinator := stats.NewCoordinator(
		&app.config.Stats,
		haClient,
		haClient,
		hostReader,
		app.logger,
	)

	integration := homeassistant.NewIntegration(
		mqttClient,
		&app.config.HomeAssistant,
		app.version,
		app.config.Stats.FunStatsEnabled(),
		app.logger,
	)

	// Every refresh attempt flows straight into the MQTT entities
	coordinator.SetOnUpdateCallback(integration.PublishStats)

	app.services.Register("mqtt", mqttClient)
	app.services.Register("homeassistant", integration)
	app.services.Register("coordinator", coordinator)

	if app.config.Dashboard.IsEnabled() {
		dashboardServer, err := dashboard.NewServer(&app.config.Dashboard, haClient, app.logger)
		if err != nil {
			return err
		}
		app.services.Register("dashboard", dashboardServer)
	}

	return nil
}

func (app *Application) Start() error {
	return app.services.StartAll()
}

func (app *Application) Stop() error {
	return app.services.StopAll()
}
