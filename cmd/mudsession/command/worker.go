package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-mudsession/internal/channels"
	"github.com/pixil98/go-mudsession/internal/driver"
	"github.com/pixil98/go-mudsession/internal/listener"
	"github.com/pixil98/go-mudsession/internal/rooms"
	"github.com/pixil98/go-mudsession/internal/session"
	"github.com/pixil98/go-mudsession/internal/skills"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Messaging backbone. Every cross-session announcement rides on it.
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Asset stores
	saves, err := cfg.Storage.Saves.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating save store: %w", err)
	}
	skillStore, err := cfg.Storage.Skills.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating skill store: %w", err)
	}
	roomStore, err := cfg.Storage.Rooms.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating room store: %w", err)
	}

	// Game services
	engine := skills.NewEngine(skillStore)
	registry := rooms.NewRegistry(roomStore, natsServer)
	bus := channels.NewBus(natsServer, cfg.Sessions.Channels)

	manager := session.NewManager(
		engine,
		bus,
		registry,
		registry,
		natsServer,
		saves,
		cfg.Sessions.DefaultRoom,
		cfg.Sessions.StarterSkills,
		cfg.Sessions.idleTimeout(),
	)

	// Listeners
	cm := listener.NewConnectionManager(manager)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lw, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lw
	}

	var driverOpts []driver.MudDriverOpt
	if cfg.TickInterval != "" {
		d, err := time.ParseDuration(cfg.TickInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing tick_interval: %w", err)
		}
		driverOpts = append(driverOpts, driver.WithTickLength(d))
	}

	return service.WorkerList{
		"driver":    driver.NewMudDriver([]driver.Manager{manager}, driverOpts...),
		"listeners": &listeners,
		"messaging": natsServer,
		"sessions":  manager,
	}, nil
}
