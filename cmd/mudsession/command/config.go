package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string           `json:"tick_interval"`
	Listeners    []ListenerConfig `json:"listeners"`
	Storage      StorageConfig    `json:"storage"`
	Nats         NatsConfig       `json:"nats"`
	Sessions     SessionConfig    `json:"sessions"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("tick_interval must be at least 1 second"))
		}
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		if err := l.validate(); err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Sessions.validate())

	return el.Err()
}

type SessionConfig struct {
	DefaultRoom   string   `json:"default_room"`
	StarterSkills []string `json:"starter_skills"`
	Channels      []string `json:"channels"`
	IdleTimeout   string   `json:"idle_timeout"`
}

func (c *SessionConfig) validate() error {
	el := errors.NewErrorList()

	if c.DefaultRoom == "" {
		el.Add(fmt.Errorf("default_room is required"))
	}

	if c.IdleTimeout != "" {
		if _, err := time.ParseDuration(c.IdleTimeout); err != nil {
			el.Add(fmt.Errorf("parsing idle_timeout: %w", err))
		}
	}

	for i, ch := range c.Channels {
		if ch == "" {
			el.Add(fmt.Errorf("channel %d: name must not be empty", i))
		}
	}

	return el.Err()
}

func (c *SessionConfig) idleTimeout() time.Duration {
	if c.IdleTimeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.IdleTimeout)
	return d
}
