package config

import "time"

// Config holds every setting the library reads. Zero values are filled from
// defaults during Load.
type Config struct {
	Client ClientConfig `koanf:"client"`
	Poll   PollConfig   `koanf:"poll"`
	Log    LogConfig    `koanf:"log"`
}

// ClientConfig configures the HTTP transport. Username/Password enable basic
// auth when both are set.
type ClientConfig struct {
	URL      string            `koanf:"url" validate:"required,url"`
	Timeout  time.Duration     `koanf:"timeout" validate:"gt=0"`
	Proxy    string            `koanf:"proxy" validate:"omitempty,url"`
	Username string            `koanf:"username"`
	Password string            `koanf:"password" validate:"required_with=Username"`
	Headers  map[string]string `koanf:"headers"`
}

// PollConfig configures the long-request backoff loop.
type PollConfig struct {
	InitialDelay time.Duration `koanf:"initial_delay" validate:"gt=0"`
	MaxDelay     time.Duration `koanf:"max_delay" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}
