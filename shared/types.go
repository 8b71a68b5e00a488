package shared

import "time"

type ClientConfig struct {
	API     APIConfig     `mapstructure:"api"`
	Notices NoticesConfig `mapstructure:"notices"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

type APIConfig struct {
	URL     string        `mapstructure:"url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type NoticesConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type WatchConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}
