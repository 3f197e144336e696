package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env-default:"info"`
	TCPPort  string `yaml:"tcp-port" env-default:"9999"`
	HTTPPort string `yaml:"http-port" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Room     Room   `yaml:"room"`
}

type Redis struct {
	// An empty host disables the game archive entirely.
	Host string `yaml:"host" env-default:""`
	Port string `yaml:"port" env-default:"6379"`
}

type Room struct {
	PollIntervalMS  int `yaml:"poll-interval-ms" env-default:"500"`
	WriteGapMS      int `yaml:"write-gap-ms" env-default:"20"`
	DrainDelayMS    int `yaml:"drain-delay-ms" env-default:"1000"`
	IdleTTLSec      int `yaml:"idle-ttl-sec" env-default:"600"`
	ReapIntervalSec int `yaml:"reap-interval-sec" env-default:"60"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Room) PollInterval() time.Duration {
	return time.Duration(that.PollIntervalMS) * time.Millisecond
}

func (that *Room) WriteGap() time.Duration {
	return time.Duration(that.WriteGapMS) * time.Millisecond
}

func (that *Room) DrainDelay() time.Duration {
	return time.Duration(that.DrainDelayMS) * time.Millisecond
}

func (that *Room) IdleTTL() time.Duration {
	return time.Duration(that.IdleTTLSec) * time.Second
}

func (that *Room) ReapInterval() time.Duration {
	return time.Duration(that.ReapIntervalSec) * time.Second
}
