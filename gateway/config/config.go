package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/sharemart/sharing-service/pkg/kafka"
	"github.com/sharemart/sharing-service/pkg/logger"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"GATEWAY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"GATEWAY_HTTP_PORT" default:"8081"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE" default:"10s"`
}

// SharingHTTPServer locates the core sharing server the gateway fronts.
type SharingHTTPServer struct {
	Host string `envconfig:"SERVER_HTTP_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_HTTP_PORT" default:"8080"`
}

type Config struct {
	Server            HTTPServer `yaml:"server"`
	Kafka             kafka.Config
	SharingHTTPServer SharingHTTPServer
	Log               logger.Log `yaml:"log"`
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
