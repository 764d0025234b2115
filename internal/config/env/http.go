package env

import (
	"casino_engine/internal/config"
	"net"
	"os"
)

const (
	hostEnvName = "HTTP_HOST"
	portEnvName = "HTTP_PORT"
)

type httpConfig struct {
	host string
	port string
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	port := os.Getenv(portEnvName)
	if len(port) == 0 {
		port = "8080"
	}

	return &httpConfig{
		host: os.Getenv(hostEnvName),
		port: port,
	}, nil
}

func (cfg *httpConfig) Address() string {
	return net.JoinHostPort(cfg.host, cfg.port)
}
