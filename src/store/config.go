package store

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BackendBaseURL string `envconfig:"BACKEND_BASE_URL" default:"http://localhost:5002"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
