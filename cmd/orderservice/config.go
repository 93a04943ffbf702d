package main

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type config struct {
	ServeRESTAddress string `envconfig:"serve_rest_address" default:":8080"`
	DatabaseDSN      string `envconfig:"database_dsn" default:"orderservice:orderservice@tcp(localhost:3306)/orderservice?parseTime=true"`
	LogLevel         string `envconfig:"log_level" default:"info"`
}

func parseConfig() (*config, error) {
	c := new(config)
	if err := envconfig.Process("orderservice", c); err != nil {
		return nil, errors.Wrap(err, "parse environment config")
	}
	return c, nil
}
