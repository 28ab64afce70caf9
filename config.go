package main

import (
	"github.com/mstoykov/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"goffas/pkg/program"
)

// Config is the part of the command line that can also come from the
// environment. Flags override it.
type Config struct {
	LogLevel  logrus.Level            `envconfig:"GOFFAS_LOG_LEVEL"`
	Unhandled program.UnhandledPolicy `envconfig:"GOFFAS_UNHANDLED_ATTRS"`
	Output    string                  `envconfig:"GOFFAS_OUTPUT"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:  logrus.InfoLevel,
		Unhandled: program.UnhandledWarn,
	}
}

func readEnvConfig(lookupEnv func(string) (string, bool)) (Config, error) {
	conf := defaultConfig()
	if err := envconfig.Process("", &conf, lookupEnv); err != nil {
		return conf, errors.Wrap(err, "environment")
	}
	return conf, nil
}
