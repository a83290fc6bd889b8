package logger

import (
	"go.uber.org/zap"
)

// NewNamed builds a named zap logger appropriate for the environment:
// console output in development, JSON in everything else.
func NewNamed(appEnv, name string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if appEnv == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return log.Named(name), nil
}
