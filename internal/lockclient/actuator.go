package lockclient

import (
	"context"

	"go.uber.org/zap"
)

type logActuator struct {
	log *zap.Logger
}

// NewLogActuator only records lock transitions. Deployments replace it with
// one that drives the workstation's screen lock.
func NewLogActuator(log *zap.Logger) Actuator {
	return &logActuator{log: log.With(zap.String("actuator", "log"))}
}

func (a *logActuator) Unlock(ctx context.Context) error {
	a.log.Info("Screen lock disabled, user access enabled")
	return nil
}

func (a *logActuator) Lock(ctx context.Context) error {
	a.log.Info("User session saved, screen locked")
	return nil
}
