package event

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/domain/service"
)

// NewLogDispatcher returns a dispatcher that records domain events in the
// service log. A broker-backed dispatcher can replace it without touching
// the domain services.
func NewLogDispatcher(log logrus.FieldLogger) service.EventDispatcher {
	return &logDispatcher{log: log}
}

type logDispatcher struct {
	log logrus.FieldLogger
}

func (d *logDispatcher) Dispatch(event service.Event) error {
	d.log.WithFields(logrus.Fields{
		"event":   event.Type(),
		"payload": fmt.Sprintf("%+v", event),
	}).Info("domain event")
	return nil
}
