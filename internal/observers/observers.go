package observers

import (
	"context"

	"go.uber.org/zap"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
)

// MessageObserver reacts to committed message writes. Observers run
// synchronously after the triggering write has been persisted; a failing
// observer never rolls the write back.
type MessageObserver interface {
	Name() string
	MessageCreated(ctx context.Context, msg models.Message) error
	MessageEdited(ctx context.Context, msg models.Message, priorBody string) error
	MessageDeleted(ctx context.Context, msg models.Message) error
}

// Dispatcher fans a committed event out to an explicit list of observers.
// Failures are logged and counted, then swallowed.
type Dispatcher struct {
	observers []MessageObserver
	logger    *zap.Logger
}

// NewDispatcher builds a Dispatcher over the given observers.
func NewDispatcher(logger *zap.Logger, observers ...MessageObserver) *Dispatcher {
	return &Dispatcher{observers: observers, logger: logger}
}

// MessageCreated notifies all observers of a persisted message.
func (d *Dispatcher) MessageCreated(ctx context.Context, msg models.Message) {
	for _, o := range d.observers {
		if err := o.MessageCreated(ctx, msg); err != nil {
			d.fail(o.Name(), "message.created", err)
		}
	}
}

// MessageEdited notifies all observers of a committed content change.
func (d *Dispatcher) MessageEdited(ctx context.Context, msg models.Message, priorBody string) {
	for _, o := range d.observers {
		if err := o.MessageEdited(ctx, msg, priorBody); err != nil {
			d.fail(o.Name(), "message.edited", err)
		}
	}
}

// MessageDeleted notifies all observers of a completed delete.
func (d *Dispatcher) MessageDeleted(ctx context.Context, msg models.Message) {
	for _, o := range d.observers {
		if err := o.MessageDeleted(ctx, msg); err != nil {
			d.fail(o.Name(), "message.deleted", err)
		}
	}
}

func (d *Dispatcher) fail(observer, event string, err error) {
	observability.IncObserverFailure(observer, event)
	d.logger.Warn("observer failed",
		zap.String("observer", observer),
		zap.String("event", event),
		zap.Error(err),
	)
}
