// Package backend assembles storage, messaging, caching and the services
// from the process configuration. The server and the worker share it.
package backend

import (
	"errors"
	"time"

	"pennywise/internal/amqp"
	"pennywise/internal/classify"
	"pennywise/internal/core"
	"pennywise/internal/services"
	"pennywise/internal/storage"
	"pennywise/internal/target"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result holds everything Build created. Optional parts are nil when not
// configured.
type Result struct {
	Store    *storage.SQLiteRepository
	AMQP     *amqp.Client
	Engine   *classify.Engine
	Cache    *services.ReadCache
	Services services.Bundle
	Calc     target.Calculator
	Clock    core.Clock
	Location *time.Location

	cleanups []CleanupFunc
}

func (r *Result) onCleanup(fn CleanupFunc) {
	r.cleanups = append(r.cleanups, fn)
}

// Cleanup releases resources in reverse order of creation.
func (r *Result) Cleanup() error {
	var errs []error
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		if err := r.cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.cleanups = nil
	return errors.Join(errs...)
}

// Publisher returns the event publisher, or nil when AMQP is disabled.
func (r *Result) Publisher() services.Publisher {
	if r.AMQP == nil {
		return nil
	}
	return r.AMQP
}
