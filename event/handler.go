package event

import "github.com/google/uuid"

// Handler receives the namespace it was registered on and the trigger arguments.
// The value it returns becomes Trigger's result when it is the last handler run.
type Handler func(ns *Namespace, args ...any) (any, error)

// Subscription identifies one registration of a handler. Registering the same
// function twice yields two distinct subscriptions.
type Subscription struct {
	ID    uuid.UUID
	Event string
}

type listener struct {
	sub Subscription
	fn  Handler
}
