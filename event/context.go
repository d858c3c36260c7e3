package event

import (
	"context"
	"fmt"
)

type registryKey struct{}

// WithRegistry returns a copy of ctx carrying reg. The package-level Listen,
// One, Remove, Trigger and NameSpace functions resolve their registry from it.
func WithRegistry(ctx context.Context, reg *Registry) context.Context {
	return context.WithValue(ctx, registryKey{}, reg)
}

// FromContext returns the registry stored by WithRegistry.
func FromContext(ctx context.Context) (*Registry, error) {
	reg, ok := ctx.Value(registryKey{}).(*Registry)
	if !ok || reg == nil {
		return nil, fmt.Errorf("%w: %T", ErrNoRegistry, ctx)
	}
	return reg, nil
}

// MustFromContext is the panic-on-failure variant of FromContext.
func MustFromContext(ctx context.Context) *Registry {
	reg, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return reg
}

// NameSpace looks up a namespace of the registry in ctx.
// Panics if no registry is registered.
func NameSpace(ctx context.Context, name ...string) *Namespace {
	return MustFromContext(ctx).NameSpace(name...)
}

// Listen registers h on the default namespace of the registry in ctx.
// Panics if no registry is registered.
func Listen(ctx context.Context, eventName string, h Handler, mode ...ListenMode) (Subscription, error) {
	return MustFromContext(ctx).Listen(eventName, h, mode...)
}

func One(ctx context.Context, eventName string, h Handler, mode ...ListenMode) (Subscription, error) {
	return MustFromContext(ctx).One(eventName, h, mode...)
}

func Remove(ctx context.Context, eventName string, subs ...Subscription) {
	MustFromContext(ctx).Remove(eventName, subs...)
}

// Trigger fires eventName on the default namespace of the registry in ctx.
// Panics if no registry is registered.
func Trigger(ctx context.Context, eventName string, args ...any) (any, error) {
	return MustFromContext(ctx).Trigger(eventName, args...)
}
