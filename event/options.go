package event

import "go.uber.org/zap"

// DefaultNamespace is the key used when no namespace name is given.
const DefaultNamespace = "default"

type Option func(*options)

type options struct {
	logger           *zap.Logger
	policy           DeliveryPolicy
	maxOffline       int
	defaultNamespace string
}

func newOptions(opts []Option) options {
	o := options{
		logger:           zap.NewNop(),
		policy:           FailFast,
		defaultNamespace: DefaultNamespace,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for namespace lifecycle messages.
// A nil logger keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithDeliveryPolicy(policy DeliveryPolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithMaxOffline bounds every namespace's offline queue. Once full, the oldest
// buffered event is dropped for each new one. n <= 0 means unbounded.
func WithMaxOffline(n int) Option {
	return func(o *options) {
		o.maxOffline = n
	}
}

func WithDefaultNamespace(name string) Option {
	return func(o *options) {
		if name != "" {
			o.defaultNamespace = name
		}
	}
}
