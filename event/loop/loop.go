// Package loop shares event registries between goroutines by confining them
// to worker goroutines.
//
// Namespaces are partitioned across NumWorkers workers by hashing their name,
// and each worker owns a private event.Registry. Every operation on a namespace
// therefore runs on the same goroutine, in submission order, which keeps the
// single-goroutine contract of the event package while callers submit from
// anywhere.
//
// Handlers run on the worker goroutine. They may use the *event.Namespace they
// receive directly, but must not wait on the Loop for a namespace of their own
// worker: that deadlocks.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/event_ive_go/event"
)

var ErrLoopClosed = errors.New("event loop is closed")

// Result is the outcome of an operation run on the loop.
type Result struct {
	Value any
	Err   error
}

type op struct {
	namespace string
	run       func(*event.Namespace) (any, error)
	// nil for fire-and-forget
	resumeCh chan Result
}

type Loop struct {
	ID string

	logger           *zap.Logger
	defaultNamespace string
	partitions       []chan op
	done             <-chan struct{}
	closeFn          func()
	closeOnce        sync.Once
}

// New starts cfg.NumWorkers workers, each with its own registry built from opts.
// The workers stop when ctx is done or Close is called.
func New(ctx context.Context, cfg Config, logger *zap.Logger, opts ...event.Option) *Loop {
	cfg = NewConfig(cfg.BufferSize, cfg.NumWorkers)
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancelFn := context.WithCancel(ctx)

	id := uuid.New().String()
	logger = logger.With(zap.String("loopId", id))
	opts = append(opts, event.WithLogger(logger))

	l := &Loop{
		ID:         id,
		logger:     logger,
		partitions: make([]chan op, cfg.NumWorkers),
		done:       ctx.Done(),
		closeFn:    cancelFn,
	}

	ready := sync.WaitGroup{}
	for i := range cfg.NumWorkers {
		reg := event.NewRegistry(opts...)
		l.defaultNamespace = reg.DefaultNamespace()

		ch := make(chan op, cfg.BufferSize)
		l.partitions[i] = ch

		ready.Add(1)
		go func(reg *event.Registry, ch <-chan op) {
			ready.Done()
			for {
				select {
				case msg := <-ch:
					l.handle(reg, msg)
				case <-ctx.Done():
					return
				}
			}
		}(reg, ch)
	}
	ready.Wait()

	logger.Debug("event loop started", zap.Int("numWorkers", cfg.NumWorkers))
	return l
}

// Close stops the workers. Operations still queued are abandoned and their
// waiters receive ErrLoopClosed.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.closeFn()
		l.logger.Debug("event loop closed")
	})
}

// Do runs fn on the namespace's worker and waits for its result.
func (l *Loop) Do(ctx context.Context, namespace string, fn func(*event.Namespace) (any, error)) (any, error) {
	res := <-l.perform(ctx, namespace, fn)
	return res.Value, res.Err
}

// Trigger fires eventName on namespace. The returned channel yields exactly one
// Result and is then closed.
func (l *Loop) Trigger(ctx context.Context, namespace, eventName string, args ...any) <-chan Result {
	return l.perform(ctx, namespace, func(ns *event.Namespace) (any, error) {
		return ns.Trigger(eventName, args...)
	})
}

// Post fires eventName on namespace without waiting. Delivery failures are
// logged; the returned error only reports whether the event was accepted.
func (l *Loop) Post(ctx context.Context, namespace, eventName string, args ...any) error {
	return l.submit(ctx, op{
		namespace: l.keyOf(namespace),
		run: func(ns *event.Namespace) (any, error) {
			return ns.Trigger(eventName, args...)
		},
	})
}

// Listen registers h on namespace and waits until any replay has run.
func (l *Loop) Listen(ctx context.Context, namespace, eventName string, h event.Handler, mode ...event.ListenMode) (event.Subscription, error) {
	ret, err := l.Do(ctx, namespace, func(ns *event.Namespace) (any, error) {
		return ns.Listen(eventName, h, mode...)
	})
	sub, _ := ret.(event.Subscription)
	return sub, err
}

// One replaces the handlers of eventName on namespace with h.
func (l *Loop) One(ctx context.Context, namespace, eventName string, h event.Handler, mode ...event.ListenMode) (event.Subscription, error) {
	ret, err := l.Do(ctx, namespace, func(ns *event.Namespace) (any, error) {
		return ns.One(eventName, h, mode...)
	})
	sub, _ := ret.(event.Subscription)
	return sub, err
}

func (l *Loop) Remove(ctx context.Context, namespace, eventName string, subs ...event.Subscription) error {
	_, err := l.Do(ctx, namespace, func(ns *event.Namespace) (any, error) {
		ns.Remove(eventName, subs...)
		return nil, nil
	})
	return err
}

func (l *Loop) perform(ctx context.Context, namespace string, fn func(*event.Namespace) (any, error)) <-chan Result {
	// buffered so the worker never blocks on an abandoned waiter
	resumeCh := make(chan Result, 1)
	out := make(chan Result, 1)

	err := l.submit(ctx, op{
		namespace: l.keyOf(namespace),
		run:       fn,
		resumeCh:  resumeCh,
	})
	if err != nil {
		out <- Result{Err: err}
		close(out)
		return out
	}

	go func() {
		defer close(out)
		select {
		case res := <-resumeCh:
			out <- res
		case <-ctx.Done():
			out <- Result{Err: ctx.Err()}
		case <-l.done:
			// the worker may have finished right before closing
			select {
			case res := <-resumeCh:
				out <- res
			default:
				out <- Result{Err: ErrLoopClosed}
			}
		}
	}()
	return out
}

func (l *Loop) submit(ctx context.Context, msg op) error {
	select {
	case <-l.done:
		return ErrLoopClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	case l.partitionOf(msg.namespace) <- msg:
		return nil
	}
}

func (l *Loop) handle(reg *event.Registry, msg op) {
	res := l.run(reg, msg)
	if msg.resumeCh != nil {
		msg.resumeCh <- res
		return
	}
	if res.Err != nil {
		l.logger.Error("posted event failed",
			zap.String("namespace", msg.namespace),
			zap.Error(res.Err),
		)
	}
}

// run recovers handler panics: they cannot unwind into the submitting goroutine.
func (l *Loop) run(reg *event.Registry, msg op) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("%w: %v", event.ErrHandlerPanic, r)}
		}
	}()
	res.Value, res.Err = msg.run(reg.NameSpace(msg.namespace))
	return
}

func (l *Loop) keyOf(namespace string) string {
	if namespace == "" {
		return l.defaultNamespace
	}
	return namespace
}

func (l *Loop) partitionOf(namespace string) chan op {
	return l.partitions[partitionIndex(namespace, len(l.partitions))]
}

func partitionIndex(key string, numPartitions int) int {
	switch numPartitions {
	case 0:
		panic("number of partitions cannot be 0")
	case 1:
		return 0
	default:
		return int(xxhash.Sum64String(key) % uint64(numPartitions))
	}
}
