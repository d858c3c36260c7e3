package event

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/on-the-ground/event_ive_go/internal/offline"
)

// Namespace is an isolated set of event names and their handlers.
//
// A namespace starts out buffering: Trigger records the call instead of
// delivering it. The first Listen turns it live for good, replaying the
// buffered calls unless ModeLast is requested.
//
// IMPORTANT:
// A Namespace is intentionally NOT thread-safe. Every call, including the ones
// handlers make back into the namespace, must come from a single goroutine.
// Use the loop package when several goroutines need to share a registry.
type Namespace struct {
	name      string
	logger    *zap.Logger
	policy    DeliveryPolicy
	listeners map[string][]listener

	// nil once live
	offline *offline.Queue[Record]
	seq     uint64
}

func newNamespace(name string, o options) *Namespace {
	logger := o.logger.With(zap.String("namespace", name))
	return &Namespace{
		name:      name,
		logger:    logger,
		policy:    o.policy,
		listeners: make(map[string][]listener),
		offline: offline.New(o.maxOffline, compareRecords, func(r Record) {
			logger.Warn("offline queue full, dropped oldest event",
				zap.String("event", r.Event),
				zap.Uint64("seq", r.Seq),
			)
		}),
	}
}

func (ns *Namespace) Name() string {
	return ns.name
}

// Live reports whether the namespace has stopped buffering.
func (ns *Namespace) Live() bool {
	return ns.offline == nil
}

// Pending returns a copy of the buffered triggers, oldest first.
// It is empty once the namespace is live.
func (ns *Namespace) Pending() []Record {
	if ns.offline == nil {
		return nil
	}
	return ns.offline.Snapshot()
}

// Handlers returns how many handlers are registered under eventName.
func (ns *Namespace) Handlers(eventName string) int {
	return len(ns.listeners[eventName])
}

// Listen appends h to the handlers of eventName.
//
// The first Listen on a buffering namespace makes it live. Unless mode is
// ModeLast, every buffered trigger is delivered before Listen returns, in the
// order the triggers happened. An error from that replay is returned along with
// the subscription, which stays registered.
func (ns *Namespace) Listen(eventName string, h Handler, mode ...ListenMode) (Subscription, error) {
	if h == nil {
		return Subscription{}, fmt.Errorf("%w: namespace %q event %q", ErrNilHandler, ns.name, eventName)
	}
	m := listenModeOf(mode)

	sub := Subscription{ID: uuid.New(), Event: eventName}
	ns.listeners[eventName] = append(ns.listeners[eventName], listener{sub: sub, fn: h})

	if ns.offline == nil {
		return sub, nil
	}

	// go live before replaying so triggers raised by replayed handlers are delivered
	buffered := ns.offline.Drain()
	ns.offline = nil

	if m == ModeLast {
		ns.logger.Debug("namespace live, buffered events discarded",
			zap.String("event", eventName),
			zap.Int("discarded", len(buffered)),
		)
		return sub, nil
	}

	ns.logger.Debug("namespace live, replaying buffered events",
		zap.String("event", eventName),
		zap.Int("buffered", len(buffered)),
	)
	return sub, ns.replay(buffered)
}

// One drops every handler of eventName and then registers h.
// Handlers of other event names are left alone.
func (ns *Namespace) One(eventName string, h Handler, mode ...ListenMode) (Subscription, error) {
	ns.Remove(eventName)
	return ns.Listen(eventName, h, mode...)
}

// Remove unregisters the given subscriptions from eventName, or all of its
// handlers when none are given. Unknown event names are ignored.
func (ns *Namespace) Remove(eventName string, subs ...Subscription) {
	ls, ok := ns.listeners[eventName]
	if !ok {
		return
	}
	if len(subs) == 0 {
		delete(ns.listeners, eventName)
		return
	}
	ns.listeners[eventName] = slices.DeleteFunc(ls, func(l listener) bool {
		return slices.Contains(subs, l.sub)
	})
}

// Trigger delivers eventName with args to its handlers in registration order
// and returns the value of the last handler run. With no handlers it returns
// (nil, nil).
//
// While the namespace is buffering the call is recorded for replay and
// Trigger returns (nil, nil) without running anything.
func (ns *Namespace) Trigger(eventName string, args ...any) (any, error) {
	if ns.offline != nil {
		ns.seq++
		ns.offline.Insert(newRecord(ns.seq, eventName, args))
		return nil, nil
	}
	return ns.deliver(eventName, args)
}

func (ns *Namespace) replay(records []Record) error {
	var errs error
	for i, rec := range records {
		if _, err := ns.deliver(rec.Event, rec.Args); err != nil {
			if ns.policy != Isolated {
				ns.logger.Debug("replay aborted",
					zap.String("event", rec.Event),
					zap.Int("dropped", len(records)-i-1),
					zap.Error(err),
				)
				return err
			}
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (ns *Namespace) deliver(eventName string, args []any) (any, error) {
	ls := ns.listeners[eventName]
	if len(ls) == 0 {
		return nil, nil
	}
	// handlers may register or remove listeners while we iterate
	ls = slices.Clone(ls)

	if ns.policy == Isolated {
		return ns.deliverIsolated(eventName, ls, args)
	}
	return ns.deliverFailFast(eventName, ls, args)
}

func (ns *Namespace) deliverFailFast(eventName string, ls []listener, args []any) (ret any, err error) {
	for _, l := range ls {
		ret, err = l.fn(ns, args...)
		if err != nil {
			return nil, ns.wrap(eventName, err)
		}
	}
	return ret, nil
}

func (ns *Namespace) deliverIsolated(eventName string, ls []listener, args []any) (ret any, errs error) {
	for _, l := range ls {
		v, err := ns.invokeRecovered(l, args)
		if err != nil {
			errs = multierr.Append(errs, ns.wrap(eventName, err))
			continue
		}
		ret = v
	}
	return ret, errs
}

func (ns *Namespace) invokeRecovered(l listener, args []any) (ret any, err error) {
	defer func() {
		if r := recover(); r != nil {
			ret = nil
			err = fmt.Errorf("%w: subscription %s: %v", ErrHandlerPanic, l.sub.ID, r)
		}
	}()
	return l.fn(ns, args...)
}

func (ns *Namespace) wrap(eventName string, err error) error {
	return fmt.Errorf("namespace %q event %q: %w", ns.name, eventName, err)
}
