package event

import (
	"maps"
	"slices"

	"go.uber.org/zap"
)

// Registry owns a set of namespaces. Namespaces are created on first lookup and
// live as long as the registry.
//
// Like Namespace, a Registry is not safe for concurrent use.
type Registry struct {
	opts       options
	namespaces map[string]*Namespace
}

func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		opts:       newOptions(opts),
		namespaces: make(map[string]*Namespace),
	}
}

// NameSpace returns the namespace called name, creating it if needed.
// Without a name, or with "", the default namespace is returned.
// Panics if more than one name is passed.
func (r *Registry) NameSpace(name ...string) *Namespace {
	key := r.keyOf(name)
	if ns, ok := r.namespaces[key]; ok {
		return ns
	}
	ns := newNamespace(key, r.opts)
	r.namespaces[key] = ns
	r.opts.logger.Debug("namespace created", zap.String("namespace", key))
	return ns
}

// DefaultNamespace returns the key NameSpace falls back to.
func (r *Registry) DefaultNamespace() string {
	return r.opts.defaultNamespace
}

// Names returns the keys of every namespace created so far, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.namespaces))
}

// Listen registers h on the default namespace.
func (r *Registry) Listen(eventName string, h Handler, mode ...ListenMode) (Subscription, error) {
	return r.NameSpace().Listen(eventName, h, mode...)
}

// One replaces the handlers of eventName on the default namespace with h.
func (r *Registry) One(eventName string, h Handler, mode ...ListenMode) (Subscription, error) {
	return r.NameSpace().One(eventName, h, mode...)
}

// Remove unregisters handlers of eventName on the default namespace.
func (r *Registry) Remove(eventName string, subs ...Subscription) {
	r.NameSpace().Remove(eventName, subs...)
}

// Trigger fires eventName on the default namespace.
func (r *Registry) Trigger(eventName string, args ...any) (any, error) {
	return r.NameSpace().Trigger(eventName, args...)
}

func (r *Registry) keyOf(name []string) string {
	switch len(name) {
	case 0:
		return r.opts.defaultNamespace
	case 1:
		if name[0] == "" {
			return r.opts.defaultNamespace
		}
		return name[0]
	default:
		panic("NameSpace: only one or zero namespace names allowed")
	}
}
