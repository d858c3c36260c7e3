package event_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/on-the-ground/event_ive_go/event"
)

func TestRegistry_NameSpaceIsIdempotent(t *testing.T) {
	reg := event.NewRegistry()
	rec := &recorder{}

	first := reg.NameSpace("ns1")
	second := reg.NameSpace("ns1")
	assert.Same(t, first, second)

	_, err := first.Listen("click", rec.handler(nil))
	require.NoError(t, err)
	assert.Equal(t, 1, second.Handlers("click"))

	_, _ = second.Trigger("click", 5)
	assert.Equal(t, [][]any{{5}}, rec.calls)
}

func TestRegistry_NamespacesAreIsolated(t *testing.T) {
	reg := event.NewRegistry()
	f1 := &recorder{}

	_, err := reg.NameSpace("a").Listen("click", f1.handler(nil))
	require.NoError(t, err)

	_, err = reg.NameSpace("b").Trigger("click", 5)
	require.NoError(t, err)

	assert.Empty(t, f1.calls)
	assert.False(t, reg.NameSpace("b").Live())
	assert.Len(t, reg.NameSpace("b").Pending(), 1)
}

func TestRegistry_DefaultNamespace(t *testing.T) {
	reg := event.NewRegistry()

	assert.Equal(t, event.DefaultNamespace, reg.DefaultNamespace())
	assert.Same(t, reg.NameSpace(), reg.NameSpace(""))
	assert.Same(t, reg.NameSpace(), reg.NameSpace(event.DefaultNamespace))
	assert.Equal(t, event.DefaultNamespace, reg.NameSpace().Name())

	custom := event.NewRegistry(event.WithDefaultNamespace("main"))
	assert.Equal(t, "main", custom.NameSpace().Name())
}

func TestRegistry_NameSpacePanicsOnSeveralNames(t *testing.T) {
	reg := event.NewRegistry()
	assert.Panics(t, func() {
		reg.NameSpace("a", "b")
	})
}

func TestRegistry_Names(t *testing.T) {
	reg := event.NewRegistry()
	assert.Empty(t, reg.Names())

	reg.NameSpace("zeta")
	reg.NameSpace()
	reg.NameSpace("alpha")
	reg.NameSpace("zeta")

	assert.Equal(t, []string{"alpha", "default", "zeta"}, reg.Names())
}

func TestRegistry_FacadeUsesDefaultNamespace(t *testing.T) {
	reg := event.NewRegistry()
	rec := &recorder{}

	_, err := reg.Trigger("click", 1)
	require.NoError(t, err)

	sub, err := reg.Listen("click", rec.handler("done"))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{1}}, rec.calls)

	ret, err := reg.NameSpace().Trigger("click", 2)
	require.NoError(t, err)
	assert.Equal(t, "done", ret)

	replacement := &recorder{}
	_, err = reg.One("click", replacement.handler(nil))
	require.NoError(t, err)
	_, _ = reg.Trigger("click", 3)
	assert.Len(t, rec.calls, 2)
	assert.Equal(t, [][]any{{3}}, replacement.calls)

	reg.Remove("click", sub)
	reg.Remove("click")
	assert.Equal(t, 0, reg.NameSpace().Handlers("click"))

	// other namespaces untouched by the facade
	assert.False(t, reg.NameSpace("other").Live())
}

func TestRegistry_Context(t *testing.T) {
	_, err := event.FromContext(context.Background())
	assert.ErrorIs(t, err, event.ErrNoRegistry)
	assert.Panics(t, func() {
		_, _ = event.Trigger(context.Background(), "x")
	})

	reg := event.NewRegistry()
	ctx := event.WithRegistry(context.Background(), reg)

	got, err := event.FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, reg, got)

	rec := &recorder{}
	_, _ = event.Trigger(ctx, "x", "offline")
	_, err = event.Listen(ctx, "x", rec.handler(nil))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"offline"}}, rec.calls)

	_, err = event.One(ctx, "x", rec.handler("one"))
	require.NoError(t, err)
	ret, err := event.Trigger(ctx, "x", "live")
	require.NoError(t, err)
	assert.Equal(t, "one", ret)

	event.Remove(ctx, "x")
	assert.Equal(t, 0, reg.NameSpace().Handlers("x"))
	assert.Same(t, reg.NameSpace("n"), event.NameSpace(ctx, "n"))
}

func TestRegistry_LogsLifecycle(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	reg := event.NewRegistry(
		event.WithLogger(zap.New(core)),
		event.WithMaxOffline(1),
	)

	ns := reg.NameSpace("logged")
	_, _ = ns.Trigger("x", 1)
	_, _ = ns.Trigger("x", 2)
	_, _ = ns.Listen("x", func(*event.Namespace, ...any) (any, error) { return nil, nil }, event.ModeLast)

	assert.Equal(t, 1, logs.FilterMessage("namespace created").Len())
	assert.Equal(t, 1, logs.FilterMessage("offline queue full, dropped oldest event").Len())

	discarded := logs.FilterMessage("namespace live, buffered events discarded").All()
	require.Len(t, discarded, 1)
	assert.Equal(t, int64(1), discarded[0].ContextMap()["discarded"])
	assert.Equal(t, "logged", discarded[0].ContextMap()["namespace"])
}

func TestParseModesAndPolicies(t *testing.T) {
	mode, err := event.ParseListenMode("last")
	require.NoError(t, err)
	assert.Equal(t, event.ModeLast, mode)

	mode, err = event.ParseListenMode("")
	require.NoError(t, err)
	assert.Equal(t, event.ModeReplay, mode)

	_, err = event.ParseListenMode("first")
	assert.ErrorIs(t, err, event.ErrUnknownMode)

	policy, err := event.ParseDeliveryPolicy("isolated")
	require.NoError(t, err)
	assert.Equal(t, event.Isolated, policy)

	policy, err = event.ParseDeliveryPolicy("")
	require.NoError(t, err)
	assert.Equal(t, event.FailFast, policy)

	_, err = event.ParseDeliveryPolicy("retry")
	assert.ErrorIs(t, err, event.ErrUnknownPolicy)
}
