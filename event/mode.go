package event

import "fmt"

// ListenMode controls what the first Listen on a buffering namespace does with
// the events triggered before it.
type ListenMode string

const (
	// ModeReplay delivers every buffered event, oldest first, inside Listen.
	ModeReplay ListenMode = ""

	// ModeLast discards the buffered events. Only events triggered after the
	// namespace went live are delivered.
	ModeLast ListenMode = "last"
)

func ParseListenMode(s string) (ListenMode, error) {
	switch s {
	case "", "replay":
		return ModeReplay, nil
	case string(ModeLast):
		return ModeLast, nil
	default:
		return ModeReplay, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// DeliveryPolicy decides how a delivery reacts to a failing handler.
type DeliveryPolicy string

const (
	// FailFast stops at the first handler returning an error. A panicking
	// handler is not recovered and unwinds through Trigger or Listen.
	FailFast DeliveryPolicy = "fail_fast"

	// Isolated runs every handler of the delivery. Panics are recovered into
	// ErrHandlerPanic and all errors are combined.
	Isolated DeliveryPolicy = "isolated"
)

func ParseDeliveryPolicy(s string) (DeliveryPolicy, error) {
	switch s {
	case "", string(FailFast):
		return FailFast, nil
	case string(Isolated):
		return Isolated, nil
	default:
		return FailFast, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// listenModeOf flattens the optional mode argument. Panics if more than one is passed.
func listenModeOf(mode []ListenMode) ListenMode {
	switch len(mode) {
	case 0:
		return ModeReplay
	case 1:
		return mode[0]
	default:
		panic("listenModeOf: only one or zero listen modes allowed")
	}
}
