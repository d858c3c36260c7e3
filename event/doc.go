// Package event provides a namespaced publish/subscribe bus that buffers
// events published before anyone subscribes.
//
// # Offline events
//
// A fresh namespace is buffering: Trigger records the call instead of
// delivering it. The first Listen on the namespace replays the recorded calls,
// oldest first, before returning, and the namespace stays live from then on.
// Passing ModeLast to that first Listen drops the recorded calls instead.
//
//	reg := event.NewRegistry()
//
//	reg.Trigger("click", 1) // buffered
//	reg.Listen("click", func(ns *event.Namespace, args ...any) (any, error) {
//	    fmt.Println(args[0]) // 1, printed during Listen
//	    return nil, nil
//	})
//
// # Namespaces
//
// Each namespace has its own handlers and its own buffer:
//
//	reg.NameSpace("namespace1").Listen("click", h1)
//	reg.NameSpace("namespace2").Trigger("click", 2) // does not reach h1
//
// Calling NameSpace without a name, or with "", returns the default namespace,
// which is also what the Registry's own Listen, One, Remove and Trigger use.
//
// # Delivery
//
// Handlers of an event run synchronously in registration order and Trigger
// returns the value of the last one. Under the default FailFast policy the
// first error stops the delivery and a panic unwinds to the caller; the
// Isolated policy runs every handler and combines the failures.
//
// Registries and namespaces are not safe for concurrent use. See the loop
// subpackage for sharing a bus between goroutines.
package event
