// Package valuestore keeps the client-side props of a live UI component in
// step with the server while the user keeps typing.
//
// A Store holds the canonical tree last confirmed by the server, a flat map
// of nested-prop overrides, and two flat overlays keyed by dot path: dirty
// edits not sent yet and pending edits that are in flight. Get resolves a
// path in the order dirty, pending, canonical walk and, when the walk stops
// on a non-object ancestor, the nested override for the full path.
//
// A request orchestrator drives the overlays:
//
//	store.Set("user.firstName", "Kevin")
//	updates := store.DirtyProps()
//	store.FlushDirtyPropsToPending()
//	// send updates ...
//	store.ReinitializeAllProps(serverProps, serverNested) // success
//	store.PushPendingPropsBackToDirty()                    // failure
//
// pkg/request implements that loop over a pluggable Transport. Expressions
// can be evaluated against the effective props with expr (default), CEL or,
// under the js_eval build tag, JavaScript.
package valuestore
