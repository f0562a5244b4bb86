// Package request drives one component's request cycles against a
// valuestore.Store.
//
// A cycle follows the orchestrator contract of the store:
//
//	DirtyProps -> FlushDirtyPropsToPending -> Transport.Send
//	  success: ReinitializeAllProps (or ReinitializeProvidedProps for partial responses)
//	  failure: PushPendingPropsBackToDirty
//
// Transport is the only network-facing seam. MemoryTransport is an in-memory
// server used by tests and examples; it applies updates by dot path and
// rejects requests whose fingerprint no longer matches its props.
//
// Fingerprint hashes canonical props so a server can detect that a client
// built its request against stale state.
package request
