// Package domain contains the core types of the dialog engine: dialog
// states, the session record with its per-flow accumulators, the
// business records persisted on behalf of the caller, and the reply
// envelope returned to the gateway.
//
// It has no dependencies on adapters and defines the vocabulary the
// rest of the module implements against.
package domain
