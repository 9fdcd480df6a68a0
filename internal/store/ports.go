// Package store defines the record store boundary: a per-user partitioned
// document store addressed by (user id, record kind), plus a typed client
// over it. Adapters live in the subpackages.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"endurowallet/internal/core"
)

var (
	// ErrStoreUnavailable marks a failed list: transport or authorization.
	// An absent partition is not an error; it lists as empty.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrWriteRejected marks a failed append. The append is atomic: on this
	// error no partial record exists.
	ErrWriteRejected = errors.New("record write rejected")
)

// Document is one stored record: the store-assigned id plus the record body.
// The body also carries the id, mirrored under the kind's id field.
type Document struct {
	ID   string
	Body json.RawMessage
}

// Store is the document-level port implemented by the adapters.
type Store interface {
	// List returns the user's partition for one kind, unordered. A partition
	// that was never written to yields an empty slice.
	List(ctx context.Context, userID string, kind core.Kind) ([]Document, error)

	// Append assigns a fresh record id, mirrors it into the body, and stores
	// the document. Either the full document is created or an error is
	// returned and nothing was written.
	Append(ctx context.Context, userID string, kind core.Kind, body json.RawMessage) (Document, error)
}

// MirrorID returns body with the kind's id field set to id. Adapters use it
// so every stored document is self-describing.
func MirrorID(body json.RawMessage, kind core.Kind, id string) (json.RawMessage, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields[kind.IDField()] = id
	return json.Marshal(fields)
}
