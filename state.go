package sdk

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/agentwire/agentwire/sdk/go/events"
)

// StateApplicationError reports a delta that could not be applied. It is not
// fatal to the stream: the document keeps its last good value and later
// snapshots recover.
type StateApplicationError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StateApplicationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("sdk: state: %s", e.Message)
	}
	return fmt.Sprintf("sdk: state: %s: %v", e.Message, e.Err)
}

// Unwrap returns the underlying patch error.
func (e *StateApplicationError) Unwrap() error { return e.Err }

// StateStore holds the reconstructed state document. Snapshots replace the
// document wholesale; deltas patch it per RFC 6902 and are rejected until
// the first snapshot establishes a base.
type StateStore struct {
	doc         json.RawMessage
	hasSnapshot bool
}

// ApplySnapshot replaces the document.
func (s *StateStore) ApplySnapshot(snapshot json.RawMessage) {
	s.doc = append(json.RawMessage(nil), snapshot...)
	s.hasSnapshot = true
}

// ApplyDelta patches the document with the given operations. The document is
// left unchanged when any operation fails.
func (s *StateStore) ApplyDelta(ops []events.JSONPatchOperation) error {
	if !s.hasSnapshot {
		return &StateApplicationError{Message: "delta received before any snapshot"}
	}
	encoded, err := json.Marshal(ops)
	if err != nil {
		return &StateApplicationError{Message: "encode patch", Err: err}
	}
	patch, err := jsonpatch.DecodePatch(encoded)
	if err != nil {
		return &StateApplicationError{Message: "decode patch", Err: err}
	}
	patched, err := patch.Apply(s.doc)
	if err != nil {
		return &StateApplicationError{Message: "apply patch", Err: err}
	}
	s.doc = patched
	return nil
}

// State returns a copy of the current document; nil before any snapshot.
func (s *StateStore) State() json.RawMessage {
	if s.doc == nil {
		return nil
	}
	return append(json.RawMessage(nil), s.doc...)
}

// HasSnapshot reports whether a base document has been established.
func (s *StateStore) HasSnapshot() bool { return s.hasSnapshot }

// StateStream reduces a flat event stream to successive state documents: one
// value is emitted after each snapshot or successfully applied delta. Deltas
// that fail to apply are reported to onError (when non-nil) and dropped.
// Non-state events pass by silently.
type StateStream struct {
	source  EventStream
	store   StateStore
	onError func(error)
}

// NewStateStream returns a state reduction adapter over source.
func NewStateStream(source EventStream, onError func(error)) *StateStream {
	return &StateStream{source: source, onError: onError}
}

// Next returns the state document after the next successful application.
func (s *StateStream) Next() (json.RawMessage, bool, error) {
	for {
		ev, ok, err := s.source.Next()
		if err != nil || !ok {
			return nil, false, err
		}
		switch e := ev.(type) {
		case *events.StateSnapshotEvent:
			s.store.ApplySnapshot(e.Snapshot)
			return s.store.State(), true, nil
		case *events.StateDeltaEvent:
			if err := s.store.ApplyDelta(e.Delta); err != nil {
				if s.onError != nil {
					s.onError(err)
				}
				continue
			}
			return s.store.State(), true, nil
		}
	}
}

// Close closes the underlying stream.
func (s *StateStream) Close() error { return s.source.Close() }
