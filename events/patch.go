package events

import "encoding/json"

// JSONPatchOperation is a single RFC 6902 operation. Value carries arbitrary
// JSON and is required for add, replace, and test; From is required for move
// and copy.
type JSONPatchOperation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Validate checks the operation against RFC 6902 structural rules.
func (op JSONPatchOperation) Validate() error {
	switch op.Op {
	case "add", "replace", "test":
		if len(op.Value) == 0 {
			return ValidationError{Field: "value", Message: "required for " + op.Op + " operations"}
		}
	case "move", "copy":
		if op.From == "" {
			return ValidationError{Field: "from", Message: "required for " + op.Op + " operations"}
		}
	case "remove":
	case "":
		return ValidationError{Field: "op", Message: "field is required"}
	default:
		return ValidationError{Field: "op", Message: "unknown operation " + op.Op}
	}
	return nil
}
