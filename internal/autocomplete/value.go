package autocomplete

// Binding is the externally owned text an input edits. The input writes it
// on every committed edit and re-reads it on every update; when the two
// disagree the binding wins and the input's buffer is replaced.
type Binding interface {
	Get() string
	Set(string)
}

// Value is a plain Binding cell.
type Value struct {
	s string
}

// NewValue returns a cell holding s.
func NewValue(s string) *Value { return &Value{s: s} }

// Get returns the held text.
func (v *Value) Get() string { return v.s }

// Set replaces the held text.
func (v *Value) Set(s string) { v.s = s }
