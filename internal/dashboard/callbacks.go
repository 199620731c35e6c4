package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnknownOutput is returned when no binding targets the requested output.
	ErrUnknownOutput = errors.New("unknown output")
	// ErrBadInput is returned when an input value is missing or has the wrong shape.
	ErrBadInput = errors.New("bad input")
)

// Input names a control property a binding depends on.
type Input struct {
	ID       string `json:"id"`
	Property string `json:"property"`
}

// Key is the "id.property" form used in request payloads.
func (i Input) Key() string { return i.ID + "." + i.Property }

// Output names the graph property a binding produces.
type Output struct {
	ID       string `json:"id"`
	Property string `json:"property"`
}

// Values holds the current control values keyed by Input.Key.
type Values map[string]json.RawMessage

// String decodes a string input.
func (v Values) String(key string) (string, error) {
	raw, ok := v[key]
	if !ok {
		return "", fmt.Errorf("%w: %s is missing", ErrBadInput, key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %s: expected string", ErrBadInput, key)
	}
	return s, nil
}

// Range decodes a two-element numeric input as a PayloadRange.
func (v Values) Range(key string) (PayloadRange, error) {
	raw, ok := v[key]
	if !ok {
		return PayloadRange{}, fmt.Errorf("%w: %s is missing", ErrBadInput, key)
	}
	var pair []float64
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
		return PayloadRange{}, fmt.Errorf("%w: %s: expected [low, high]", ErrBadInput, key)
	}
	if pair[0] > pair[1] {
		pair[0], pair[1] = pair[1], pair[0]
	}
	return PayloadRange{Low: pair[0], High: pair[1]}, nil
}

// HandlerFunc computes an output from the current input values.
type HandlerFunc func(Values) (any, error)

// Binding ties a set of inputs to a handler that produces one output.
type Binding struct {
	Output  Output      `json:"output"`
	Inputs  []Input     `json:"inputs"`
	Handler HandlerFunc `json:"-"`
}

// Registry holds the bindings of one dashboard, in registration order.
type Registry struct {
	bindings []Binding
	byOutput map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byOutput: make(map[string]int)}
}

// Register adds a binding. Each output may only be bound once.
func (r *Registry) Register(b Binding) error {
	if b.Handler == nil {
		return fmt.Errorf("binding for %s has no handler", b.Output.ID)
	}
	if _, dup := r.byOutput[b.Output.ID]; dup {
		return fmt.Errorf("output %s is already bound", b.Output.ID)
	}
	r.byOutput[b.Output.ID] = len(r.bindings)
	r.bindings = append(r.bindings, b)
	return nil
}

// Bindings returns the registered bindings.
func (r *Registry) Bindings() []Binding {
	out := make([]Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// Triggered returns the outputs that depend on the given input key.
func (r *Registry) Triggered(key string) []string {
	var outputs []string
	for _, b := range r.bindings {
		for _, in := range b.Inputs {
			if in.Key() == key {
				outputs = append(outputs, b.Output.ID)
				break
			}
		}
	}
	return outputs
}

// Dispatch evaluates the binding for output with values.
// Only the binding's declared inputs are passed to its handler.
func (r *Registry) Dispatch(output string, values Values) (any, error) {
	idx, ok := r.byOutput[output]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOutput, output)
	}
	b := r.bindings[idx]

	scoped := make(Values, len(b.Inputs))
	for _, in := range b.Inputs {
		raw, ok := values[in.Key()]
		if !ok {
			return nil, fmt.Errorf("%w: %s is missing", ErrBadInput, in.Key())
		}
		scoped[in.Key()] = raw
	}
	return b.Handler(scoped)
}
