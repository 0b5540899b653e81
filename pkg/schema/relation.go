package schema

import "encoding/json"

// Relation models an optionally joined row. Joins are optional by design,
// so an absent relation is an explicit state the caller has to handle,
// never an ambient nil that silently defaults.
type Relation[T any] struct {
	value   T
	present bool
}

// Present wraps a joined value.
func Present[T any](v T) Relation[T] {
	return Relation[T]{value: v, present: true}
}

// Absent is the missing-join state.
func Absent[T any]() Relation[T] {
	return Relation[T]{}
}

// Get returns the joined value and whether it was present.
func (r Relation[T]) Get() (T, bool) {
	return r.value, r.present
}

// Or returns the joined value or the given default.
func (r Relation[T]) Or(def T) T {
	if r.present {
		return r.value
	}
	return def
}

// IsPresent reports whether the join was resolved.
func (r Relation[T]) IsPresent() bool {
	return r.present
}

// MarshalJSON emits the joined value, or an explicit null when absent.
func (r Relation[T]) MarshalJSON() ([]byte, error) {
	if !r.present {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

// UnmarshalJSON treats JSON null as absent.
func (r *Relation[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Relation[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Relation[T]{value: v, present: true}
	return nil
}
