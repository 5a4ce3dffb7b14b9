package command

import (
	"fmt"
	"sort"
)

// primitiveBag is a primitive map kept in its encoded form until it is first
// accessed and re-encoded only after a change.
type primitiveBag struct {
	values map[string]any
	loaded bool
	dirty  bool
}

func (b *primitiveBag) load(raw []byte) error {
	if b.loaded {
		return nil
	}
	values, err := UnmarshalPrimitiveMap(raw)
	if err != nil {
		return err
	}
	if values == nil {
		values = make(map[string]any)
	}
	b.values = values
	b.loaded = true
	return nil
}

func (b *primitiveBag) set(raw []byte, name string, v any) error {
	n, err := NormalizePrimitive(v)
	if err != nil {
		return fmt.Errorf("%q: %w", name, err)
	}
	if err := b.load(raw); err != nil {
		return err
	}
	b.values[name] = n
	b.dirty = true
	return nil
}

func (b *primitiveBag) get(raw []byte, name string) (any, error) {
	if err := b.load(raw); err != nil {
		return nil, err
	}
	return b.values[name], nil
}

func (b *primitiveBag) remove(raw []byte, name string) error {
	if err := b.load(raw); err != nil {
		return err
	}
	if _, ok := b.values[name]; ok {
		delete(b.values, name)
		b.dirty = true
	}
	return nil
}

func (b *primitiveBag) names(raw []byte) ([]string, error) {
	if err := b.load(raw); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(b.values))
	for k := range b.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

func (b *primitiveBag) clear() {
	b.values = make(map[string]any)
	b.loaded = true
	b.dirty = true
}

func (b *primitiveBag) reset() {
	b.values = nil
	b.loaded = false
	b.dirty = false
}

// flush encodes the values if they changed. An empty bag encodes as nil.
func (b *primitiveBag) flush() (raw []byte, changed bool, err error) {
	if !b.dirty {
		return nil, false, nil
	}
	if len(b.values) > 0 {
		if raw, err = MarshalPrimitiveMap(b.values); err != nil {
			return nil, false, err
		}
	}
	b.dirty = false
	return raw, true, nil
}
