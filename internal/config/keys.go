package config

import (
	"reflect"
	"slices"
	"strings"
)

// Key is a dot-separated path into the config file, e.g. service.baseUrl.
type Key []string

// ParseKey splits raw into segments. Empty keys and empty segments are
// rejected.
func ParseKey(raw string) (Key, error) {
	if raw == "" {
		return nil, &ConfigError{Message: "empty config key"}
	}
	k := Key(strings.Split(raw, "."))
	if slices.Contains(k, "") {
		return nil, &ConfigError{Message: "config key contains empty segment: " + raw}
	}
	return k, nil
}

func (k Key) String() string { return strings.Join(k, ".") }

// Known reports whether k names a field of Config. Segments below a list
// or map field are not checked.
func (k Key) Known() bool {
	t := reflect.TypeFor[Config]()
	for _, seg := range k {
		if t.Kind() != reflect.Struct {
			return true
		}
		f, ok := fieldByYAMLName(t, seg)
		if !ok {
			return false
		}
		t = f.Type
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
	}
	return true
}

func fieldByYAMLName(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := range t.NumField() {
		f := t.Field(i)
		tag, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if tag == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// Get looks k up in a raw config tree.
func (k Key) Get(root map[string]any) (any, bool) {
	var cur any = root
	for _, seg := range k {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores value at k, replacing scalars that sit where a table is
// needed.
func (k Key) Set(root map[string]any, value any) {
	m := root
	for _, seg := range k[:len(k)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[seg] = next
		}
		m = next
	}
	m[k[len(k)-1]] = value
}

// Unset deletes k and prunes tables it leaves empty. It reports whether
// anything was removed.
func (k Key) Unset(root map[string]any) bool {
	m, ok := root, true
	if len(k) > 1 {
		var parent any
		if parent, ok = Key(k[:len(k)-1]).Get(root); ok {
			m, ok = parent.(map[string]any)
		}
	}
	if !ok {
		return false
	}
	last := k[len(k)-1]
	if _, ok := m[last]; !ok {
		return false
	}
	delete(m, last)

	if len(m) == 0 && len(k) > 1 {
		Key(k[:len(k)-1]).Unset(root)
	}
	return true
}
