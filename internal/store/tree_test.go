package store

import (
	"reflect"
	"testing"
)

func TestDeepMerge(t *testing.T) {
	a := Document{
		"keep":   "a",
		"scalar": "old",
		"nested": map[string]any{"x": int64(1), "list": []any{"a"}},
	}
	b := Document{
		"scalar": "new",
		"nested": map[string]any{"y": int64(2), "list": []any{"b", "c"}},
		"added":  true,
	}

	got := DeepMerge(a, b)
	want := Document{
		"keep":   "a",
		"scalar": "new",
		"nested": map[string]any{"x": int64(1), "y": int64(2), "list": []any{"b", "c"}},
		"added":  true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeepMerge() = %#v, want %#v", got, want)
	}

	if a["scalar"] != "old" {
		t.Error("DeepMerge mutated its first argument")
	}
	if _, ok := a["nested"].(map[string]any)["y"]; ok {
		t.Error("DeepMerge mutated a nested map of its first argument")
	}
}

func TestSection(t *testing.T) {
	doc := Document{
		"typed":  map[string]any{"a": 1},
		"loose":  map[any]any{"b": 2},
		"scalar": "nope",
	}

	if m, ok := Section(doc, "typed"); !ok || m["a"] != 1 {
		t.Errorf("Section(typed) = %v, %v", m, ok)
	}
	m, ok := Section(doc, "loose")
	if !ok || m["b"] != int64(2) {
		t.Errorf("Section(loose) = %v, %v", m, ok)
	}
	m["c"] = 3
	if again, _ := Section(doc, "loose"); again["c"] != 3 {
		t.Error("Section should store the converted map back so mutations stick")
	}
	if _, ok := Section(doc, "scalar"); ok {
		t.Error("Section(scalar) should report false")
	}
	if _, ok := Section(doc, "missing"); ok {
		t.Error("Section(missing) should report false")
	}
	if _, ok := Section(nil, "x"); ok {
		t.Error("Section(nil) should report false")
	}
}

func TestEnsureSection(t *testing.T) {
	doc := Document{"scalar": "x"}

	m := EnsureSection(doc, "servers")
	m["demo"] = true
	if got, _ := Section(doc, "servers"); got["demo"] != true {
		t.Error("EnsureSection did not attach the new map")
	}

	replaced := EnsureSection(doc, "scalar")
	if len(replaced) != 0 {
		t.Errorf("expected empty replacement map, got %v", replaced)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"string slice vs any slice", []string{"a", "b"}, []any{"a", "b"}, true},
		{"int vs int64", map[string]any{"n": 1}, map[string]any{"n": int64(1)}, true},
		{"string map vs any map", map[string]string{"K": "v"}, map[string]any{"K": "v"}, true},
		{"order matters in lists", []string{"a", "b"}, []string{"b", "a"}, false},
		{"different values", map[string]any{"n": 1}, map[string]any{"n": 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrings(t *testing.T) {
	if got := Strings([]any{"a", 1, "b"}); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Strings([]any) = %v", got)
	}
	if got := Strings([]string{"x"}); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Strings([]string) = %v", got)
	}
	if got := Strings("nope"); got != nil {
		t.Errorf("Strings(string) = %v, want nil", got)
	}
}
