package codex

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thoreinstein/mcpsync/internal/store"
)

func TestEnsurePolicy(t *testing.T) {
	t.Run("empty document gets base set", func(t *testing.T) {
		doc := store.Document{}
		assert.True(t, EnsurePolicy(doc, []string{"API_KEY"}))

		policy, ok := store.Section(doc, policyKey)
		assert.True(t, ok)
		assert.Equal(t, "all", policy[inheritKey])
		assert.Equal(t, true, policy[ignoreKey])
		assert.Equal(t, append(append([]string{}, BaseAllowList...), "API_KEY"), AllowList(doc))
	})

	t.Run("existing inherit and order kept", func(t *testing.T) {
		doc := store.Document{policyKey: map[string]any{
			inheritKey: "core",
			ignoreKey:  true,
			includeKey: []any{"CUSTOM", "PATH"},
		}}
		assert.True(t, EnsurePolicy(doc, []string{"CUSTOM", "NEW"}))

		got := AllowList(doc)
		assert.Equal(t, "CUSTOM", got[0])
		assert.Equal(t, "PATH", got[1])
		assert.Equal(t, "NEW", got[len(got)-1])
		assert.Equal(t, "core", doc[policyKey].(map[string]any)[inheritKey])
	})

	t.Run("no change reports false", func(t *testing.T) {
		doc := store.Document{}
		EnsurePolicy(doc, []string{"A"})
		assert.False(t, EnsurePolicy(doc, []string{"A", ""}))
	})

	t.Run("duplicates removed", func(t *testing.T) {
		doc := store.Document{}
		EnsurePolicy(doc, nil)
		policy, _ := store.Section(doc, policyKey)
		policy[includeKey] = append(policy[includeKey].([]any), "PATH")

		assert.True(t, EnsurePolicy(doc, nil))
		assert.Equal(t, BaseAllowList, AllowList(doc))
	})
}

func TestPrunePolicy(t *testing.T) {
	doc := store.Document{}
	EnsurePolicy(doc, []string{"A", "B", "C"})

	changed := PrunePolicy(doc, []string{"A", "B", "PATH"}, func(k string) bool { return k == "B" })
	assert.True(t, changed)
	assert.Equal(t, append(append([]string{}, BaseAllowList...), "B", "C"), AllowList(doc))

	assert.False(t, PrunePolicy(doc, []string{"UNKNOWN"}, nil))
	assert.False(t, PrunePolicy(doc, nil, nil))
	assert.False(t, PrunePolicy(store.Document{}, []string{"A"}, nil))
}

func TestPrunePolicy_RemovesEmptyIncludeOnly(t *testing.T) {
	doc := store.Document{policyKey: map[string]any{
		inheritKey: "all",
		includeKey: []any{"ONLY"},
	}}

	assert.True(t, PrunePolicy(doc, []string{"ONLY"}, nil))
	policy, _ := store.Section(doc, policyKey)
	_, present := policy[includeKey]
	assert.False(t, present)
	assert.Equal(t, "all", policy[inheritKey])
}

func TestReferencedKeys(t *testing.T) {
	entry := map[string]any{
		commandField: "docker",
		argsField:    []any{"run", "-e", "API_KEY", "-e", "REGION=us", "-e", "API_KEY", "img", "-e"},
		envField:     map[string]any{"TOKEN": "x", "API_KEY": "y"},
	}
	assert.Equal(t, []string{"API_KEY", "TOKEN", "REGION"}, ReferencedKeys(entry))
	assert.Empty(t, ReferencedKeys(map[string]any{commandField: "npx"}))
}
