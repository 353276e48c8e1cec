package module_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waverly-lang/bct/module"
	"github.com/waverly-lang/bct/srctext"
)

func TestBuilderTracksModulesAndDependencies(t *testing.T) {
	b := module.NewBuilder()

	base := b.AddModule("sys/std/base", srctext.FromString("// base"))
	math := b.AddModule("sys/std/math", srctext.FromString("// math"))

	require.NoError(t, b.AddDependency(math, base))

	graph := b.Build()

	require.Len(t, graph.Modules, 2)
	assert.Equal(t, module.ID("sys/std/base"), graph.Modules[0].ID)
	assert.Equal(t, module.ID("sys/std/math"), graph.Modules[1].ID)

	_, ok := graph.Get(base)
	assert.True(t, ok)
	_, ok = graph.Get(math)
	assert.True(t, ok)

	_, ok = graph.Get("sys/std/nonexistent")
	assert.False(t, ok)

	assert.Contains(t, graph.Dependencies[math], base)
	assert.Empty(t, graph.Dependencies[base])
}

func TestAddDependencyRejectsForwardReferences(t *testing.T) {
	b := module.NewBuilder()
	math := b.AddModule("sys/std/math", srctext.FromString("// math"))

	// "sys/std/base" has not been added yet: this dependency edge would
	// violate the graph's "dependencies precede dependents" invariant.
	err := b.AddDependency(math, "sys/std/base")
	assert.Error(t, err)
}

func TestAddDependencyRejectsUnknownModule(t *testing.T) {
	b := module.NewBuilder()
	base := b.AddModule("sys/std/base", srctext.FromString("// base"))

	err := b.AddDependency("sys/std/nonexistent", base)
	assert.Error(t, err)
}

func TestBuildProducesIndependentSnapshots(t *testing.T) {
	b := module.NewBuilder()
	b.AddModule("a", srctext.FromString(""))
	g1 := b.Build()

	b.AddModule("b", srctext.FromString(""))
	g2 := b.Build()

	assert.Len(t, g1.Modules, 1, "earlier snapshot should not see modules added after it was built")
	assert.Len(t, g2.Modules, 2)
}
