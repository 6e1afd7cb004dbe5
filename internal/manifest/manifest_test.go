package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetsSelfAddress(t *testing.T) {
	m := New("counter_pkg", "0.1.0", "0xCAFE", nil)
	assert.Equal(t, "0xCAFE", m.Addresses["self"])
}

func TestNewMergesExtraAddresses(t *testing.T) {
	m := New("counter_pkg", "0.1.0", "0xCAFE", map[string]string{"runtime_shim": "0xFEED"})
	assert.Equal(t, "0xFEED", m.Addresses["runtime_shim"])
	assert.Len(t, m.Addresses, 2)
}

func TestRenderContainsPackageTable(t *testing.T) {
	m := New("counter_pkg", "0.1.0", "0xCAFE", nil)
	out, err := m.Render()
	require.NoError(t, err)
	assert.Contains(t, out, `name = "counter_pkg"`)
	assert.Contains(t, out, "[addresses]")
	assert.Contains(t, out, `self = "0xCAFE"`)
}

func TestRenderOmitsDependenciesWhenNone(t *testing.T) {
	m := New("counter_pkg", "0.1.0", "0xCAFE", nil)
	out, err := m.Render()
	require.NoError(t, err)
	assert.NotContains(t, out, "[dependencies")
}

func TestRenderIncludesDependency(t *testing.T) {
	m := New("counter_pkg", "0.1.0", "0xCAFE", nil).
		WithDependency("MoveStdlib", Dependency{Git: "https://github.com/aptos-labs/aptos-core.git", Rev: "mainnet"})

	out, err := m.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "[dependencies.MoveStdlib]")
}
