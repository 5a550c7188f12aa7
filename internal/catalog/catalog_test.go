package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c := Default()
	require.Greater(t, c.Len(), 0)

	s, ok := c.Lookup(432)
	require.True(t, ok)
	assert.Contains(t, s.Description, "Selic")

	_, ok = c.Lookup(0)
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "credito pessoal nao consignado", Normalize("Crédito Pessoal NÃO consignado"))
	assert.Equal(t, "aquisicao de veiculos", Normalize("Aquisição de veículos"))
}

func TestSearch_IgnoresCaseAndAccents(t *testing.T) {
	c, err := New([]Series{
		{Code: 25471, Description: "Aquisição de veículos"},
		{Code: 25464, Description: "Crédito pessoal não consignado"},
		{Code: 432, Description: "Meta Selic"},
	})
	require.NoError(t, err)

	got := c.Search("VEICULOS")
	require.Len(t, got, 1)
	assert.Equal(t, 25471, got[0].Code)

	got = c.Search("nao consig")
	require.Len(t, got, 1)
	assert.Equal(t, 25464, got[0].Code)

	// Codes are searchable too.
	got = c.Search("254")
	assert.Len(t, got, 2)

	assert.Len(t, c.Search("  "), 3)
	assert.Empty(t, c.Search("inexistente"))
}

func TestNew_RejectsBadEntries(t *testing.T) {
	_, err := New([]Series{{Code: 0, Description: "x"}})
	assert.Error(t, err)

	_, err = New([]Series{{Code: 1, Description: "a"}, {Code: 1, Description: "b"}})
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- code: 7\n  description: Série de teste\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	s, ok := c.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, "Série de teste", s.Description)

	c, err = Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), c)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
