package importance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bodyfat/pkg/errors"
)

const fixture = `{
  "Accuracy-focused (with Density)": {"Density": 0.91, "Abdomen": 0.04, "Chest": 0.01, "Weight": 0.01, "Age": 0.005},
  "Explainability-focused (no Density)": {"Abdomen": 0.62, "Weight": 0.08, "Hip": 0.06, "Height": 0.06, "Neck": 0.05}
}`

func TestParse_KeepsFileOrder(t *testing.T) {
	table, err := Parse(strings.NewReader(fixture))
	require.NoError(t, err)

	assert.Equal(t, []string{KeyWithDensity, KeyWithoutDensity}, table.Keys())

	items, ok := table.Lookup(KeyWithDensity)
	require.True(t, ok)
	assert.Equal(t, []Item{
		{Feature: "Density", Weight: 0.91},
		{Feature: "Abdomen", Weight: 0.04},
		{Feature: "Chest", Weight: 0.01},
		{Feature: "Weight", Weight: 0.01},
		{Feature: "Age", Weight: 0.005},
	}, items)
}

func TestAscending(t *testing.T) {
	table, err := Parse(strings.NewReader(fixture))
	require.NoError(t, err)

	items, err := table.Ascending(KeyWithDensity)
	require.NoError(t, err)

	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].Weight, items[i].Weight)
	}
	assert.Equal(t, "Age", items[0].Feature)
	// equal weights keep file order
	assert.Equal(t, "Chest", items[1].Feature)
	assert.Equal(t, "Weight", items[2].Feature)
	assert.Equal(t, "Density", items[len(items)-1].Feature)

	// stored order is untouched
	stored, _ := table.Lookup(KeyWithDensity)
	assert.Equal(t, "Density", stored[0].Feature)
}

func TestAscending_MissingKey(t *testing.T) {
	table := NewTable(map[string][]Item{KeyWithDensity: {{Feature: "Density", Weight: 1}}})

	_, err := table.Ascending(KeyWithoutDensity)
	assert.ErrorIs(t, err, errors.ErrConfiguration)
	assert.False(t, table.Has(KeyWithoutDensity))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not an object", input: `[1, 2]`},
		{name: "weight not numeric", input: `{"k": {"Age": "high"}}`},
		{name: "entry not an object", input: `{"k": [0.1]}`},
		{name: "truncated", input: `{"k": {"Age": 0.1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feature_importance.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	table, err := Load(path)
	require.NoError(t, err)
	assert.True(t, table.Has(KeyWithoutDensity))

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
