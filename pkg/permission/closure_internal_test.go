package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// NewCatalog rejects cycles, so build the graph by hand to reach Expand.
func TestExpand_DetectsCycleInHandBuiltGraph(t *testing.T) {
	t.Parallel()

	c := &Catalog{
		order: []Key{"a:x", "a:y"},
		entries: map[Key]Permission{
			"a:x": {Key: "a:x"},
			"a:y": {Key: "a:y"},
		},
		deps: map[Key][]Key{
			"a:x": {"a:y"},
			"a:y": {"a:x"},
		},
		byResource: map[string][]Key{"a": {"a:x", "a:y"}},
		resources:  []string{"a"},
	}

	_, err := c.Expand("a:x")
	assert.ErrorIs(t, err, ErrDependencyCycle)

	_, err = c.Expand("a:*")
	assert.ErrorIs(t, err, ErrDependencyCycle)
}

func TestClosure_DiamondIsNotACycle(t *testing.T) {
	t.Parallel()

	c := &Catalog{
		deps: map[Key][]Key{
			"a:top":   {"a:left", "a:right"},
			"a:left":  {"a:base"},
			"a:right": {"a:base"},
		},
	}

	got, err := c.closure([]Key{"a:top"})
	assert.NoError(t, err)
	assert.ElementsMatch(t, []Key{"a:top", "a:left", "a:right", "a:base"}, got.Keys())
}
