package component

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nizvoo/jevois/param"
)

// camera is a test component declaring the classic tunable parameters
type camera struct {
	*Base
	brightness *param.Param[int]
	gain       *param.Param[float64]
}

func newCamera(base *Base) (Component, error) {
	c := &camera{
		Base:       base,
		brightness: param.MustNew(param.Def[int]{Name: "brightness", Description: "Sensor brightness", Default: 50}),
		gain:       param.MustNew(param.Def[float64]{Name: "gain", Description: "Analog gain", Default: 1.0}),
	}
	if err := c.AddParam(c.brightness, c.gain); err != nil {
		return nil, err
	}
	return c, nil
}

// filter is a second component type, used for capability-check tests
type filter struct {
	*Base
	strength *param.Param[int]
}

func newFilter(base *Base) (Component, error) {
	f := &filter{
		Base:     base,
		strength: param.MustNew(param.Def[int]{Name: "strength", Description: "Filter strength", Default: 3}),
	}
	if err := f.AddParam(f.strength); err != nil {
		return nil, err
	}
	return f, nil
}

// plain builds a bare container node
func plain(base *Base) (Component, error) {
	return base, nil
}

func mustRoot(t *testing.T, name string) *Base {
	t.Helper()
	root, err := NewRoot(name)
	require.NoError(t, err)
	return root
}

func TestNewRoot(t *testing.T) {
	root, err := NewRoot("engine")
	require.NoError(t, err)

	assert.Equal(t, "engine", root.InstanceName())
	assert.Equal(t, "engine", root.Path())
	assert.Nil(t, root.Parent())
	assert.Equal(t, StateConstructed, root.State())
	assert.Empty(t, root.Subs())
	assert.Empty(t, root.Params())
}

func TestNewRoot_InvalidNames(t *testing.T) {
	tests := []struct {
		name     string
		instance string
	}{
		{"empty", ""},
		{"delimiter", "a:b"},
		{"whitespace", "a b"},
		{"control", "a\nb"},
		{"slash", "a/b"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewRoot(test.instance)
			assert.Error(t, err)
		})
	}
}

func TestValidateInstanceName(t *testing.T) {
	assert.NoError(t, ValidateInstanceName("cam-0_left.v2"))
	assert.Error(t, ValidateInstanceName(""))
	assert.Error(t, ValidateInstanceName("with:colon"))

	long := make([]byte, MaxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateInstanceName(string(long)))
}

func TestPathComputation(t *testing.T) {
	root := mustRoot(t, "engine")

	cam, err := root.AddSub("cam", newCamera)
	require.NoError(t, err)
	assert.Equal(t, "engine:cam", cam.Node().Path())

	lens, err := cam.Node().AddSub("lens", plain)
	require.NoError(t, err)
	assert.Equal(t, "engine:cam:lens", lens.Node().Path())
	assert.Equal(t, cam.Node(), lens.Node().Parent())
}

func TestAddParam_DuplicateName(t *testing.T) {
	root := mustRoot(t, "engine")

	p1 := param.MustNew(param.Def[int]{Name: "brightness", Default: 0})
	p2 := param.MustNew(param.Def[int]{Name: "brightness", Default: 1})

	require.NoError(t, root.AddParam(p1))
	err := root.AddParam(p2)
	require.Error(t, err)

	// the rejected cell stays unowned and the declared set is unchanged
	assert.Nil(t, p2.Owner())
	assert.Len(t, root.Params(), 1)
}

func TestParam_Lookup(t *testing.T) {
	root := mustRoot(t, "engine")
	cam, err := root.AddSub("cam", newCamera)
	require.NoError(t, err)

	cell, err := cam.Node().Param("brightness")
	require.NoError(t, err)
	assert.Equal(t, "brightness", cell.Name())
	assert.Equal(t, cam.Node(), cell.Owner())

	_, err = cam.Node().Param("nonexistent")
	assert.Error(t, err)
}

func TestParamsOrder(t *testing.T) {
	root := mustRoot(t, "engine")
	for i := 0; i < 5; i++ {
		require.NoError(t, root.AddParam(
			param.MustNew(param.Def[int]{Name: fmt.Sprintf("p%d", i), Default: i})))
	}

	cells := root.Params()
	require.Len(t, cells, 5)
	for i, cell := range cells {
		assert.Equal(t, fmt.Sprintf("p%d", i), cell.Name(), "declaration order must be preserved")
	}
}
