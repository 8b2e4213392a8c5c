package collections_test

import (
	"testing"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/collections"
	"github.com/stretchr/testify/assert"
)

func TestNewSet(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		s := collections.NewSet[string]()
		assert.NotNil(t, s)
		assert.Equal(t, 0, len(s))
	})

	t.Run("duplicate class names collapse", func(t *testing.T) {
		s := collections.NewSet("btn", "btn-primary", "btn", "card")
		assert.Equal(t, 3, len(s))
		assert.True(t, s.Has("btn"))
		assert.True(t, s.Has("btn-primary"))
		assert.True(t, s.Has("card"))
	})
}

func TestSetHas(t *testing.T) {
	s := collections.NewSet("mat-button", "Header")

	assert.True(t, s.Has("mat-button"))
	assert.False(t, s.Has("header"), "membership is case-sensitive")
	assert.False(t, s.Has(""))
}

func TestSetUnion(t *testing.T) {
	s := collections.NewSet("a1", "b1")
	s.Union(collections.NewSet("b1", "c1"))

	assert.ElementsMatch(t, []string{"a1", "b1", "c1"}, s.Members())
}

func TestSetMembers(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		members := collections.NewSet[string]().Members()
		assert.NotNil(t, members)
		assert.Empty(t, members)
	})

	t.Run("non-empty set", func(t *testing.T) {
		members := collections.NewSet("a", "b", "c").Members()
		assert.ElementsMatch(t, []string{"a", "b", "c"}, members)
	})
}

func TestSorted(t *testing.T) {
	s := collections.NewSet("zeta", "alpha", "Mid", "beta")
	assert.Equal(t, []string{"Mid", "alpha", "beta", "zeta"}, collections.Sorted(s))
	assert.Empty(t, collections.Sorted(collections.NewSet[string]()))
}

func TestSetString(t *testing.T) {
	assert.Equal(t, "[]", collections.NewSet[string]().String())
	assert.Equal(t, "[a]", collections.NewSet("a").String())
}
