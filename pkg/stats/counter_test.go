package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounter_AddAndTotal(t *testing.T) {
	c := NewCounter[string]()
	require.Equal(t, 0, c.Total())
	require.Equal(t, 0, c.Len())

	c.Add("Elbe")
	c.Add("Elbe")
	c.Add("Rhein")

	require.Equal(t, 3, c.Total())
	require.Equal(t, 2, c.Len())
	require.Equal(t, 2, c.Get("Elbe"))
	require.Equal(t, 1, c.Get("Rhein"))
	require.Equal(t, 0, c.Get("Donau"))
}

func TestCounter_MostCommon(t *testing.T) {
	c := NewCounter[int]()
	for range 3 {
		c.Add(0)
	}
	for range 5 {
		c.Add(2)
	}
	c.Add(7)

	require.Equal(t, []Entry[int]{
		{Key: 2, Count: 5},
		{Key: 0, Count: 3},
		{Key: 7, Count: 1},
	}, c.MostCommon())
}

func TestCounter_MostCommonTiesAreStable(t *testing.T) {
	c := NewCounter[string]()
	c.Add("b")
	c.Add("a")
	c.Add("c")

	require.Equal(t, []Entry[string]{
		{Key: "a", Count: 1},
		{Key: "b", Count: 1},
		{Key: "c", Count: 1},
	}, c.MostCommon())
}
