package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGDeterminism(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, a.Next(), b.Next(), "sequence diverged at step %d", i)
	}
}

func TestRNGSeedsDiverge(t *testing.T) {
	a := NewRNG(1)
	b := NewRNG(2)
	same := true
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds produced identical sequences")
}

func TestRNGRange(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 10000; i++ {
		v := r.Next()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestRNGIntn(t *testing.T) {
	r := NewRNG(99)
	for i := 0; i < 1000; i++ {
		v := r.Intn(6)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 6)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	tpl := basicMon("a", "A", 50)
	cards := make([]*CardInstance, 20)
	var factory instanceFactory
	for i := range cards {
		cards[i] = factory.New(&tpl)
	}
	seen := make(map[int]bool, len(cards))
	for _, c := range cards {
		seen[c.UID] = true
	}

	r := NewRNG(1337)
	r.Shuffle(cards)

	assert.Len(t, cards, 20)
	for _, c := range cards {
		assert.True(t, seen[c.UID], "uid %d appeared after shuffle but not before", c.UID)
		delete(seen, c.UID)
	}
	assert.Empty(t, seen, "cards lost during shuffle")
}

func TestShuffleDeterministic(t *testing.T) {
	tpl := basicMon("a", "A", 50)
	build := func() []*CardInstance {
		var factory instanceFactory
		cards := make([]*CardInstance, 30)
		for i := range cards {
			cards[i] = factory.New(&tpl)
		}
		return cards
	}
	a := build()
	b := build()

	NewRNG(555).Shuffle(a)
	NewRNG(555).Shuffle(b)

	for i := range a {
		assert.Equal(t, a[i].UID, b[i].UID, "order diverged at %d", i)
	}
}
