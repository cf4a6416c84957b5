package cart

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddIncrementsExisting(t *testing.T) {
	c := New()
	c.Add(Line{ProductID: 1, Name: "Pen", Price: 115000})
	c.Add(Line{ProductID: 2, Name: "Journal", Price: 65000, Quantity: 2})
	c.Add(Line{ProductID: 1, Name: "Pen", Price: 115000, Quantity: 3})

	want := []Line{
		{ProductID: 1, Name: "Pen", Price: 115000, Quantity: 4},
		{ProductID: 2, Name: "Journal", Price: 65000, Quantity: 2},
	}
	if diff := cmp.Diff(want, c.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 6, c.Count())
	assert.Equal(t, int64(4*115000+2*65000), c.Total())
}

func TestCart_UpdateQuantity(t *testing.T) {
	c := New()
	c.Add(Line{ProductID: 1, Name: "Pen", Price: 10})
	c.Add(Line{ProductID: 2, Name: "Ink", Price: 20})

	require.NoError(t, c.UpdateQuantity(1, 5))
	assert.Equal(t, int64(70), c.Total())

	require.NoError(t, c.UpdateQuantity(2, 0))
	assert.Len(t, c.Lines(), 1)

	assert.ErrorIs(t, c.UpdateQuantity(42, 1), ErrLineNotFound)
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := New()
	c.Add(Line{ProductID: 1, Name: "Pen", Price: 10})
	c.Remove(99)
	assert.False(t, c.IsEmpty())

	c.Remove(1)
	assert.True(t, c.IsEmpty())

	c.Add(Line{ProductID: 1, Name: "Pen", Price: 10})
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.Total())
}

func TestCart_ItemsMatchTotal(t *testing.T) {
	c := New()
	c.Add(Line{ProductID: 7, Name: "Ocean Breeze", Price: 208000, Quantity: 1})
	c.Add(Line{ProductID: 12, Name: "Rose Oil", Price: 46000, Quantity: 3})

	var sum int64
	for _, it := range c.Items() {
		sum += it.Price * int64(it.Quantity)
	}
	assert.Equal(t, sum, c.Total())
}

func TestCart_ConcurrentAdd(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(Line{ProductID: 1, Name: "Pen", Price: 1, Quantity: 1})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Count())
	assert.Len(t, c.Lines(), 1)
}

func TestCart_RemoveOrdered(t *testing.T) {
	c := New()
	c.Add(Line{ProductID: 1, Name: "Pen", Price: 115000, Quantity: 2})
	c.Add(Line{ProductID: 2, Name: "Journal", Price: 65000, Quantity: 1})
	ordered := c.Items()

	c.Add(Line{ProductID: 1, Name: "Pen", Price: 115000, Quantity: 1})
	c.Add(Line{ProductID: 3, Name: "Ink", Price: 9000, Quantity: 1})
	c.RemoveOrdered(ordered)

	want := []Line{
		{ProductID: 1, Name: "Pen", Price: 115000, Quantity: 1},
		{ProductID: 3, Name: "Ink", Price: 9000, Quantity: 1},
	}
	if diff := cmp.Diff(want, c.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	c.RemoveOrdered(c.Items())
	assert.True(t, c.IsEmpty())
}
