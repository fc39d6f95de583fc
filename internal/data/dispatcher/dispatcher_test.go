package dispatcher

import (
	"errors"
	"testing"

	"github.com/atomicstack/torrent-console/internal/backend"
	"github.com/atomicstack/torrent-console/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleIndexReplacesCache(t *testing.T) {
	c := cache.New()
	d := New(c)
	res := d.Handle(backend.Event{
		Kind:    backend.KindIndex,
		Reason:  backend.ReasonTick,
		Entries: []cache.Entry{{ID: "aaa", Name: "alpha"}},
	})
	assert.True(t, res.IndexUpdated)
	assert.Equal(t, 1, res.Count)
	require.True(t, c.Loaded())
	name, ok := c.NameOf("aaa")
	require.True(t, ok)
	assert.Equal(t, "alpha", name)
}

func TestHandleErrorKeepsPreviousIndex(t *testing.T) {
	c := cache.New()
	c.Replace([]cache.Entry{{ID: "aaa", Name: "alpha"}})
	d := New(c)
	res := d.Handle(backend.Event{Kind: backend.KindIndex, Err: errors.New("down")})
	assert.False(t, res.IndexUpdated)
	assert.EqualError(t, res.Err, "down")
	assert.Equal(t, 1, c.Len())
}

func TestHandleHealth(t *testing.T) {
	d := New(cache.New())
	res := d.Handle(backend.Event{Kind: backend.KindHealth})
	assert.True(t, res.Healthy)
	assert.False(t, res.IndexUpdated)
}
