package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/atomicstack/torrent-console/internal/remote/remotetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectedFake(t *testing.T, torrents ...remote.Status) *remotetest.Fake {
	t.Helper()
	fake := remotetest.New(torrents...)
	require.NoError(t, fake.Connect(context.Background(), remote.Params{Address: "127.0.0.1", Port: 8080}))
	return fake
}

func fooBar(t *testing.T) *remotetest.Fake {
	return connectedFake(t,
		remote.Status{ID: "abc123", Name: "Foo.iso"},
		remote.Status{ID: "def456", Name: "Bar.zip"},
	)
}

func TestMatchPrefixBeforeRefreshIsEmpty(t *testing.T) {
	c := New()
	assert.False(t, c.Loaded())
	assert.Nil(t, c.MatchPrefix(""))
	assert.Nil(t, c.MatchPrefix("abc"))
	_, ok := c.NameOf("abc123")
	assert.False(t, ok)
	_, err := c.Resolve("abc")
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestRefreshPopulatesIndex(t *testing.T) {
	fake := fooBar(t)
	c := New()
	require.NoError(t, c.Refresh(context.Background(), fake))

	assert.Equal(t, []string{"abc123"}, c.MatchPrefix("Foo"))
	assert.Equal(t, []string{"abc123"}, c.MatchPrefix("abc"))
	name, ok := c.NameOf("def456")
	require.True(t, ok)
	assert.Equal(t, "Bar.zip", name)

	calls := fake.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "SessionState", calls[1].Method)
	assert.Equal(t, "TorrentsStatus", calls[2].Method)
	assert.Equal(t, []string{"abc123", "def456"}, calls[2].Args)
}

func TestEveryIDMatchesItsOwnPrefix(t *testing.T) {
	fake := connectedFake(t,
		remote.Status{ID: "aa01", Name: "aa02"},
		remote.Status{ID: "aa02", Name: "zz"},
		remote.Status{ID: "b", Name: "aa"},
	)
	c := New()
	require.NoError(t, c.Refresh(context.Background(), fake))
	for _, id := range []string{"aa01", "aa02", "b"} {
		for i := 0; i <= len(id); i++ {
			assert.Contains(t, c.MatchPrefix(id[:i]), id)
		}
	}
}

func TestMatchPrefixOrdersIDsBeforeNamesWithoutDuplicates(t *testing.T) {
	c := New()
	c.Replace([]Entry{
		{ID: "x1", Name: "ab-name"},
		{ID: "ab1", Name: "ab-also"},
		{ID: "y2", Name: "other"},
	})
	assert.Equal(t, []string{"ab1", "x1"}, c.MatchPrefix("ab"))
	assert.Equal(t, []string{"x1", "ab1", "y2"}, c.MatchPrefix(""))
}

func TestRefreshFailureKeepsPreviousIndex(t *testing.T) {
	fake := fooBar(t)
	c := New()
	require.NoError(t, c.Refresh(context.Background(), fake))

	fake.Errors["TorrentsStatus"] = errors.New("boom")
	err := c.Refresh(context.Background(), fake)
	require.Error(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestResolve(t *testing.T) {
	c := New()
	c.Replace([]Entry{
		{ID: "abc123", Name: "Foo.iso"},
		{ID: "abd456", Name: "Foo.iso.sig"},
		{ID: "fff000", Name: "Bar.zip"},
	})

	id, err := c.Resolve("fff000")
	require.NoError(t, err)
	assert.Equal(t, "fff000", id)

	id, err = c.Resolve("Bar")
	require.NoError(t, err)
	assert.Equal(t, "fff000", id)

	id, err = c.Resolve("Foo.iso")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id, "exact name wins over prefix matches")

	_, err = c.Resolve("ab")
	var amb *AmbiguousError
	require.True(t, errors.As(err, &amb))
	assert.Len(t, amb.Matches, 2)
	assert.Contains(t, amb.Error(), "abc123 (Foo.iso)")

	_, err = c.Resolve("zzz")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "zzz", nf.Token)
}

func TestResolveAllWildcard(t *testing.T) {
	c := New()
	c.Replace([]Entry{{ID: "a1", Name: "one"}, {ID: "b2", Name: "two"}})
	ids, err := c.ResolveAll([]string{"two", "*"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b2", "a1"}, ids)
}

func TestCompleteOffersIDsAndNames(t *testing.T) {
	c := New()
	c.Replace([]Entry{{ID: "abc123", Name: "Foo.iso"}, {ID: "def456", Name: "abc.tar"}})
	assert.Equal(t, []string{"abc123", "abc.tar"}, c.Complete("abc"))
}

func TestResolveRejectsBlankToken(t *testing.T) {
	c := New()
	require.NoError(t, c.Refresh(context.Background(), connectedFake(t, remote.Status{ID: "abc123", Name: "Foo.iso"})))

	for _, token := range []string{"", "  "} {
		_, err := c.Resolve(token)
		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf, "%q", token)
	}
	_, err := c.ResolveAll([]string{"abc123", ""})
	assert.Error(t, err)
}
