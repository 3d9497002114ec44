package frontier

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendin/entitycrawler/store"
)

func TestPushDedupes(t *testing.T) {
	f := New("http://a.test/", nil, nil)
	f.Push("http://a.test/1", "http://a.test/1", "http://a.test/2")
	assert.Equal(t, 2, f.Len())
}

func TestGetNextDrainsThenGenerates(t *testing.T) {
	f := New("http://a.test/", nil, nil)
	f.Push("http://a.test/1")

	calls := 0
	generate := func() []string {
		calls++
		return []string{"http://a.test/2"}
	}

	u1, ok := f.GetNext(generate)
	require.True(t, ok)
	assert.Equal(t, "http://a.test/1", u1)
	assert.Equal(t, 0, calls, "generate must not fire while the set still has URLs")

	u2, ok := f.GetNext(generate)
	require.True(t, ok)
	assert.Equal(t, "http://a.test/2", u2)
	assert.Equal(t, 1, calls)
}

func TestGetNextReturnsNoneWhenGenerateIsEmpty(t *testing.T) {
	f := New("http://a.test/", nil, nil)
	_, ok := f.GetNext(func() []string { return nil })
	assert.False(t, ok)
}

type fakeRawIndex struct {
	fresh map[string]bool
}

func (f *fakeRawIndex) Get(url string, now time.Time) (store.RawPage, bool) {
	return store.RawPage{URL: url}, f.fresh[url]
}

func TestGetNextSkipsFreshURLs(t *testing.T) {
	mock := clock.NewMock()
	raw := &fakeRawIndex{fresh: map[string]bool{"http://a.test/1": true}}
	f := New("http://a.test/", raw, mock)
	f.Push("http://a.test/1", "http://a.test/2")

	u, ok := f.GetNext(func() []string { return nil })
	require.True(t, ok)
	assert.Equal(t, "http://a.test/2", u, "the fresh URL must be skipped, leaving the stale one")
}
