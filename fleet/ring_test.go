package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPushRightDedupes(t *testing.T) {
	r := NewRing()
	r.PushRight("a")
	r.PushRight("b")
	r.PushRight("a")
	assert.Equal(t, 2, r.Len())
}

func TestPopLeftIsFIFO(t *testing.T) {
	r := NewRing()
	r.PushRight("a")
	r.PushRight("b")

	first, ok := r.PopLeft(time.Second)
	assert.True(t, ok)
	assert.Equal(t, "a", first)

	second, ok := r.PopLeft(time.Second)
	assert.True(t, ok)
	assert.Equal(t, "b", second)
}

func TestPopLeftTimesOutWhenEmpty(t *testing.T) {
	r := NewRing()
	_, ok := r.PopLeft(20 * time.Millisecond)
	assert.False(t, ok)
}

func TestPopLeftWakesOnPush(t *testing.T) {
	r := NewRing()
	done := make(chan string, 1)
	go func() {
		id, _ := r.PopLeft(time.Second)
		done <- id
	}()

	time.Sleep(10 * time.Millisecond)
	r.PushRight("late")

	select {
	case id := <-done:
		assert.Equal(t, "late", id)
	case <-time.After(time.Second):
		t.Fatal("PopLeft never woke up after a push")
	}
}

func TestPushLeftReturnsToHead(t *testing.T) {
	r := NewRing()
	r.PushRight("a")
	r.PushRight("b")

	first, _ := r.PopLeft(time.Second)
	assert.Equal(t, "a", first)

	r.PushLeft(first)
	assert.Equal(t, 2, r.Len())

	next, _ := r.PopLeft(time.Second)
	assert.Equal(t, "a", next, "PushLeft must return id to the front, ahead of b")
}

func TestRemoveValue(t *testing.T) {
	r := NewRing()
	r.PushRight("a")
	r.PushRight("b")
	r.RemoveValue("a")
	assert.Equal(t, 1, r.Len())

	id, ok := r.PopLeft(time.Second)
	assert.True(t, ok)
	assert.Equal(t, "b", id)
}
