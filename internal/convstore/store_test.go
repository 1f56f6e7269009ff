package convstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreGetMissing(t *testing.T) {
	s := New()

	id, ok := s.Get("+15551234567")
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestStoreSetAndGet(t *testing.T) {
	s := New()

	s.Set("+15551234567", "conv_9")

	id, ok := s.Get("+15551234567")
	assert.True(t, ok)
	assert.Equal(t, "conv_9", id)
	assert.Equal(t, 1, s.Len())
}

func TestStoreLastWriteWins(t *testing.T) {
	s := New()

	s.Set("+15551234567", "conv_1")
	s.Set("+15551234567", "conv_2")

	id, _ := s.Get("+15551234567")
	assert.Equal(t, "conv_2", id)
	assert.Equal(t, 1, s.Len())
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := New()
	s.Set("+15551234567", "conv_9")

	snapshot := s.Snapshot()
	snapshot["+15551234567"] = "tampered"
	snapshot["+15550000000"] = "conv_x"

	id, _ := s.Get("+15551234567")
	assert.Equal(t, "conv_9", id)
	assert.Equal(t, 1, s.Len())
}
