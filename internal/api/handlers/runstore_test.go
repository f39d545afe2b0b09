package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStore_Eviction(t *testing.T) {
	s := NewRunStore(2)

	id1 := s.Add(&StoredRun{Dataset: "a"})
	id2 := s.Add(&StoredRun{Dataset: "b"})
	id3 := s.Add(&StoredRun{Dataset: "c"})
	require.NotEqual(t, id1, id2)

	_, ok := s.Get(id1)
	assert.False(t, ok, "oldest run should have been evicted")

	run, ok := s.Get(id2)
	require.True(t, ok)
	assert.Equal(t, "b", run.Dataset)
	assert.Equal(t, id2, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	_, ok = s.Get(id3)
	assert.True(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestRunStore_DefaultLimit(t *testing.T) {
	s := NewRunStore(0)
	for i := 0; i < defaultRunHistory+5; i++ {
		s.Add(&StoredRun{Dataset: "x"})
	}
	assert.Equal(t, defaultRunHistory, s.Len())
}
