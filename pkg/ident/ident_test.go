package ident

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUUIDSourceUniqueness(t *testing.T) {
	src := NewUUIDSource()

	seen := map[uuid.UUID]bool{}
	for i := 0; i < 100; i++ {
		id := src.NewID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestUUIDSourceReferenceShape(t *testing.T) {
	src := NewUUIDSource()
	ref := src.Reference("inv")
	assert.True(t, strings.HasPrefix(ref, "INV-"), "reference %s", ref)
	assert.Len(t, ref, len("INV-")+8)
	assert.NotEqual(t, ref, src.Reference("inv"))
}

func TestSequenceSourceIsDeterministic(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := NewSequenceSource(base)
	second := NewSequenceSource(base)

	assert.Equal(t, first.NewID(), second.NewID())
	assert.Equal(t, first.Reference("lc"), second.Reference("lc"))
	assert.Equal(t, first.Now(), second.Now())
}

func TestSequenceSourceCounts(t *testing.T) {
	src := NewSequenceSource(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", src.NewID().String())
	assert.Equal(t, "LC-1002", src.Reference("lc"))
	assert.Equal(t, "00000000-0000-0000-0000-000000000003", src.NewID().String())
}
