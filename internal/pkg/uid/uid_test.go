package uid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake(t *testing.T) {
	s, err := NewSnowflake(1)
	require.NoError(t, err)

	seen := make(map[int64]struct{}, 1000)
	prev := int64(0)
	for range 1000 {
		id := s.Generate()
		assert.Greater(t, id, prev)
		prev = id
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestNewSnowflake_InvalidNode(t *testing.T) {
	_, err := NewSnowflake(5000)
	assert.Error(t, err)
}

func TestUUID(t *testing.T) {
	gen := NewUUID()

	a, b := gen.Generate(), gen.Generate()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
