package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id := New()
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"generated id", New(), true},
		{"canonical uuid", "a3bb1890-68c1-4b50-b7a8-12f8c8b7f9e2", true},
		{"uppercase uuid", "A3BB1890-68C1-4B50-B7A8-12F8C8B7F9E2", true},
		{"empty", "", false},
		{"garbage", "not-a-uuid", false},
		{"sql injection attempt", "1; DROP TABLE lists;--", false},
		{"truncated", "a3bb1890-68c1-4b50", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.input))
		})
	}
}

func TestNewToken_Format(t *testing.T) {
	tok, err := NewToken("sess")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tok, "sess-"))
	assert.Greater(t, len(tok), len("sess-"))
}
