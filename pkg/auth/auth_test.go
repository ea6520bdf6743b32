package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	now := time.Now()
	token, err := NewSessionToken("sess-1", "librarian", "admin", true, "secret", now, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(token, "secret")
	require.NoError(t, err)

	assert.Equal(t, "sess-1", claims.SessionID())
	assert.Equal(t, "librarian", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.Admin)
}

func TestSessionToken_Rejected(t *testing.T) {
	now := time.Now()

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewSessionToken("sess-1", "u", "staff", false, "secret", now, time.Hour)
		require.NoError(t, err)
		_, err = Parse(token, "other")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := NewSessionToken("sess-1", "u", "staff", false, "secret", now.Add(-2*time.Hour), time.Hour)
		require.NoError(t, err)
		_, err = Parse(token, "secret")
		assert.Error(t, err)
	})

	t.Run("missing session id", func(t *testing.T) {
		token, err := NewSessionToken("", "u", "staff", false, "secret", now, time.Hour)
		require.NoError(t, err)
		_, err = Parse(token, "secret")
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Parse("not-a-token", "secret")
		assert.Error(t, err)
	})
}

func TestComparePassword(t *testing.T) {
	argon, err := HashPassword("hunter2")
	require.NoError(t, err)

	bc, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
		wantErr  bool
	}{
		{"argon2id match", "hunter2", argon, true, false},
		{"argon2id mismatch", "hunter3", argon, false, false},
		{"bcrypt match", "hunter2", string(bc), true, false},
		{"bcrypt mismatch", "hunter3", string(bc), false, false},
		{"plain text rejected", "hunter2", "hunter2", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := ComparePassword(tt.password, tt.hash)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
