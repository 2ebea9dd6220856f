package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("climber@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	subject, err := SubjectFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "climber@example.com", subject)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken("climber@example.com", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = SubjectFromToken(token, testSecret)
	assert.Error(t, err)
}

func TestWrongKeyRejected(t *testing.T) {
	token, err := GenerateToken("climber@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = SubjectFromToken(token, []byte("other-secret"))
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := SubjectFromToken("not.a.token", testSecret)
	assert.Error(t, err)
}
