package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordReset_GenerateToken(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, token, 64, "hex of 32 bytes = 64 chars")

	hexRegex := regexp.MustCompile(`^[0-9a-f]{64}$`)
	assert.True(t, hexRegex.MatchString(token), "token should be hex string")

	other, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestHashToken(t *testing.T) {
	h := HashToken("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("abc"))
	assert.NotEqual(t, h, HashToken("abd"))
}

func TestPasswordReset_IsValid(t *testing.T) {
	now := time.Now()

	// 有效
	p := &PasswordReset{Used: false, ExpiresAt: now.Add(time.Hour)}
	assert.True(t, p.IsValid(now))

	// 无效：已使用
	p2 := &PasswordReset{Used: true, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, p2.IsValid(now))

	// 无效：已过期
	p3 := &PasswordReset{Used: false, ExpiresAt: now.Add(-time.Hour)}
	assert.True(t, p3.IsExpired(now))
	assert.False(t, p3.IsValid(now))
}
