package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Each test run gets its own pepper so hashes never leak between runs.
	dir, err := os.MkdirTemp("", "cryptox-test-*")
	if err != nil {
		panic(err)
	}

	SetPepperPath(filepath.Join(dir, "pepper"))
	os.Exit(func() int {
		defer os.RemoveAll(dir)
		return m.Run()
	}())
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r-secret")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	require.NoError(t, VerifyPassword("Sup3r-secret", hash))
	require.ErrorIs(t, VerifyPassword("wrong", hash), ErrPasswordMismatch)
}

func TestVerifyPasswordEmptyHash(t *testing.T) {
	// Admin-created accounts have no usable password until setup.
	require.ErrorIs(t, VerifyPassword("anything", ""), ErrPasswordMismatch)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, h := range []string{
		"not-a-hash",
		"$argon2id$v=19$m=19456,t=2,p=1$salt",
		"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	} {
		require.Error(t, VerifyPassword("pw", h))
	}
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	a, err := HashPassword("Sup3r-secret")
	require.NoError(t, err)
	b, err := HashPassword("Sup3r-secret")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"acceptable", "Aa1#aaaa", true},
		{"acceptable long", "Str0ng-enough-Pa$$word", true},
		{"too short", "Aa1#aaa", false},
		{"no lowercase", "AA1#AAAA", false},
		{"no uppercase", "aa1#aaaa", false},
		{"no digit", "Aaa#aaaa", false},
		{"no symbol", "Aa1aaaaa", false},
		{"symbol outside set", "Aa1(aaaa", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CheckPasswordStrength(tt.password, MinPasswordLength))
		})
	}
}

func TestCheckPasswordStrengthCustomMinLength(t *testing.T) {
	require.True(t, CheckPasswordStrength("Aa1#", 4))
	require.False(t, CheckPasswordStrength("Aa1#", 5))
	// Zero falls back to the default minimum.
	require.False(t, CheckPasswordStrength("Aa1#", 0))
}
