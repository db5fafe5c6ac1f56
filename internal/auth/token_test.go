// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticToken(t *testing.T) {
	token, err := StaticToken("tok-123").Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	_, err = StaticToken("").Token()
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = StaticToken("   ").Token()
	assert.ErrorIs(t, err, ErrNoToken, "whitespace-only token should count as absent")
}

func TestEnvToken(t *testing.T) {
	t.Setenv(DefaultTokenEnv, "from-env")

	token, err := EnvToken{}.Token()
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)

	t.Setenv("HITCRAFT_ALT_TOKEN", "alt")
	token, err = EnvToken{Var: "HITCRAFT_ALT_TOKEN"}.Token()
	require.NoError(t, err)
	assert.Equal(t, "alt", token)
}

func TestEnvTokenMissing(t *testing.T) {
	t.Setenv(DefaultTokenEnv, "")

	_, err := EnvToken{}.Token()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestChainFirstWins(t *testing.T) {
	t.Setenv(DefaultTokenEnv, "env-token")

	chain := Chain{StaticToken(""), StaticToken("config-token"), EnvToken{}}
	token, err := chain.Token()
	require.NoError(t, err)
	assert.Equal(t, "config-token", token, "first source with a token should win")
}

func TestChainExhausted(t *testing.T) {
	t.Setenv(DefaultTokenEnv, "")

	_, err := Chain{StaticToken(""), EnvToken{}}.Token()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestFingerprintNeverExposesToken(t *testing.T) {
	token := "super-secret-token-value"
	fp := Fingerprint(token)

	assert.True(t, strings.HasPrefix(fp, "sha256:"))
	assert.NotContains(t, fp, "secret")
	assert.Equal(t, fp, Fingerprint(token), "fingerprint should be stable")
	assert.NotEqual(t, fp, Fingerprint("other-token"))

	assert.Equal(t, "none", Fingerprint(""))
}

func TestMasked(t *testing.T) {
	assert.Equal(t, "[not set]", Masked(StaticToken("")))

	masked := Masked(StaticToken("abc"))
	assert.Contains(t, masked, "REDACTED")
	assert.NotContains(t, masked, "abc")
}
