package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santelink/provider-portal/pkg/config"
)

func tokenConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:            "test-secret",
		Issuer:            "santelink-portal",
		TTLMinutes:        720,
		InactivityMinutes: 60,
	}
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := tokenConfig()
	now := time.Now()

	signed, err := MintSessionToken(cfg, now, "s1", "u1", "p@clinic.cm", "PROVIDER")
	require.NoError(t, err)

	claims, err := ParseSessionToken(cfg, signed)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.ID)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "p@clinic.cm", claims.Email)
	assert.Equal(t, "PROVIDER", claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := tokenConfig()
	signed, err := MintSessionToken(cfg, time.Now(), "s1", "u1", "p@clinic.cm", "PROVIDER")
	require.NoError(t, err)

	forged := cfg
	forged.Secret = "other-secret"
	_, err = ParseSessionToken(forged, signed)
	assert.Error(t, err)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	cfg := tokenConfig()
	signed, err := MintSessionToken(cfg, time.Now(), "s1", "u1", "p@clinic.cm", "PROVIDER")
	require.NoError(t, err)

	other := cfg
	other.Issuer = "someone-else"
	_, err = ParseSessionToken(other, signed)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := tokenConfig()
	signed, err := MintSessionToken(cfg, time.Now().Add(-13*time.Hour), "s1", "u1", "p@clinic.cm", "PROVIDER")
	require.NoError(t, err)

	_, err = ParseSessionToken(cfg, signed)
	assert.Error(t, err)
}

func TestMintRequiresSessionID(t *testing.T) {
	_, err := MintSessionToken(tokenConfig(), time.Now(), "", "u1", "p@clinic.cm", "PROVIDER")
	assert.Error(t, err)
}
