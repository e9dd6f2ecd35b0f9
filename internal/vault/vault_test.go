package vault

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"immo-client/internal/model"
)

func newVault(t *testing.T, secret string, fp string) *Vault {
	t.Helper()

	v, err := New(secret, fp)
	require.NoError(t, err)
	return v
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	v := newVault(t, "static-secret", "fp-1")

	for _, value := range []string{"a", "eyJhbGciOiJIUzI1NiJ9.eyJleHAiOjF9.sig", "é漢字 with spaces", string(make([]byte, 4096))} {
		encrypted, err := v.Encrypt(value)
		require.NoError(t, err)
		require.NotEqual(t, value, encrypted)

		decrypted, err := v.Decrypt(encrypted)
		require.NoError(t, err)
		require.Equal(t, value, decrypted)
	}
}

func TestEncryptEmptyString(t *testing.T) {
	t.Parallel()

	v := newVault(t, "static-secret", "fp-1")

	encrypted, err := v.Encrypt("")
	require.NoError(t, err)
	require.Equal(t, "", encrypted)

	decrypted, err := v.Decrypt("")
	require.NoError(t, err)
	require.Equal(t, "", decrypted)
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	t.Parallel()

	v := newVault(t, "static-secret", "fp-1")
	first, err := v.Encrypt("same")
	require.NoError(t, err)
	second, err := v.Encrypt("same")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestDecryptFailures(t *testing.T) {
	t.Parallel()

	v := newVault(t, "static-secret", "fp-1")
	encrypted, err := v.Encrypt("token")
	require.NoError(t, err)

	otherHost := newVault(t, "static-secret", "fp-2")
	_, err = otherHost.Decrypt(encrypted)
	require.ErrorIs(t, err, model.ErrDecrypt)

	otherSecret := newVault(t, "other-secret", "fp-1")
	_, err = otherSecret.Decrypt(encrypted)
	require.ErrorIs(t, err, model.ErrDecrypt)

	_, err = v.Decrypt("%%% not base64 %%%")
	require.ErrorIs(t, err, model.ErrDecrypt)

	_, err = v.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
	require.ErrorIs(t, err, model.ErrDecrypt)
}

func TestObjectRoundTrip(t *testing.T) {
	t.Parallel()

	v := newVault(t, "static-secret", "fp-1")
	user := model.UserProfile{ID: "u1", Name: "Awa", Email: "user@test.com", Role: "particulier"}

	encrypted, err := v.EncryptObject(user)
	require.NoError(t, err)

	var decoded model.UserProfile
	require.NoError(t, v.DecryptObject(encrypted, &decoded))
	require.Equal(t, user, decoded)

	require.ErrorIs(t, v.DecryptObject("", &decoded), model.ErrDecrypt)
}

func TestNewRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := New("", "fp")
	require.Error(t, err)
}

func TestFingerprintIsStable(t *testing.T) {
	t.Parallel()

	fp := Fingerprint{UserAgent: "immo-cli/1.0", Language: "fr_CI.UTF-8", Hostname: "h", Platform: "linux/amd64"}
	require.Equal(t, fp.String(), fp.String())
	require.Len(t, fp.String(), 32)

	other := fp
	other.TimezoneOffset = 60
	require.NotEqual(t, fp.String(), other.String())

	current := CurrentFingerprint("immo-cli/1.0")
	require.Equal(t, "immo-cli/1.0", current.UserAgent)
	require.NotEmpty(t, current.Platform)
}
