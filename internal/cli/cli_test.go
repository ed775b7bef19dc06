package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes authctl with args and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), err
}

func runJSON(t *testing.T, out any, args ...string) {
	t.Helper()
	stdout, err := run(t, append([]string{"--output", "json"}, args...)...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), out))
}

// useFileKeyring points the keyring backend at a throwaway encrypted file store
func useFileKeyring(t *testing.T) {
	t.Helper()
	t.Setenv("AUTHSTORE_CONFIG", "")
	t.Setenv("AUTHSTORE_BACKEND", "keyring")
	t.Setenv("AUTHSTORE_KEYRING_BACKEND", "file")
	t.Setenv("AUTHSTORE_KEYRING_DIR", t.TempDir())
	t.Setenv("AUTHSTORE_KEYRING_PASSWORD", "test-password")
}

func TestShowDefaultsText(t *testing.T) {
	out, err := run(t, "--backend", "memory", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "Username: (none)")
	assert.Contains(t, out, "Handle: anonymous")
	assert.Contains(t, out, "Random count: 0")
	assert.Contains(t, out, "Doubled: 0")
	assert.Contains(t, out, "Remember me: false")
}

func TestIncreaseTimesMemory(t *testing.T) {
	var result StateResult
	runJSON(t, &result, "--backend", "memory", "increase", "--times", "3")

	assert.Equal(t, int64(3), result.RandomCount)
	assert.Equal(t, int64(6), result.DoubleRandomCount)
}

func TestIncreaseRejectsZeroTimes(t *testing.T) {
	_, err := run(t, "--backend", "memory", "increase", "--times", "0")
	assert.Error(t, err)
}

func TestKeyringPersistsAcrossInvocations(t *testing.T) {
	useFileKeyring(t)

	_, err := run(t, "set-username", "Alice Smith")
	require.NoError(t, err)
	_, err = run(t, "increase", "-n", "2")
	require.NoError(t, err)

	var result StateResult
	runJSON(t, &result, "show")
	assert.Equal(t, "Alice Smith", result.Username)
	assert.Equal(t, int64(2), result.RandomCount)
	require.NotNil(t, result.ModUsername)
	assert.Regexp(t, `^alice_smith([1-9][0-9]{0,2}|1000)$`, *result.ModUsername)
}

func TestStoresAreScopedByName(t *testing.T) {
	useFileKeyring(t)

	_, err := run(t, "--store", "first", "increase")
	require.NoError(t, err)

	var result StateResult
	runJSON(t, &result, "--store", "second", "show")
	assert.Equal(t, int64(0), result.RandomCount)
}

func TestRedisBackend(t *testing.T) {
	t.Setenv("AUTHSTORE_CONFIG", "")
	mr := miniredis.RunT(t)
	url := "redis://" + mr.Addr()

	_, err := run(t, "--backend", "redis", "--redis-url", url, "set-username", "bob")
	require.NoError(t, err)
	assert.True(t, mr.Exists("authstore:snapshot:auth"))

	var result StateResult
	runJSON(t, &result, "--backend", "redis", "--redis-url", url, "show")
	assert.Equal(t, "bob", result.Username)
}

func TestModUsernameAbsent(t *testing.T) {
	out, err := run(t, "--backend", "memory", "mod-username")
	require.NoError(t, err)
	assert.Equal(t, "anonymous\n", out)

	var result ModUsernameResult
	runJSON(t, &result, "--backend", "memory", "mod-username")
	assert.Nil(t, result.ModUsername)
}

func TestDouble(t *testing.T) {
	useFileKeyring(t)
	_, err := run(t, "increase", "--times", "21")
	require.NoError(t, err)

	out, err := run(t, "double")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := run(t, "--backend", "memory", "--output", "yaml", "show")
	assert.Error(t, err)
}

func TestInvalidBackend(t *testing.T) {
	_, err := run(t, "--backend", "floppy", "show")
	assert.Error(t, err)
}

func TestSetUsernameRequiresArg(t *testing.T) {
	_, err := run(t, "--backend", "memory", "set-username")
	assert.Error(t, err)
}
