package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/d3ce1t/turtlelink/idgen"
	"github.com/d3ce1t/turtlelink/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func setupEnv(t *testing.T) {
	t.Setenv("TURTLE_STORE", "pebble")
	t.Setenv("TURTLE_DATA_DIR", t.TempDir())
	t.Setenv("TURTLE_REDIS_ADDRESS", "")
	t.Setenv("TURTLE_WORKER_ID", "")
	t.Setenv("TURTLE_DATACENTER_ID", "")
}

func TestEncodeDecode(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "encode", "1234", "--length", "3")
	require.NoError(t, err)
	assert.Equal(t, "0Ju\n", out)

	out, err = run(t, "encode", "1234", "--length", "0")
	require.NoError(t, err)
	assert.Equal(t, "Ju\n", out)

	out, err = run(t, "decode", "0Ju")
	require.NoError(t, err)
	assert.Equal(t, "1234\n", out)

	_, err = run(t, "decode", "a-b")
	assert.Error(t, err)

	_, err = run(t, "encode", "-5")
	assert.Error(t, err)
}

func TestNextAndInspect(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "next", "-n", "3", "--worker", "9", "--datacenter", "4")
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Len(t, lines, 3)

	var prev int64
	for _, line := range lines {
		id, err := strconv.ParseInt(line, 10, 64)
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id

		parts := idgen.DefaultLayout().Decompose(id, idgen.DefaultEpoch)
		assert.Equal(t, int64(9), parts.WorkerID)
		assert.Equal(t, int64(4), parts.DatacenterID)
	}

	out, err = run(t, "inspect", lines[0])
	require.NoError(t, err)
	assert.Contains(t, out, "worker_id:     9\n")
	assert.Contains(t, out, "datacenter_id: 4\n")

	_, err = run(t, "next", "--worker", "32")
	assert.ErrorIs(t, err, idgen.ErrValidation)
}

// createUser registers username and returns its id.
func createUser(t *testing.T, username string) string {
	t.Helper()

	out, err := run(t, "user", "create", username, "--password", "secret-password")
	require.NoError(t, err)

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "id:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "id:"))
		}
	}

	t.Fatalf("no id in %q", out)
	return ""
}

func TestUserCommands(t *testing.T) {
	setupEnv(t)

	id := createUser(t, "alice")

	out, err := run(t, "user", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "username: alice\n")
	assert.Contains(t, out, "admin:    false\n")

	out, err = run(t, "user", "show", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "id:       "+id+"\n")

	_, err = run(t, "user", "create", "alice", "--password", "secret-password")
	assert.ErrorIs(t, err, model.ErrUsernameTaken)

	_, err = run(t, "user", "create", "bob")
	assert.Error(t, err)

	_, err = run(t, "user", "show", "12345")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestLinkLifecycle(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "shorten", "https://example.com/docs", "--owner", "5")
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	owner := createUser(t, "docs-team")

	out, err := run(t, "shorten", "https://example.com/docs", "--owner", owner, "--code", "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "short url: http://localhost:8000/docs\n")

	var adminKey string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "admin key: ") {
			adminKey = strings.TrimPrefix(line, "admin key: ")
		}
	}
	require.NotEmpty(t, adminKey)

	out, err = run(t, "resolve", "docs")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs\n", out)

	out, err = run(t, "links", owner)
	require.NoError(t, err)
	assert.Contains(t, out, "Num. Links: 1\n")

	_, err = run(t, "links", "5")
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = run(t, "delete", "docs", "not-the-key")
	assert.Error(t, err)

	out, err = run(t, "delete", "docs", adminKey)
	require.NoError(t, err)
	assert.Equal(t, "Link deleted\n", out)

	_, err = run(t, "resolve", "docs")
	assert.Error(t, err)
}
