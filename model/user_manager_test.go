package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t, "worker_id: 3\n")
	users := env.model.Users

	user, err := users.CreateUser("alice", "secret-password", true)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username())
	assert.True(t, user.IsAdmin())

	parts := env.model.IDGen.Decompose(user.Id())
	assert.Equal(t, int64(3), parts.WorkerID)
	assert.Equal(t, testNow, parts.Timestamp)

	stored, err := users.GetUser(user.Id())
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username())

	// Only the bcrypt hash is stored
	assert.NotEqual(t, []byte("secret-password"), stored.passwordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword(stored.passwordHash, []byte("secret-password")))

	// A new user can own links right away
	_, _, err = env.model.Links.Shorten(user.Id(), "https://example.com", "")
	assert.NoError(t, err)
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t, "")
	users := env.model.Users

	for _, name := range []string{"", "ab", "has space", "semi;colon", string(make([]byte, 33))} {
		_, err := users.CreateUser(name, "secret-password", false)
		assert.Equal(t, ErrInvalidUsername, err, "username %q", name)
	}

	for _, password := range []string{"", "1234", "     x    ", string(make([]byte, 51))} {
		_, err := users.CreateUser("bob", password, false)
		assert.Equal(t, ErrInvalidPassword, err, "password %q", password)
	}
}

func TestCreateUserTakenUsername(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.model.Users.CreateUser("carol", "secret-password", false)
	require.NoError(t, err)

	_, err = env.model.Users.CreateUser("carol", "other-password", false)
	assert.Equal(t, ErrUsernameTaken, err)

	// Fixture users take their names too
	_, err = env.model.Users.CreateUser("user42", "other-password", false)
	assert.Equal(t, ErrUsernameTaken, err)
}

func TestGetUserNotFound(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.model.Users.GetUser(12345)
	assert.Equal(t, ErrUserNotFound, err)

	_, err = env.model.Users.GetUser(0)
	assert.Equal(t, ErrUserNotFound, err)

	_, err = env.model.Users.GetUserByUsername("nobody")
	assert.Equal(t, ErrUserNotFound, err)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t, "")

	created, err := env.model.Users.CreateUser("dave", "secret-password", false)
	require.NoError(t, err)

	user, err := env.model.Users.Authenticate("dave", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, created.Id(), user.Id())

	_, err = env.model.Users.Authenticate("dave", "wrong-password")
	assert.Equal(t, ErrInvalidUserOrPassword, err)

	_, err = env.model.Users.Authenticate("nobody", "secret-password")
	assert.Equal(t, ErrInvalidUserOrPassword, err)
}
