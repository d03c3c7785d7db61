package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

func TestWhoamiCmd_SignedOut(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "whoami")

	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")
}

func TestLoginCmd(t *testing.T) {
	env := setupTestServices(t)

	out, _, err := run(t, "login", "--name", "Ada", "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ada <ada@example.com>")

	u := env.account.Current()
	require.NotNil(t, u)
	assert.Equal(t, domain.RoleUser, u.Role)

	out, _, err = run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada <ada@example.com> (user)")
}

func TestLoginCmd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad email", []string{"login", "--name", "Ada", "--email", "not-an-email"}},
		{"bad role", []string{"login", "--name", "Ada", "--email", "ada@example.com", "--role", "root"}},
		{"missing name", []string{"login", "--email", "ada@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServices(t)

			_, _, err := run(t, tt.args...)

			require.Error(t, err)
			assert.Nil(t, env.account.Current())
		})
	}
}

func TestLogoutCmd(t *testing.T) {
	env := setupTestServices(t)
	_, _, err := run(t, "login", "--name", "Ada", "--email", "ada@example.com", "--role", "admin")
	require.NoError(t, err)

	out, _, err := run(t, "logout")

	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")
	assert.Nil(t, env.account.Current())
}
