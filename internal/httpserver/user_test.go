package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhabt/technotes/internal/hash"
	"github.com/medhabt/technotes/internal/models"
)

func TestListUsers_Empty(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/users", nil)
	requireHTTPError(t, env.Users.List(c), http.StatusNotFound)
}

func TestListUsers_ExcludesPasswords(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "pw1", []string{"Employee"})
	env.createUser("bob", "pw2", []string{"Manager"})

	rec, c := env.doJSONRequest(http.MethodGet, "/users", nil)
	require.NoError(t, env.Users.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password")
		assert.NotContains(t, u, "PasswordHash")
	}
}

func TestCreateUser_Success(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/users", map[string]any{
		"username": "alice",
		"password": "pw1",
		"roles":    []string{"Manager"},
	})

	require.NoError(t, env.Users.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, []string{"Manager"}, created.Roles)
	assert.True(t, created.Active)
	assert.NotZero(t, created.ID)

	stored, err := env.Repo.GetUserByID(c.Request().Context(), created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.True(t, hash.CheckPassword(stored.PasswordHash, "pw1"))
}

func TestCreateUser_DefaultRoles(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/users", map[string]string{
		"username": "alice",
		"password": "pw1",
	})

	require.NoError(t, env.Users.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, []string{"Employee"}, created.Roles)
}

func TestCreateUser_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/users", map[string]string{
		"username": "alice",
	})
	requireHTTPError(t, env.Users.Create(c), http.StatusBadRequest)

	_, c = env.doJSONRequest(http.MethodPost, "/users", map[string]string{
		"password": "pw1",
	})
	requireHTTPError(t, env.Users.Create(c), http.StatusBadRequest)
}

func TestCreateUser_DuplicateCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Alice", "pw1", []string{"Employee"})

	_, c := env.doJSONRequest(http.MethodPost, "/users", map[string]string{
		"username": "aLiCe",
		"password": "pw2",
	})
	requireHTTPError(t, env.Users.Create(c), http.StatusConflict)
}

func TestUpdateUser_Success(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("alice", "pw1", []string{"Employee"})

	rec, c := env.doJSONRequest(http.MethodPatch, "/users", map[string]any{
		"id":       user.ID,
		"username": "alice2",
		"roles":    []string{"Manager"},
		"active":   false,
	})

	require.NoError(t, env.Users.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := env.Repo.GetUserByID(c.Request().Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, []string{"Manager"}, updated.Roles)
	assert.False(t, updated.Active)
}

func TestUpdateUser_RehashesPassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("alice", "pw1", []string{"Employee"})

	_, c := env.doJSONRequest(http.MethodPatch, "/users", map[string]any{
		"id":       user.ID,
		"username": "alice",
		"password": "pw2",
		"roles":    []string{"Employee"},
		"active":   true,
	})
	require.NoError(t, env.Users.Update(c))

	updated, err := env.Repo.GetUserByID(c.Request().Context(), user.ID)
	require.NoError(t, err)
	assert.True(t, hash.CheckPassword(updated.PasswordHash, "pw2"))
}

func TestUpdateUser_MissingActiveFlag(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("alice", "pw1", []string{"Employee"})

	_, c := env.doJSONRequest(http.MethodPatch, "/users", map[string]any{
		"id":       user.ID,
		"username": "alice",
		"roles":    []string{"Employee"},
	})
	requireHTTPError(t, env.Users.Update(c), http.StatusBadRequest)
}

func TestUpdateUser_NonBooleanActive(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("alice", "pw1", []string{"Employee"})

	_, c := env.doJSONRequest(http.MethodPatch, "/users", map[string]any{
		"id":       user.ID,
		"username": "alice",
		"roles":    []string{"Employee"},
		"active":   "yes",
	})
	requireHTTPError(t, env.Users.Update(c), http.StatusBadRequest)
}

func TestUpdateUser_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPatch, "/users", map[string]any{
		"id":       9999,
		"username": "ghost",
		"roles":    []string{"Employee"},
		"active":   true,
	})
	requireHTTPError(t, env.Users.Update(c), http.StatusNotFound)
}

func TestUpdateUser_UsernameCollision(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", "pw1", []string{"Employee"})
	bob := env.createUser("bob", "pw2", []string{"Employee"})

	_, c := env.doJSONRequest(http.MethodPatch, "/users", map[string]any{
		"id":       bob.ID,
		"username": "ALICE",
		"roles":    []string{"Employee"},
		"active":   true,
	})
	requireHTTPError(t, env.Users.Update(c), http.StatusConflict)
}

func TestDeleteUser_WithNotes_Blocked(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("alice", "pw1", []string{"Employee"})
	env.createNote(user.ID, "t", "b")

	_, c := env.doJSONRequest(http.MethodDelete, "/users", map[string]any{
		"id": user.ID,
	})
	requireHTTPError(t, env.Users.Delete(c), http.StatusConflict)
}

func TestDeleteUser_WithoutNotes_Succeeds(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("alice", "pw1", []string{"Employee"})
	note := env.createNote(user.ID, "t", "b")

	// Blocked while the note exists, allowed once it is gone.
	_, c := env.doJSONRequest(http.MethodDelete, "/users", map[string]any{"id": user.ID})
	requireHTTPError(t, env.Users.Delete(c), http.StatusConflict)

	require.NoError(t, env.Repo.DeleteNote(c.Request().Context(), note.ID))

	rec, c := env.doJSONRequest(http.MethodDelete, "/users", map[string]any{"id": user.ID})
	require.NoError(t, env.Users.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteUser_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodDelete, "/users", map[string]any{"id": 9999})
	requireHTTPError(t, env.Users.Delete(c), http.StatusNotFound)
}

func TestDeleteUser_MissingID(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodDelete, "/users", map[string]any{})
	requireHTTPError(t, env.Users.Delete(c), http.StatusBadRequest)
}
