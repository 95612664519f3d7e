package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medhabt/technotes/internal/hash"
	"github.com/medhabt/technotes/internal/models"
	"github.com/medhabt/technotes/internal/repo"
	"github.com/medhabt/technotes/internal/service"
)

type testEnv struct {
	T             *testing.T
	E             *echo.Echo
	DB            *gorm.DB
	Repo          *repo.GormRepo
	Auth          *AuthHTTP
	Users         *UserHTTP
	Notes         *NoteHTTP
	AccessSecret  []byte
	RefreshSecret []byte
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Note{}, &models.TicketCounter{}))
	require.NoError(t, db.Create(&models.TicketCounter{
		ID:   models.TicketCounterID,
		Next: models.TicketSeqStart,
	}).Error)

	r := &repo.GormRepo{DB: db}
	accessSecret := []byte("test-access-secret")
	refreshSecret := []byte("test-refresh-secret")

	env := &testEnv{
		T:             t,
		E:             echo.New(),
		DB:            db,
		Repo:          r,
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
	}

	env.Auth = &AuthHTTP{Svc: &service.AuthService{
		Repo:          r,
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
	}}
	env.Users = &UserHTTP{Svc: &service.UserService{Repo: r}}
	env.Notes = &NoteHTTP{Svc: &service.NoteService{Repo: r}}

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createUser(username, password string, roles []string) *models.User {
	env.T.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		Roles:        roles,
		Active:       true,
	}
	require.NoError(env.T, env.Repo.CreateUser(context.Background(), user))
	return user
}

func (env *testEnv) createNote(userID uint, title, body string) *models.Note {
	env.T.Helper()

	note := &models.Note{UserID: userID, Title: title, Body: body}
	require.NoError(env.T, env.Repo.CreateNote(context.Background(), note))
	return note
}

// requireHTTPError asserts the handler failed with the given status.
func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()

	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %T", err)
	require.Equal(t, code, he.Code)
	return he
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
