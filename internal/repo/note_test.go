package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medhabt/technotes/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
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

	return &GormRepo{DB: db}
}

func createTestUser(t *testing.T, r *GormRepo, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		Roles:        []string{"Employee"},
		Active:       true,
	}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user
}

func TestCreateNote_TicketSequenceStartsAt500(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "alice")

	first := models.Note{UserID: user.ID, Title: "t1", Body: "b1"}
	require.NoError(t, r.CreateNote(ctx, &first))
	require.Equal(t, uint(500), first.Ticket)

	second := models.Note{UserID: user.ID, Title: "t2", Body: "b2"}
	require.NoError(t, r.CreateNote(ctx, &second))
	require.Equal(t, uint(501), second.Ticket)
}

func TestCreateNote_TicketsNeverReused(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "alice")

	first := models.Note{UserID: user.ID, Title: "t1", Body: "b1"}
	require.NoError(t, r.CreateNote(ctx, &first))
	require.NoError(t, r.DeleteNote(ctx, first.ID))

	second := models.Note{UserID: user.ID, Title: "t2", Body: "b2"}
	require.NoError(t, r.CreateNote(ctx, &second))
	require.Equal(t, first.Ticket+1, second.Ticket)
}

func TestFindUserByUsernameFold(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	createTestUser(t, r, "Alice")

	found, err := r.FindUserByUsernameFold(ctx, "aLiCe")
	require.NoError(t, err)
	require.Equal(t, "Alice", found.Username)

	_, err = r.FindUserByUsernameFold(ctx, "bob")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCountUserNotes(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "alice")

	count, err := r.CountUserNotes(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	note := models.Note{UserID: user.ID, Title: "t", Body: "b"}
	require.NoError(t, r.CreateNote(ctx, &note))

	count, err = r.CountUserNotes(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
