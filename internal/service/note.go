package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/medhabt/technotes/internal/logging"
	"github.com/medhabt/technotes/internal/models"
	"github.com/medhabt/technotes/internal/repo"
)

// NoteIndexer maintains the search index alongside note writes.
type NoteIndexer interface {
	IndexNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, id uint) error
	SearchNotes(ctx context.Context, query string, from, size int) (int64, []models.Note, error)
}

type NoteService struct {
	Repo     *repo.GormRepo
	Producer Publisher
	Indexer  NoteIndexer
}

func (s *NoteService) List(ctx context.Context) ([]models.Note, error) {
	notes, err := s.Repo.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("no notes found: %w", ErrNotFound)
	}
	return notes, nil
}

type UpdateNoteParams struct {
	ID        uint
	UserID    uint
	Title     string
	Body      string
	Completed bool
}

func (s *NoteService) Create(ctx context.Context, userID uint, title, body string) (*models.Note, error) {
	l := logging.FromContext(ctx).With("svc", "note.create", "user_id", userID)

	if userID == 0 || title == "" || body == "" {
		return nil, fmt.Errorf("all fields are required: %w", ErrValidation)
	}

	if _, err := s.Repo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("there is no user with id %d: %w", userID, ErrValidation)
		}
		return nil, err
	}

	note := models.Note{
		UserID: userID,
		Title:  title,
		Body:   body,
	}
	if err := s.Repo.CreateNote(ctx, &note); err != nil {
		return nil, err
	}

	publish(ctx, s.Producer, TopicNoteEvents, fmt.Sprint(note.ID), map[string]any{
		"type":   "note_created",
		"noteID": note.ID,
		"ticket": note.Ticket,
		"userID": note.UserID,
	})
	s.index(ctx, &note)

	l.Info("note created", "note_id", note.ID, "ticket", note.Ticket)
	return &note, nil
}

// Update replaces title, body and the completed flag. The owner reference
// is immutable; the one supplied in the request is only validated.
func (s *NoteService) Update(ctx context.Context, p UpdateNoteParams) (*models.Note, error) {
	l := logging.FromContext(ctx).With("svc", "note.update", "note_id", p.ID)

	if p.ID == 0 || p.Title == "" || p.Body == "" {
		return nil, fmt.Errorf("all fields are required: %w", ErrValidation)
	}

	note, err := s.Repo.GetNoteByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("note with id %d not found: %w", p.ID, ErrNotFound)
		}
		return nil, err
	}

	if _, err := s.Repo.GetUserByID(ctx, p.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("there is no user with id %d: %w", p.UserID, ErrValidation)
		}
		return nil, err
	}

	note.Title = p.Title
	note.Body = p.Body
	note.Completed = p.Completed

	if err := s.Repo.SaveNote(ctx, note); err != nil {
		return nil, err
	}

	publish(ctx, s.Producer, TopicNoteEvents, fmt.Sprint(note.ID), map[string]any{
		"type":   "note_updated",
		"noteID": note.ID,
		"ticket": note.Ticket,
	})
	s.index(ctx, note)

	l.Info("note updated")
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, id uint) (*models.Note, error) {
	l := logging.FromContext(ctx).With("svc", "note.delete", "note_id", id)

	if id == 0 {
		return nil, fmt.Errorf("id of note to be deleted is required: %w", ErrValidation)
	}

	note, err := s.Repo.GetNoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("note with id %d not found: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if err := s.Repo.DeleteNote(ctx, id); err != nil {
		return nil, err
	}

	publish(ctx, s.Producer, TopicNoteEvents, fmt.Sprint(id), map[string]any{
		"type":   "note_deleted",
		"noteID": id,
		"ticket": note.Ticket,
	})
	s.deindex(ctx, id)

	l.Info("note deleted")
	return note, nil
}

func (s *NoteService) Search(ctx context.Context, query string, from, size int) (int64, []models.Note, error) {
	if query == "" {
		return 0, nil, fmt.Errorf("search query is required: %w", ErrValidation)
	}
	if s.Indexer == nil {
		return 0, nil, errors.New("search index is not configured")
	}
	return s.Indexer.SearchNotes(ctx, query, from, size)
}

// Index maintenance is best effort; a search-index failure never fails the
// write that triggered it.
func (s *NoteService) index(ctx context.Context, note *models.Note) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexNote(ctx, note); err != nil {
		logging.FromContext(ctx).Error("note index failed", "note_id", note.ID, "error", err)
	}
}

func (s *NoteService) deindex(ctx context.Context, id uint) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.DeleteNote(ctx, id); err != nil {
		logging.FromContext(ctx).Error("note deindex failed", "note_id", id, "error", err)
	}
}
