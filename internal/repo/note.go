package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/medhabt/technotes/internal/models"
)

func (r *GormRepo) ListNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := r.DB.WithContext(ctx).Order("ticket ASC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *GormRepo) GetNoteByID(ctx context.Context, id uint) (*models.Note, error) {
	var note models.Note
	if err := r.DB.WithContext(ctx).First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// CreateNote assigns the next ticket and inserts the note in one
// transaction. The counter update takes a row lock, so concurrent creates
// serialize and tickets stay strictly increasing, never reused.
func (r *GormRepo) CreateNote(ctx context.Context, note *models.Note) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TicketCounter{}).
			Where("id = ?", models.TicketCounterID).
			UpdateColumn("next", gorm.Expr("next + 1")).Error; err != nil {
			return err
		}

		var counter models.TicketCounter
		if err := tx.First(&counter, models.TicketCounterID).Error; err != nil {
			return err
		}

		note.Ticket = counter.Next - 1
		return tx.Create(note).Error
	})
}

func (r *GormRepo) SaveNote(ctx context.Context, note *models.Note) error {
	return r.DB.WithContext(ctx).Save(note).Error
}

func (r *GormRepo) DeleteNote(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Note{}, id).Error
}
