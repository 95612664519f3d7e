package models

import (
	"time"
)

const (
	// TicketCounterID is the primary key of the single counter row that
	// hands out note ticket numbers.
	TicketCounterID = 1
	// TicketSeqStart is the ticket assigned to the first note ever created.
	TicketSeqStart = 500
)

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"not null"                 json:"username"`
	// Folded copy of Username. The unique index here is what actually
	// enforces case-insensitive uniqueness; the application-level lookup
	// only exists to produce a friendly conflict message.
	UsernameLower string   `gorm:"uniqueIndex;not null"     json:"-"`
	PasswordHash  string   `gorm:"not null"                 json:"-"`
	Roles         []string `gorm:"serializer:json;not null" json:"roles"`
	Active        bool     `gorm:"not null;default:true"    json:"active"`
}

type Note struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user"`
	Title     string    `gorm:"not null"                 json:"title"`
	Body      string    `gorm:"not null"                 json:"body"`
	Completed bool      `gorm:"not null;default:false"   json:"completed"`
	Ticket    uint      `gorm:"uniqueIndex;not null"     json:"ticket"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TicketCounter holds the next ticket to assign. Incremented inside the
// note-create transaction so two concurrent creates never share a ticket.
type TicketCounter struct {
	ID   uint `gorm:"primaryKey"`
	Next uint `gorm:"not null"`
}
