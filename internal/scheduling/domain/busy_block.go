package domain

import (
	"errors"
	"strings"
	"time"

	sharedDomain "github.com/Miiduoa/tired-sub002/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrBusyBlockNotFound     = errors.New("busy block not found")
	ErrBusyBlockInvalidRange = errors.New("busy block end must be after start")
	ErrBusyBlockEmptyTitle   = errors.New("busy block title cannot be empty")
)

// BusySource names where a busy block came from.
type BusySource string

const (
	BusySourceManual BusySource = "manual"
	BusySourceCalDAV BusySource = "caldav"
	BusySourceGoogle BusySource = "google"
)

// BusyBlock is a stored busy interval owned by a user, such as a class
// timetable entry typed in by hand.
type BusyBlock struct {
	sharedDomain.BaseEntity
	userID uuid.UUID
	title  string
	source BusySource
	start  time.Time
	end    time.Time
}

// NewBusyBlock validates and creates a manual busy block.
func NewBusyBlock(userID uuid.UUID, title string, start, end time.Time) (*BusyBlock, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrBusyBlockEmptyTitle
	}
	if !end.After(start) {
		return nil, ErrBusyBlockInvalidRange
	}
	return &BusyBlock{
		BaseEntity: sharedDomain.NewBaseEntity(),
		userID:     userID,
		title:      title,
		source:     BusySourceManual,
		start:      start.UTC(),
		end:        end.UTC(),
	}, nil
}

// RehydrateBusyBlock rebuilds a block from storage without validation.
func RehydrateBusyBlock(id, userID uuid.UUID, title string, source BusySource, start, end, createdAt, updatedAt time.Time) *BusyBlock {
	return &BusyBlock{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		userID:     userID,
		title:      title,
		source:     source,
		start:      start,
		end:        end,
	}
}

func (b *BusyBlock) UserID() uuid.UUID  { return b.userID }
func (b *BusyBlock) Title() string      { return b.title }
func (b *BusyBlock) Source() BusySource { return b.source }
func (b *BusyBlock) Start() time.Time   { return b.start }
func (b *BusyBlock) End() time.Time     { return b.end }

// Interval returns the planner view of the block.
func (b *BusyBlock) Interval() BusyInterval {
	return BusyInterval{Start: b.start, End: b.end}
}
