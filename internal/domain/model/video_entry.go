package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyVideoName = errors.New("video name cannot be empty")

// VideoEntry is a named link in the shared video collection.
type VideoEntry struct {
	ID        uuid.UUID
	Name      string
	Link      string
	CreatedAt time.Time
}

// NewVideoEntry validates the link like a processing request and returns a
// new entry holding the normalized link.
func NewVideoEntry(name, link string) (*VideoEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyVideoName
	}
	if len(name) > maxNameLength {
		return nil, ErrNameTooLong
	}

	normalized, err := NormalizeVideoURL(link)
	if err != nil {
		return nil, err
	}

	return &VideoEntry{
		ID:        uuid.New(),
		Name:      name,
		Link:      normalized,
		CreatedAt: time.Now(),
	}, nil
}
