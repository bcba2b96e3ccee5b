// Package repository is the gateway to the two record collections:
// participants and messages.
package repository

import (
	"context"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/domain"
)

// Store is implemented by the Mongo gateway and by the in-memory store
// used in tests. Lookups that miss return apperr.ErrNotFound; inserting a
// participant whose name is taken returns apperr.ErrConflict.
type Store interface {
	InsertParticipant(ctx context.Context, p *domain.Participant) error
	ParticipantByName(ctx context.Context, name string) (*domain.Participant, error)
	Participants(ctx context.Context) ([]domain.Participant, error)
	TouchParticipant(ctx context.Context, name string, lastStatus int64) error
	DeleteParticipant(ctx context.Context, name string) error
	ParticipantsInactiveSince(ctx context.Context, cutoff int64) ([]domain.Participant, error)

	InsertMessage(ctx context.Context, m *domain.Message) error
	MessageByID(ctx context.Context, id string) (*domain.Message, error)
	MessagesVisibleTo(ctx context.Context, user string, limit int64) ([]domain.Message, error)
	UpdateMessage(ctx context.Context, id, to, text, msgType string) error
	DeleteMessage(ctx context.Context, id string) error
}
