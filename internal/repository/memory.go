package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/apperr"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/domain"
)

// MemoryStore is a Store kept entirely in process memory. It backs the
// test suite and local development without a MongoDB deployment.
type MemoryStore struct {
	mu           sync.RWMutex
	participants []domain.Participant
	messages     []domain.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) InsertParticipant(_ context.Context, p *domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.participants {
		if existing.Name == p.Name {
			return apperr.ErrConflict
		}
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.participants = append(s.participants, *p)
	return nil
}

func (s *MemoryStore) ParticipantByName(_ context.Context, name string) (*domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.participants {
		if p.Name == name {
			out := p
			return &out, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *MemoryStore) Participants(_ context.Context) ([]domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Participant, len(s.participants))
	copy(out, s.participants)
	return out, nil
}

func (s *MemoryStore) TouchParticipant(_ context.Context, name string, lastStatus int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.participants {
		if s.participants[i].Name == name {
			s.participants[i].LastStatus = lastStatus
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (s *MemoryStore) DeleteParticipant(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.participants {
		if s.participants[i].Name == name {
			s.participants = append(s.participants[:i], s.participants[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (s *MemoryStore) ParticipantsInactiveSince(_ context.Context, cutoff int64) ([]domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Participant{}
	for _, p := range s.participants {
		if p.LastStatus < cutoff {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) InsertMessage(_ context.Context, m *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	s.messages = append(s.messages, *m)
	return nil
}

func (s *MemoryStore) MessageByID(_ context.Context, id string) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.messages {
		if m.ID.Hex() == id {
			out := m
			return &out, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *MemoryStore) MessagesVisibleTo(_ context.Context, user string, limit int64) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Message{}
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].VisibleTo(user) {
			out = append(out, s.messages[i])
			if limit > 0 && int64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateMessage(_ context.Context, id, to, text, msgType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID.Hex() == id {
			s.messages[i].To = to
			s.messages[i].Text = text
			s.messages[i].Type = msgType
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (s *MemoryStore) DeleteMessage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID.Hex() == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}
