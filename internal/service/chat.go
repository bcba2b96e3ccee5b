// Package service implements the room's business rules on top of the
// store gateway: join, post, listing with visibility, heartbeat, edit,
// delete and the inactivity eviction used by the sweeper.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/apperr"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/auth"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/domain"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/events"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/repository"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/sanitize"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/validation"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/ws"
)

type ChatService struct {
	store  repository.Store
	hub    *ws.Hub           // nil disables live delivery
	pub    *events.Publisher // nil disables event publishing
	tokens *auth.Issuer      // nil disables token issuance
	log    zerolog.Logger
}

func NewChatService(store repository.Store, hub *ws.Hub, pub *events.Publisher, tokens *auth.Issuer, log zerolog.Logger) *ChatService {
	return &ChatService{store: store, hub: hub, pub: pub, tokens: tokens, log: log}
}

// Join validates and sanitizes the requested name, inserts the
// participant and announces the arrival to the room. The two writes are
// independent; a failed announcement leaves the participant in place.
// When token issuance is configured the session token is returned.
func (s *ChatService) Join(ctx context.Context, req domain.JoinRequest) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", err
	}
	name := sanitize.String(req.Name)
	if name == "" {
		return "", &validation.Error{Fields: []validation.FieldError{
			{Field: "Name", Tag: "required", Message: "Name is required"},
		}}
	}

	if _, err := s.store.ParticipantByName(ctx, name); err == nil {
		return "", apperr.ErrConflict
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return "", err
	}

	p := &domain.Participant{Name: name, LastStatus: time.Now().UnixMilli()}
	if err := s.store.InsertParticipant(ctx, p); err != nil {
		return "", err
	}

	arrival := statusMessage(name, domain.ArrivalText)
	if err := s.store.InsertMessage(ctx, arrival); err != nil {
		return "", err
	}
	s.announce(events.ParticipantJoined, arrival)

	if s.tokens == nil {
		return "", nil
	}
	token, err := s.tokens.Issue(name)
	if err != nil {
		// The join itself succeeded; the client just gets no token.
		s.log.Error().Err(err).Str("name", name).Msg("issue session token")
		return "", nil
	}
	return token, nil
}

func (s *ChatService) Participants(ctx context.Context) ([]domain.Participant, error) {
	return s.store.Participants(ctx)
}

// Post stamps the sender and wall-clock time on the message and stores
// it. Senders not present in the room are rejected.
func (s *ChatService) Post(ctx context.Context, from string, req domain.MessageRequest) (*domain.Message, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	from = sanitize.String(from)
	if from == "" {
		return nil, apperr.ErrUnknownSender
	}
	if _, err := s.store.ParticipantByName(ctx, from); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrUnknownSender
		}
		return nil, err
	}

	m := &domain.Message{
		From: from,
		To:   sanitize.String(req.To),
		Text: sanitize.String(req.Text),
		Type: sanitize.String(req.Type),
		Time: time.Now().Format(domain.TimeLayout),
	}
	if err := s.store.InsertMessage(ctx, m); err != nil {
		return nil, err
	}
	s.announce(events.MessageCreated, m)
	return m, nil
}

// Messages returns the messages visible to user, most recent first.
// limit == 0 means no limit; the handler guarantees limit is never
// negative.
func (s *ChatService) Messages(ctx context.Context, user string, limit int64) ([]domain.Message, error) {
	return s.store.MessagesVisibleTo(ctx, sanitize.String(user), limit)
}

// Heartbeat refreshes the participant's liveness timestamp.
func (s *ChatService) Heartbeat(ctx context.Context, user string) error {
	return s.store.TouchParticipant(ctx, sanitize.String(user), time.Now().UnixMilli())
}

// Edit replaces the message body fields. Only the original sender may
// edit, and the original time stamp is kept.
func (s *ChatService) Edit(ctx context.Context, user, id string, req domain.MessageRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	user = sanitize.String(user)
	existing, err := s.store.MessageByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.From != user {
		return apperr.ErrUnauthorized
	}
	return s.store.UpdateMessage(ctx, id,
		sanitize.String(req.To), sanitize.String(req.Text), sanitize.String(req.Type))
}

// Delete removes the message after checking ownership.
func (s *ChatService) Delete(ctx context.Context, user, id string) error {
	user = sanitize.String(user)
	existing, err := s.store.MessageByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.From != user {
		return apperr.ErrUnauthorized
	}
	return s.store.DeleteMessage(ctx, id)
}

// EvictInactive removes every participant whose lastStatus is older than
// threshold and announces each departure. Evictions are independent: a
// failure on one participant is logged and the loop moves on. The
// returned count is the number of completed evictions.
func (s *ChatService) EvictInactive(ctx context.Context, threshold time.Duration) (int, error) {
	cutoff := time.Now().Add(-threshold).UnixMilli()
	stale, err := s.store.ParticipantsInactiveSince(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	evicted := 0
	for _, p := range stale {
		if err := s.store.DeleteParticipant(ctx, p.Name); err != nil {
			s.log.Error().Err(err).Str("name", p.Name).Msg("evict participant")
			continue
		}
		departure := statusMessage(p.Name, domain.DepartureText)
		if err := s.store.InsertMessage(ctx, departure); err != nil {
			s.log.Error().Err(err).Str("name", p.Name).Msg("announce departure")
			continue
		}
		s.announce(events.ParticipantLeft, departure)
		evicted++
	}
	return evicted, nil
}

func (s *ChatService) announce(event string, m *domain.Message) {
	s.hub.Deliver(m)
	if err := s.pub.Publish(context.Background(), event, m); err != nil {
		s.log.Error().Err(err).Str("event", event).Msg("publish event")
	}
}

func statusMessage(name, text string) *domain.Message {
	return &domain.Message{
		From: name,
		To:   domain.Broadcast,
		Text: text,
		Type: domain.TypeStatus,
		Time: time.Now().Format(domain.TimeLayout),
	}
}
