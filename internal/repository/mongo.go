package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/apperr"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/domain"
)

type MongoStore struct {
	participants *mongo.Collection
	messages     *mongo.Collection
}

// NewMongoClient connects to the configured MongoDB deployment.
func NewMongoClient(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewMongoStore wraps the participants and messages collections. The
// unique name index backs the "no two participants share a name"
// invariant against concurrent joins.
func NewMongoStore(db *mongo.Database) *MongoStore {
	s := &MongoStore{
		participants: db.Collection("participants"),
		messages:     db.Collection("messages"),
	}
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique_idx"),
	}
	if _, err := s.participants.Indexes().CreateOne(context.Background(), ix); err != nil {
		// without the index, concurrent joins fall back to the
		// lookup-then-insert check alone
		log.Error().Err(err).Msg("create participants name index")
	}
	return s
}

func (s *MongoStore) InsertParticipant(ctx context.Context, p *domain.Participant) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := s.participants.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.ErrConflict
	}
	return err
}

func (s *MongoStore) ParticipantByName(ctx context.Context, name string) (*domain.Participant, error) {
	var p domain.Participant
	if err := s.participants.FindOne(ctx, bson.M{"name": name}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) Participants(ctx context.Context) ([]domain.Participant, error) {
	cur, err := s.participants.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []domain.Participant{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) TouchParticipant(ctx context.Context, name string, lastStatus int64) error {
	res, err := s.participants.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{"lastStatus": lastStatus}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteParticipant(ctx context.Context, name string) error {
	res, err := s.participants.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *MongoStore) ParticipantsInactiveSince(ctx context.Context, cutoff int64) ([]domain.Participant, error) {
	cur, err := s.participants.Find(ctx, bson.M{"lastStatus": bson.M{"$lt": cutoff}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []domain.Participant{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) InsertMessage(ctx context.Context, m *domain.Message) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	_, err := s.messages.InsertOne(ctx, m)
	return err
}

func (s *MongoStore) MessageByID(ctx context.Context, id string) (*domain.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	var m domain.Message
	if err := s.messages.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// MessagesVisibleTo returns the messages user may see, most recent first.
// ObjectIDs grow monotonically with insertion time, so sorting on _id
// gives recency order.
func (s *MongoStore) MessagesVisibleTo(ctx context.Context, user string, limit int64) ([]domain.Message, error) {
	filter := bson.M{"$or": []bson.M{
		{"from": user},
		{"to": user},
		{"to": domain.Broadcast},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []domain.Message{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) UpdateMessage(ctx context.Context, id, to, text, msgType string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.ErrNotFound
	}
	res, err := s.messages.UpdateByID(ctx, oid,
		bson.M{"$set": bson.M{"to": to, "text": text, "type": msgType}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteMessage(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.ErrNotFound
	}
	res, err := s.messages.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
