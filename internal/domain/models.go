package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Broadcast is the reserved recipient meaning "everyone in the room".
const Broadcast = "Todos"

// Message types. Status messages are system generated and never accepted
// from clients.
const (
	TypeMessage = "message"
	TypePrivate = "private_message"
	TypeStatus  = "status"
)

// System status message texts.
const (
	ArrivalText   = "entra na sala..."
	DepartureText = "sai da sala..."
)

// TimeLayout is the wall-clock format stamped on every message (HH:mm:ss).
const TimeLayout = "15:04:05"

type Participant struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	LastStatus int64              `bson:"lastStatus" json:"lastStatus"`
}

type Message struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	From string             `bson:"from" json:"from"`
	To   string             `bson:"to" json:"to"`
	Text string             `bson:"text" json:"text"`
	Type string             `bson:"type" json:"type"`
	Time string             `bson:"time" json:"time"`
}

// VisibleTo reports whether the message may be shown to user. Private
// messages are restricted to their sender and recipient; everything else
// addressed to the room is public.
func (m Message) VisibleTo(user string) bool {
	return m.From == user || m.To == user || m.To == Broadcast
}

// JoinRequest is the POST /participants payload.
type JoinRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// MessageRequest is the client payload for posting and editing messages.
// The sender is never part of the body; it comes from the request identity.
type MessageRequest struct {
	To   string `json:"to" validate:"required,min=1"`
	Text string `json:"text" validate:"required,min=1"`
	Type string `json:"type" validate:"required,oneof=message private_message"`
}
