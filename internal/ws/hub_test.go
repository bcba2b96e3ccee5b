package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/domain"
)

func TestRun_DeliversByVisibility(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	bob := &Client{Name: "Bob", send: make(chan []byte, 1)}
	carol := &Client{Name: "Carol", send: make(chan []byte, 1)}
	hub.register <- bob
	hub.register <- carol

	hub.Deliver(&domain.Message{From: "Alice", To: "Bob", Text: "psst", Type: domain.TypePrivate})

	select {
	case data := <-bob.send:
		req.Contains(string(data), "psst")
	case <-time.After(time.Second):
		req.Fail("private message not delivered to its recipient")
	}

	select {
	case <-carol.send:
		req.Fail("private message leaked to a third party")
	case <-time.After(50 * time.Millisecond):
	}

	hub.Deliver(&domain.Message{From: "Alice", To: domain.Broadcast, Text: "hi all", Type: domain.TypeMessage})
	select {
	case data := <-carol.send:
		req.Contains(string(data), "hi all")
	case <-time.After(time.Second):
		req.Fail("broadcast not delivered")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("hub did not stop on cancel")
	}
}
