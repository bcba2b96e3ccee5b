package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	counts map[string]int64
	err    error
}

func (f *fakeCounter) Incr(_ context.Context, key string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeCounter) Expire(context.Context, string, time.Duration) error {
	return nil
}

func newLimitedApp(limit int, counts counter) *fiber.App {
	app := fiber.New()
	app.Use(Identity(nil))
	rl := &RateLimiter{counts: counts, prefix: "rl", limit: limit, window: time.Minute}
	app.Use(rl.Middleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestRateLimiter_CountsPerIdentity(t *testing.T) {
	req := require.New(t)
	app := newLimitedApp(2, &fakeCounter{counts: map[string]int64{}})

	get := func(user string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if user != "" {
			r.Header.Set("user", user)
		}
		res, err := app.Test(r)
		req.NoError(err)
		return res.StatusCode
	}

	req.Equal(http.StatusOK, get("Alice"))
	req.Equal(http.StatusOK, get("Alice"))
	req.Equal(http.StatusTooManyRequests, get("Alice"))

	// a different identity gets its own window
	req.Equal(http.StatusOK, get("Bob"))
}

func TestRateLimiter_CounterFailureIsAServerFault(t *testing.T) {
	req := require.New(t)
	app := newLimitedApp(2, &fakeCounter{err: errors.New("connection refused")})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	req.NoError(err)
	req.Equal(http.StatusInternalServerError, res.StatusCode)
}
