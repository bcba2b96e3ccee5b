package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/auth"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/repository"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/service"
)

func TestBearerTokenIdentityFallback(t *testing.T) {
	req := require.New(t)

	store := repository.NewMemoryStore()
	issuer := auth.NewIssuer("test-secret", time.Hour)
	svc := service.NewChatService(store, nil, nil, issuer, zerolog.Nop())
	app := NewServer(svc, issuer, nil, nil)

	res := do(t, app, request(http.MethodPost, "/participants", "", map[string]string{"name": "Alice"}))
	req.Equal(http.StatusCreated, res.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	req.NoError(json.NewDecoder(res.Body).Decode(&out))
	req.NotEmpty(out.Token)

	// no user header, token only
	hbReq := request(http.MethodPost, "/status", "", nil)
	hbReq.Header.Set("Authorization", "Bearer "+out.Token)
	res = do(t, app, hbReq)
	req.Equal(http.StatusOK, res.StatusCode)

	// the canonical header wins over the token
	hbReq = request(http.MethodPost, "/status", "Nobody", nil)
	hbReq.Header.Set("Authorization", "Bearer "+out.Token)
	res = do(t, app, hbReq)
	req.Equal(http.StatusNotFound, res.StatusCode)
}
