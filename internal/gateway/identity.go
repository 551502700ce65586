package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cinema-reserve/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity is what the external token validator asserts about a bearer token.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// TokenValidator checks an opaque bearer token against the identity service.
// Returns nil, nil for an invalid or expired token.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*Identity, error)
}

type tokenValidator struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewTokenValidator(config utils.AuthConfig, log *zap.Logger) TokenValidator {
	return &tokenValidator{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		log: log.With(zap.String("gateway", "identity")),
	}
}

func (v *tokenValidator) Validate(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/introspect", nil)
	if err != nil {
		return nil, fmt.Errorf("build introspect request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		v.log.Warn("Identity service unreachable", zap.Error(err))
		return nil, fmt.Errorf("introspect token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity service status %d", resp.StatusCode)
	}

	var payload struct {
		Active bool      `json:"active"`
		UserID uuid.UUID `json:"user_id"`
		Role   string    `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode introspect response: %w", err)
	}

	if !payload.Active {
		return nil, nil
	}

	return &Identity{UserID: payload.UserID, Role: payload.Role}, nil
}
