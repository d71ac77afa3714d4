// Package auth resolves bearer tokens to login sessions.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/stratawallet/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawallet/internal/app/system/normalize"
	"github.com/dalemusser/stratawallet/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Response bodies for rejected requests.
const (
	MsgUnauthorized = "Não autorizado"
	MsgServerError  = "Erro no servidor"
)

// TokenResolver looks up the active login entry for a bearer token.
// It returns mongo.ErrNoDocuments when the token is unknown, expired or revoked.
type TokenResolver interface {
	GetActiveByToken(ctx context.Context, token string) (*models.LoginLog, error)
}

type ctxKey string

const sessionKey ctxKey = "loginSession"

// Session returns the login entry attached by RequireBearer.
func Session(r *http.Request) (*models.LoginLog, bool) {
	s, ok := r.Context().Value(sessionKey).(*models.LoginLog)
	return s, ok && s != nil
}

func withSession(r *http.Request, s *models.LoginLog) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionKey, s))
}

// WithTestSession injects s into the request context. For tests only.
func WithTestSession(r *http.Request, s *models.LoginLog) *http.Request {
	return withSession(r, s)
}

// RequireBearer returns middleware that admits only requests carrying
// "Authorization: Bearer <token>" for an active login entry. The scheme
// is matched case-insensitively.
//
// Missing, malformed and unknown tokens get 401 "Não autorizado".
// Lookup failures get 500 and are logged.
func RequireBearer(resolver TokenResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := normalize.BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				logger.Debug("request rejected: missing or malformed bearer token",
					zap.String("path", r.URL.Path))
				jsonutil.Text(w, http.StatusUnauthorized, MsgUnauthorized)
				return
			}

			sess, err := resolver.GetActiveByToken(r.Context(), token)
			if errors.Is(err, mongo.ErrNoDocuments) {
				logger.Debug("request rejected: unknown or inactive token",
					zap.String("path", r.URL.Path))
				jsonutil.Text(w, http.StatusUnauthorized, MsgUnauthorized)
				return
			}
			if err != nil {
				logger.Error("token lookup failed",
					zap.Error(err),
					zap.String("path", r.URL.Path))
				jsonutil.Text(w, http.StatusInternalServerError, MsgServerError)
				return
			}

			next.ServeHTTP(w, withSession(r, sess))
		})
	}
}
