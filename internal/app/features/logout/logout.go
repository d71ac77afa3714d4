// internal/app/features/logout/logout.go
package logout

import (
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/stratawallet/internal/app/features/errors"
	loginstore "github.com/dalemusser/stratawallet/internal/app/store/logins"
	"github.com/dalemusser/stratawallet/internal/app/system/auditlog"
	"github.com/dalemusser/stratawallet/internal/app/system/auth"
	"github.com/dalemusser/stratawallet/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides the logout endpoint.
type Handler struct {
	loginStore  *loginstore.Store
	errLog      *errorsfeature.ErrorLogger
	auditLogger *auditlog.Logger
	logger      *zap.Logger
}

// NewHandler creates a new logout Handler.
func NewHandler(
	loginStore *loginstore.Store,
	errLog *errorsfeature.ErrorLogger,
	auditLogger *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		loginStore:  loginStore,
		errLog:      errLog,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// Routes mounts logout behind requireAuth.
func Routes(h *Handler, requireAuth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requireAuth)
	r.Post("/", h.handleLogout)
	return r
}

// handleLogout revokes the caller's token. The entry stays in logs until cleanup.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.Session(r)
	if !ok {
		jsonutil.Text(w, http.StatusUnauthorized, auth.MsgUnauthorized)
		return
	}

	err := h.loginStore.Revoke(r.Context(), sess.Token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Revoked by a concurrent request after the middleware admitted this one.
		jsonutil.Text(w, http.StatusUnauthorized, auth.MsgUnauthorized)
		return
	}
	if err != nil {
		h.errLog.ServerError(w, r, "token revoke failed", err,
			zap.String("user_id", sess.UserID.Hex()))
		return
	}

	h.auditLogger.Logout(r, sess.UserID)
	jsonutil.NoContent(w)
}
