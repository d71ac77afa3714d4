// internal/app/features/login/login.go
package login

import (
	"context"
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/stratawallet/internal/app/features/errors"
	loginstore "github.com/dalemusser/stratawallet/internal/app/store/logins"
	registrostore "github.com/dalemusser/stratawallet/internal/app/store/registros"
	userstore "github.com/dalemusser/stratawallet/internal/app/store/users"
	"github.com/dalemusser/stratawallet/internal/app/system/auditlog"
	"github.com/dalemusser/stratawallet/internal/app/system/authutil"
	"github.com/dalemusser/stratawallet/internal/app/system/inputval"
	"github.com/dalemusser/stratawallet/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawallet/internal/app/system/metrics"
	"github.com/dalemusser/stratawallet/internal/app/system/normalize"
	"github.com/dalemusser/stratawallet/internal/app/system/tasks"
	"github.com/dalemusser/stratawallet/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Response bodies.
const (
	MsgBadJSON      = "JSON inválido"
	MsgUserNotFound = "Usuário não encontrado"
)

// Handler provides the login endpoint.
type Handler struct {
	userStore   *userstore.Store
	loginStore  *loginstore.Store
	recordStore *registrostore.Store
	runner      *tasks.Runner
	errLog      *errorsfeature.ErrorLogger
	auditLogger *auditlog.Logger
	logger      *zap.Logger
}

// NewHandler creates a new login Handler.
func NewHandler(
	db *mongo.Database,
	loginStore *loginstore.Store,
	runner *tasks.Runner,
	errLog *errorsfeature.ErrorLogger,
	auditLogger *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userStore:   userstore.New(db),
		loginStore:  loginStore,
		recordStore: registrostore.New(db),
		runner:      runner,
		errLog:      errLog,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// Routes returns a chi.Router with the login route mounted.
//
// The router is attached with Handle rather than Mount, so it does not
// inherit the parent's 405 handler and sets its own.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.MethodNotAllowed(errorsfeature.NewHandler().MethodNotAllowed)
	r.Post("/", h.handleLogin)
	return r
}

type loginInput struct {
	Email    string `json:"email" validate:"required,mailaddr"`
	Password string `json:"senha" validate:"required,alphanum,min=6,max=20"`
}

// handleLogin checks credentials and answers with a fresh bearer token.
//
// Unknown email and wrong password share one response so callers cannot
// tell which accounts exist.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	decodeErr := jsonutil.Decode(r, &in)
	if inputval.IsDecodeFailure(decodeErr) {
		jsonutil.Text(w, http.StatusBadRequest, MsgBadJSON)
		return
	}
	in.Email = normalize.Email(in.Email)

	if res := inputval.ValidateDecoded(in, decodeErr); res.HasErrors() {
		metrics.Logins.WithLabelValues(metrics.ResultInvalid).Inc()
		jsonutil.Messages(w, http.StatusUnprocessableEntity, res.Messages())
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), in.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Spend the same bcrypt work as a wrong password.
		authutil.CheckPassword(in.Password, authutil.DummyHash())
		h.auditLogger.LoginFailedUserNotFound(r, in.Email)
		metrics.Logins.WithLabelValues(metrics.ResultNotFound).Inc()
		jsonutil.Text(w, http.StatusNotFound, MsgUserNotFound)
		return
	}
	if err != nil {
		metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		h.errLog.ServerError(w, r, "user lookup failed", err)
		return
	}

	if !authutil.CheckPassword(in.Password, user.PasswordHash) {
		h.auditLogger.LoginFailedWrongPassword(r, user.ID, in.Email)
		metrics.Logins.WithLabelValues(metrics.ResultNotFound).Inc()
		jsonutil.Text(w, http.StatusNotFound, MsgUserNotFound)
		return
	}

	token := uuid.NewString()

	// The token must be resolvable before the client can use it.
	if _, err := h.loginStore.Create(r.Context(), token, user.ID); err != nil {
		metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		h.errLog.ServerError(w, r, "login log insert failed", err,
			zap.String("user_id", user.ID.Hex()))
		return
	}

	h.recordSession(token, user.ID)

	h.auditLogger.LoginSuccess(r, user.ID, in.Email)
	metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()
	jsonutil.Text(w, http.StatusOK, token)
}

// recordSession writes the registros entry after the response. A failure
// does not affect the issued token.
func (h *Handler) recordSession(token string, userID primitive.ObjectID) {
	h.runner.Go("session-record", timeouts.Record(),
		func(ctx context.Context) error {
			_, err := h.recordStore.Create(ctx, token, userID)
			return err
		},
		func(error) {
			metrics.SessionRecordFailures.Inc()
		},
	)
}
