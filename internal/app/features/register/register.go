// internal/app/features/register/register.go
package register

import (
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/stratawallet/internal/app/features/errors"
	userstore "github.com/dalemusser/stratawallet/internal/app/store/users"
	"github.com/dalemusser/stratawallet/internal/app/system/auditlog"
	"github.com/dalemusser/stratawallet/internal/app/system/authutil"
	"github.com/dalemusser/stratawallet/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratawallet/internal/app/system/inputval"
	"github.com/dalemusser/stratawallet/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawallet/internal/app/system/metrics"
	"github.com/dalemusser/stratawallet/internal/app/system/normalize"
	"github.com/dalemusser/stratawallet/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Response bodies.
const (
	MsgBadJSON         = "JSON inválido"
	MsgAlreadyExists   = "Usuário já cadastrado"
	MsgPasswordsDiffer = "Senhas não conferem"
	MsgCreated         = "Usuário cadastrado com sucesso"
)

// Handler provides the registration endpoint.
type Handler struct {
	userStore   *userstore.Store
	errLog      *errorsfeature.ErrorLogger
	auditLogger *auditlog.Logger
	logger      *zap.Logger
}

// NewHandler creates a new registration Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		userStore:   userstore.New(db),
		errLog:      errLog,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// Routes returns a chi.Router with the registration route mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.handleRegister)
	return r
}

type registerInput struct {
	Name            string `json:"nome" validate:"required"`
	Email           string `json:"email" validate:"required,mailaddr"`
	Password        string `json:"senha" validate:"required,alphanum,min=6,max=20"`
	ConfirmPassword string `json:"confirmarSenha" validate:"required,alphanum,min=6,max=20"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	decodeErr := jsonutil.Decode(r, &in)
	if inputval.IsDecodeFailure(decodeErr) {
		jsonutil.Text(w, http.StatusBadRequest, MsgBadJSON)
		return
	}
	in.Name = normalize.Name(htmlsanitize.PlainText(in.Name))
	in.Email = normalize.Email(in.Email)

	if res := inputval.ValidateDecoded(in, decodeErr); res.HasErrors() {
		metrics.Registrations.WithLabelValues(metrics.ResultInvalid).Inc()
		jsonutil.Messages(w, http.StatusUnprocessableEntity, res.Messages())
		return
	}

	exists, err := h.userStore.ExistsByEmail(r.Context(), in.Email)
	if err != nil {
		metrics.Registrations.WithLabelValues(metrics.ResultError).Inc()
		h.errLog.ServerError(w, r, "user lookup failed", err)
		return
	}
	if exists {
		h.rejectDuplicate(w, r, in.Email)
		return
	}

	if err := authutil.ConfirmPassword(in.Password, in.ConfirmPassword); err != nil {
		h.auditLogger.RegistrationRejected(r, in.Email, "password confirmation mismatch")
		metrics.Registrations.WithLabelValues(metrics.ResultConflict).Inc()
		jsonutil.Text(w, http.StatusConflict, MsgPasswordsDiffer)
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		metrics.Registrations.WithLabelValues(metrics.ResultError).Inc()
		h.errLog.ServerError(w, r, "password hash failed", err)
		return
	}

	user, err := h.userStore.Create(r.Context(), models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		// Lost a race with a concurrent registration for the same email.
		h.rejectDuplicate(w, r, in.Email)
		return
	}
	if err != nil {
		metrics.Registrations.WithLabelValues(metrics.ResultError).Inc()
		h.errLog.ServerError(w, r, "user insert failed", err)
		return
	}

	h.auditLogger.UserRegistered(r, user.ID, user.Email)
	metrics.Registrations.WithLabelValues(metrics.ResultSuccess).Inc()
	jsonutil.Text(w, http.StatusCreated, MsgCreated)
}

func (h *Handler) rejectDuplicate(w http.ResponseWriter, r *http.Request, email string) {
	h.auditLogger.RegistrationRejected(r, email, "duplicate email")
	metrics.Registrations.WithLabelValues(metrics.ResultConflict).Inc()
	jsonutil.Text(w, http.StatusConflict, MsgAlreadyExists)
}
