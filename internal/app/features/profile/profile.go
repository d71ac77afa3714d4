// internal/app/features/profile/profile.go
package profile

import (
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/stratawallet/internal/app/features/errors"
	registrostore "github.com/dalemusser/stratawallet/internal/app/store/registros"
	userstore "github.com/dalemusser/stratawallet/internal/app/store/users"
	"github.com/dalemusser/stratawallet/internal/app/system/auth"
	"github.com/dalemusser/stratawallet/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawallet/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MsgUserNotFound is returned when the token's user no longer exists.
const MsgUserNotFound = "Usuário não encontrado"

// Handler provides the main-page endpoint for signed-in users.
type Handler struct {
	userStore   *userstore.Store
	recordStore *registrostore.Store
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

// NewHandler creates a new profile Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		userStore:   userstore.New(db),
		recordStore: registrostore.New(db),
		errLog:      errLog,
		logger:      logger,
	}
}

// Routes mounts the main page behind requireAuth.
func Routes(h *Handler, requireAuth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requireAuth)
	r.Get("/", h.serveMainPage)
	return r
}

// MainPage is the response body of GET /paginaPrincipal.
type MainPage struct {
	User    models.Profile `json:"usuario"`
	Records *models.Record `json:"registros"`
}

func (h *Handler) serveMainPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.Session(r)
	if !ok {
		jsonutil.Text(w, http.StatusUnauthorized, auth.MsgUnauthorized)
		return
	}

	user, err := h.userStore.GetByID(r.Context(), sess.UserID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.Text(w, http.StatusNotFound, MsgUserNotFound)
		return
	}
	if err != nil {
		h.errLog.ServerError(w, r, "user lookup failed", err,
			zap.String("user_id", sess.UserID.Hex()))
		return
	}

	// Keyed by the user's id against registros._id, so this is normally nil.
	rec, err := h.recordStore.GetByID(r.Context(), sess.UserID)
	if err != nil {
		h.errLog.ServerError(w, r, "record lookup failed", err,
			zap.String("user_id", sess.UserID.Hex()))
		return
	}

	jsonutil.JSON(w, http.StatusOK, MainPage{User: user.Profile(), Records: rec})
}
