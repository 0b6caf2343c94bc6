package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
	"github.com/riskibarqy/nfl-pickem/internal/platform/logging"
	"github.com/riskibarqy/nfl-pickem/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	sessionService     *usecase.SessionService
	scheduleService    *usecase.ScheduleService
	pickService        *usecase.PickService
	resultService      *usecase.ResultService
	leaderboardService *usecase.LeaderboardService
	dashboardService   *usecase.DashboardService
	ledgerAuditService *usecase.LedgerAuditService
	displayLocation    *time.Location
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	sessionService *usecase.SessionService,
	scheduleService *usecase.ScheduleService,
	pickService *usecase.PickService,
	resultService *usecase.ResultService,
	leaderboardService *usecase.LeaderboardService,
	dashboardService *usecase.DashboardService,
	ledgerAuditService *usecase.LedgerAuditService,
	displayLocation *time.Location,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if displayLocation == nil {
		displayLocation = time.UTC
	}

	return &Handler{
		sessionService:     sessionService,
		scheduleService:    scheduleService,
		pickService:        pickService,
		resultService:      resultService,
		leaderboardService: leaderboardService,
		dashboardService:   dashboardService,
		ledgerAuditService: ledgerAuditService,
		displayLocation:    displayLocation,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var req loginRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	principal, err := h.sessionService.Login(ctx, req.Username)
	if err != nil {
		h.fail(ctx, w, "login failed", err, "client_ip", clientIP(r))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, loginDTO{
		Token: principal.Token,
		User:  principalToDTO(principal),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Logout")
	defer span.End()

	token, err := bearerToken(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.sessionService.Logout(ctx, token)
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Me")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	writeSuccess(ctx, w, http.StatusOK, principalToDTO(principal))
}

func (h *Handler) requirePrincipal(ctx context.Context, w http.ResponseWriter) (user.Principal, bool) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return user.Principal{}, false
	}
	return principal, true
}

// decodeRequest reads a JSON body with unknown fields rejected, then validates it.
func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// fail logs err at a level matching its HTTP mapping and writes the error response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(ctx, err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	writeError(ctx, w, err)
}

func pathInt(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
