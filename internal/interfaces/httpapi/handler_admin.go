package httpapi

import (
	"net/http"

	"github.com/riskibarqy/nfl-pickem/internal/usecase"
)

func (h *Handler) ListPendingMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPendingMatches")
	defer span.End()

	pending, err := h.scheduleService.ListPendingMatches(ctx)
	if err != nil {
		h.fail(ctx, w, "list pending matches failed", err)
		return
	}

	items := make([]pendingMatchDTO, 0, len(pending))
	for _, item := range pending {
		items = append(items, pendingMatchToDTO(item, h.displayLocation))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SetMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMatchResult")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setResultRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	settlement, err := h.resultService.SetResult(ctx, usecase.SetResultInput{
		MatchID:   matchID,
		HomeScore: *req.HomeScore,
		AwayScore: *req.AwayScore,
	})
	if err != nil {
		h.fail(ctx, w, "set match result failed", err, "admin_id", principal.UserID, "match_id", matchID)
		return
	}

	h.logger.InfoContext(ctx, "match result set by admin", "admin_id", principal.UserID, "match_id", matchID)
	writeSuccess(ctx, w, http.StatusOK, settlementToDTO(settlement))
}

func (h *Handler) GetLedgerAudit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLedgerAudit")
	defer span.End()

	audit, err := h.ledgerAuditService.Audit(ctx)
	if err != nil {
		h.fail(ctx, w, "ledger audit failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ledgerAuditToDTO(audit))
}
