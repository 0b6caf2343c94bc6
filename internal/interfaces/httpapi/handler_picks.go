package httpapi

import (
	"net/http"

	"github.com/riskibarqy/nfl-pickem/internal/usecase"
)

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req submitPickRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.pickService.SubmitPick(ctx, principal.UserID, usecase.SubmitPickInput{
		Week:    req.Week,
		MatchID: req.MatchID,
		TeamID:  req.TeamID,
	})
	if err != nil {
		h.fail(ctx, w, "submit pick failed", err,
			"user_id", principal.UserID,
			"week", req.Week,
			"match_id", req.MatchID,
			"team_id", req.TeamID,
		)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(saved))
}

func (h *Handler) ListPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPicks")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	groups, err := h.pickService.ListAllPicks(ctx, principal.UserID)
	if err != nil {
		h.fail(ctx, w, "list picks failed", err, "user_id", principal.UserID)
		return
	}

	items := make([]userPicksDTO, 0, len(groups))
	for _, group := range groups {
		items = append(items, userPicksToDTO(group))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	entries, err := h.leaderboardService.Leaderboard(ctx)
	if err != nil {
		h.fail(ctx, w, "get leaderboard failed", err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, leaderboardEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Get(ctx, principal.UserID)
	if err != nil {
		h.fail(ctx, w, "get dashboard failed", err, "user_id", principal.UserID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(dashboard))
}
