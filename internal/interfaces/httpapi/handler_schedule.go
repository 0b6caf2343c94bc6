package httpapi

import (
	"net/http"
)

func (h *Handler) GetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentWeek")
	defer span.End()

	week, err := h.scheduleService.CurrentWeek(ctx)
	if err != nil {
		h.fail(ctx, w, "get current week failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, currentWeekDTO{Week: week})
}

func (h *Handler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWeeks")
	defer span.End()

	weeks, current, err := h.scheduleService.ListWeeks(ctx)
	if err != nil {
		h.fail(ctx, w, "list weeks failed", err)
		return
	}

	items := make([]weekDTO, 0, len(weeks))
	for _, item := range weeks {
		items = append(items, weekDTO{
			Week:           item.Week,
			Status:         string(item.Status),
			GamesCount:     item.GamesCount,
			CompletedGames: item.CompletedGames,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, weekListDTO{CurrentWeek: current, Weeks: items})
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.scheduleService.ListTeams(ctx)
	if err != nil {
		h.fail(ctx, w, "list teams failed", err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, item := range teams {
		items = append(items, teamToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListWeekMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWeekMatches")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}
	week, err := pathInt(r, "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	board, err := h.pickService.WeekBoard(ctx, principal.UserID, int(week))
	if err != nil {
		h.fail(ctx, w, "get week board failed", err, "user_id", principal.UserID, "week", week)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weekBoardToDTO(board, h.displayLocation))
}
