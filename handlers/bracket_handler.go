package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/easoftwareGit/bowl-tmnts-2-sub002/middleware"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

func parseWithout(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// GetGrid godoc
// @Summary Current bracket fill grid
// @Tags brackets
// @Description Allocates the current entries and reports how many more entries each bracket needs.
// @Produce json
// @Param brktID path string true "Bracket definition ID"
// @Param without query string false "Comma separated player IDs to leave out"
// @Success 200 {object} services.GridResult
// @Failure 404 {object} map[string]string "Bracket not found"
// @Failure 422 {object} map[string]string "Entries cannot form brackets"
// @Router /brkts/{brktID}/grid [get]
func (h *BracketHandler) GetGrid(w http.ResponseWriter, r *http.Request) {
	brktID, err := getIDFromURL(r, "brktID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	grid, err := h.bracketService.Grid(r.Context(), brktID, parseWithout(r.URL.Query().Get("without")))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"grid": grid}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Lock godoc
// @Summary Lock brackets
// @Tags brackets
// @Description Allocates entries, shuffles full brackets and stores the seeding. Entries are frozen afterwards.
// @Produce json
// @Param brktID path string true "Bracket definition ID"
// @Success 200 {object} services.LockedResult
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Bracket not found"
// @Failure 409 {object} map[string]string "Already locked"
// @Failure 422 {object} map[string]string "Entries cannot form valid brackets"
// @Security BearerAuth
// @Router /brkts/{brktID}/lock [post]
func (h *BracketHandler) Lock(w http.ResponseWriter, r *http.Request) {
	brktID, err := getIDFromURL(r, "brktID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	locked, err := h.bracketService.Lock(r.Context(), brktID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	slog.Info("brackets locked by user", slog.String("brkt_id", brktID), slog.Int("user_id", userID))

	if err := writeJSON(w, http.StatusOK, jsonResponse{"locked": locked}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Unlock godoc
// @Summary Unlock brackets
// @Tags brackets
// @Description Discards the stored seeding so entries can change again.
// @Param brktID path string true "Bracket definition ID"
// @Success 204 "Unlocked"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Bracket not found"
// @Failure 409 {object} map[string]string "Not locked"
// @Security BearerAuth
// @Router /brkts/{brktID}/lock [delete]
func (h *BracketHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	brktID, err := getIDFromURL(r, "brktID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.bracketService.Unlock(r.Context(), brktID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLocked godoc
// @Summary Locked brackets
// @Tags brackets
// @Description Stored seeding with first round pairings.
// @Produce json
// @Param brktID path string true "Bracket definition ID"
// @Success 200 {object} services.LockedResult
// @Failure 404 {object} map[string]string "Bracket not found"
// @Failure 409 {object} map[string]string "Not locked yet"
// @Router /brkts/{brktID}/locked [get]
func (h *BracketHandler) GetLocked(w http.ResponseWriter, r *http.Request) {
	brktID, err := getIDFromURL(r, "brktID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	locked, err := h.bracketService.Locked(r.Context(), brktID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"locked": locked}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
