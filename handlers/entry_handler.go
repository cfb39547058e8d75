package handlers

import (
	"net/http"
	"strings"

	"github.com/easoftwareGit/bowl-tmnts-2-sub002/services"
)

type EntryHandler struct {
	entryService services.EntryService
}

func NewEntryHandler(es services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: es}
}

// ListEntries godoc
// @Summary Bracket entries
// @Tags entries
// @Produce json
// @Param brktID path string true "Bracket definition ID"
// @Success 200 {array} models.BrktEntry
// @Failure 404 {object} map[string]string "Bracket not found"
// @Router /brkts/{brktID}/entries [get]
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	brktID, err := getIDFromURL(r, "brktID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.entryService.ListEntries(r.Context(), brktID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entries": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpsertEntry godoc
// @Summary Create or change an entry
// @Tags entries
// @Description Sets how many brackets a player wants. num_brackets 0 removes the entry.
// @Accept json
// @Produce json
// @Param brktID path string true "Bracket definition ID"
// @Param input body services.UpsertEntryInput true "Entry"
// @Success 200 {object} models.BrktEntry
// @Success 204 "Entry removed"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Bracket not found"
// @Failure 409 {object} map[string]string "Brackets are locked"
// @Failure 422 {object} map[string]string "Invalid fields"
// @Security BearerAuth
// @Router /brkts/{brktID}/entries [put]
func (h *EntryHandler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	brktID, err := getIDFromURL(r, "brktID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpsertEntryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fieldErrors := make(map[string]string)
	if strings.TrimSpace(input.PlayerID) == "" {
		fieldErrors["player_id"] = "must be provided"
	}
	if input.NumBrackets < 0 {
		fieldErrors["num_brackets"] = "must not be negative"
	}
	if len(fieldErrors) > 0 {
		failedValidationResponse(w, r, fieldErrors)
		return
	}

	entry, err := h.entryService.UpsertEntry(r.Context(), brktID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if entry == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entry": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteEntry godoc
// @Summary Remove an entry
// @Tags entries
// @Param brktID path string true "Bracket definition ID"
// @Param playerID path string true "Player ID"
// @Success 204 "Entry removed"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Brackets are locked"
// @Security BearerAuth
// @Router /brkts/{brktID}/entries/{playerID} [delete]
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	brktID, err := getIDFromURL(r, "brktID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entryService.DeleteEntry(r.Context(), brktID, playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
