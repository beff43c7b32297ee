package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ent0n29/memos/internal/feed"
	"github.com/ent0n29/memos/internal/memo"
)

type createMemoRequest struct {
	// Pointer so a missing field is distinguishable from "".
	Content *string `json:"content"`
}

type memoResponse struct {
	ID      memo.ID `json:"id"`
	Content string  `json:"content"`
}

func toResponse(m memo.Memo) memoResponse {
	return memoResponse{ID: m.ID, Content: m.Content}
}

func (s *Server) handleCreateMemo(w http.ResponseWriter, r *http.Request) {
	var req createMemoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Content == nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "content is required")
		return
	}

	created, err := s.store.Insert(r.Context(), *req.Content)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_unavailable", err.Error())
		return
	}
	if s.metrics != nil {
		s.metrics.MemosCreated.Inc()
	}
	if s.hub != nil {
		s.hub.Publish(feed.Created(created))
	}

	respondJSON(w, http.StatusCreated, toResponse(created))
}

func (s *Server) handleListMemos(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_unavailable", err.Error())
		return
	}

	out := make([]memoResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toResponse(m))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteMemo(w http.ResponseWriter, r *http.Request) {
	id := memo.ID(strings.TrimSpace(chi.URLParam(r, "id")))
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_memo_id", "missing memo id")
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, memo.ErrNotFound) {
			respondError(w, http.StatusNotFound, "memo_not_found", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "store_unavailable", err.Error())
		return
	}
	if s.metrics != nil {
		s.metrics.MemosDeleted.Inc()
	}
	if s.hub != nil {
		s.hub.Publish(feed.Deleted(id))
	}

	w.WriteHeader(http.StatusNoContent)
}
