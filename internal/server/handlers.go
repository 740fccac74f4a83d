package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/linkbase/internal/bot"
	"github.com/ziadkadry99/linkbase/internal/linkdetect"
)

type chatRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type chatResponse struct {
	Replies []string `json:"replies"`
}

// handleChat feeds a free-form message through the full bot flow.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.Text == "" {
		respondError(w, http.StatusBadRequest, "user_id and text are required")
		return
	}

	replies, err := s.bot.Handle(r.Context(), bot.Incoming{UserID: req.UserID, Text: req.Text})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, chatResponse{Replies: replies})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	mgr, err := s.registry.Manager(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	docs, err := mgr.Index().List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	mgr, err := s.registry.Manager(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	deleted, err := mgr.Index().Delete(r.Context(), chi.URLParam(r, "docID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "document not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleClearDocuments(w http.ResponseWriter, r *http.Request) {
	mgr, err := s.registry.Manager(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	count, err := mgr.Index().Clear(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"cleared": count})
}

type linkRequest struct {
	URL string `json:"url"`
}

// handleAddLink ingests a single URL for the user and returns the replies
// from the ingestion flow (summary and updated document list).
func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if linkdetect.ExtractURL(req.URL) == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	replies, err := s.bot.Handle(r.Context(), bot.Incoming{
		UserID: chi.URLParam(r, "userID"),
		Text:   req.URL,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, chatResponse{Replies: replies})
}

type questionRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		respondError(w, http.StatusBadRequest, "question is required")
		return
	}

	mgr, err := s.registry.Manager(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	answer, err := mgr.Answer(r.Context(), req.Question)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
