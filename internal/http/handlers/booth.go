package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"retrobooth/internal/generate"
	"retrobooth/internal/providers/genai"
	"retrobooth/internal/session"
)

type batchRequest struct {
	Style string `json:"style"`
	Photo struct {
		MimeType string `json:"mime_type"`
		Data     string `json:"data"`
	} `json:"photo"`
}

type feedbackRequest struct {
	Mark string `json:"mark"`
}

type boothResponse struct {
	Fatal bool              `json:"fatal"`
	Jobs  []session.JobView `json:"jobs"`
}

// BatchStart kicks off the full six-decade run and responds once every job
// has settled.
func (a *App) BatchStart(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	style, err := generate.ParseStyle(req.Style)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.Photo.Data))
	if err != nil || len(data) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "photo data must be non-empty base64")
		return
	}

	photo := genai.ImageInput{
		MimeType: strings.TrimSpace(req.Photo.MimeType),
		Data:     data,
	}

	jobs := a.Session.StartBatch(r.Context(), photo, style)
	a.json(w, http.StatusOK, boothResponse{Fatal: a.Session.Fatal(), Jobs: jobs})
}

// BoothStatus returns the current per-job views in batch order.
func (a *App) BoothStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, boothResponse{Fatal: a.Session.Fatal(), Jobs: a.Session.Snapshot()})
}

// Regenerate reruns a single job and responds with its settled view.
func (a *App) Regenerate(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	if label == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "label required")
		return
	}

	view, err := a.Session.Regenerate(r.Context(), label)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUnknownJob):
			a.error(w, http.StatusNotFound, "not_found", "unknown job label")
		case errors.Is(err, session.ErrSessionFatal):
			a.error(w, http.StatusConflict, "session_halted", generate.QuotaMessage)
		case errors.Is(err, session.ErrJobPending):
			a.error(w, http.StatusConflict, "job_pending", "job already in progress")
		default:
			a.error(w, http.StatusInternalServerError, "internal", "regeneration failed")
		}
		return
	}
	a.json(w, http.StatusOK, view)
}

// Feedback toggles the like/dislike annotation on a job.
func (a *App) Feedback(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	var mark session.FeedbackMark
	switch session.FeedbackMark(strings.ToLower(strings.TrimSpace(req.Mark))) {
	case session.FeedbackLike:
		mark = session.FeedbackLike
	case session.FeedbackDislike:
		mark = session.FeedbackDislike
	case session.FeedbackNone:
		mark = session.FeedbackNone
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "mark must be like, dislike or none")
		return
	}

	view, err := a.Session.SetFeedback(label, mark)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "unknown job label")
		return
	}
	a.json(w, http.StatusOK, view)
}

// Reset clears all job state and the session fatal flag.
func (a *App) Reset(w http.ResponseWriter, r *http.Request) {
	a.Session.Reset()
	a.json(w, http.StatusOK, boothResponse{Fatal: false, Jobs: []session.JobView{}})
}
