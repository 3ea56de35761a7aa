package handlers

import (
	"encoding/json"
	"net/http"

	"retrobooth/internal/infra"
	"retrobooth/internal/session"
)

type App struct {
	Session *session.Session
	Logger  infra.Logger
}

func NewApp(sess *session.Session, logger infra.Logger) *App {
	return &App{Session: sess, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}
