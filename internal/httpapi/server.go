// Package httpapi exposes the JSON API, the OAuth login endpoints and the
// live-play sockets over net/http.
package httpapi

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/xo-arena/internal/auth"
	"github.com/park285/xo-arena/internal/game"
	"github.com/park285/xo-arena/internal/score"
	"github.com/park285/xo-arena/pkg/xodto"
)

// BotConfig shapes the server-held opponent used on the live-play socket.
type BotConfig struct {
	Behavior  game.Behavior
	MoveDelay time.Duration
	OpenDelay time.Duration
}

type Config struct {
	Sessions  auth.SessionStore
	Providers []*auth.Provider
	Scores    *score.Service
	Logger    *zap.Logger
	StaticDir string
	Bot       BotConfig
}

type Server struct {
	sessions  auth.SessionStore
	providers map[string]*auth.Provider
	scores    *score.Service
	logger    *zap.Logger
	staticDir string
	bot       BotConfig
	hub       *scoresHub
	mux       *http.ServeMux
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		sessions:  cfg.Sessions,
		providers: make(map[string]*auth.Provider),
		scores:    cfg.Scores,
		logger:    logger,
		staticDir: cfg.StaticDir,
		bot:       cfg.Bot,
		hub:       newScoresHub(),
		mux:       http.NewServeMux(),
	}
	for _, p := range cfg.Providers {
		if p != nil {
			s.providers[p.Name()] = p
		}
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.HandleFunc("GET /auth/{provider}", s.handleAuthStart)
	s.mux.HandleFunc("GET /auth/{provider}/callback", s.handleAuthCallback)
	s.mux.HandleFunc("POST /auth/logout", s.handleLogout)

	s.mux.HandleFunc("GET /api/user", s.requireAuth(s.handleUser))
	s.mux.HandleFunc("PUT /api/user/nickname", s.requireAuth(s.handleNickname))
	s.mux.HandleFunc("POST /api/game/result", s.requireAuth(s.handleResult))

	s.mux.HandleFunc("GET /api/scores", s.handleScores)
	s.mux.HandleFunc("GET /api/scores/top", s.handleScoresTop)
	s.mux.HandleFunc("GET /api/scores/summary", s.handleScoresSummary)

	s.mux.HandleFunc("GET /ws/scores", s.handleScoresSocket)
	s.mux.HandleFunc("GET /ws/game", s.handleGameSocket)

	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("/", s.handleStatic)
}

// currentProfile resolves the logged-in identity from the session cookie.
func (s *Server) currentProfile(r *http.Request) *auth.Profile {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	profile, err := s.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return profile
}

type authedHandler func(w http.ResponseWriter, r *http.Request, profile *auth.Profile)

func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile := s.currentProfile(r)
		if profile == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r, profile)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatic serves the SPA assets: real files first, /scoreboard as a
// page alias, anything else falls back to index.html. API-looking paths
// that reached this handler are unknown routes.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/auth") || strings.HasPrefix(path, "/ws") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if s.staticDir == "" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	if path == "/scoreboard" {
		http.ServeFile(w, r, filepath.Join(s.staticDir, "scoreboard.html"))
		return
	}
	candidate := filepath.Join(s.staticDir, filepath.Clean("/"+path))
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		http.ServeFile(w, r, candidate)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, xodto.ErrorResponse{Error: msg})
}

func toScoreEntry(e score.Entry) xodto.ScoreEntry {
	return xodto.ScoreEntry{
		ID:          e.ID,
		Name:        e.Name,
		Nickname:    e.Nickname,
		Photo:       e.Photo,
		Score:       e.Score,
		Streak:      e.Streak,
		Wins:        e.Wins,
		Losses:      e.Losses,
		Draws:       e.Draws,
		WinRate:     e.WinRate,
		Rank:        string(e.Rank),
		Position:    e.Position,
		LastUpdated: e.LastUpdated,
	}
}

func toScoreEntries(entries []score.Entry) []xodto.ScoreEntry {
	out := make([]xodto.ScoreEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toScoreEntry(e))
	}
	return out
}
