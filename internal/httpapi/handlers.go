package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/xo-arena/internal/auth"
	"github.com/park285/xo-arena/internal/score"
	"github.com/park285/xo-arena/pkg/xodto"
)

const (
	stateCookie   = "xo_state"
	defaultScores = 10
)

func (s *Server) handleAuthStart(w http.ResponseWriter, r *http.Request) {
	provider, ok := s.providers[r.PathValue("provider")]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown login provider")
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := s.providers[r.PathValue("provider")]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown login provider")
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookie)
	if err != nil || state == "" || cookie.Value != state {
		s.logger.Warn("oauth_state_mismatch", zap.String("provider", provider.Name()))
		http.Redirect(w, r, "/?auth=failed", http.StatusFound)
		return
	}
	clearCookie(w, stateCookie)

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/?auth=failed", http.StatusFound)
		return
	}

	profile, err := provider.Exchange(r.Context(), code)
	if err != nil {
		s.logger.Warn("oauth_exchange_failed", zap.String("provider", provider.Name()), zap.Error(err))
		http.Redirect(w, r, "/?auth=failed", http.StatusFound)
		return
	}

	if err := s.scores.EnsureUser(r.Context(), score.User{
		ID:    profile.ID,
		Name:  profile.Name,
		Email: profile.Email,
		Photo: profile.Photo,
	}); err != nil {
		s.logger.Error("login_ensure_user", zap.String("user_id", profile.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	sid, err := s.sessions.Create(r.Context(), *profile)
	if err != nil {
		s.logger.Error("session_create", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Info("login", zap.String("provider", provider.Name()), zap.String("user_id", profile.ID))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
		if err := s.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			s.logger.Warn("session_destroy", zap.Error(err))
		}
	}
	clearCookie(w, auth.CookieName)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request, profile *auth.Profile) {
	// Refresh the identity row on every read, like the login path does.
	if err := s.scores.EnsureUser(r.Context(), score.User{
		ID:    profile.ID,
		Name:  profile.Name,
		Email: profile.Email,
		Photo: profile.Photo,
	}); err != nil {
		s.storageError(w, "user_ensure", err)
		return
	}
	overview, err := s.scores.PlayerOverview(r.Context(), profile.ID)
	if err != nil {
		s.storageError(w, "user_overview", err)
		return
	}
	writeJSON(w, http.StatusOK, xodto.UserResponse{
		User: xodto.UserInfo{
			ID:       profile.ID,
			Name:     profile.Name,
			Email:    profile.Email,
			Photo:    profile.Photo,
			Nickname: overview.User.Nickname,
		},
		Score:    overview.Stats.Score,
		Streak:   overview.Stats.Streak,
		Wins:     overview.Stats.Wins,
		Losses:   overview.Stats.Losses,
		Draws:    overview.Stats.Draws,
		WinRate:  overview.WinRate,
		Rank:     string(overview.Rank),
		Nickname: overview.User.Nickname,
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request, profile *auth.Profile) {
	var req xodto.ResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid result payload")
		return
	}
	result, err := score.ParseResult(req.Result)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid result payload")
		return
	}

	stats, bonus, err := s.scores.RecordResult(r.Context(), profile.ID, result)
	if err != nil {
		s.storageError(w, "result_record", err)
		return
	}

	winRate := stats.WinRate()
	writeJSON(w, http.StatusOK, xodto.ResultResponse{
		Score:        stats.Score,
		Streak:       stats.Streak,
		Wins:         stats.Wins,
		Losses:       stats.Losses,
		Draws:        stats.Draws,
		WinRate:      winRate,
		Rank:         string(score.Classify(winRate, stats.Score, stats.Wins)),
		BonusAwarded: bonus,
	})
	s.broadcastScores()
}

func (s *Server) handleNickname(w http.ResponseWriter, r *http.Request, profile *auth.Profile) {
	var req xodto.NicknameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid nickname payload")
		return
	}
	nickname, err := s.scores.UpdateNickname(r.Context(), profile.ID, req.Nickname)
	switch {
	case errors.Is(err, score.ErrInvalidNickname):
		writeError(w, http.StatusBadRequest,
			"Nickname must be 3-24 characters of letters, numbers, spaces, hyphen, or underscore.")
		return
	case errors.Is(err, score.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "Player not found")
		return
	case err != nil:
		s.storageError(w, "nickname_update", err)
		return
	}
	writeJSON(w, http.StatusOK, xodto.NicknameResponse{Nickname: nickname})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	entries, err := s.scores.Leaderboard(r.Context())
	if err != nil {
		s.storageError(w, "scores_list", err)
		return
	}

	if limit := parseLimit(r.URL.Query().Get("limit")); limit > 0 {
		writeJSON(w, http.StatusOK, toScoreEntries(clip(entries, limit)))
		return
	}
	if strings.EqualFold(r.URL.Query().Get("view"), "all") && s.currentProfile(r) != nil {
		writeJSON(w, http.StatusOK, toScoreEntries(entries))
		return
	}
	writeJSON(w, http.StatusOK, toScoreEntries(clip(entries, defaultScores)))
}

func (s *Server) handleScoresTop(w http.ResponseWriter, r *http.Request) {
	entries, err := s.scores.Leaderboard(r.Context())
	if err != nil {
		s.storageError(w, "scores_top", err)
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultScores
	}
	writeJSON(w, http.StatusOK, toScoreEntries(clip(entries, limit)))
}

func (s *Server) handleScoresSummary(w http.ResponseWriter, r *http.Request) {
	playerID := ""
	if profile := s.currentProfile(r); profile != nil {
		playerID = profile.ID
	}
	top, own, err := s.scores.Summary(r.Context(), playerID)
	if err != nil {
		s.storageError(w, "scores_summary", err)
		return
	}
	resp := xodto.SummaryResponse{Top: toScoreEntries(top)}
	if own != nil {
		entry := toScoreEntry(*own)
		resp.Player = &entry
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) storageError(w http.ResponseWriter, event string, err error) {
	s.logger.Error(event, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Storage failure")
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func clip(entries []score.Entry, limit int) []score.Entry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
