package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/xo-arena/internal/game"
	"github.com/park285/xo-arena/internal/score"
	"github.com/park285/xo-arena/pkg/xodto"
)

const wsWriteTimeout = 5 * time.Second

// scoresHub fans leaderboard refreshes out to scoreboard sockets. Slow
// subscribers drop events instead of blocking the broadcaster.
type scoresHub struct {
	mu   sync.Mutex
	subs map[chan xodto.ScoresEvent]struct{}
}

func newScoresHub() *scoresHub {
	return &scoresHub{subs: make(map[chan xodto.ScoresEvent]struct{})}
}

func (h *scoresHub) subscribe() chan xodto.ScoresEvent {
	ch := make(chan xodto.ScoresEvent, 4)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *scoresHub) unsubscribe(ch chan xodto.ScoresEvent) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

func (h *scoresHub) broadcast(ev xodto.ScoresEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// broadcastScores rebuilds the top slice and pushes it to every scoreboard
// socket. Runs detached so request handlers never wait on it.
func (s *Server) broadcastScores() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		entries, err := s.scores.Leaderboard(ctx)
		if err != nil {
			s.logger.Warn("scores_broadcast", zap.Error(err))
			return
		}
		s.hub.broadcast(xodto.ScoresEvent{
			Type: "scores",
			Top:  toScoreEntries(clip(entries, defaultScores)),
		})
	}()
}

func (s *Server) handleScoresSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	ctx := conn.CloseRead(r.Context())
	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	entries, err := s.scores.Leaderboard(ctx)
	if err == nil {
		ev := xodto.ScoresEvent{Type: "scores", Top: toScoreEntries(clip(entries, defaultScores))}
		if err := writeEvent(ctx, conn, ev); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case ev := <-ch:
			if err := writeEvent(ctx, conn, ev); err != nil {
				return
			}
		}
	}
}

// handleGameSocket runs a server-held match. Unlike the REST result path the
// outcome recorded here is derived from the server's own board.
func (s *Server) handleGameSocket(w http.ResponseWriter, r *http.Request) {
	profile := s.currentProfile(r)
	if profile == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var writeMu sync.Mutex
	send := func(ev xodto.PlayEvent) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := writeEvent(ctx, conn, ev); err != nil {
			cancel()
		}
	}

	userID := profile.ID
	sess := game.NewSession(game.SessionConfig{
		Policy:    game.NewPolicy(s.bot.Behavior, nil),
		MoveDelay: s.bot.MoveDelay,
		OpenDelay: s.bot.OpenDelay,
		OnUpdate: func(snap game.Snapshot) {
			send(playState(snap))
			if snap.Finished {
				s.recordSocketResult(userID, snap, send)
			}
		},
	})
	defer sess.Close()

	send(playState(sess.Snapshot()))

	for {
		var cmd xodto.PlayCommand
		if err := wsjson.Read(ctx, conn, &cmd); err != nil {
			return
		}
		switch cmd.Type {
		case "move":
			if _, err := sess.Move(cmd.Cell); err != nil {
				send(xodto.PlayEvent{Type: "error", Error: err.Error()})
			}
		case "reset":
			first := game.FirstMover(cmd.First)
			if first != game.FirstRandom && first != game.FirstPlayer && first != game.FirstBot {
				send(xodto.PlayEvent{Type: "error", Error: "invalid first mover"})
				continue
			}
			sess.Reset(first)
		default:
			send(xodto.PlayEvent{Type: "error", Error: "unknown command"})
		}
	}
}

// recordSocketResult applies a terminal snapshot to the ledger. Runs on its
// own context so a dropped socket cannot abort the write mid-flight.
func (s *Server) recordSocketResult(userID string, snap game.Snapshot, send func(xodto.PlayEvent)) {
	result, err := score.ParseResult(string(snap.Outcome))
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, bonus, err := s.scores.RecordResult(ctx, userID, result)
	if err != nil {
		s.logger.Error("ws_result_record", zap.String("user_id", userID), zap.Error(err))
		send(xodto.PlayEvent{Type: "error", Error: "failed to record result"})
		return
	}
	winRate := stats.WinRate()
	send(xodto.PlayEvent{
		Type: "result",
		Stats: &xodto.ResultResponse{
			Score:        stats.Score,
			Streak:       stats.Streak,
			Wins:         stats.Wins,
			Losses:       stats.Losses,
			Draws:        stats.Draws,
			WinRate:      winRate,
			Rank:         string(score.Classify(winRate, stats.Score, stats.Wins)),
			BonusAwarded: bonus,
		},
	})
	s.broadcastScores()
}

func playState(snap game.Snapshot) xodto.PlayEvent {
	board := make([]string, len(snap.Board))
	for i, mark := range snap.Board {
		board[i] = string(mark)
	}
	return xodto.PlayEvent{
		Type:       "state",
		Board:      board,
		PlayerMark: string(snap.PlayerMark),
		BotMark:    string(snap.BotMark),
		PlayerTurn: snap.PlayerTurn,
		Finished:   snap.Finished,
		Outcome:    string(snap.Outcome),
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, ev any) error {
	wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(wctx, conn, ev)
}
