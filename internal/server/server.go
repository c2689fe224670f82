// Package server is the websocket transport adapter: one GesPrompt JSON
// object in, one ActionBatch (or error object) out per turn. The
// transport validates input at the edge and never forwards a raw panic
// or provider error to the client.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/omniagent/cognition/internal/schema"
	"github.com/omniagent/cognition/internal/supervisor"
)

// #region types

// errorEnvelope is the structured error object sent when a turn cannot
// produce a valid ActionBatch.
type errorEnvelope struct {
	Error string `json:"error"`
}

// Server hosts the engine websocket endpoint. Each connection runs its
// turns sequentially; concurrent connections are fully isolated.
type Server struct {
	runner   *supervisor.Runner
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// New creates a websocket server over the given turn runner.
func New(runner *supervisor.Runner, log *zap.Logger) *Server {
	return &Server{
		runner: runner,
		log:    log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
}

// #endregion types

// #region handler

// Handler returns the HTTP mux for the engine: the websocket endpoint
// plus a liveness root.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/engine", s.handleWS)
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"cognition engine is running"}`))
	})
	return mux
}

// handleWS upgrades the connection and serves turns until the client
// disconnects. A dropped connection cancels the in-flight turn; its
// result is discarded.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s.log.Info("engine client connected", zap.String("remote", conn.RemoteAddr().String()))

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			s.log.Info("engine client disconnected", zap.Error(err))
			return
		}

		batch, err := s.runTurn(ctx, payload)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if werr := conn.WriteJSON(errorEnvelope{Error: err.Error()}); werr != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(batch); err != nil {
			return
		}
	}
}

// #endregion handler

// #region turn

// runTurn validates one inbound payload and executes the pipeline.
// Input validation failures abort before any reasoning call.
func (s *Server) runTurn(ctx context.Context, payload []byte) (schema.ActionBatch, error) {
	var prompt schema.GesPrompt
	if err := json.Unmarshal(payload, &prompt); err != nil {
		return schema.ActionBatch{}, err
	}
	if err := prompt.Validate(); err != nil {
		return schema.ActionBatch{}, err
	}

	s.log.Info("turn started",
		zap.String("player_id", prompt.PlayerID),
		zap.String("transcript", prompt.VoiceTranscript))

	return s.runner.RunTurn(ctx, &prompt)
}

// #endregion turn
