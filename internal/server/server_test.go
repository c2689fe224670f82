package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omniagent/cognition/internal/agents"
	"github.com/omniagent/cognition/internal/persona"
	"github.com/omniagent/cognition/internal/reason"
	"github.com/omniagent/cognition/internal/schema"
	"github.com/omniagent/cognition/internal/supervisor"
)

// roleProvider answers by role, keyed off the system prompt.
type roleProvider struct {
	interfaceJSON string
	rulesJSON     string
	dialogueJSON  string
}

func (p *roleProvider) CompleteJSON(ctx context.Context, req reason.Request) (json.RawMessage, error) {
	switch {
	case strings.Contains(req.System, "Interface Agent"):
		return json.RawMessage(p.interfaceJSON), nil
	case strings.Contains(req.System, "Rules Agent"):
		return json.RawMessage(p.rulesJSON), nil
	case strings.Contains(req.System, "Dialogue Agent"):
		return json.RawMessage(p.dialogueJSON), nil
	}
	return nil, errors.New("unknown role")
}

func newTestServer(t *testing.T, provider reason.Provider) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	record := "name: elara\nrole: guide\nmemory_summary:\n  sentiment: guarded\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "elara.yaml"), []byte(record), 0o644))

	log := zap.NewNop()
	runner := supervisor.NewRunner(
		agents.NewInterfaceAgent(provider, log),
		agents.NewRulesAgent(provider, schema.WorldConstants{MaxDamage: 100}, log),
		agents.NewDialogueAgent(provider, persona.NewStore(dir), "elara", log),
		log,
	)
	srv := httptest.NewServer(New(runner, log).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/engine"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestEngineTurnOverWebsocket(t *testing.T) {
	provider := &roleProvider{
		interfaceJSON: `{"action_type": "Attack", "target_reference": "wolf-3", "confidence": 0.95}`,
		rulesJSON:     `{"action_type": "Attack", "target_id": "wolf-3", "damage": 500}`,
	}
	conn := dialWS(t, newTestServer(t, provider))

	prompt := schema.GesPrompt{PlayerID: "p1", VoiceTranscript: "attack the wolf", Timestamp: 1}
	require.NoError(t, conn.WriteJSON(prompt))

	var batch schema.ActionBatch
	require.NoError(t, conn.ReadJSON(&batch))

	assert.Equal(t, "RulesAgent", batch.AgentID)
	require.Len(t, batch.Actions, 1)
	action := batch.Actions[0].(schema.GameAction)
	assert.Equal(t, schema.ActionAttack, action.ActionType)
	assert.Equal(t, 100.0, action.Parameters["damage"], "world limit applies at the transport boundary too")
}

func TestEngineRejectsInvalidPrompt(t *testing.T) {
	conn := dialWS(t, newTestServer(t, &roleProvider{}))

	// Missing voice_transcript fails validation before any reasoning call.
	require.NoError(t, conn.WriteJSON(map[string]any{"player_id": "p1"}))

	var envelope map[string]any
	require.NoError(t, conn.ReadJSON(&envelope))
	assert.Contains(t, envelope["error"], "voice_transcript")
}

func TestEngineRejectsMalformedJSON(t *testing.T) {
	conn := dialWS(t, newTestServer(t, &roleProvider{}))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	var envelope map[string]any
	require.NoError(t, conn.ReadJSON(&envelope))
	assert.NotEmpty(t, envelope["error"])
}

func TestEngineServesMultipleTurnsPerConnection(t *testing.T) {
	provider := &roleProvider{
		interfaceJSON: `{"action_type": "Talk", "confidence": 0.9}`,
		dialogueJSON:  `{"text": "Again?", "emotion": "Neutral"}`,
	}
	conn := dialWS(t, newTestServer(t, provider))

	for i := 0; i < 3; i++ {
		prompt := schema.GesPrompt{PlayerID: "p1", VoiceTranscript: "how are you?", Timestamp: float64(i)}
		require.NoError(t, conn.WriteJSON(prompt))

		var batch schema.ActionBatch
		require.NoError(t, conn.ReadJSON(&batch))
		assert.Equal(t, "elara", batch.AgentID)
	}
}

func TestLivenessRoot(t *testing.T) {
	srv := newTestServer(t, &roleProvider{})
	resp, err := srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}
