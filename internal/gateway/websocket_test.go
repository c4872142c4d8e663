package gateway

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

// The genai dependency links opencensus, whose init starts a stats worker.
var ignoreStatsWorker = goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start")

func dialSocket(t *testing.T, srv *testServer) *websocket.Conn {
	t.Helper()

	httpServer := httptest.NewServer(srv.router)
	t.Cleanup(httpServer.Close)

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/api/ws/specifications"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, kind, payload string) Message {
	t.Helper()
	require.NoError(t, conn.WriteJSON(Message{Type: kind, Payload: json.RawMessage(payload)}))

	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestDialogueSocket_Session(t *testing.T) {
	// Registered first so it runs after every other cleanup.
	t.Cleanup(func() { goleak.VerifyNone(t, ignoreStatsWorker) })

	srv := newTestServer(t, responder("Quais integrações serão necessárias?", nil), nil)
	conn := dialSocket(t, srv)

	reply := send(t, conn, MessageStart, `{"idea":"`+testIdea+`","title":"PIX Agendado"}`)
	require.Equal(t, MessageStarted, reply.Type, string(reply.Payload))
	var started models.StartResponse
	require.NoError(t, json.Unmarshal(reply.Payload, &started))
	assert.Equal(t, "Quais integrações serão necessárias?", started.FirstQuestion)

	reply = send(t, conn, MessageAnswer, `{"spec_id":"`+started.SpecID+`","current_question":"Quem usa?","answer":"sim"}`)
	require.Equal(t, MessageError, reply.Type)
	var failure models.ErrorResponse
	require.NoError(t, json.Unmarshal(reply.Payload, &failure))
	assert.Equal(t, models.ErrCodeValidationFailed, failure.Code)

	reply = send(t, conn, "resume", `{}`)
	require.Equal(t, MessageError, reply.Type)
	require.NoError(t, json.Unmarshal(reply.Payload, &failure))
	assert.Equal(t, models.ErrCodeInvalidRequest, failure.Code)

	reply = send(t, conn, MessageAnswer, answerBody(t, fourAnswers))
	require.Equal(t, models.StatusCompleted, reply.Type, string(reply.Payload))
	var completed models.CompletedResponse
	require.NoError(t, json.Unmarshal(reply.Payload, &completed))
	assert.Equal(t, 5, completed.TotalQuestions)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestDialogueSocket_InProgress(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t, ignoreStatsWorker) })

	srv := newTestServer(t, responder("Quais integrações serão necessárias?", nil), nil)
	conn := dialSocket(t, srv)

	reply := send(t, conn, MessageAnswer, answerBody(t, `{}`))
	require.Equal(t, models.StatusInProgress, reply.Type, string(reply.Payload))

	var resp models.InProgressResponse
	require.NoError(t, json.Unmarshal(reply.Payload, &resp))
	assert.Equal(t, 2, resp.QuestionNumber)
	assert.Equal(t, "spec-1", resp.SpecID)
}
