package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"value-added-framework/internal/conversation"
	"value-added-framework/internal/conversation/usecase"
	"value-added-framework/internal/gateway"
	profileuc "value-added-framework/internal/profile/usecase"
	"value-added-framework/internal/store/memory"
	"value-added-framework/internal/timer"
	pkgErrors "value-added-framework/pkg/errors"
	"value-added-framework/pkg/llmprovider"
	"value-added-framework/pkg/log"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memory.New()
	gw := gateway.New(log.NewNop(), llmprovider.NewMockProvider(), gateway.Config{Timeout: time.Second})
	uc := usecase.New(log.NewNop(), st, profileuc.New(st, log.NewNop()), gw, timer.New(), usecase.Config{})

	h := New(log.NewNop(), uc)
	h.interval = 10 * time.Millisecond

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), h)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Data
}

func startTestSession(t *testing.T, r http.Handler, body string) sessionResp {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/sessions", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[sessionResp](t, w)
}

func TestSessionFlow(t *testing.T) {
	r := newTestRouter(t)

	s := startTestSession(t, r, `{"duration_minutes":10}`)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Session 3", s.Label)
	assert.Equal(t, "Alex Johnson", s.PatientName)
	assert.Equal(t, 10, s.DurationMinutes)

	w := do(r, http.MethodPost, "/api/v1/sessions/"+s.ID+"/messages", `{"text":"I've been feeling anxious about work"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	msg := decode[messageResp](t, w)
	assert.NotEmpty(t, msg.Response)
	assert.NotEmpty(t, msg.Notes)
	assert.Equal(t, 1, msg.Sequence)
	assert.Equal(t, "mock", msg.Provider)
	assert.Equal(t, []string{"idle", "building_context", "awaiting_model", "validating_reply", "persisting", "done"}, msg.Trace)

	w = do(r, http.MethodGet, "/api/v1/sessions/"+s.ID+"/turns", "")
	require.Equal(t, http.StatusOK, w.Code)
	turns := decode[[]turnResp](t, w)
	require.Len(t, turns, 1)
	assert.Equal(t, "I've been feeling anxious about work", turns[0].Text)

	w = do(r, http.MethodGet, "/api/v1/sessions/"+s.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[sessionResp](t, w).TurnCount)

	w = do(r, http.MethodGet, "/api/v1/sessions/"+s.ID+"/transcript?format=yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".yaml")
	assert.Contains(t, w.Body.String(), "patient_name: Alex Johnson")

	w = do(r, http.MethodPost, "/api/v1/sessions/"+s.ID+"/end", "")
	require.Equal(t, http.StatusOK, w.Code)
	sum := decode[summaryResp](t, w)
	assert.Equal(t, 1, sum.TurnCount)
	assert.Equal(t, 2, sum.MessageCount)

	w = do(r, http.MethodPost, "/api/v1/sessions/"+s.ID+"/messages", `{"text":"one more thing"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSessionErrors(t *testing.T) {
	r := newTestRouter(t)
	s := startTestSession(t, r, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "unknown session", method: http.MethodGet, path: "/api/v1/sessions/nope", want: http.StatusNotFound},
		{name: "unknown profile", method: http.MethodPost, path: "/api/v1/sessions", body: `{"profile_id":"PAT999"}`, want: http.StatusNotFound},
		{name: "negative duration", method: http.MethodPost, path: "/api/v1/sessions", body: `{"duration_minutes":-1}`, want: http.StatusBadRequest},
		{name: "missing text", method: http.MethodPost, path: "/api/v1/sessions/" + s.ID + "/messages", body: `{}`, want: http.StatusBadRequest},
		{name: "blank text", method: http.MethodPost, path: "/api/v1/sessions/" + s.ID + "/messages", body: `{"text":"   "}`, want: http.StatusBadRequest},
		{name: "bad format", method: http.MethodGet, path: "/api/v1/sessions/" + s.ID + "/transcript?format=pdf", want: http.StatusBadRequest},
		{name: "end unknown", method: http.MethodPost, path: "/api/v1/sessions/nope/end", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestMapError(t *testing.T) {
	h := &handler{}
	tests := []struct {
		kind conversation.Kind
		want int
	}{
		{kind: conversation.KindInvalidInput, want: http.StatusBadRequest},
		{kind: conversation.KindSessionNotFound, want: http.StatusNotFound},
		{kind: conversation.KindProfileNotFound, want: http.StatusNotFound},
		{kind: conversation.KindSessionEnded, want: http.StatusConflict},
		{kind: conversation.KindTransientGateway, want: http.StatusServiceUnavailable},
		{kind: conversation.KindFatalGateway, want: http.StatusBadGateway},
		{kind: conversation.KindMalformedReply, want: http.StatusBadGateway},
		{kind: conversation.KindCancelled, want: http.StatusRequestTimeout},
		{kind: conversation.KindStoreUnavailable, want: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		var httpErr *pkgErrors.HTTPError
		err := h.mapError(&conversation.Error{Kind: tt.kind, Err: errors.New("x")})
		require.True(t, errors.As(err, &httpErr), string(tt.kind))
		assert.Equal(t, tt.want, httpErr.StatusCode, string(tt.kind))
	}

	assert.Equal(t, pkgErrors.ErrInternalServerError, h.mapError(errors.New("boom")))
}

func TestTimerStream(t *testing.T) {
	r := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/"

	t.Run("active session ticks", func(t *testing.T) {
		s := startTestSession(t, r, "")
		conn, _, err := websocket.DefaultDialer.Dial(wsURL+s.ID+"/timer/ws", nil)
		require.NoError(t, err)
		defer conn.Close()

		for i := 0; i < 2; i++ {
			var tick timerTick
			require.NoError(t, conn.ReadJSON(&tick))
			assert.Equal(t, s.ID, tick.SessionID)
			assert.True(t, tick.Active)
			assert.Contains(t, tick.TimeLeft, "minutes and")
		}
	})

	t.Run("ended session closes", func(t *testing.T) {
		s := startTestSession(t, r, "")
		require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/sessions/"+s.ID+"/end", "").Code)

		conn, _, err := websocket.DefaultDialer.Dial(wsURL+s.ID+"/timer/ws", nil)
		require.NoError(t, err)
		defer conn.Close()

		var tick timerTick
		require.NoError(t, conn.ReadJSON(&tick))
		assert.False(t, tick.Active)

		_, _, err = conn.ReadMessage()
		assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL+"nope/timer/ws", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
