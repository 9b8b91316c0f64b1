package driver

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/config"
	"github.com/CarterRock49/MTG-AI-Project/internal/game"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type memorySink struct {
	mu      sync.Mutex
	results []game.Result
}

func (m *memorySink) Record(_ context.Context, r game.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *memorySink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

func startServer(t *testing.T, opts game.Options, sink game.ResultSink) (*Server, string) {
	t.Helper()
	srv := NewServer(cards.Builtin(), opts, sink, config.ServerConfig{
		ReadLimit:    1 << 16,
		WriteTimeout: 5 * time.Second,
	}, zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req Request) Response {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req))
	var resp Response
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func index(i int) *int { return &i }

func TestResetAndStep(t *testing.T) {
	_, url := startServer(t, game.DefaultOptions(), nil)
	conn := dial(t, url)

	resp := roundTrip(t, conn, Request{Type: TypeReset})
	require.Equal(t, TypeObservation, resp.Type, resp.Error)
	require.NotNil(t, resp.Observation)
	require.NotEmpty(t, resp.Legal)
	assert.Len(t, resp.Observation.Players, 2)
	assert.False(t, resp.Terminal)

	resp = roundTrip(t, conn, Request{Type: TypeStep, Index: index(0)})
	require.Equal(t, TypeObservation, resp.Type, resp.Error)
	assert.NotEmpty(t, resp.Legal)
	assert.Contains(t, resp.Rewards, "p1")

	legal := roundTrip(t, conn, Request{Type: TypeLegal})
	require.Equal(t, TypeObservation, legal.Type)
	assert.Equal(t, resp.Legal, legal.Legal)
}

func TestStepWithExplicitAction(t *testing.T) {
	_, url := startServer(t, game.DefaultOptions(), nil)
	conn := dial(t, url)

	resp := roundTrip(t, conn, Request{Type: TypeReset})
	require.Equal(t, TypeObservation, resp.Type, resp.Error)
	action := resp.Legal[len(resp.Legal)-1]

	resp = roundTrip(t, conn, Request{Type: TypeStep, Action: &action})
	assert.Equal(t, TypeObservation, resp.Type, resp.Error)
}

func TestRejectedRequests(t *testing.T) {
	_, url := startServer(t, game.DefaultOptions(), nil)
	conn := dial(t, url)

	resp := roundTrip(t, conn, Request{Type: TypeStep, Index: index(0)})
	assert.Equal(t, TypeError, resp.Type)
	assert.Contains(t, resp.Error, "not started")

	resp = roundTrip(t, conn, Request{Type: "shuffle"})
	assert.Equal(t, TypeError, resp.Type)

	roundTrip(t, conn, Request{Type: TypeReset})
	before := roundTrip(t, conn, Request{Type: TypeObservation})

	resp = roundTrip(t, conn, Request{Type: TypeStep, Index: index(10_000)})
	assert.Equal(t, TypeError, resp.Type)
	resp = roundTrip(t, conn, Request{Type: TypeStep, Action: &game.Action{Kind: game.ActionConcede, Player: "nobody"}})
	assert.Equal(t, TypeError, resp.Type)
	resp = roundTrip(t, conn, Request{Type: TypeStep})
	assert.Equal(t, TypeError, resp.Type)

	after := roundTrip(t, conn, Request{Type: TypeObservation})
	assert.Equal(t, game.Checksum(*before.Observation), game.Checksum(*after.Observation))
}

func TestPlayToCompletion(t *testing.T) {
	opts := game.DefaultOptions()
	opts.AutoPass = true
	opts.MaxTurns = 8
	sink := &memorySink{}
	_, url := startServer(t, opts, sink)
	conn := dial(t, url)

	rng := rand.New(rand.NewSource(9))
	resp := roundTrip(t, conn, Request{Type: TypeReset})
	for i := 0; i < 20000 && !resp.Terminal; i++ {
		require.Equal(t, TypeObservation, resp.Type, resp.Error)
		resp = roundTrip(t, conn, Request{Type: TypeStep, Index: index(rng.Intn(len(resp.Legal)))})
	}
	require.True(t, resp.Terminal)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 1, sink.count())

	resp = roundTrip(t, conn, Request{Type: TypeStep, Index: index(0)})
	assert.Equal(t, TypeError, resp.Type)
}

func TestSessionsAreIndependent(t *testing.T) {
	srv, url := startServer(t, game.DefaultOptions(), nil)
	a := dial(t, url)
	b := dial(t, url)

	seed := int64(5)
	ra := roundTrip(t, a, Request{Type: TypeReset, Seed: &seed})
	rb := roundTrip(t, b, Request{Type: TypeReset, Seed: &seed})
	require.Equal(t, TypeObservation, ra.Type)
	require.Equal(t, TypeObservation, rb.Type)
	assert.Equal(t, game.Checksum(*ra.Observation), game.Checksum(*rb.Observation))

	roundTrip(t, a, Request{Type: TypeStep, Index: index(0)})
	rb = roundTrip(t, b, Request{Type: TypeObservation})
	assert.Equal(t, game.Checksum(*ra.Observation), game.Checksum(*rb.Observation))
	assert.EqualValues(t, 2, srv.ActiveSessions())
}

func TestHealthz(t *testing.T) {
	srv := NewServer(cards.Builtin(), game.DefaultOptions(), nil, config.ServerConfig{}, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok 0\n", rec.Body.String())
}
