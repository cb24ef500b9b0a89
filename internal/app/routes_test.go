package app

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/mazeboard/internal/board"
	"github.com/vancomm/mazeboard/internal/config"
	"github.com/vancomm/mazeboard/internal/handlers"
	"github.com/vancomm/mazeboard/internal/repository"
)

const basePath = "/api"

type testServer struct {
	*httptest.Server
	repo *repository.Memory
	jwt  *config.JWT
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	jwt := config.NewJWTWithKeys(key, &key.PublicKey, time.Hour)

	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewMemory()
	h := handlers.NewBoardHandler(logger, repo, jwt, ws)

	srv := httptest.NewServer(NewRouter(logger, h, jwt, basePath))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, repo: repo, jwt: jwt}
}

func (s *testServer) do(t *testing.T, method, path, token string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+basePath+path, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func (s *testServer) newSession(t *testing.T, seed string) handlers.SessionDTO {
	t.Helper()
	res := s.do(t, http.MethodPost, "/board?seed="+seed, "", nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	return decode[handlers.SessionDTO](t, res)
}

func TestNewBoard(t *testing.T) {
	s := setupServer(t)

	session := s.newSession(t, "1:2")
	require.NotNil(t, session.Board)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "1:2", session.Board.Seed)
	assert.Equal(t, board.Size, session.Board.Size)
	assert.Len(t, session.Board.Cells, board.Size*board.Size)
	assert.Equal(t, "wall", session.Board.Cells[0].Kind)

	var items int
	for _, c := range session.Board.Cells {
		if c.Item != nil {
			items++
		}
	}
	assert.Equal(t, 100, items)

	again := s.newSession(t, "1:2")
	assert.NotEqual(t, session.SessionId, again.SessionId)
	assert.Equal(t, session.Board.Digest, again.Board.Digest)
}

func TestNewBoardBadSeed(t *testing.T) {
	s := setupServer(t)
	res := s.do(t, http.MethodPost, "/board?seed=nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestFetchBoard(t *testing.T) {
	s := setupServer(t)
	session := s.newSession(t, "3:4")
	path := "/board/" + session.SessionId

	res := s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	etag := res.Header.Get("ETag")
	assert.Equal(t, `"`+session.Board.Digest+`"`, etag)
	fetched := decode[handlers.BoardDTO](t, res)
	assert.Equal(t, session.Board.Digest, fetched.Digest)

	res = s.do(t, http.MethodGet, path, "", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, res.StatusCode)

	res = s.do(t, http.MethodGet, path+"/text", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	text, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, 2*board.Size+1, strings.Count(string(text), "\n"))

	res = s.do(t, http.MethodGet, "/board/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = s.do(t, http.MethodGet, "/board/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestRegenerateRequiresOwner(t *testing.T) {
	s := setupServer(t)
	mine, other := s.newSession(t, "5:6"), s.newSession(t, "7:8")
	path := "/board/" + mine.SessionId + "/regenerate"

	res := s.do(t, http.MethodPost, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = s.do(t, http.MethodPost, path, other.Token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = s.do(t, http.MethodPost, path, mine.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	regenerated := decode[handlers.BoardDTO](t, res)
	assert.NotEqual(t, mine.Board.Digest, regenerated.Digest)
	assert.NotEqual(t, mine.Board.Seed, regenerated.Seed)
}

func TestSaveAndLoad(t *testing.T) {
	s := setupServer(t)
	session := s.newSession(t, "9:10")
	path := "/board/" + session.SessionId

	res := s.do(t, http.MethodPost, path+"/save?slot=first", session.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	saved := decode[repository.SlotInfo](t, res)
	assert.Equal(t, "first", saved.Slot)
	assert.Equal(t, session.Board.Digest, saved.Digest)

	res = s.do(t, http.MethodPost, path+"/regenerate", session.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = s.do(t, http.MethodPost, path+"/load?slot=first", session.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	loaded := decode[handlers.BoardDTO](t, res)
	assert.Equal(t, session.Board.Digest, loaded.Digest)
	assert.Equal(t, "9:10", loaded.Seed)

	res = s.do(t, http.MethodGet, path+"/slots", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	slots := decode[[]repository.SlotInfo](t, res)
	require.Len(t, slots, 1)
	assert.Equal(t, "first", slots[0].Slot)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing slot", "/load?slot=second", http.StatusNotFound},
		{"bad slot name", "/load?slot=a%20b", http.StatusBadRequest},
		{"no slot param", "/load", http.StatusBadRequest},
		{"save bad slot", "/save?slot=semi;colon", http.StatusBadRequest},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := s.do(t, http.MethodPost, path+test.query, session.Token, nil)
			assert.Equal(t, test.status, res.StatusCode)
		})
	}
}

func TestDeleteSlot(t *testing.T) {
	s := setupServer(t)
	session := s.newSession(t, "13:14")
	other := s.newSession(t, "15:16")
	path := "/board/" + session.SessionId

	res := s.do(t, http.MethodPost, path+"/save?slot=keep", session.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = s.do(t, http.MethodDelete, path+"/slots/keep", other.Token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = s.do(t, http.MethodDelete, path+"/slots/keep", session.Token, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = s.do(t, http.MethodDelete, path+"/slots/keep", session.Token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = s.do(t, http.MethodGet, path+"/slots", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, decode[[]repository.SlotInfo](t, res))
}

func TestLoadCorruptSnapshotKeepsBoard(t *testing.T) {
	s := setupServer(t)
	session := s.newSession(t, "11:12")
	id := uuid.MustParse(session.SessionId)
	path := "/board/" + session.SessionId

	_, err := s.repo.SaveSnapshot(context.Background(), id, repository.SaveSnapshotParams{
		Slot: "broken", Seed: "0:0", State: []byte("garbage"), Digest: "garbage",
	})
	require.NoError(t, err)

	res := s.do(t, http.MethodPost, path+"/load?slot=broken", session.Token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	res = s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	current := decode[handlers.BoardDTO](t, res)
	assert.Equal(t, session.Board.Digest, current.Digest)
	assert.Equal(t, "11:12", current.Seed)
}

type wsReply struct {
	Command string               `json:"command"`
	Board   *handlers.BoardDTO   `json:"board"`
	Slot    *repository.SlotInfo `json:"slot"`
	Error   string               `json:"error"`
}

func TestWebSocketCommands(t *testing.T) {
	s := setupServer(t)
	session := s.newSession(t, "13:14")

	url := "ws" + strings.TrimPrefix(s.URL, "http") +
		basePath + "/board/" + session.SessionId + "/connect?token=" + session.Token
	c, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer res.Body.Close()
	defer c.Close()

	send := func(cmd string) wsReply {
		t.Helper()
		require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(cmd)))
		var reply wsReply
		require.NoError(t, c.ReadJSON(&reply))
		return reply
	}

	reply := send("g")
	require.Empty(t, reply.Error)
	require.NotNil(t, reply.Board)
	assert.Equal(t, session.Board.Digest, reply.Board.Digest)

	reply = send("s keep")
	require.Empty(t, reply.Error)
	require.NotNil(t, reply.Slot)
	assert.Equal(t, "keep", reply.Slot.Slot)

	reply = send("r")
	require.Empty(t, reply.Error)
	assert.NotEqual(t, session.Board.Digest, reply.Board.Digest)

	reply = send("l keep")
	require.Empty(t, reply.Error)
	assert.Equal(t, session.Board.Digest, reply.Board.Digest)

	assert.Equal(t, "unknown command", send("x").Error)
	assert.NotEmpty(t, send("s").Error)
	assert.Equal(t, "slot not found: nothing", send("l nothing").Error)
}

func TestWebSocketRequiresToken(t *testing.T) {
	s := setupServer(t)
	session := s.newSession(t, "15:16")

	url := "ws" + strings.TrimPrefix(s.URL, "http") +
		basePath + "/board/" + session.SessionId + "/connect"
	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
