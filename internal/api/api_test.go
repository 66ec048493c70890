package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/santihernandis/lobos-go/internal/factory"
	"github.com/santihernandis/lobos-go/internal/testutil"
)

type APISuite struct {
	suite.Suite
	app    *factory.TestApp
	router http.Handler
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.router = NewRouter(RouterConfig{
		Logger:            testutil.NopLogger(),
		Random:            s.app.Random,
		AuthService:       s.app.AuthService,
		SessionController: s.app.SessionController,
		TrackerService:    s.app.TrackerService,
		Gateway:           s.app.Gateway,
	})
}

// request performs a JSON request against the router. identity may be
// empty for anonymous calls.
func (s *APISuite) request(method, path, identity string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if identity != "" {
		req.Header.Set("X-Identity", identity)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), out))
}

func (s *APISuite) errorCode(rec *httptest.ResponseRecorder) string {
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	s.decode(rec, &resp)
	return resp.Error.Code
}

// createRoom creates a room as the given identity and returns its code
func (s *APISuite) createRoom(identity, code string) string {
	s.app.MockRandom.QueueString(code)
	rec := s.request(http.MethodPost, "/api/v1/rooms", identity,
		map[string]string{"display_name": "Narrador"})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var room struct {
		Code string `json:"code"`
	}
	s.decode(rec, &room)
	return room.Code
}

// Health

func (s *APISuite) TestHealth() {
	rec := s.request(http.MethodGet, "/api/v1/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

// Identity

func (s *APISuite) TestCreateIdentity() {
	s.app.MockRandom.QueueString("tok-abc")

	rec := s.request(http.MethodPost, "/api/v1/identity", "", nil)
	s.Equal(http.StatusCreated, rec.Code)

	var resp struct {
		Identity string `json:"identity"`
	}
	s.decode(rec, &resp)
	s.Equal("tok-abc", resp.Identity)
}

// Rooms

func (s *APISuite) TestCreateRoomRequiresIdentity() {
	rec := s.request(http.MethodPost, "/api/v1/rooms", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("UNAUTHORIZED", s.errorCode(rec))
}

func (s *APISuite) TestCreateRoomReturnsDefaultQuota() {
	code := s.createRoom("leader-1", "ABC123")
	s.Equal("ABC123", code)

	rec := s.request(http.MethodGet, "/api/v1/rooms/ABC123", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var room struct {
		Code          string         `json:"code"`
		Started       bool           `json:"started"`
		Configuracion map[string]int `json:"configuracion"`
	}
	s.decode(rec, &room)
	s.Equal("ABC123", room.Code)
	s.False(room.Started)
	s.Equal(3, room.Configuracion["aldeano"])
	s.Equal(1, room.Configuracion["lobo"])
}

func (s *APISuite) TestGetRoomIsCaseInsensitive() {
	s.createRoom("leader-1", "ABC123")

	rec := s.request(http.MethodGet, "/api/v1/rooms/abc123", "", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestGetUnknownRoomFails() {
	rec := s.request(http.MethodGet, "/api/v1/rooms/NOPE00", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("ROOM_NOT_FOUND", s.errorCode(rec))
}

func (s *APISuite) TestJoinRoomAddsToRoster() {
	s.createRoom("leader-1", "ABC123")

	rec := s.request(http.MethodPost, "/api/v1/rooms/ABC123/join", "player-1",
		map[string]string{"display_name": "Ana"})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.request(http.MethodGet, "/api/v1/rooms/ABC123/players", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var roster struct {
		Players []struct {
			Name     string `json:"name"`
			IsLeader bool   `json:"isLeader"`
		} `json:"players"`
	}
	s.decode(rec, &roster)
	s.Require().Len(roster.Players, 2)
	s.Equal("Narrador", roster.Players[0].Name)
	s.True(roster.Players[0].IsLeader)
	s.Equal("Ana", roster.Players[1].Name)
	s.False(roster.Players[1].IsLeader)
}

func (s *APISuite) TestJoinUnknownRoomFails() {
	rec := s.request(http.MethodPost, "/api/v1/rooms/NOPE00/join", "player-1",
		map[string]string{"display_name": "Ana"})
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestRejoinDoesNotDuplicate() {
	s.createRoom("leader-1", "ABC123")

	for i := 0; i < 3; i++ {
		rec := s.request(http.MethodPost, "/api/v1/rooms/ABC123/join", "player-1",
			map[string]string{"display_name": "Ana"})
		s.Require().Equal(http.StatusOK, rec.Code)
	}

	rec := s.request(http.MethodGet, "/api/v1/rooms/ABC123/players", "", nil)
	var roster struct {
		Players []json.RawMessage `json:"players"`
	}
	s.decode(rec, &roster)
	s.Len(roster.Players, 2)
}

// Quota

func (s *APISuite) TestUpdateQuotaReplacesConfiguration() {
	s.createRoom("leader-1", "ABC123")

	rec := s.request(http.MethodPut, "/api/v1/rooms/ABC123/quota", "leader-1",
		map[string]any{"configuracion": map[string]int{"lobo": 2, "aldeano": 5}})
	s.Require().Equal(http.StatusOK, rec.Code)

	var room struct {
		Configuracion map[string]int `json:"configuracion"`
	}
	s.decode(rec, &room)
	s.Equal(map[string]int{"lobo": 2, "aldeano": 5}, room.Configuracion)
}

func (s *APISuite) TestUpdateQuotaByNonLeaderFails() {
	s.createRoom("leader-1", "ABC123")
	s.request(http.MethodPost, "/api/v1/rooms/ABC123/join", "player-1",
		map[string]string{"display_name": "Ana"})

	rec := s.request(http.MethodPut, "/api/v1/rooms/ABC123/quota", "player-1",
		map[string]any{"configuracion": map[string]int{"lobo": 1}})
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("NOT_LEADER", s.errorCode(rec))
}

func (s *APISuite) TestUpdateQuotaWithNegativeCountFails() {
	s.createRoom("leader-1", "ABC123")

	rec := s.request(http.MethodPut, "/api/v1/rooms/ABC123/quota", "leader-1",
		map[string]any{"configuracion": map[string]int{"lobo": -1}})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("INVALID_QUOTA", s.errorCode(rec))
}

// Start

func (s *APISuite) TestStartGameDealsRoles() {
	s.createRoom("leader-1", "ABC123")
	for _, p := range []string{"p1", "p2", "p3"} {
		s.request(http.MethodPost, "/api/v1/rooms/ABC123/join", p,
			map[string]string{"display_name": p})
	}

	rec := s.request(http.MethodPut, "/api/v1/rooms/ABC123/quota", "leader-1",
		map[string]any{"configuracion": map[string]int{"lobo": 1, "vidente": 1, "aldeano": 1}})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.request(http.MethodPost, "/api/v1/rooms/ABC123/start", "leader-1", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var room struct {
		Started bool `json:"started"`
	}
	s.decode(rec, &room)
	s.True(room.Started)

	rec = s.request(http.MethodGet, "/api/v1/rooms/ABC123/players", "", nil)
	var roster struct {
		Players []struct {
			IsLeader bool   `json:"isLeader"`
			Role     string `json:"role"`
		} `json:"players"`
	}
	s.decode(rec, &roster)

	counts := map[string]int{}
	for _, p := range roster.Players {
		if !p.IsLeader {
			counts[p.Role]++
		}
	}
	s.Equal(1, counts["lobo"])
	s.Equal(1, counts["vidente"])
	s.Equal(1, counts["aldeano"])
}

func (s *APISuite) TestStartByNonLeaderFails() {
	s.createRoom("leader-1", "ABC123")
	s.request(http.MethodPost, "/api/v1/rooms/ABC123/join", "player-1",
		map[string]string{"display_name": "Ana"})

	rec := s.request(http.MethodPost, "/api/v1/rooms/ABC123/start", "player-1", nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("NOT_LEADER", s.errorCode(rec))
}

func (s *APISuite) TestStartTwiceFails() {
	s.createRoom("leader-1", "ABC123")

	rec := s.request(http.MethodPost, "/api/v1/rooms/ABC123/start", "leader-1", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.request(http.MethodPost, "/api/v1/rooms/ABC123/start", "leader-1", nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("GAME_STARTED", s.errorCode(rec))
}

func (s *APISuite) TestQuotaFrozenAfterStart() {
	s.createRoom("leader-1", "ABC123")
	s.request(http.MethodPost, "/api/v1/rooms/ABC123/start", "leader-1", nil)

	rec := s.request(http.MethodPut, "/api/v1/rooms/ABC123/quota", "leader-1",
		map[string]any{"configuracion": map[string]int{"lobo": 1}})
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("GAME_STARTED", s.errorCode(rec))
}

// Delete

func (s *APISuite) TestDeleteRoom() {
	s.createRoom("leader-1", "ABC123")

	rec := s.request(http.MethodDelete, "/api/v1/rooms/ABC123", "leader-1", nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.request(http.MethodGet, "/api/v1/rooms/ABC123", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestDeleteRoomByNonLeaderFails() {
	s.createRoom("leader-1", "ABC123")
	s.request(http.MethodPost, "/api/v1/rooms/ABC123/join", "player-1",
		map[string]string{"display_name": "Ana"})

	rec := s.request(http.MethodDelete, "/api/v1/rooms/ABC123", "player-1", nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

// Accounts

func (s *APISuite) TestRegisterLoginAndMe() {
	rec := s.request(http.MethodPost, "/api/v1/accounts/register", "",
		map[string]string{"email": "ana@example.com", "password": "secret123", "display_name": "Ana"})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var auth struct {
		Account struct {
			Email string `json:"email"`
		} `json:"account"`
		SessionToken string `json:"session_token"`
	}
	s.decode(rec, &auth)
	s.Equal("ana@example.com", auth.Account.Email)
	s.NotEmpty(auth.SessionToken)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/me", nil)
	req.Header.Set("Authorization", "Bearer "+auth.SessionToken)
	me := httptest.NewRecorder()
	s.router.ServeHTTP(me, req)
	s.Equal(http.StatusOK, me.Code)
}

func (s *APISuite) TestRegisterDuplicateEmailFails() {
	body := map[string]string{"email": "ana@example.com", "password": "secret123"}
	rec := s.request(http.MethodPost, "/api/v1/accounts/register", "", body)
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.request(http.MethodPost, "/api/v1/accounts/register", "", body)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("EMAIL_EXISTS", s.errorCode(rec))
}

func (s *APISuite) TestLoginWrongPasswordFails() {
	s.request(http.MethodPost, "/api/v1/accounts/register", "",
		map[string]string{"email": "ana@example.com", "password": "secret123"})

	rec := s.request(http.MethodPost, "/api/v1/accounts/login", "",
		map[string]string{"email": "ana@example.com", "password": "wrong"})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("INVALID_CREDENTIALS", s.errorCode(rec))
}

func (s *APISuite) TestMeWithoutTokenFails() {
	rec := s.request(http.MethodGet, "/api/v1/accounts/me", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

// Websocket

// The channel endpoint must survive the full middleware chain, not
// just a bare handler: the logging wrapper has to hand the connection
// over for the upgrade.
func (s *APISuite) TestWebsocketSubscribeThroughRouter() {
	s.createRoom("leader-1", "ABC123")
	s.request(http.MethodPost, "/api/v1/rooms/ABC123/join", "player-1",
		map[string]string{"display_name": "Ana"})

	server := httptest.NewServer(s.router)
	defer server.Close()

	wsURL := strings.Replace(server.URL, "http", "ws", 1) + "/api/v1/rooms/ABC123/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().NoError(err, "handshake failed")
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, message, err := conn.ReadMessage()
	s.Require().NoError(err)

	var event struct {
		Type    string `json:"type"`
		Players []struct {
			Name string `json:"name"`
		} `json:"players"`
	}
	s.Require().NoError(json.Unmarshal(message, &event))
	s.Equal("rosterUpdated", event.Type)
	s.Require().Len(event.Players, 2)
	s.Equal("Narrador", event.Players[0].Name)
	s.Equal("Ana", event.Players[1].Name)
}

func (s *APISuite) TestDeleteRoomDisconnectsSubscribers() {
	s.createRoom("leader-1", "ABC123")

	server := httptest.NewServer(s.router)
	defer server.Close()

	wsURL := strings.Replace(server.URL, "http", "ws", 1) + "/api/v1/rooms/ABC123/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().NoError(err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Drain the on-connect roster push
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, _, err = conn.ReadMessage()
	s.Require().NoError(err)

	rec := s.request(http.MethodDelete, "/api/v1/rooms/ABC123", "leader-1", nil)
	s.Require().Equal(http.StatusNoContent, rec.Code)

	// The hub is torn down with the room, so the connection ends
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	for {
		if _, _, err = conn.ReadMessage(); err != nil {
			break
		}
	}
	s.True(websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseNoStatusReceived,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure), "expected a close, got %v", err)
}

// Visits

func (s *APISuite) TestRecordVisit() {
	rec := s.request(http.MethodPost, "/api/v1/visits", "",
		map[string]string{"fingerprint": "fp-1", "user_agent": "Mozilla/5.0"})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var visit struct {
		NewVisitor bool `json:"new_visitor"`
	}
	s.decode(rec, &visit)
	s.True(visit.NewVisitor)

	rec = s.request(http.MethodPost, "/api/v1/visits", "",
		map[string]string{"fingerprint": "fp-1"})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &visit)
	s.False(visit.NewVisitor)
}

func (s *APISuite) TestRecordVisitWithoutFingerprintFails() {
	rec := s.request(http.MethodPost, "/api/v1/visits", "", map[string]string{})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestGetVisitor() {
	s.request(http.MethodPost, "/api/v1/visits", "",
		map[string]string{"fingerprint": "fp-1"})

	rec := s.request(http.MethodGet, "/api/v1/visits/fp-1", "", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.request(http.MethodGet, "/api/v1/visits/ghost", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}
