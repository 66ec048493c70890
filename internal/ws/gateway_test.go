package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/santihernandis/lobos-go/internal/dependencies/mocks"
	"github.com/santihernandis/lobos-go/internal/model"
	"github.com/santihernandis/lobos-go/internal/services/player"
	"github.com/santihernandis/lobos-go/internal/services/room"
	"github.com/santihernandis/lobos-go/internal/storage/memory"
	"github.com/santihernandis/lobos-go/internal/testutil"
)

type GatewaySuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	rooms   *room.Service
	players *player.Service
	gateway *Gateway
	server  *httptest.Server
	ctx     context.Context
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.rooms = room.New(s.storage, s.clock, s.random, logger)
	s.players = player.New(s.storage, s.clock, logger)
	s.gateway = NewGateway(NewHubManager(logger), s.rooms, s.players, logger)
	s.ctx = context.Background()

	r := mux.NewRouter()
	r.HandleFunc("/rooms/{code}/ws", func(w http.ResponseWriter, req *http.Request) {
		code := model.RoomCode(mux.Vars(req)["code"])
		s.gateway.ServeWS(w, req, code, model.Identity(req.Header.Get("X-Identity")))
	})
	s.server = httptest.NewServer(r)
}

func (s *GatewaySuite) TearDownTest() {
	s.server.Close()
}

func (s *GatewaySuite) dial(code string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/rooms/" + code + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *GatewaySuite) readEvent(conn *websocket.Conn) map[string]any {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, data, err := conn.ReadMessage()
	s.Require().NoError(err)

	var event map[string]any
	s.Require().NoError(json.Unmarshal(data, &event))
	return event
}

// readUntil reads events until one of the wanted type arrives
func (s *GatewaySuite) readUntil(conn *websocket.Conn, eventType string) map[string]any {
	for i := 0; i < 10; i++ {
		event := s.readEvent(conn)
		if event["type"] == eventType {
			return event
		}
	}
	s.FailNowf("event not received", "no %s event", eventType)
	return nil
}

func (s *GatewaySuite) joinPlayer(id, name, code string, leader bool) {
	_, err := s.players.JoinOrUpdate(s.ctx, model.Identity(id), name, model.RoomCode(code), leader)
	s.Require().NoError(err)
}

func (s *GatewaySuite) TestSubscriberGetsRosterOnConnect() {
	s.joinPlayer("id-1", "Ana", "ABC123", true)

	conn := s.dial("ABC123")

	event := s.readUntil(conn, "rosterUpdated")
	players := event["players"].([]any)
	s.Require().Len(players, 1)
	entry := players[0].(map[string]any)
	s.Equal("Ana", entry["name"])
	s.Equal(true, entry["isLeader"])
}

func (s *GatewaySuite) TestRosterBroadcastReachesAllSubscribersIdentically() {
	s.joinPlayer("id-1", "Ana", "ABC123", true)
	conn1 := s.dial("ABC123")
	s.readUntil(conn1, "rosterUpdated")
	conn2 := s.dial("ABC123")

	s.joinPlayer("id-2", "Ben", "ABC123", false)
	s.gateway.BroadcastRoster(s.ctx, "ABC123")

	want := []string{"Ana", "Ben"}
	for _, conn := range []*websocket.Conn{conn1, conn2} {
		var names []string
		for {
			event := s.readUntil(conn, "rosterUpdated")
			players := event["players"].([]any)
			names = names[:0]
			for _, p := range players {
				names = append(names, p.(map[string]any)["name"].(string))
			}
			if len(names) == len(want) {
				break
			}
		}
		s.Equal(want, names)
	}
}

func (s *GatewaySuite) TestClientPlayerJoinedEventTriggersRosterBroadcast() {
	s.joinPlayer("id-1", "Ana", "ABC123", true)
	conn := s.dial("ABC123")
	s.readUntil(conn, "rosterUpdated")

	s.joinPlayer("id-2", "Ben", "ABC123", false)
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"playerJoined"}`)))

	for {
		event := s.readUntil(conn, "rosterUpdated")
		if len(event["players"].([]any)) == 2 {
			return
		}
	}
}

func (s *GatewaySuite) TestGameStartedBroadcastCarriesRoomCode() {
	conn := s.dial("ABC123")
	s.readUntil(conn, "rosterUpdated")

	s.gateway.BroadcastGameStarted("ABC123")

	event := s.readUntil(conn, "gameStarted")
	s.Equal("ABC123", event["roomCode"])
}

func (s *GatewaySuite) TestQuotaBroadcastUsesEffectiveQuota() {
	s.random.QueueString("ABC123")
	_, err := s.rooms.Create(s.ctx)
	s.Require().NoError(err)

	conn := s.dial("ABC123")
	s.readUntil(conn, "rosterUpdated")

	s.gateway.BroadcastQuota(s.ctx, "ABC123")

	event := s.readUntil(conn, "quotaUpdated")
	quota := event["quota"].(map[string]any)
	s.Equal(float64(3), quota["aldeano"])
	s.Equal(float64(1), quota["lobo"])
}

func (s *GatewaySuite) TestQuotaBroadcastForMissingRoomIsEmpty() {
	conn := s.dial("GHOST1")
	s.readUntil(conn, "rosterUpdated")

	s.gateway.BroadcastQuota(s.ctx, "GHOST1")

	event := s.readUntil(conn, "quotaUpdated")
	s.Empty(event["quota"])
}

func (s *GatewaySuite) TestMalformedClientPayloadIsIgnored() {
	s.joinPlayer("id-1", "Ana", "ABC123", true)
	conn := s.dial("ABC123")
	s.readUntil(conn, "rosterUpdated")

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"selfDestruct"}`)))

	// The connection stays up and still serves broadcasts
	s.gateway.BroadcastGameStarted("ABC123")
	event := s.readUntil(conn, "gameStarted")
	s.Equal("ABC123", event["roomCode"])
}

func (s *GatewaySuite) TestBroadcastsAreScopedToTheirRoom() {
	connA := s.dial("ROOMA1")
	s.readUntil(connA, "rosterUpdated")
	connB := s.dial("ROOMB1")
	s.readUntil(connB, "rosterUpdated")

	s.gateway.BroadcastGameStarted("ROOMA1")

	event := s.readUntil(connA, "gameStarted")
	s.Equal("ROOMA1", event["roomCode"])

	s.Require().NoError(connB.SetReadDeadline(time.Now().Add(200 * time.Millisecond)))
	_, _, err := connB.ReadMessage()
	s.Error(err, "the other room must not see the event")
}
