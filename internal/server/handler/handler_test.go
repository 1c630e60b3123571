package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
	"github.com/palemoky/kazhutha/internal/server/core"
	"github.com/palemoky/kazhutha/internal/testutil"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.ClientDirectory) {
	t.Helper()
	clients := testutil.NewClientDirectory()
	svc := core.New(core.Options{}, core.Deps{Clients: clients})
	t.Cleanup(svc.Close)
	return NewHandler(HandlerDeps{Server: clients, Service: svc}), clients
}

func rawMessage(t *testing.T, msgType protocol.MessageType, payload any) *protocol.Message {
	t.Helper()
	if payload == nil {
		return &protocol.Message{Type: msgType}
	}
	msg, err := codec.NewMessage(msgType, payload)
	require.NoError(t, err)
	return msg
}

func errorPayload(t *testing.T, c *testutil.SimpleClient, msgType protocol.MessageType) *protocol.ErrorPayload {
	t.Helper()
	msg := c.Last(msgType)
	require.NotNil(t, msg, "missing %s", msgType)
	payload, err := codec.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	return payload
}

func createRoom(t *testing.T, h *Handler, dir *testutil.ClientDirectory, id, name string) (*testutil.SimpleClient, string) {
	t.Helper()
	c := testutil.NewSimpleClient(id)
	dir.Add(c)
	h.Handle(c, rawMessage(t, protocol.MsgCreateRoom, name))

	msg := c.Last(protocol.MsgRoomCreated)
	require.NotNil(t, msg)
	payload, err := codec.ParsePayload[protocol.RoomPayload](msg)
	require.NoError(t, err)
	return c, payload.RoomID
}

func TestHandle_UnknownType(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	c := testutil.NewSimpleClient("c1")
	h.Handle(c, &protocol.Message{Type: "bogus"})

	assert.Equal(t, protocol.ErrCodeInvalidMsg, errorPayload(t, c, protocol.MsgError).Code)
}

func TestHandle_Ping(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	c := testutil.NewSimpleClient("c1")
	h.Handle(c, rawMessage(t, protocol.MsgPing, protocol.PingPayload{Timestamp: 1234}))

	msg := c.Last(protocol.MsgPong)
	require.NotNil(t, msg)
	pong, err := codec.ParsePayload[protocol.PongPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), pong.ClientTimestamp)
	assert.Positive(t, pong.ServerTimestamp)
}

func TestHandle_RepliesOnlyToSender(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	client := new(testutil.MockClient)
	client.On("SendMessage", mock.MatchedBy(func(m *protocol.Message) bool {
		return m.Type == protocol.MsgPong
	})).Once()

	h.Handle(client, rawMessage(t, protocol.MsgPing, protocol.PingPayload{Timestamp: 1}))
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "SetRoom", mock.Anything)
}

func TestHandle_CreateJoinStart(t *testing.T) {
	t.Parallel()

	h, dir := newTestHandler(t)
	host, roomID := createRoom(t, h, dir, "c1", "Alice")

	guest := testutil.NewSimpleClient("c2")
	dir.Add(guest)
	h.Handle(guest, rawMessage(t, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: roomID, PlayerName: "Bob"}))
	require.NotNil(t, guest.Last(protocol.MsgRoomJoined))
	require.NotNil(t, host.Last(protocol.MsgPlayerJoined))

	// start_game 直接发送房间号字符串
	h.Handle(host, rawMessage(t, protocol.MsgStartGame, roomID))
	assert.NotNil(t, host.Last(protocol.MsgGameStarted))
	assert.NotNil(t, guest.Last(protocol.MsgGameStarted))

	h.Handle(guest, rawMessage(t, protocol.MsgGetRoomState, protocol.RoomIDPayload{RoomID: roomID}))
	assert.NotNil(t, guest.Last(protocol.MsgRoomState))
}

func TestHandle_JoinError(t *testing.T) {
	t.Parallel()

	h, dir := newTestHandler(t)
	c := testutil.NewSimpleClient("c1")
	dir.Add(c)
	h.Handle(c, rawMessage(t, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: "missing", PlayerName: "Bob"}))

	payload := errorPayload(t, c, protocol.MsgJoinError)
	assert.Equal(t, "room_not_found", payload.Kind)
	assert.Equal(t, protocol.ErrCodeRoomNotFound, payload.Code)
}

func TestHandle_StartGameNotHost(t *testing.T) {
	t.Parallel()

	h, dir := newTestHandler(t)
	_, roomID := createRoom(t, h, dir, "c1", "Alice")

	guest := testutil.NewSimpleClient("c2")
	dir.Add(guest)
	h.Handle(guest, rawMessage(t, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: roomID, PlayerName: "Bob"}))

	// 没有 payload 时使用连接当前所在的房间
	h.Handle(guest, rawMessage(t, protocol.MsgStartGame, nil))
	assert.Equal(t, "not_host", errorPayload(t, guest, protocol.MsgError).Kind)
}

func TestHandle_PlayCardInvalid(t *testing.T) {
	t.Parallel()

	h, dir := newTestHandler(t)
	host, roomID := createRoom(t, h, dir, "c1", "Alice")

	h.Handle(host, rawMessage(t, protocol.MsgPlayCard, protocol.PlayCardPayload{
		RoomID: roomID,
		Card:   protocol.CardInfo{Suit: "spades", Value: "1"},
	}))
	assert.Equal(t, "invalid_card", errorPayload(t, host, protocol.MsgError).Kind)

	h.Handle(host, rawMessage(t, protocol.MsgPlayCard, protocol.PlayCardPayload{
		Card: protocol.CardInfo{ID: "A_spades"},
	}))
	assert.Equal(t, "game_not_active", errorPayload(t, host, protocol.MsgError).Kind)

	h.Handle(host, &protocol.Message{Type: protocol.MsgPlayCard, Payload: json.RawMessage(`{"card":`)})
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errorPayload(t, host, protocol.MsgError).Code)
}

func TestHandle_ReconnectFailed(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	c := testutil.NewSimpleClient("c1")
	h.Handle(c, rawMessage(t, protocol.MsgReconnectPlayer, protocol.ReconnectPayload{SessionID: "s", RoomID: "r"}))

	msg := c.Last(protocol.MsgReconnectionFailed)
	require.NotNil(t, msg)
	payload, err := codec.ParsePayload[protocol.ReconnectionFailedPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, "session_not_found", payload.Reason)

	h.Handle(c, rawMessage(t, protocol.MsgReconnectPlayer, protocol.ReconnectPayload{}))
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errorPayload(t, c, protocol.MsgError).Code)
}

func TestHandle_ReconnectAfterDisconnect(t *testing.T) {
	t.Parallel()

	h, dir := newTestHandler(t)
	host, roomID := createRoom(t, h, dir, "c1", "Alice")
	created, err := codec.ParsePayload[protocol.RoomPayload](host.Last(protocol.MsgRoomCreated))
	require.NoError(t, err)

	h.HandleDisconnect(host)
	dir.Remove(host.GetID())

	fresh := testutil.NewSimpleClient("c9")
	dir.Add(fresh)
	h.Handle(fresh, rawMessage(t, protocol.MsgReconnectPlayer, protocol.ReconnectPayload{
		SessionID: created.SessionID,
		RoomID:    roomID,
	}))
	assert.NotNil(t, fresh.Last(protocol.MsgReconnectionSuccessful))
	assert.Equal(t, roomID, fresh.GetRoom())
}

func TestHandle_HostEndGameError(t *testing.T) {
	t.Parallel()

	h, dir := newTestHandler(t)
	_, roomID := createRoom(t, h, dir, "c1", "Alice")

	guest := testutil.NewSimpleClient("c2")
	dir.Add(guest)
	h.Handle(guest, rawMessage(t, protocol.MsgHostEndGame, protocol.HostEndGamePayload{RoomID: roomID}))
	assert.Equal(t, "not_host", errorPayload(t, guest, protocol.MsgGameEndError).Kind)
}

func TestHandle_GetStats(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	c := testutil.NewSimpleClient("c1")
	h.Handle(c, rawMessage(t, protocol.MsgGetStats, protocol.GetStatsPayload{PlayerName: "Alice"}))
	assert.NotNil(t, c.Last(protocol.MsgStatsResult))

	h.Handle(c, rawMessage(t, protocol.MsgGetStats, ""))
	assert.Equal(t, "invalid_name", errorPayload(t, c, protocol.MsgError).Kind)
}

func TestHandle_Maintenance(t *testing.T) {
	t.Parallel()

	server := new(testutil.MockServer)
	server.On("IsMaintenanceMode").Return(true)
	svc := core.New(core.Options{}, core.Deps{Clients: testutil.NewClientDirectory()})
	t.Cleanup(svc.Close)
	h := NewHandler(HandlerDeps{Server: server, Service: svc})

	c := testutil.NewSimpleClient("c1")
	h.Handle(c, rawMessage(t, protocol.MsgCreateRoom, protocol.CreateRoomPayload{PlayerName: "Alice"}))

	assert.Equal(t, protocol.ErrCodeServerMaintenance, errorPayload(t, c, protocol.MsgError).Code)
	assert.Nil(t, c.Last(protocol.MsgRoomCreated))
	assert.Equal(t, 0, svc.Rooms().Len())
}
