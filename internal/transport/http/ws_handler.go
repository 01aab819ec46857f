package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"pixel-poll-service/internal/app"
	"pixel-poll-service/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

type WSHandler struct {
	service  *app.RoomService
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.RoomService, hub *Hub) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades GET /ws/room/{roomName}?username= and wires the socket into the room use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomName := mux.Vars(r)["roomName"]
	username := r.URL.Query().Get("username")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	joined, err := h.service.Join(ctx, roomName, username)
	if err != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(joinErrorMessage{Type: MsgJoinError, Reason: joinReason(err)})
		return
	}

	client := NewConnection(joined.RoomID, roomName, username)
	h.hub.Register(client)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writePump(conn, client)
	}()

	h.hub.DeliverToUser(client.RoomID, username, userInfoMessage{
		Type:         MsgUserInfo,
		Username:     username,
		IsCreator:    joined.IsCreator,
		CurrentUsers: joined.CurrentUsers,
	})
	h.hub.DeliverToRoom(client.RoomID, userEventMessage{Type: MsgUserJoined, Username: username}, username)
	log.Printf("user %s joined room %s (creator: %v)", username, roomName, joined.IsCreator)

	h.readLoop(ctx, conn, client)

	h.hub.Unregister(client)
	h.leave(ctx, client)
	<-writerDone
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *Connection) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error: %v", err)
			}
			return
		}
		var inbound inboundMessage
		if err := json.Unmarshal(data, &inbound); err != nil {
			log.Printf("ws: malformed message from %s in room %s: %v", client.Username, client.Room, err)
			h.sendError(client, "invalid message payload")
			continue
		}
		h.dispatch(ctx, client, inbound)
	}
}

func (h *WSHandler) dispatch(ctx context.Context, client *Connection, inbound inboundMessage) {
	room, roomID, user := client.Room, client.RoomID, client.Username

	switch inbound.Type {
	case MsgStartQuestion:
		var (
			question domain.Question
			err      error
		)
		switch {
		case inbound.PresetID != "":
			question, err = h.service.StartPreset(ctx, room, roomID, user, inbound.PresetID)
		case inbound.Question != nil:
			question, err = h.service.StartQuestion(ctx, room, roomID, user, *inbound.Question)
		default:
			err = errors.New("missing question")
		}
		if err != nil {
			h.sendError(client, err.Error())
			return
		}
		h.hub.DeliverToRoom(roomID, questionStartedMessage{Type: MsgQuestionStarted, Question: question}, "")
		log.Printf("question started in room %s", room)

	case MsgSubmitAnswer:
		if inbound.Answer == nil {
			h.sendError(client, "missing answer")
			return
		}
		if err := h.service.SubmitAnswer(ctx, room, roomID, user, *inbound.Answer); err != nil {
			h.sendError(client, err.Error())
		}

	case MsgEndQuestion:
		results, ended, err := h.service.EndQuestion(ctx, room, roomID, user)
		if err != nil {
			h.sendError(client, err.Error())
			return
		}
		if !ended {
			h.sendError(client, domain.ErrNoActiveQuestion.Error())
			return
		}
		for recipient, res := range results {
			h.hub.DeliverToUser(roomID, recipient, questionEndedMessage{Type: MsgQuestionEnded, Results: res})
		}
		log.Printf("question ended in room %s", room)

	case MsgEndRoom:
		standings, err := h.service.EndRoom(ctx, room, roomID, user)
		if err != nil {
			h.sendError(client, err.Error())
			return
		}
		h.closeRoom(roomID, domain.EndReasonCreatorEnded, standings)
		log.Printf("room %s ended by creator", room)

	default:
		h.sendError(client, "unsupported message type")
	}
}

// leave runs after the socket is gone.
func (h *WSHandler) leave(ctx context.Context, client *Connection) {
	res, err := h.service.Disconnect(ctx, client.Room, client.RoomID, client.Username)
	if err != nil {
		// The room already ended or was replaced under the same name.
		return
	}
	if res.RoomEnded {
		h.closeRoom(client.RoomID, domain.EndReasonCreatorLeft, res.Standings)
		log.Printf("room %s ended (creator left)", client.Room)
		return
	}
	h.hub.DeliverToRoom(client.RoomID, userEventMessage{Type: MsgUserLeft, Username: client.Username}, client.Username)
	log.Printf("user %s left room %s", client.Username, client.Room)
}

func (h *WSHandler) closeRoom(roomID, reason string, standings []domain.Standing) {
	h.hub.DeliverToRoom(roomID, roomEndedMessage{Type: MsgRoomEnded, Reason: reason, Standings: standings}, "")
	h.hub.CloseRoom(roomID)
}

func (h *WSHandler) sendError(client *Connection, message string) {
	h.hub.DeliverToUser(client.RoomID, client.Username, errorMessage{Type: MsgError, Message: message})
}

func (h *WSHandler) writePump(conn *websocket.Conn, client *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func joinReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyRoomName):
		return domain.ReasonEmpty
	case errors.Is(err, domain.ErrEmptyUsername):
		return domain.ReasonEmptyUsername
	case errors.Is(err, domain.ErrNameInUse):
		return domain.ReasonNameInUse
	case errors.Is(err, domain.ErrRoomClosed):
		return domain.ReasonRoomClosed
	default:
		return err.Error()
	}
}
