package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lexio/internal/domain"
	"lexio/internal/room"
)

// Server ties the room registry to its per-room hubs and exposes the
// HTTP surface.
type Server struct {
	Rooms  *room.Store
	logger *logrus.Logger

	mu   sync.Mutex
	hubs map[uuid.UUID]*Hub
}

func NewServer(logger *logrus.Logger) *Server {
	return &Server{
		Rooms:  room.NewStore(),
		logger: logger,
		hubs:   make(map[uuid.UUID]*Hub),
	}
}

// Routes registers the HTTP surface on the given mux.
func (s *Server) Routes(mux *http.ServeMux) {
	logged := LogMiddleware(s.logger)
	mux.Handle("/room/create", logged(http.HandlerFunc(s.CreateRoomHandler)))
	mux.Handle("/room/list", logged(http.HandlerFunc(s.ListRoomsHandler)))
	mux.Handle("/room/ws/", logged(http.HandlerFunc(s.RoomWSHandler)))
}

// CreateRoomHandler spawns an empty room and returns its ID.
func (s *Server) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hub := NewHub()
	rm := room.New(hub, nil, nil)
	s.Rooms.Add(rm)
	s.mu.Lock()
	s.hubs[rm.ID] = hub
	s.mu.Unlock()

	s.logger.WithField("room_id", rm.ID).Info("room created")
	writeJSON(w, http.StatusCreated, map[string]any{"room_id": rm.ID})
}

// ListRoomsHandler returns the open rooms with their occupancy.
func (s *Server) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	type roomInfo struct {
		ID      uuid.UUID `json:"id"`
		Players int       `json:"players"`
		Max     int       `json:"max"`
	}
	rooms := s.Rooms.List()
	out := make([]roomInfo, 0, len(rooms))
	for _, rm := range rooms {
		seated, max := rm.Occupancy()
		out = append(out, roomInfo{ID: rm.ID, Players: seated, Max: max})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": out})
}

// clientMessage is what players send over the room websocket.
type clientMessage struct {
	Type  string        `json:"type"`
	Cards []domain.Card `json:"cards,omitempty"`
}

// RoomWSHandler upgrades the connection and runs the player's session.
func (s *Server) RoomWSHandler(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/room/ws/")
	roomID, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}
	rm, ok := s.Rooms.Get(roomID)
	if !ok || rm.Closed() {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	s.mu.Lock()
	hub := s.hubs[roomID]
	s.mu.Unlock()
	if hub == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		playerID = uuid.NewString()
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "Player"
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{"lexio"},
		OriginPatterns: []string{"*"}, // Adjust in production
	})
	if err != nil {
		s.logger.Warnf("websocket accept error: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler finished")

	out := hub.Register(playerID)
	defer hub.Unregister(playerID, out)

	if _, err := rm.Join(playerID, name); err != nil && !errors.Is(err, room.ErrAlreadySeated) {
		c.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}
	hub.SendTo(playerID, "state", rm.View(playerID))
	s.logger.WithFields(logrus.Fields{"room_id": roomID, "player_id": playerID, "remote": r.RemoteAddr}).Info("player connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go s.writePump(ctx, c, out)
	s.readPump(ctx, c, rm, playerID)

	s.logger.WithFields(logrus.Fields{"room_id": roomID, "player_id": playerID}).Info("player disconnected")
}

func (s *Server) readPump(ctx context.Context, c *websocket.Conn, rm *room.Room, playerID string) {
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(ctx, c, "malformed message")
			continue
		}

		switch msg.Type {
		case "start":
			err = rm.Start(playerID)
		case "play":
			err = rm.Play(playerID, msg.Cards)
		case "pass":
			err = rm.Pass(playerID)
		case "add_bot":
			_, err = rm.AddBot(playerID)
		case "leave":
			err = rm.Leave(playerID)
			if err == nil {
				c.Close(websocket.StatusNormalClosure, "left room")
				return
			}
		default:
			s.sendError(ctx, c, "unknown message type")
			continue
		}
		if err != nil {
			s.sendError(ctx, c, err.Error())
		}
	}
}

func (s *Server) writePump(ctx context.Context, c *websocket.Conn, out chan Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-out:
			if !ok {
				c.Close(websocket.StatusNormalClosure, "connection replaced")
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				s.logger.Warnf("marshal outbound message: %v", err)
				continue
			}
			if err := c.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}

func (s *Server) sendError(ctx context.Context, c *websocket.Conn, reason string) {
	data, _ := json.Marshal(Message{Type: "error", Payload: map[string]string{"reason": reason}})
	_ = c.Write(ctx, websocket.MessageText, data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
