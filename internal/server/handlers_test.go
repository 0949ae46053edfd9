package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewServer(logger)
}

func TestCreateRoomHandler(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.CreateRoomHandler(rec, httptest.NewRequest(http.MethodPost, "/room/create", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		RoomID uuid.UUID `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	rm, ok := s.Rooms.Get(body.RoomID)
	require.True(t, ok)
	require.False(t, rm.Closed())
}

func TestCreateRoomHandlerRejectsGet(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.CreateRoomHandler(rec, httptest.NewRequest(http.MethodGet, "/room/create", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListRoomsHandler(t *testing.T) {
	s := newTestServer()
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		s.CreateRoomHandler(rec, httptest.NewRequest(http.MethodPost, "/room/create", nil))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := httptest.NewRecorder()
	s.ListRoomsHandler(rec, httptest.NewRequest(http.MethodGet, "/room/list", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rooms []struct {
			ID      uuid.UUID `json:"id"`
			Players int       `json:"players"`
			Max     int       `json:"max"`
		} `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rooms, 3)
	for _, info := range body.Rooms {
		require.Equal(t, 0, info.Players)
		require.Equal(t, 5, info.Max)
	}
}

func TestRoomWSHandlerRejectsBadIDs(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.RoomWSHandler(rec, httptest.NewRequest(http.MethodGet, "/room/ws/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.RoomWSHandler(rec, httptest.NewRequest(http.MethodGet, "/room/ws/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
