package rooms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/classpulse/classpulse/internal/infrastructure/logging"
	"github.com/classpulse/classpulse/internal/infrastructure/ws"
)

type nopLogger struct{}

func (nopLogger) Init() {}
func (nopLogger) Debug(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Debugf(string, ...any)                                                        {}
func (nopLogger) Info(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any)  {}
func (nopLogger) Infof(string, ...any)                                                         {}
func (nopLogger) Warn(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any)  {}
func (nopLogger) Warnf(string, ...any)                                                         {}
func (nopLogger) Error(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Errorf(string, ...any)                                                        {}
func (nopLogger) Fatal(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Fatalf(string, ...any)                                                        {}

func newTestRouter() (*chi.Mux, *ws.RoomManager) {
	rm := ws.NewRoomManager()
	h := NewHandler(rm, nil, nopLogger{})

	r := chi.NewRouter()
	r.Get("/api/rooms/{roomKey}", h.GetRoomHandler)
	return r, rm
}

func TestGetRoomNotFound(t *testing.T) {
	router, _ := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/empty-room", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetRoomReportsOccupancy(t *testing.T) {
	router, rm := newTestRouter()

	rm.AddClient(&ws.Client{Message: make(chan *ws.Envelope, 1), ID: "a", RoomKey: "math 6b"})
	rm.AddClient(&ws.Client{Message: make(chan *ws.Envelope, 1), ID: "b", RoomKey: "math 6b"})

	// Keys normalize before lookup.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/Math%206B", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Key       string `json:"key"`
		Topic     string `json:"topic"`
		PeerCount int    `json:"peerCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Key != "math 6b" || resp.PeerCount != 2 {
		t.Errorf("response = %+v", resp)
	}
	if resp.Topic != "classroom-room-math 6b" {
		t.Errorf("topic = %q", resp.Topic)
	}
}
