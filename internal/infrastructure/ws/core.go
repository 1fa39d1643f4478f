package ws

import (
	"encoding/json"

	"github.com/classpulse/classpulse/internal/infrastructure/logging"
	"github.com/classpulse/classpulse/internal/infrastructure/metrics"
	"github.com/classpulse/classpulse/internal/infrastructure/ratelimiter"
)

// TrackRequest replaces the sender's presence payload in its room.
type TrackRequest struct {
	Client  *Client
	Payload json.RawMessage
}

// Inbound is a broadcast frame received from a peer, pending fan-out.
type Inbound struct {
	Client   *Client
	Envelope *Envelope
}

// Core serializes all room mutation and fan-out in a single goroutine, so
// the RoomManager maps never race.
type Core struct {
	roomMgr    *RoomManager
	register   chan *Client
	unregister chan *Client
	track      chan *TrackRequest
	broadcast  chan *Inbound
	limiter    ratelimiter.Limiter
	logger     logging.Logger
	metrics    *metrics.Metrics
}

func NewCore(roomMgr *RoomManager, limiter ratelimiter.Limiter, logger logging.Logger, m *metrics.Metrics) *Core {
	return &Core{
		roomMgr:    roomMgr,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		track:      make(chan *TrackRequest, 64),
		broadcast:  make(chan *Inbound, 256),
		limiter:    limiter,
		logger:     logger,
		metrics:    m,
	}
}

func (c *Core) Run() {
	for {
		select {
		case cl := <-c.register:
			c.roomMgr.AddClient(cl)
			c.metrics.ActiveConnections.Inc()
			c.metrics.ActiveRooms.Set(float64(c.roomMgr.RoomCount()))

			c.logger.Info(logging.Relay, logging.Join, "peer joined room", map[logging.ExtraKey]any{
				logging.RoomKey: cl.RoomKey,
				logging.PeerID:  cl.ID,
			})

			// The newcomer needs the current snapshot even before anyone
			// tracks; everyone else learns the peer count changed.
			c.syncPresence(cl.RoomKey)

		case cl := <-c.unregister:
			c.roomMgr.RemoveClient(cl)
			c.metrics.ActiveConnections.Dec()
			c.metrics.ActiveRooms.Set(float64(c.roomMgr.RoomCount()))

			c.logger.Info(logging.Relay, logging.Leave, "peer left room", map[logging.ExtraKey]any{
				logging.RoomKey: cl.RoomKey,
				logging.PeerID:  cl.ID,
			})

			c.syncPresence(cl.RoomKey)

		case req := <-c.track:
			c.roomMgr.SetPresence(req.Client.RoomKey, req.Client.ID, req.Payload)

			c.logger.Debug(logging.Presence, logging.Track, "presence tracked", map[logging.ExtraKey]any{
				logging.RoomKey: req.Client.RoomKey,
				logging.PeerID:  req.Client.ID,
			})

			c.syncPresence(req.Client.RoomKey)

		case in := <-c.broadcast:
			if !c.limiter.Allow(in.Client.ID) {
				c.metrics.EventsDropped.WithLabelValues("rate_limited").Inc()
				c.logger.Warn(logging.Relay, logging.RateLimiting, "broadcast dropped", map[logging.ExtraKey]any{
					logging.RoomKey: in.Client.RoomKey,
					logging.PeerID:  in.Client.ID,
				})
				continue
			}

			if err := c.roomMgr.BroadcastExcept(in.Envelope, in.Client.ID); err != nil {
				c.metrics.EventsDropped.WithLabelValues("no_room").Inc()
				continue
			}
			c.metrics.EventsRelayed.WithLabelValues(Broadcast).Inc()
		}
	}
}

// syncPresence pushes the room's full presence snapshot to every peer,
// including the one that caused the change. Clients replace, never merge.
func (c *Core) syncPresence(roomKey string) {
	snapshot := c.roomMgr.SnapshotPresence(roomKey)

	env, err := NewPresenceSync(roomKey, snapshot)
	if err != nil {
		c.logger.Error(logging.Presence, logging.Fanout, "presence snapshot marshal failed", map[logging.ExtraKey]any{
			logging.RoomKey:      roomKey,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	if err := c.roomMgr.BroadcastAll(env); err == nil {
		c.metrics.EventsRelayed.WithLabelValues(PresenceSync).Inc()
	}
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

func (c *Core) Track() chan<- *TrackRequest {
	return c.track
}

func (c *Core) Broadcast() chan<- *Inbound {
	return c.broadcast
}
