package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/taxiservice/internal/app/models"
)

// EventAssignment is the type of events sent when a car's drivers change
const EventAssignment = "assignment"

const eventBuffer = 64

// DriverRef identifies a driver inside an event
type DriverRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Event is pushed to every client watching a car
type Event struct {
	Type      string      `json:"type"`
	CarID     int64       `json:"carId"`
	DriverID  int64       `json:"driverId"`
	Assigned  bool        `json:"assigned"`
	Drivers   []DriverRef `json:"drivers"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub keeps the set of live clients per car and fans events out to them.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	events     chan Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     zerolog.Logger
}

// NewHub creates a hub; call Run to start delivering events
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		events:     make(chan Event, eventBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and events until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case event := <-h.events:
			h.broadcast(event)
		}
	}
}

// PublishAssignment queues an assignment change of carID for delivery.
// The event is dropped when the queue is full so callers never block.
func (h *Hub) PublishAssignment(carID, driverID int64, assigned bool, drivers []models.Driver) {
	refs := make([]DriverRef, 0, len(drivers))
	for _, d := range drivers {
		refs = append(refs, DriverRef{ID: d.ID, Username: d.Username})
	}

	event := Event{
		Type:      EventAssignment,
		CarID:     carID,
		DriverID:  driverID,
		Assigned:  assigned,
		Drivers:   refs,
		Timestamp: time.Now().UTC(),
	}

	select {
	case h.events <- event:
	default:
		h.logger.Warn().Int64("carID", carID).Msg("Assignment event dropped, queue is full")
	}
}

// ClientCount returns the number of clients watching carID
func (h *Hub) ClientCount(carID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[carID])
}

func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers, ok := h.clients[client.carID]
	if !ok {
		watchers = make(map[*Client]struct{})
		h.clients[client.carID] = watchers
	}
	watchers[client] = struct{}{}

	h.logger.Debug().Int64("carID", client.carID).Int64("driverID", client.driverID).
		Int("watchers", len(watchers)).Msg("Client registered")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	watchers, ok := h.clients[client.carID]
	if !ok {
		return
	}
	if _, ok := watchers[client]; !ok {
		return
	}

	delete(watchers, client)
	close(client.send)
	if len(watchers) == 0 {
		delete(h.clients, client.carID)
	}
}

func (h *Hub) broadcast(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Int64("carID", event.CarID).Msg("Failed to encode event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients[event.CarID] {
		select {
		case client.send <- payload:
		default:
			h.logger.Warn().Int64("carID", event.CarID).Int64("driverID", client.driverID).
				Msg("Client too slow, disconnecting")
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, watchers := range h.clients {
		for client := range watchers {
			h.removeLocked(client)
		}
	}
}
