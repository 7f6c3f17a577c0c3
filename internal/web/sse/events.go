package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EventType represents the type of forum activity event
type EventType string

const (
	EventUserCreated EventType = "user_created"
	EventUserUpdated EventType = "user_updated"

	EventQuestionCreated  EventType = "question_created"
	EventQuestionUpdated  EventType = "question_updated"
	EventQuestionLiked    EventType = "question_liked"
	EventQuestionFollowed EventType = "question_followed"

	EventReplyCreated EventType = "reply_created"
	EventReplyUpdated EventType = "reply_updated"

	EventConnected EventType = "connected"
	EventHeartbeat EventType = "heartbeat"
)

const (
	heartbeatInterval = 30 * time.Second
	clientBuffer      = 32
	broadcastBuffer   = 100
)

// Event is one item of forum activity.
// QuestionID routes the event to clients watching that question; 0 means
// the event is not tied to a question and only reaches unfiltered clients.
type Event struct {
	Type       EventType `json:"type"`
	QuestionID int64     `json:"question_id,omitempty"`
	Data       any       `json:"data"`
}

// Client is a connected activity stream
type Client struct {
	ID         string
	QuestionID int64
	Messages   chan []byte
}

// wants reports whether the client subscribed to the event
func (c *Client) wants(e Event) bool {
	if c.QuestionID == 0 || e.Type == EventHeartbeat {
		return true
	}
	return c.QuestionID == e.QuestionID
}

// Broker fans forum activity out to connected clients
type Broker struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

// NewBroker creates a broker and starts its dispatch loop
func NewBroker() *Broker {
	b := &Broker{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, broadcastBuffer),
		done:       make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broker) run() {
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-b.done:
			b.mu.Lock()
			for _, client := range b.clients {
				close(client.Messages)
			}
			b.clients = make(map[string]*Client)
			b.mu.Unlock()
			log.Debug().Msg("Activity broker stopped")
			return

		case client := <-b.register:
			b.mu.Lock()
			b.clients[client.ID] = client
			total := len(b.clients)
			b.mu.Unlock()
			log.Debug().Str("client_id", client.ID).Int64("question_id", client.QuestionID).Int("total_clients", total).Msg("Activity client connected")

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client.ID]; ok {
				delete(b.clients, client.ID)
				close(client.Messages)
			}
			total := len(b.clients)
			b.mu.Unlock()
			log.Debug().Str("client_id", client.ID).Int("total_clients", total).Msg("Activity client disconnected")

		case event := <-b.broadcast:
			b.dispatch(event)

		case <-heartbeat.C:
			b.dispatch(Event{Type: EventHeartbeat, Data: map[string]any{"time": time.Now().Unix()}})
		}
	}
}

func (b *Broker) dispatch(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(event.Type)).Msg("Failed to marshal activity event")
		return
	}
	message := formatMessage(string(event.Type), data)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, client := range b.clients {
		if !client.wants(event) {
			continue
		}
		select {
		case client.Messages <- message:
		default:
			log.Warn().Str("client_id", client.ID).Msg("Activity client buffer full, dropping event")
		}
	}
}

// Broadcast queues an event for every interested client. A nil broker drops it.
func (b *Broker) Broadcast(event Event) {
	if b == nil {
		return
	}
	select {
	case b.broadcast <- event:
	default:
		log.Warn().Str("event_type", string(event.Type)).Msg("Activity broadcast channel full, dropping event")
	}
}

// Stop closes every client stream and ends the dispatch loop
func (b *Broker) Stop() {
	b.stopOnce.Do(func() { close(b.done) })
}

// ServeHTTP streams activity to one client.
// The optional question_id query parameter limits the stream to one question.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var questionID int64
	if raw := r.URL.Query().Get("question_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid question_id", http.StatusBadRequest)
			return
		}
		questionID = id
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := &Client{
		ID:         fmt.Sprintf("%p-%d", r, time.Now().UnixNano()),
		QuestionID: questionID,
		Messages:   make(chan []byte, clientBuffer),
	}

	select {
	case b.register <- client:
	case <-b.done:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	defer func() {
		select {
		case b.unregister <- client:
		case <-b.done:
		}
	}()

	hello, _ := json.Marshal(Event{
		Type:       EventConnected,
		QuestionID: questionID,
		Data:       map[string]any{"client_id": client.ID, "time": time.Now().Unix()},
	})
	_, _ = w.Write(formatMessage(string(EventConnected), hello))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-client.Messages:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}

// ClientCount returns the number of connected clients
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func formatMessage(eventType string, data []byte) []byte {
	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", eventType, data)
}
