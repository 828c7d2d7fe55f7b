package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of active clients and fans task activity out to
// them. Each client is keyed by the user it authenticated as; admins are
// additionally wired into every feed.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Outbound messages addressed to one user's feed.
	publish chan feedMessage

	// A map of user IDs to the set of clients watching that feed.
	feeds map[string]map[*Client]bool

	// Clients that receive every message regardless of feed.
	watchers map[*Client]bool
}

type feedMessage struct {
	userID  string
	payload []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		publish:    make(chan feedMessage, 64),
		clients:    make(map[*Client]bool),
		feeds:      make(map[string]map[*Client]bool),
		watchers:   make(map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.addFeed(client)
			if client.Watcher {
				h.watchers[client] = true
			}
			log.Info().Int("total_clients", len(h.clients)).Msg("Feed client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Feed client disconnected")
			}
		case msg := <-h.publish:
			for client := range h.feeds[msg.userID] {
				h.send(client, msg.payload)
			}
			for client := range h.watchers {
				if client.UserID != msg.userID {
					h.send(client, msg.payload)
				}
			}
		}
	}
}

// Publish queues a message for every client watching userID's feed. It
// never blocks: when the hub is saturated or not running, the message is
// dropped. Safe on a nil hub so services can run without one in tests.
func (h *Hub) Publish(userID string, payload []byte) {
	if h == nil || payload == nil {
		return
	}
	select {
	case h.publish <- feedMessage{userID: userID, payload: payload}:
	default:
		log.Warn().Str("user_id", userID).Msg("Feed backlogged, dropping message")
	}
}

func (h *Hub) send(client *Client, payload []byte) {
	select {
	case client.Send <- payload:
	default:
		h.drop(client)
	}
}

func (h *Hub) addFeed(client *Client) {
	if h.feeds[client.UserID] == nil {
		h.feeds[client.UserID] = make(map[*Client]bool)
	}
	h.feeds[client.UserID][client] = true
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	delete(h.watchers, client)
	close(client.Send)
	if subs, ok := h.feeds[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.feeds, client.UserID)
		}
	}
}
