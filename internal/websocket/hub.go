package websocket

import (
	"encoding/json"

	"github.com/clozet/clozet-backend/pkg/logger"
)

// Client is one websocket subscriber watching a single order.
type Client struct {
	Hub     *Hub
	Conn    *Conn
	OrderID string
	Send    chan []byte
}

func NewClient(hub *Hub, conn *Conn, orderID string) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		OrderID: orderID,
		Send:    make(chan []byte, 16),
	}
}

// Hub fans tracking updates out to the clients watching each order.
// All subscriber bookkeeping happens on the Run goroutine.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	stop       chan struct{}
	done       chan struct{}
	counts     chan chan int
	watching   chan watchQuery
}

type watchQuery struct {
	orderID string
	reply   chan bool
}

type BroadcastMessage struct {
	OrderID string
	Message []byte
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan *BroadcastMessage, 256),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		counts:     make(chan chan int),
		watching:   make(chan watchQuery),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			if _, ok := h.rooms[client.OrderID]; !ok {
				h.rooms[client.OrderID] = make(map[*Client]bool)
			}
			h.rooms[client.OrderID][client] = true
			logger.Debug("Tracking subscriber registered", map[string]interface{}{
				"order_id":    client.OrderID,
				"subscribers": len(h.rooms[client.OrderID]),
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			for client := range h.rooms[message.OrderID] {
				select {
				case client.Send <- message.Message:
				default:
					logger.Warn("Tracking subscriber too slow, disconnecting", map[string]interface{}{
						"order_id": client.OrderID,
					})
					h.remove(client)
				}
			}

		case reply := <-h.counts:
			n := 0
			for _, clients := range h.rooms {
				n += len(clients)
			}
			reply <- n

		case q := <-h.watching:
			q.reply <- len(h.rooms[q.orderID]) > 0

		case <-h.stop:
			for _, clients := range h.rooms {
				for client := range clients {
					close(client.Send)
				}
			}
			h.rooms = make(map[string]map[*Client]bool)
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.rooms[client.OrderID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.rooms, client.OrderID)
	}
}

// Stop closes every subscriber and waits for Run to return.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish sends message as JSON to everyone watching orderID. Updates are
// dropped rather than blocking when the hub is backed up.
func (h *Hub) Publish(orderID string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- &BroadcastMessage{OrderID: orderID, Message: data}:
	default:
		logger.Warn("Tracking broadcast channel full, update dropped", map[string]interface{}{
			"order_id": orderID,
		})
	}
	return nil
}

// Subscribers returns the number of connected clients across all orders.
func (h *Hub) Subscribers() int {
	reply := make(chan int)
	select {
	case h.counts <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Watching reports whether any client is subscribed to orderID.
func (h *Hub) Watching(orderID string) bool {
	q := watchQuery{orderID: orderID, reply: make(chan bool, 1)}
	select {
	case h.watching <- q:
		return <-q.reply
	case <-h.done:
		return false
	}
}
