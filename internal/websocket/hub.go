package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"curamind-be/internal/model"
	"curamind-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "curamind:notifications"

// clusterMessage travels over Redis so every instance can reach its own
// sockets. Origin lets an instance skip what it already delivered.
type clusterMessage struct {
	Origin    string          `json:"origin"`
	AccountID string          `json:"account_id"`
	Message   json.RawMessage `json:"message"`
}

type Hub struct {
	// AccountID -> open connections (one per device/tab)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// nil when running single-instance
	rdb *redis.Client

	instanceID string
	logger     logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.AccountID] = append(h.clients[client.AccountID], client)
			h.mu.Unlock()
			h.logger.Info("HUB", "Client registered", map[string]interface{}{"account_id": client.AccountID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// remove detaches a client and closes its send channel exactly once.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.AccountID]
	for i, c := range clients {
		if c == client {
			h.clients[client.AccountID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.AccountID]) == 0 {
		delete(h.clients, client.AccountID)
		h.logger.Info("HUB", "Client completely unregistered", map[string]interface{}{"account_id": client.AccountID})
	}
}

// Send pushes a notification to every socket of the account, here and on
// the other instances.
func (h *Hub) Send(accountID uuid.UUID, notification model.Notification) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	if err != nil {
		h.logger.Error("HUB", "Failed to encode notification", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(accountID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{
			Origin:    h.instanceID,
			AccountID: accountID.String(),
			Message:   data,
		})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("HUB", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// Online reports whether the account has a socket on this instance.
func (h *Hub) Online(accountID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[accountID]) > 0
}

func (h *Hub) deliverLocal(accountID uuid.UUID, data []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, client := range h.clients[accountID] {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("HUB", "Client send buffer full, dropping connection", map[string]interface{}{"account_id": accountID})
		h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("HUB", "Malformed cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}

		accountID, err := uuid.Parse(payload.AccountID)
		if err != nil {
			continue
		}
		h.deliverLocal(accountID, payload.Message)
	}
}
