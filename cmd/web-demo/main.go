package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/curtaincall/curtaincall-server-go/internal/config"
	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/presenter"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"github.com/curtaincall/curtaincall-server-go/internal/server"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	addr       = flag.String("addr", "", "listen address, overrides server.websocket_addr")
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for demo
	},
}

// WSMessage is the envelope for both directions.
type WSMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type outgoing struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

type startCombatData struct {
	EnemyID    string   `json:"enemy_id"`
	Deck       []string `json:"deck"`
	StageProps []string `json:"stage_props"`
	MacGuffin  string   `json:"macguffin"`
	Difficulty *int     `json:"difficulty"`
}

type playCardData struct {
	InstanceID string `json:"instance_id"`
	Target     string `json:"target"`
}

type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

func (c *Client) emit(msg outgoing) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
		// slow reader, drop
	}
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex

	sessions *server.SessionManager
	catalog  *content.Catalog
	logger   *zap.Logger
}

func newHub(sessions *server.SessionManager, catalog *content.Catalog, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		sessions:   sessions,
		catalog:    catalog,
		logger:     logger,
	}
}

func (h *Hub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered", zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				if client.sessionID != "" {
					h.sessions.Remove(client.sessionID)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) handleMessage(ctx context.Context, client *Client, msg WSMessage) {
	h.logger.Debug("received message", zap.String("type", msg.Type), zap.String("session_id", client.sessionID))

	switch msg.Type {
	case "list_enemies":
		client.emit(outgoing{Type: "enemies", Data: h.catalog.Enemies()})

	case "start_combat":
		var data startCombatData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			h.fail(client, err)
			return
		}
		if client.sessionID != "" {
			h.sessions.Remove(client.sessionID)
		}
		snap, err := h.sessions.Start(ctx, server.StartOptions{
			EnemyID:    data.EnemyID,
			Deck:       data.Deck,
			StageProps: data.StageProps,
			MacGuffin:  data.MacGuffin,
			Difficulty: data.Difficulty,
			Presenter: presenter.Func(func(n presenter.Notification) {
				client.emit(outgoing{Type: "notification", Data: n})
			}),
		})
		if err != nil {
			h.fail(client, err)
			return
		}
		client.sessionID = snap.SessionID
		client.emit(outgoing{Type: "state", SessionID: snap.SessionID, Data: snap})

	case "play_card":
		var data playCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			h.fail(client, err)
			return
		}
		res, snap, err := h.sessions.PlayCard(ctx, client.sessionID, data.InstanceID, state.CharacterID(data.Target))
		if err != nil {
			h.fail(client, err)
			return
		}
		if !res.Legal {
			client.emit(outgoing{Type: "illegal", SessionID: client.sessionID, Data: res})
		}
		client.emit(outgoing{Type: "state", SessionID: client.sessionID, Data: snap})

	case "end_turn":
		_, snap, err := h.sessions.EndTurn(ctx, client.sessionID)
		if err != nil {
			h.fail(client, err)
			return
		}
		client.emit(outgoing{Type: "state", SessionID: client.sessionID, Data: snap})

	case "get_state":
		snap, err := h.sessions.State(ctx, client.sessionID)
		if err != nil {
			h.fail(client, err)
			return
		}
		client.emit(outgoing{Type: "state", SessionID: client.sessionID, Data: snap})

	default:
		h.fail(client, errors.New("unknown message type "+msg.Type))
	}
}

func (h *Hub) fail(client *Client, err error) {
	h.logger.Debug("request failed", zap.String("session_id", client.sessionID), zap.Error(err))
	client.emit(outgoing{Type: "error", SessionID: client.sessionID, Data: err.Error()})
}

func (c *Client) readPump(ctx context.Context, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			hub.fail(c, err)
			continue
		}

		hub.handleMessage(ctx, c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}

func serveWS(ctx context.Context, hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
	}

	hub.register <- client

	go client.writePump()
	go client.readPump(ctx, hub)
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := content.NewLoader(logger).Load(ctx, cfg.Content.Path)
	if err != nil {
		logger.Fatal("failed to load content", zap.Error(err))
	}
	sessions := server.NewSessionManager(catalog, cfg.Engine, nil, logger)
	go sessions.CleanupExpiredSessions(ctx, cfg.Server.SessionTTL, time.Minute)

	hub := newHub(sessions, catalog, logger)
	go hub.run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(ctx, hub, w, r)
	})

	listen := cfg.Server.WebSocketAddr
	if *addr != "" {
		listen = *addr
	}
	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("websocket demo starting", zap.String("address", listen), zap.String("endpoint", "/ws"))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("ListenAndServe", zap.Error(err))
	}
}
