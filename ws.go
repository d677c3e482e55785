package main

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Client is one websocket connection. Its identity is server-assigned
// and lives as long as the connection; rooms tracks which broadcast
// groups it has joined and is guarded by Game.mu.
type Client struct {
	conn  *websocket.Conn
	send  chan any
	id    string
	rooms map[string]bool
}

func newUpgrader(cfg *Config) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return cfg.originAllowed(r.Header.Get("Origin"))
		},
	}
}

func serveWS(cfg *Config, g *Game) httprouter.Handle {
	upgrader := newUpgrader(cfg)

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: websocket upgrade from %s: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn:  conn,
			send:  make(chan any, 32),
			id:    uuid.NewString(),
			rooms: make(map[string]bool),
		}

		g.mu.Lock()
		g.clients[client] = struct{}{}
		g.mu.Unlock()

		logf(cfg, "GAMES: Connection %s opened from %s", client.id, realIP(r))

		go client.writePump()
		client.readPump(g)
	}
}

func (c *Client) readPump(g *Game) {
	defer func() {
		g.Disconnect(c)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		g.dispatch(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// dispatch routes one inbound event to its handler. A panicking handler
// is contained and logged; one malformed message must never take down a
// shared room's session for the other members.
func (g *Game) dispatch(c *Client, msg ClientMessage) {
	defer func() {
		if rec := recover(); rec != nil {
			logf(g.cfg, "ERROR: recovered %q handler: %v", msg.Event, rec)
		}
	}()

	switch msg.Event {
	case "checkRoom":
		g.CheckRoom(c, msg.Room)
	case "joinRoom":
		g.JoinRoom(c, msg.Room, msg.Name)
	case "startGame":
		g.StartGame(msg.Room)
	case "submitAnswer":
		if msg.AnswerIndex != nil {
			g.SubmitAnswer(c, msg.Room, *msg.AnswerIndex)
		}
	case "escapeJoin":
		g.EscapeJoin(c, msg.Room, msg.Name, msg.Avatar)
	case "escapeMove":
		g.EscapeMove(c, msg.Room, msg.Pos)
	case "escapeLeave":
		g.EscapeLeave(c, msg.Room)
	case "escapeStart":
		g.EscapeStart(msg.Room)
	case "escapeStartGame":
		g.EscapeStartGame(msg.Room)
	case "escapeSubmitAnswer":
		g.EscapeSubmitAnswer(c, msg.Room, msg.Payload)
	case "escapeOpenBox":
		if msg.Index != nil {
			g.EscapeOpenBox(c, msg.Room, *msg.Index)
		}
	case "escapeConsoleSolved":
		g.EscapeConsoleSolved(msg.Room, msg.ConsoleID)
	case "escapePuzzleSolved":
		// Retained for older clients; must not touch unlock progress.
	case "chatMessage":
		g.ChatMessage(c, msg)
	default:
		// ignore unknown types
	}
}

// registerGameServer sets up the realtime endpoint and the per-room QR
// share code.
func registerGameServer(cfg *Config, mux *httprouter.Router) {
	g := newGame(cfg)

	mux.GET(cfg.prefix+"/ws", serveWS(cfg, g))
	mux.GET(cfg.prefix+"/room/:roomid/qr", qrHandler)
}

// qrHandler generates a PNG QR code for sharing a room URL.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /room/:roomid/qr; strip trailing "/qr" to get the room URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
