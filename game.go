package main

import (
	"sync"
	"time"
)

// Game owns every room and every connected client. A single mutex
// serializes all inbound event handlers and timer callbacks, so each
// state mutation runs to completion before the next one starts and no
// handler ever observes a half-applied transition.
type Game struct {
	cfg *Config

	mu      sync.Mutex
	rooms   map[string]*Room
	clients map[*Client]struct{}
}

func newGame(cfg *Config) *Game {
	return &Game{
		cfg:     cfg,
		rooms:   make(map[string]*Room),
		clients: make(map[*Client]struct{}),
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// sendLocked queues msg for one client. A client whose send buffer is
// full is dropped rather than allowed to stall the room.
func (g *Game) sendLocked(c *Client, msg any) {
	if _, ok := g.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(g.clients, c)
		close(c.send)
	}
}

// broadcastLocked queues msg for every client subscribed to roomID.
func (g *Game) broadcastLocked(roomID string, msg any) {
	for c := range g.clients {
		if c.rooms[roomID] {
			g.sendLocked(c, msg)
		}
	}
}

// broadcastOthersLocked is broadcastLocked minus the originating client.
func (g *Game) broadcastOthersLocked(roomID string, except *Client, msg any) {
	for c := range g.clients {
		if c != except && c.rooms[roomID] {
			g.sendLocked(c, msg)
		}
	}
}
