package main

// Shared helpers for the state-machine tests. Test clients are plain
// registered clients with a buffered send channel and no websocket, so
// broadcasts can be drained and inspected synchronously.

func newTestGame() *Game {
	return newGame(&Config{})
}

func addTestClient(g *Game, id string) *Client {
	c := &Client{
		id:    id,
		send:  make(chan any, 64),
		rooms: make(map[string]bool),
	}

	g.mu.Lock()
	g.clients[c] = struct{}{}
	g.mu.Unlock()

	return c
}

// drain empties a client's send buffer and returns what was queued.
func drain(c *Client) []any {
	var msgs []any
	for {
		select {
		case m, ok := <-c.send:
			if !ok {
				return msgs
			}
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

// beginStage skips the countdown and starts the current stage directly,
// so tests do not have to wait out real timers.
func beginStage(g *Game, roomID string) {
	g.mu.Lock()
	g.startEscapeStageLocked(roomID)
	g.mu.Unlock()
}

func escapeOf(g *Game, roomID string) *escapeState {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok {
		return nil
	}
	return r.escape
}
