package main

import "time"

// Player holds the quiz-side data we store per room member.
type Player struct {
	ID     string
	Name   string
	IsHost bool
	Score  int
}

// Room is one isolated game session, keyed by a client-supplied id.
// The quiz state and the escape sub-state are independent; escape is
// nil until the first escape-related event touches the room.
type Room struct {
	players []*Player // insertion order = join order
	host    string

	currentQuestion *Question
	correctAnswer   int // index into the shuffled options; -1 when no question is live
	round           int // bumped per question so stale timeouts no-op
	questionTimer   *time.Timer
	gameStarted     bool

	escape *escapeState
}

func (r *Room) findPlayer(connID string) *Player {
	for _, p := range r.players {
		if p.ID == connID {
			return p
		}
	}
	return nil
}

func (r *Room) scoreboard() []PlayerScore {
	scores := make([]PlayerScore, 0, len(r.players))
	for _, p := range r.players {
		scores = append(scores, PlayerScore{Name: p.Name, Score: p.Score})
	}
	return scores
}

func (r *Room) participants() []Participant {
	participants := make([]Participant, 0, len(r.players))
	for _, p := range r.players {
		participants = append(participants, Participant{Name: p.Name, IsHost: p.IsHost})
	}
	return participants
}

// ensureRoomLocked returns the room for id, creating it on first use.
func (g *Game) ensureRoomLocked(id string) *Room {
	r, ok := g.rooms[id]
	if !ok {
		r = &Room{correctAnswer: -1}
		g.rooms[id] = r
	}
	return r
}

// deleteRoomLocked removes the room and invalidates any armed timers.
// A timer that already fired will find the room gone and no-op.
func (g *Game) deleteRoomLocked(id string) {
	r, ok := g.rooms[id]
	if !ok {
		return
	}

	r.round++
	if r.questionTimer != nil {
		r.questionTimer.Stop()
		r.questionTimer = nil
	}
	if r.escape != nil {
		r.escape.stopTimer()
	}

	delete(g.rooms, id)
	logf(g.cfg, "GAMES: Removed room %q", id)
}

// CheckRoom replies with a roster snapshot to the requester only, so a
// client can preview occupancy before joining. A missing room is a
// valid state and yields the empty snapshot.
func (g *Game) CheckRoom(c *Client, roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	msg := ParticipantListEvent{
		Event:        "participantList",
		Participants: []Participant{},
	}
	if r, ok := g.rooms[roomID]; ok {
		msg.Participants = r.participants()
		msg.Count = len(r.players)
		msg.HostID = r.host
	}

	g.sendLocked(c, msg)
}

// JoinRoom subscribes the connection to the room's broadcast group and
// adds it to the roster. The first player to join becomes host.
func (g *Game) JoinRoom(c *Client, roomID, name string) {
	if roomID == "" {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	c.rooms[roomID] = true
	g.broadcastLocked(roomID, MessageEvent{Event: "message", Text: name + " has joined the game!"})

	r := g.ensureRoomLocked(roomID)

	isHost := len(r.players) == 0
	if isHost {
		r.host = c.id
	}
	r.players = append(r.players, &Player{ID: c.id, Name: name, IsHost: isHost})

	g.broadcastParticipantsLocked(roomID, r)
	logf(g.cfg, "GAMES: Player %q joined %q", name, roomID)
}

// broadcastParticipantsLocked sends the roster to every room member.
// IsYouHost is relative to the viewer, so the message is built per
// recipient.
func (g *Game) broadcastParticipantsLocked(roomID string, r *Room) {
	participants := r.participants()

	for c := range g.clients {
		if !c.rooms[roomID] {
			continue
		}
		g.sendLocked(c, ParticipantListEvent{
			Event:        "participantList",
			Participants: participants,
			Count:        len(participants),
			HostID:       r.host,
			IsYouHost:    r.host != "" && c.id == r.host,
		})
	}
}

// Disconnect tears down a connection: it is unregistered, and its
// identity is removed from every room it had joined. Safe to call for
// clients already dropped by a slow-send eviction.
func (g *Game) Disconnect(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.clients[c]; ok {
		delete(g.clients, c)
		close(c.send)
	}

	for roomID := range c.rooms {
		g.removePlayerLocked(roomID, c.id)
	}

	logf(g.cfg, "GAMES: Connection %s closed", c.id)
}

// removePlayerLocked drops connID from one room, covering both the quiz
// roster and the escape avatar. The earliest remaining joiner inherits
// host; an emptied roster destroys the room.
func (g *Game) removePlayerLocked(roomID, connID string) {
	r, ok := g.rooms[roomID]
	if !ok {
		return
	}

	if r.escape != nil && r.escape.removePlayer(connID) {
		g.broadcastLocked(roomID, EscapePlayerLeftEvent{Event: "escapePlayerLeft", ID: connID})
	}

	removed := false
	dst := r.players[:0]
	for _, p := range r.players {
		if p.ID == connID {
			removed = true
			continue
		}
		dst = append(dst, p)
	}
	r.players = dst

	if !removed {
		return
	}

	if len(r.players) == 0 {
		g.deleteRoomLocked(roomID)
		return
	}

	if r.host == connID {
		r.host = r.players[0].ID
		r.players[0].IsHost = true
	}

	g.broadcastParticipantsLocked(roomID, r)
}
