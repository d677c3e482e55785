package main

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	escapeTotalStages      = 5
	escapeRequiredUnlocks  = 3
	escapeBoxCount         = 6
	escapeKeyCount         = 3
	escapeCountdownSeconds = 5
	escapeSpawnY           = 0.9
	escapeBound            = 19.0

	defaultAvatar = "rogue"
)

// Avatar tags the client ships sprites for; anything else falls back to
// the default.
var validAvatars = map[string]bool{
	"rogue":    true,
	"knight":   true,
	"commando": true,
}

type escapePlayer struct {
	name   string
	pos    Position
	avatar string
}

type treasureBox struct {
	hasKey bool
	opened bool
}

// escapeState is the per-room escape sub-state, created lazily on the
// first escape-related event. Completion is a one-way flag reachable
// from two paths (finishing the staged hunt, or opening enough key
// boxes); whichever transition runs first wins and the other no-ops.
type escapeState struct {
	players map[string]*escapePlayer
	roster  []string // connection ids in escapeJoin order

	completed   bool
	stage       int
	totalStages int
	puzzleIndex int
	deadline    int64 // unix millis; 0 when no stage is live

	scores     map[string]int
	scoreOrder []string // ids in the order their score entry was created; podium tie-break
	keys       map[string]int

	timer    *time.Timer
	timerGen int // bumped on every arm/stop so superseded callbacks no-op

	consoleSolved    map[string]bool
	solvedCount      int
	requiredToUnlock int
	boxes            []treasureBox
}

func (g *Game) ensureEscapeLocked(r *Room) *escapeState {
	if r.escape == nil {
		r.escape = &escapeState{
			players:          make(map[string]*escapePlayer),
			totalStages:      escapeTotalStages,
			scores:           make(map[string]int),
			keys:             make(map[string]int),
			consoleSolved:    make(map[string]bool),
			requiredToUnlock: escapeRequiredUnlocks,
		}
	}
	return r.escape
}

// stopTimer cancels any armed timer and invalidates callbacks that
// already fired but have not yet acquired the game mutex.
func (esc *escapeState) stopTimer() {
	esc.timerGen++
	if esc.timer != nil {
		esc.timer.Stop()
		esc.timer = nil
	}
}

// armTimerLocked replaces the room's escape timer; at most one is ever
// outstanding.
func (g *Game) armTimerLocked(roomID string, esc *escapeState, d time.Duration, fire func(roomID string, gen int)) {
	esc.stopTimer()
	gen := esc.timerGen
	esc.timer = time.AfterFunc(d, func() {
		fire(roomID, gen)
	})
}

func (esc *escapeState) removePlayer(connID string) bool {
	if _, ok := esc.players[connID]; !ok {
		return false
	}
	delete(esc.players, connID)
	for i, id := range esc.roster {
		if id == connID {
			esc.roster = append(esc.roster[:i], esc.roster[i+1:]...)
			break
		}
	}
	return true
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// EscapeJoin adds an avatar to the room's 3D scene and replies with a
// welcome snapshot. The room must already exist on the quiz side.
func (g *Game) EscapeJoin(c *Client, roomID, name, avatar string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok {
		return
	}
	esc := g.ensureEscapeLocked(r)

	if !validAvatars[avatar] {
		avatar = defaultAvatar
	}

	pos := Position{X: 0, Y: escapeSpawnY, Z: 0}
	if _, ok := esc.players[c.id]; !ok {
		esc.roster = append(esc.roster, c.id)
	}
	esc.players[c.id] = &escapePlayer{name: name, pos: pos, avatar: avatar}
	c.rooms[roomID] = true

	players := make([]EscapePlayerInfo, 0, len(esc.players))
	for _, id := range esc.roster {
		p := esc.players[id]
		players = append(players, EscapePlayerInfo{ID: id, Pos: p.pos, Name: p.name, Avatar: p.avatar})
	}

	g.sendLocked(c, EscapeWelcomeEvent{
		Event:   "escapeWelcome",
		ID:      c.id,
		Players: players,
		State: EscapeStateInfo{
			Completed:        esc.completed,
			SolvedCount:      esc.solvedCount,
			RequiredToUnlock: esc.requiredToUnlock,
		},
	})

	g.broadcastOthersLocked(roomID, c, EscapePlayerJoinedEvent{
		Event:  "escapePlayerJoined",
		ID:     c.id,
		Pos:    pos,
		Name:   name,
		Avatar: avatar,
	})
}

// EscapeMove updates a clamped avatar position and relays it to the
// rest of the room.
func (g *Game) EscapeMove(c *Client, roomID string, pos *Position) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok {
		return
	}
	esc := g.ensureEscapeLocked(r)
	p, ok := esc.players[c.id]
	if !ok {
		return
	}

	safe := Position{Y: escapeSpawnY}
	if pos != nil {
		safe.X = clamp(pos.X, -escapeBound, escapeBound)
		safe.Z = clamp(pos.Z, -escapeBound, escapeBound)
	}
	p.pos = safe

	g.broadcastOthersLocked(roomID, c, EscapePlayerMovedEvent{Event: "escapePlayerMoved", ID: c.id, Pos: safe})
}

func (g *Game) EscapeLeave(c *Client, roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok || r.escape == nil {
		return
	}
	if r.escape.removePlayer(c.id) {
		g.broadcastOthersLocked(roomID, c, EscapePlayerLeftEvent{Event: "escapePlayerLeft", ID: c.id})
	}
}

// EscapeStart is a display-only toggle relayed to the whole room.
func (g *Game) EscapeStart(roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.rooms[roomID]; !ok {
		return
	}
	g.broadcastLocked(roomID, EscapeStartedEvent{Event: "escapeStarted"})
}

// EscapeConsoleSolved syncs a console visual across the room. It does
// not affect unlock progress; keys come from puzzles and boxes.
func (g *Game) EscapeConsoleSolved(roomID, consoleID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok {
		return
	}
	g.ensureEscapeLocked(r)
	g.broadcastLocked(roomID, EscapeConsoleSolvedEvent{Event: "escapeConsoleSolved", ConsoleID: consoleID})
}

// EscapeStartGame resets the hunt and begins the countdown: stage and
// cursor back to zero, scores and keys zeroed for everyone present, six
// fresh boxes with exactly three keys, and the first stage scheduled
// for five seconds out unless the session completes in the interim.
func (g *Game) EscapeStartGame(roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok {
		return
	}
	esc := g.ensureEscapeLocked(r)

	esc.stage = 0
	esc.puzzleIndex = 0
	esc.completed = false
	esc.deadline = 0
	esc.stopTimer()

	esc.scores = make(map[string]int, len(esc.players))
	esc.keys = make(map[string]int, len(esc.players))
	esc.scoreOrder = esc.scoreOrder[:0]
	for _, id := range esc.roster {
		esc.scores[id] = 0
		esc.keys[id] = 0
		esc.scoreOrder = append(esc.scoreOrder, id)
	}

	esc.consoleSolved = make(map[string]bool)
	esc.solvedCount = 0

	boxes := make([]treasureBox, escapeBoxCount)
	for _, i := range rand.Perm(escapeBoxCount)[:escapeKeyCount] {
		boxes[i].hasKey = true
	}
	esc.boxes = boxes

	g.broadcastLocked(roomID, EscapeStateEvent{Event: "escapeState", Completed: false, Reset: true})
	g.broadcastLocked(roomID, EscapeBoxesEvent{Event: "escapeBoxes", Opened: make([]bool, escapeBoxCount)})
	g.broadcastLocked(roomID, EscapeKeyProgressEvent{
		Event:            "escapeKeyProgress",
		SolvedCount:      0,
		RequiredToUnlock: esc.requiredToUnlock,
	})

	deadline := nowMillis() + escapeCountdownSeconds*1000
	g.broadcastLocked(roomID, EscapeCountdownEvent{Event: "escapeCountdown", Deadline: deadline})

	g.armTimerLocked(roomID, esc, escapeCountdownSeconds*time.Second, g.escapeCountdownDone)
	logf(g.cfg, "GAMES: Escape hunt starting in room %q", roomID)
}

func (g *Game) escapeCountdownDone(roomID string, gen int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok || r.escape == nil || r.escape.timerGen != gen || r.escape.completed {
		return
	}
	g.startEscapeStageLocked(roomID)
}

// startEscapeStageLocked broadcasts the next puzzle and arms its
// deadline. The puzzle cursor wraps around the bank.
func (g *Game) startEscapeStageLocked(roomID string) {
	r, ok := g.rooms[roomID]
	if !ok || r.escape == nil {
		return
	}
	esc := r.escape

	p := escapePuzzles[esc.puzzleIndex%len(escapePuzzles)]
	seconds := p.Seconds
	if seconds <= 0 {
		seconds = 25
	}
	esc.deadline = nowMillis() + int64(seconds)*1000

	g.broadcastLocked(roomID, EscapeStageEvent{
		Event:       "escapeStage",
		Stage:       esc.stage + 1,
		TotalStages: esc.totalStages,
		Type:        p.Type,
		Prompt:      p.Prompt,
		Options:     p.Options,
		Left:        p.Left,
		Right:       p.Right,
		Deadline:    esc.deadline,
		Hint:        p.Hint,
	})

	g.armTimerLocked(roomID, esc, time.Duration(seconds)*time.Second, g.escapeStageTimeout)
}

// escapeStageTimeout fires when a stage's deadline passes with no
// correct answer: one "time up" notice, scores untouched, next stage.
func (g *Game) escapeStageTimeout(roomID string, gen int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok || r.escape == nil || r.escape.timerGen != gen || r.escape.completed {
		return
	}
	esc := r.escape

	g.broadcastLocked(roomID, EscapeProgressEvent{
		Event:  "escapeProgress",
		OK:     false,
		Msg:    "Time up! Moving on.",
		Scores: esc.scores,
		Keys:   esc.keys,
	})

	g.advanceStageLocked(roomID)
}

func (g *Game) advanceStageLocked(roomID string) {
	r, ok := g.rooms[roomID]
	if !ok || r.escape == nil {
		return
	}
	esc := r.escape

	esc.stage++
	esc.puzzleIndex++
	if esc.stage >= esc.totalStages {
		g.finishEscapeLocked(roomID)
	} else {
		g.startEscapeStageLocked(roomID)
	}
}

// EscapeSubmitAnswer validates a stage submission. Submissions after
// completion are dropped silently; submissions after the deadline get a
// private "time up" notice. A wrong answer leaves the stage and timer
// untouched so the room can retry.
func (g *Game) EscapeSubmitAnswer(c *Client, roomID string, payload *EscapeAnswer) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok {
		return
	}
	esc := g.ensureEscapeLocked(r)
	if esc.completed {
		return
	}

	puzzle := escapePuzzles[esc.puzzleIndex%len(escapePuzzles)]

	if esc.deadline != 0 && nowMillis() > esc.deadline {
		g.sendLocked(c, EscapeProgressEvent{
			Event:  "escapeProgress",
			OK:     false,
			Msg:    "Time up!",
			Scores: esc.scores,
			Keys:   esc.keys,
		})
		return
	}

	correct := false
	if payload != nil {
		switch puzzle.Type {
		case puzzleMCQ:
			if n, ok := payload.Answer.(float64); ok {
				correct = int(n) == puzzle.Answer
			}
		case puzzleScenario:
			if s, ok := payload.Answer.(string); ok {
				correct = strings.EqualFold(strings.TrimSpace(s), puzzle.AnswerText)
			}
		case puzzleMatch:
			// All mappings must match; partial credit is not a thing.
			correct = len(puzzle.Mapping) > 0
			for left, want := range puzzle.Mapping {
				got, ok := payload.Mapping[strconv.Itoa(left)]
				if !ok || got != want {
					correct = false
					break
				}
			}
		}
	}

	if !correct {
		g.broadcastLocked(roomID, EscapeProgressEvent{
			Event:  "escapeProgress",
			OK:     false,
			Msg:    "Wrong answer! Try again.",
			Scores: esc.scores,
			Keys:   esc.keys,
		})
		return
	}

	if _, ok := esc.scores[c.id]; !ok {
		esc.scoreOrder = append(esc.scoreOrder, c.id)
	}
	esc.scores[c.id] += 10
	esc.keys[c.id]++

	g.broadcastLocked(roomID, EscapeProgressEvent{
		Event:  "escapeProgress",
		OK:     true,
		Msg:    "Correct! A key was found.",
		Scores: esc.scores,
		Keys:   esc.keys,
	})

	esc.stopTimer()
	g.advanceStageLocked(roomID)
}

// EscapeOpenBox opens a treasure box. Opening is one-way; reopening an
// already-opened box just echoes its result. Collecting enough keys
// completes the session immediately, independent of the staged flow.
func (g *Game) EscapeOpenBox(c *Client, roomID string, index int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok {
		return
	}
	esc := g.ensureEscapeLocked(r)
	if esc.completed {
		return
	}
	if index < 0 || index >= len(esc.boxes) {
		return
	}

	box := &esc.boxes[index]
	if box.opened {
		g.broadcastLocked(roomID, EscapeBoxResultEvent{Event: "escapeBoxResult", Index: index, Found: box.hasKey})
		return
	}

	box.opened = true
	if box.hasKey {
		esc.solvedCount++
		esc.keys[c.id]++
		g.broadcastLocked(roomID, EscapeKeyProgressEvent{
			Event:            "escapeKeyProgress",
			SolvedCount:      esc.solvedCount,
			RequiredToUnlock: esc.requiredToUnlock,
		})
		if esc.solvedCount >= esc.requiredToUnlock {
			esc.completed = true
			esc.stopTimer()
			g.broadcastLocked(roomID, EscapeStateEvent{Event: "escapeState", Completed: true})
			logf(g.cfg, "GAMES: Room %q unlocked the exit via treasure boxes", roomID)
		}
	}

	g.broadcastLocked(roomID, EscapeBoxResultEvent{Event: "escapeBoxResult", Index: index, Found: box.hasKey})
}

// finishEscapeLocked ends the staged hunt: ranks players by descending
// score with ties broken by entry order, resolves names through the
// quiz roster, and broadcasts the podium. Idempotent against the box
// unlock path having completed the session first.
func (g *Game) finishEscapeLocked(roomID string) {
	r, ok := g.rooms[roomID]
	if !ok || r.escape == nil || r.escape.completed {
		return
	}
	esc := r.escape

	esc.completed = true
	esc.stopTimer()

	ranked := append([]string(nil), esc.scoreOrder...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return esc.scores[ranked[i]] > esc.scores[ranked[j]]
	})

	podium := make([]PodiumEntry, 0, len(ranked))
	for _, id := range ranked {
		name := "Player"
		if p := r.findPlayer(id); p != nil {
			name = p.Name
		}
		podium = append(podium, PodiumEntry{ID: id, Name: name, Score: esc.scores[id]})
	}

	g.broadcastLocked(roomID, EscapeFinishedEvent{Event: "escapeFinished", Podium: podium, Keys: esc.keys})
	logf(g.cfg, "GAMES: Escape hunt finished in room %q", roomID)
}
