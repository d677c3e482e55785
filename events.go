package main

// Wire format: JSON text frames. Inbound frames share a single flat
// envelope keyed by "event"; outbound frames are one struct per event,
// each carrying its event name plus the payload fields the browser
// client expects.

// Messages coming from clients
type ClientMessage struct {
	Event       string        `json:"event"`
	Room        string        `json:"room,omitempty"`
	Name        string        `json:"name,omitempty"`        // joinRoom / escapeJoin / chatMessage
	Avatar      string        `json:"avatar,omitempty"`      // escapeJoin
	AnswerIndex *int          `json:"answerIndex,omitempty"` // submitAnswer
	Pos         *Position     `json:"pos,omitempty"`         // escapeMove
	Payload     *EscapeAnswer `json:"payload,omitempty"`     // escapeSubmitAnswer
	Index       *int          `json:"index,omitempty"`       // escapeOpenBox
	ConsoleID   string        `json:"consoleId,omitempty"`   // escapeConsoleSolved
	Text        string        `json:"text,omitempty"`        // chatMessage
	Ts          int64         `json:"ts,omitempty"`          // chatMessage
	Type        string        `json:"type,omitempty"`        // chatMessage: "text" or "preset"
}

// Position is a 3D avatar position; y is pinned server-side.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// EscapeAnswer carries a stage submission. Answer is a number for mcq
// puzzles and a string for scenario puzzles; Mapping is only set for
// match puzzles, keyed by left index as a string.
type EscapeAnswer struct {
	Answer  any            `json:"answer,omitempty"`
	Mapping map[string]int `json:"mapping,omitempty"`
}

// MessageEvent is a plain room-wide text notice.
type MessageEvent struct {
	Event string `json:"event"`
	Text  string `json:"text"`
}

type Participant struct {
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
}

// ParticipantListEvent is recomputed per recipient, since IsYouHost is
// relative to the viewer.
type ParticipantListEvent struct {
	Event        string        `json:"event"`
	Participants []Participant `json:"participants"`
	Count        int           `json:"count"`
	HostID       string        `json:"hostId"`
	IsYouHost    bool          `json:"isYouHost"`
}

type GameStartingEvent struct {
	Event string `json:"event"`
}

// NewQuestionEvent carries the shuffled option labels only; correctness
// flags never leave the server.
type NewQuestionEvent struct {
	Question string   `json:"question"`
	Event    string   `json:"event"`
	Answers  []string `json:"answers"`
	Timer    int      `json:"timer"`
}

type PlayerScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type AnswerResultEvent struct {
	Event         string        `json:"event"`
	PlayerName    string        `json:"playerName"`
	IsCorrect     bool          `json:"isCorrect"`
	CorrectAnswer int           `json:"correctAnswer"`
	Scores        []PlayerScore `json:"scores"`
}

type GameOverEvent struct {
	Event  string `json:"event"`
	Winner string `json:"winner"`
}

type EscapePlayerInfo struct {
	ID     string   `json:"id"`
	Pos    Position `json:"pos"`
	Name   string   `json:"name"`
	Avatar string   `json:"avatar"`
}

type EscapeStateInfo struct {
	Completed        bool `json:"completed"`
	SolvedCount      int  `json:"solvedCount"`
	RequiredToUnlock int  `json:"requiredToUnlock"`
}

// EscapeWelcomeEvent is sent to the joiner only.
type EscapeWelcomeEvent struct {
	Event   string             `json:"event"`
	ID      string             `json:"id"`
	Players []EscapePlayerInfo `json:"players"`
	State   EscapeStateInfo    `json:"state"`
}

type EscapePlayerJoinedEvent struct {
	Event  string   `json:"event"`
	ID     string   `json:"id"`
	Pos    Position `json:"pos"`
	Name   string   `json:"name"`
	Avatar string   `json:"avatar"`
}

type EscapePlayerMovedEvent struct {
	Event string   `json:"event"`
	ID    string   `json:"id"`
	Pos   Position `json:"pos"`
}

type EscapePlayerLeftEvent struct {
	Event string `json:"event"`
	ID    string `json:"id"`
}

type EscapeStartedEvent struct {
	Event string `json:"event"`
}

// EscapeStageEvent announces one stage. Options, Left and Right are null
// unless the puzzle type uses them; Deadline is absolute unix millis so
// clients render the countdown against their own clock.
type EscapeStageEvent struct {
	Event       string   `json:"event"`
	Stage       int      `json:"stage"`
	TotalStages int      `json:"totalStages"`
	Type        string   `json:"type"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Left        []string `json:"left"`
	Right       []string `json:"right"`
	Deadline    int64    `json:"deadline"`
	Hint        string   `json:"hint"`
}

type EscapeProgressEvent struct {
	Event  string         `json:"event"`
	OK     bool           `json:"ok"`
	Msg    string         `json:"msg"`
	Scores map[string]int `json:"scores"`
	Keys   map[string]int `json:"keys"`
}

type PodiumEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type EscapeFinishedEvent struct {
	Event  string         `json:"event"`
	Podium []PodiumEntry  `json:"podium"`
	Keys   map[string]int `json:"keys"`
}

type EscapeStateEvent struct {
	Event     string `json:"event"`
	Completed bool   `json:"completed"`
	Reset     bool   `json:"reset,omitempty"`
}

type EscapeKeyProgressEvent struct {
	Event            string `json:"event"`
	SolvedCount      int    `json:"solvedCount"`
	RequiredToUnlock int    `json:"requiredToUnlock"`
}

type EscapeBoxesEvent struct {
	Event  string `json:"event"`
	Opened []bool `json:"opened"`
}

type EscapeBoxResultEvent struct {
	Event string `json:"event"`
	Index int    `json:"index"`
	Found bool   `json:"found"`
}

type EscapeCountdownEvent struct {
	Event    string `json:"event"`
	Deadline int64  `json:"deadline"`
}

type EscapeConsoleSolvedEvent struct {
	Event     string `json:"event"`
	ConsoleID string `json:"consoleId"`
}

type ChatMessageEvent struct {
	Event string `json:"event"`
	Name  string `json:"name"`
	Text  string `json:"text"`
	Ts    int64  `json:"ts"`
	Type  string `json:"type"`
}
