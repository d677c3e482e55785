package main

import (
	"math/rand"
	"time"
)

const (
	questionSeconds  = 20
	winningThreshold = 5
)

// StartGame begins the quiz for a room. Guarded: the room must exist
// and the game must not already be running.
func (g *Game) StartGame(roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok || r.gameStarted {
		return
	}

	r.gameStarted = true
	g.broadcastLocked(roomID, GameStartingEvent{Event: "gameStarting"})
	g.askNewQuestionLocked(roomID)
}

// askNewQuestionLocked broadcasts a fresh question and arms the round
// timeout. An empty roster is terminal: the room is destroyed and
// nothing is broadcast.
func (g *Game) askNewQuestionLocked(roomID string) {
	r, ok := g.rooms[roomID]
	if !ok {
		return
	}
	if len(r.players) == 0 {
		g.deleteRoomLocked(roomID)
		return
	}

	// Selection is with replacement; back-to-back repeats are possible.
	q := &questions[rand.Intn(len(questions))]
	r.currentQuestion = q

	shuffled := make([]string, 0, len(q.Answers))
	correct := -1
	for i, src := range rand.Perm(len(q.Answers)) {
		if q.Answers[src].Correct {
			correct = i
		}
		shuffled = append(shuffled, q.Answers[src].Text)
	}
	r.correctAnswer = correct

	g.broadcastLocked(roomID, NewQuestionEvent{
		Event:    "newQuestion",
		Question: q.Text,
		Answers:  shuffled,
		Timer:    questionSeconds,
	})

	r.round++
	round := r.round
	if r.questionTimer != nil {
		r.questionTimer.Stop()
	}
	r.questionTimer = time.AfterFunc(questionSeconds*time.Second, func() {
		g.questionTimeout(roomID, round)
	})
}

// questionTimeout fires when nobody answered within the round timer.
// The round counter defends against a timeout that was superseded while
// waiting on the mutex.
func (g *Game) questionTimeout(roomID string, round int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok || r.round != round {
		return
	}

	g.broadcastLocked(roomID, AnswerResultEvent{
		Event:         "answerResult",
		PlayerName:    "No one",
		IsCorrect:     false,
		CorrectAnswer: r.correctAnswer,
		Scores:        r.scoreboard(),
	})

	g.askNewQuestionLocked(roomID)
}

// SubmitAnswer scores the current question for a known room member.
// The first submission from any player ends the round; answers that
// lose the race target the next question instead.
func (g *Game) SubmitAnswer(c *Client, roomID string, answerIndex int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok {
		return
	}
	player := r.findPlayer(c.id)
	if player == nil {
		return
	}

	isCorrect := r.correctAnswer >= 0 && answerIndex == r.correctAnswer
	if isCorrect {
		player.Score++
	} else {
		player.Score--
	}

	r.round++
	if r.questionTimer != nil {
		r.questionTimer.Stop()
		r.questionTimer = nil
	}

	g.broadcastLocked(roomID, AnswerResultEvent{
		Event:         "answerResult",
		PlayerName:    player.Name,
		IsCorrect:     isCorrect,
		CorrectAnswer: r.correctAnswer,
		Scores:        r.scoreboard(),
	})

	for _, p := range r.players {
		if p.Score >= winningThreshold {
			g.broadcastLocked(roomID, GameOverEvent{Event: "gameOver", Winner: p.Name})
			g.deleteRoomLocked(roomID)
			logf(g.cfg, "GAMES: %q won room %q", p.Name, roomID)
			return
		}
	}

	g.askNewQuestionLocked(roomID)
}
