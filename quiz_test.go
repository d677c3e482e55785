package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastAnswerResult(t *testing.T, msgs []any) AnswerResultEvent {
	t.Helper()

	var found *AnswerResultEvent
	for _, m := range msgs {
		if ar, ok := m.(AnswerResultEvent); ok {
			found = &ar
		}
	}
	require.NotNil(t, found, "expected an answerResult event")
	return *found
}

func countNewQuestions(msgs []any) int {
	n := 0
	for _, m := range msgs {
		if _, ok := m.(NewQuestionEvent); ok {
			n++
		}
	}
	return n
}

func correctIndex(g *Game, roomID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rooms[roomID].correctAnswer
}

func currentRound(g *Game, roomID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rooms[roomID].round
}

func TestStartGameRequiresRoom(t *testing.T) {
	g := newTestGame()
	c := addTestClient(g, "conn-1")

	g.StartGame("42")

	assert.Empty(t, drain(c))
}

func TestStartGameOnlyOnce(t *testing.T) {
	g := newTestGame()
	c := addTestClient(g, "conn-1")
	g.JoinRoom(c, "42", "alice")
	drain(c)

	g.StartGame("42")
	g.StartGame("42")

	var starting int
	for _, m := range drain(c) {
		if _, ok := m.(GameStartingEvent); ok {
			starting++
		}
	}
	assert.Equal(t, 1, starting)
}

func TestNewQuestionHidesCorrectness(t *testing.T) {
	g := newTestGame()
	c := addTestClient(g, "conn-1")
	g.JoinRoom(c, "42", "alice")
	drain(c)

	g.StartGame("42")

	var q *NewQuestionEvent
	for _, m := range drain(c) {
		if nq, ok := m.(NewQuestionEvent); ok {
			q = &nq
		}
	}
	require.NotNil(t, q)
	assert.Equal(t, 20, q.Timer)
	assert.Len(t, q.Answers, 4)

	idx := correctIndex(g, "42")
	require.GreaterOrEqual(t, idx, 0)
	assert.Less(t, idx, len(q.Answers))
}

func TestSubmitAnswerScoresPlusOne(t *testing.T) {
	g := newTestGame()
	c := addTestClient(g, "conn-1")
	g.JoinRoom(c, "42", "alice")
	g.StartGame("42")
	drain(c)

	idx := correctIndex(g, "42")
	g.SubmitAnswer(c, "42", idx)

	ar := lastAnswerResult(t, drain(c))
	assert.True(t, ar.IsCorrect)
	assert.Equal(t, "alice", ar.PlayerName)
	assert.Equal(t, idx, ar.CorrectAnswer)
	assert.Equal(t, []PlayerScore{{Name: "alice", Score: 1}}, ar.Scores)
}

func TestSubmitAnswerScoresMinusOne(t *testing.T) {
	g := newTestGame()
	c := addTestClient(g, "conn-1")
	g.JoinRoom(c, "42", "alice")
	g.StartGame("42")
	drain(c)

	wrong := (correctIndex(g, "42") + 1) % 4
	g.SubmitAnswer(c, "42", wrong)

	ar := lastAnswerResult(t, drain(c))
	assert.False(t, ar.IsCorrect)
	assert.Equal(t, -1, ar.Scores[0].Score)

	// Scores are unbounded below zero.
	wrong = (correctIndex(g, "42") + 1) % 4
	g.SubmitAnswer(c, "42", wrong)
	assert.Equal(t, -2, lastAnswerResult(t, drain(c)).Scores[0].Score)
}

func TestSubmitAnswerUnknownPlayerIgnored(t *testing.T) {
	g := newTestGame()
	c := addTestClient(g, "conn-1")
	stranger := addTestClient(g, "conn-2")
	g.JoinRoom(c, "42", "alice")
	g.StartGame("42")
	drain(c)

	g.SubmitAnswer(stranger, "42", 0)
	g.SubmitAnswer(stranger, "nope", 0)

	assert.Empty(t, drain(c))
}

func TestFirstSubmissionEndsRound(t *testing.T) {
	g := newTestGame()
	c1 := addTestClient(g, "conn-1")
	c2 := addTestClient(g, "conn-2")
	g.JoinRoom(c1, "42", "alice")
	g.JoinRoom(c2, "42", "bob")
	g.StartGame("42")
	drain(c1)
	drain(c2)

	round := currentRound(g, "42")
	g.SubmitAnswer(c1, "42", correctIndex(g, "42"))

	// The round advanced and a new question went out; bob's in-flight
	// answer now scores against the new question.
	assert.Greater(t, currentRound(g, "42"), round)
	assert.Equal(t, 1, countNewQuestions(drain(c1)))
	drain(c2)

	// The superseded timeout must be a no-op.
	g.questionTimeout("42", round)
	assert.Empty(t, drain(c2))
}

func TestQuestionTimeoutRevealsAnswer(t *testing.T) {
	g := newTestGame()
	c := addTestClient(g, "conn-1")
	g.JoinRoom(c, "42", "alice")
	g.StartGame("42")
	drain(c)

	idx := correctIndex(g, "42")
	g.questionTimeout("42", currentRound(g, "42"))

	msgs := drain(c)
	ar := lastAnswerResult(t, msgs)
	assert.Equal(t, "No one", ar.PlayerName)
	assert.False(t, ar.IsCorrect)
	assert.Equal(t, idx, ar.CorrectAnswer)
	assert.Equal(t, 0, ar.Scores[0].Score)
	assert.Equal(t, 1, countNewQuestions(msgs))
}

func TestStaleQuestionTimeoutIsNoOp(t *testing.T) {
	g := newTestGame()
	c := addTestClient(g, "conn-1")
	g.JoinRoom(c, "42", "alice")
	g.StartGame("42")
	round := currentRound(g, "42")
	g.SubmitAnswer(c, "42", 0)
	drain(c)

	g.questionTimeout("42", round)

	assert.Empty(t, drain(c))
}

func TestWinningThresholdEndsGame(t *testing.T) {
	g := newTestGame()
	c := addTestClient(g, "conn-1")
	g.JoinRoom(c, "42", "alice")
	g.StartGame("42")
	drain(c)

	g.mu.Lock()
	g.rooms["42"].players[0].Score = winningThreshold - 1
	g.mu.Unlock()

	g.SubmitAnswer(c, "42", correctIndex(g, "42"))

	var over *GameOverEvent
	for _, m := range drain(c) {
		if e, ok := m.(GameOverEvent); ok {
			over = &e
		}
	}
	require.NotNil(t, over)
	assert.Equal(t, "alice", over.Winner)

	g.mu.Lock()
	_, exists := g.rooms["42"]
	g.mu.Unlock()
	assert.False(t, exists)
}
