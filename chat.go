package main

import "strings"

const (
	maxChatNameLen = 32
	maxChatTextLen = 300
)

func clampRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// ChatMessage validates and rebroadcasts a room chat line. Fields are
// clamped or defaulted rather than rejected; an empty message after
// trimming is dropped.
func (g *Game) ChatMessage(c *Client, msg ClientMessage) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if msg.Room == "" {
		return
	}
	if _, ok := g.rooms[msg.Room]; !ok {
		return
	}

	name := msg.Name
	if name == "" {
		name = "Anon"
	}
	name = clampRunes(name, maxChatNameLen)

	text := clampRunes(strings.TrimSpace(msg.Text), maxChatTextLen)
	if text == "" {
		return
	}

	msgType := "text"
	if msg.Type == "preset" {
		msgType = "preset"
	}

	ts := msg.Ts
	if ts == 0 {
		ts = nowMillis()
	}

	g.broadcastLocked(msg.Room, ChatMessageEvent{
		Event: "chatMessage",
		Name:  name,
		Text:  text,
		Ts:    ts,
		Type:  msgType,
	})
}
