// Package chat holds the chat panel's message log and request state.
package chat

import (
	"errors"
	"strings"
	"time"
)

// FailureNotice replaces the reply when the backend cannot be reached.
const FailureNotice = "❌ Failed to connect to backend."

// ErrBusy is returned by SubmitErr while a reply is outstanding.
var ErrBusy = errors.New("chat: awaiting reply")

// ErrEmpty is returned by SubmitErr for blank input.
var ErrEmpty = errors.New("chat: empty message")

// Sender identifies who wrote a message.
type Sender int

const (
	User Sender = iota
	Bot
)

func (s Sender) String() string {
	if s == User {
		return "user"
	}
	return "bot"
}

// Message is one entry in the chat log.
type Message struct {
	Sender Sender
	Text   string
	At     time.Time
	// Failed marks a bot message that is the failure notice.
	Failed bool
}

// State is the request state of a Session.
type State int

const (
	Idle State = iota
	AwaitingReply
)

// Session is a two-state machine: Idle accepts a question, AwaitingReply
// ignores further input until Resolve is called. Not safe for concurrent
// use; the owner serializes calls on its event loop.
type Session struct {
	state    State
	messages []Message
	now      func() time.Time
}

// NewSession returns an idle session with an empty log.
func NewSession() *Session {
	return &Session{now: time.Now}
}

// State returns the current request state.
func (s *Session) State() State { return s.state }

// Busy reports whether a reply is outstanding.
func (s *Session) Busy() bool { return s.state == AwaitingReply }

// Submit is SubmitErr without the reason.
func (s *Session) Submit(text string) (string, bool) {
	q, err := s.SubmitErr(text)
	return q, err == nil
}

// SubmitErr trims text and, when idle and non-empty, appends it as a user
// message and moves to AwaitingReply. It returns the question to send.
// Blank input and input while busy leave the session untouched.
func (s *Session) SubmitErr(text string) (string, error) {
	q := strings.TrimSpace(text)
	if q == "" {
		return "", ErrEmpty
	}
	if s.state == AwaitingReply {
		return "", ErrBusy
	}
	s.messages = append(s.messages, Message{Sender: User, Text: q, At: s.now()})
	s.state = AwaitingReply
	return q, nil
}

// Resolve appends the reply, or FailureNotice when err is non-nil, and
// returns to Idle. It is a no-op when no reply is outstanding.
func (s *Session) Resolve(answer string, err error) {
	if s.state != AwaitingReply {
		return
	}
	msg := Message{Sender: Bot, Text: answer, At: s.now()}
	if err != nil {
		msg.Text = FailureNotice
		msg.Failed = true
	}
	s.messages = append(s.messages, msg)
	s.state = Idle
}

// Messages returns a copy of the log in append order.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of logged messages.
func (s *Session) Len() int { return len(s.messages) }
