package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/cleared-dev/finstat/internal/format"
	"github.com/cleared-dev/finstat/internal/logger"
	"github.com/cleared-dev/finstat/internal/pipeline"
)

// ErrNotReady is returned when no analysis is loaded.
var ErrNotReady = errors.New("no analysis loaded; upload a spreadsheet first")

// Greeting is the model's first turn in every new chat.
const Greeting = "Chào bạn! Tôi đã nhận và phân tích dữ liệu từ tệp của bạn. " +
	"Bạn muốn hỏi tôi điều gì cụ thể về các chỉ số này hoặc các khái niệm tài chính liên quan?"

const chatPreamble = `Bạn là một trợ lý tài chính. Người dùng vừa tải lên một tệp có tên '%s'.
Dữ liệu đã xử lý (dưới dạng markdown) là:

%s
Bây giờ, hãy sẵn sàng trả lời các câu hỏi của người dùng về dữ liệu này.`

// Recorder persists chat turns.
type Recorder interface {
	Record(session uuid.UUID, file, role, content string) error
}

// Chat is a conversation seeded with one session's analysis.
type Chat struct {
	mu       sync.Mutex
	model    Model
	recorder Recorder
	session  uuid.UUID
	file     string
	history  []Message
}

// NewChat starts a conversation whose history opens with the analysis context and
// the greeting. rec may be nil.
func NewChat(m Model, sc pipeline.SessionContext, f format.Formatter, rec Recorder) (*Chat, error) {
	if !sc.Ready() {
		return nil, ErrNotReady
	}
	c := &Chat{
		model:    m,
		recorder: rec,
		session:  sc.ID,
		file:     sc.FileName,
		history: []Message{
			{Role: RoleUser, Text: fmt.Sprintf(chatPreamble, sc.FileName, BuildContext(sc, f))},
			{Role: RoleModel, Text: Greeting},
		},
	}
	c.record(RoleModel, Greeting)
	return c, nil
}

// SessionID returns the session the chat was seeded from.
func (c *Chat) SessionID() uuid.UUID { return c.session }

// Send asks the model for a reply. A failed call leaves the history unchanged.
func (c *Chat) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty message")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	turn := append(c.history[:len(c.history):len(c.history)], Message{Role: RoleUser, Text: text})
	reply, err := c.model.Generate(ctx, turn)
	if err != nil {
		return "", fmt.Errorf("sending message: %w", err)
	}

	c.history = append(turn, Message{Role: RoleModel, Text: reply})
	c.record(RoleUser, text)
	c.record(RoleModel, reply)
	return reply, nil
}

// Messages returns the visible conversation: everything after the seeded context.
func (c *Chat) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.history)-1)
	copy(out, c.history[1:])
	return out
}

func (c *Chat) record(role Role, text string) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(c.session, c.file, string(role), text); err != nil {
		logger.L.Warn("recording chat turn failed", "session", c.session, "error", err)
	}
}

// Assistant keeps one chat per loaded file and replaces it when the file changes.
type Assistant struct {
	mu       sync.Mutex
	model    Model
	format   format.Formatter
	recorder Recorder
	chat     *Chat
}

// New returns an Assistant. rec may be nil.
func New(m Model, f format.Formatter, rec Recorder) *Assistant {
	return &Assistant{model: m, format: f, recorder: rec}
}

// ChatFor returns the chat for sc, starting a fresh one when sc is a different upload.
func (a *Assistant) ChatFor(sc pipeline.SessionContext) (*Chat, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !sc.Ready() {
		a.chat = nil
		return nil, ErrNotReady
	}
	if a.chat != nil && a.chat.SessionID() == sc.ID {
		return a.chat, nil
	}
	c, err := NewChat(a.model, sc, a.format, a.recorder)
	if err != nil {
		return nil, err
	}
	a.chat = c
	logger.L.Info("chat started", "session", sc.ID, "file", sc.FileName)
	return c, nil
}

// Summarize asks for the one-shot assessment of sc.
func (a *Assistant) Summarize(ctx context.Context, sc pipeline.SessionContext) (string, error) {
	return Summarize(ctx, a.model, sc, a.format)
}
