package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"

	"commitsugar/internal/models"
)

var (
	ErrEmptyResponse = errors.New("model returned an empty response")
	ErrAborted       = errors.New("generation aborted")
)

// DeltaFunc receives each text delta and the text accumulated so far. It runs
// while the client lock is held and must not call back into the client.
type DeltaFunc func(delta, accumulated string)

// Outcome is the terminal result of a session.
type Outcome struct {
	State models.SessionState
	Text  string
	Err   error
}

// LLMClient owns at most one active generation session.
type LLMClient struct {
	mu     sync.Mutex
	active *Session
}

func NewLLMClient() *LLMClient {
	return &LLMClient{}
}

// StartSession supersedes the active session, if any, and returns a new idle
// one bound to parent.
func (c *LLMClient) StartSession(parent context.Context) *Session {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		ID:     uuid.NewString(),
		client: c,
		ctx:    ctx,
		cancel: cancel,
		state:  models.SessionIdle,
	}

	c.mu.Lock()
	previous := c.active
	c.active = s
	c.mu.Unlock()

	if previous != nil {
		previous.cancel()
	}
	return s
}

// Abort cancels the active session. It is a no-op when nothing is running and
// safe to call repeatedly.
func (c *LLMClient) Abort() {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()
	if active != nil {
		active.Abort()
	}
}

// Active returns the current session or nil.
func (c *LLMClient) Active() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// deliver appends delta to s and reports it, but only while s is still the
// active, uncancelled session. Abort and supersession take the same lock, so
// nothing reaches onDelta once they return.
func (c *LLMClient) deliver(s *Session, delta string, onDelta DeltaFunc) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != s || s.ctx.Err() != nil {
		return false
	}
	s.mu.Lock()
	s.text.WriteString(delta)
	accumulated := s.text.String()
	s.mu.Unlock()
	if onDelta != nil {
		onDelta(delta, accumulated)
	}
	return true
}

func (c *LLMClient) release(s *Session) {
	c.mu.Lock()
	if c.active == s {
		c.active = nil
	}
	c.mu.Unlock()
	s.cancel()
}

// Session is one streaming request. It runs once.
type Session struct {
	ID     string
	client *LLMClient
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state models.SessionState
	text  strings.Builder
}

func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Text returns the accumulated response.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

// Context is cancelled when the session is aborted, superseded or finished.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Abort cancels s. It waits for an in-flight delivery, so once it returns no
// further delta of s reaches the callback.
func (s *Session) Abort() {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	s.cancel()
}

// Release ends a session that will never stream, freeing the active slot.
func (s *Session) Release() {
	s.client.release(s)
}

// Stream sends the prompt for req to chat and consumes the reply chunk by
// chunk. Cancellation is checked before every chunk; once it is observed the
// session ends as aborted without further deliveries.
func (s *Session) Stream(chat model.BaseChatModel, req Request, onDelta DeltaFunc) Outcome {
	if !s.begin() {
		return Outcome{State: s.State(), Text: s.Text(), Err: fmt.Errorf("session %s already ran", s.ID)}
	}
	defer s.client.release(s)

	if chat == nil {
		return s.finish(models.SessionFailed, fmt.Errorf("chat model cannot be nil"))
	}
	messages, err := BuildMessages(req)
	if err != nil {
		return s.finish(models.SessionFailed, err)
	}
	if s.ctx.Err() != nil {
		return s.finish(models.SessionAborted, ErrAborted)
	}

	reader, err := chat.Stream(s.ctx, messages, model.WithTemperature(Temperature))
	if err != nil {
		if s.ctx.Err() != nil {
			return s.finish(models.SessionAborted, ErrAborted)
		}
		return s.finish(models.SessionFailed, fmt.Errorf("failed to start stream: %w", err))
	}
	if reader == nil {
		return s.finish(models.SessionFailed, fmt.Errorf("chat model returned nil stream reader"))
	}
	defer reader.Close()

	for {
		if s.ctx.Err() != nil {
			return s.finish(models.SessionAborted, ErrAborted)
		}
		msg, recvErr := reader.Recv()
		if recvErr != nil {
			if errors.Is(recvErr, io.EOF) {
				break
			}
			if s.ctx.Err() != nil {
				return s.finish(models.SessionAborted, ErrAborted)
			}
			return s.finish(models.SessionFailed, fmt.Errorf("stream recv: %w", recvErr))
		}
		if msg == nil || msg.Content == "" {
			continue
		}
		if !s.client.deliver(s, msg.Content, onDelta) {
			return s.finish(models.SessionAborted, ErrAborted)
		}
	}

	if s.ctx.Err() != nil {
		return s.finish(models.SessionAborted, ErrAborted)
	}
	if s.Text() == "" {
		return s.finish(models.SessionFailed, ErrEmptyResponse)
	}
	return s.finish(models.SessionCompleted, nil)
}

func (s *Session) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != models.SessionIdle {
		return false
	}
	s.state = models.SessionRunning
	return true
}

func (s *Session) finish(state models.SessionState, err error) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	return Outcome{State: state, Text: s.text.String(), Err: err}
}
