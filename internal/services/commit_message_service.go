package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"

	"commitsugar/internal/events"
	"commitsugar/internal/llm/client"
	"commitsugar/internal/models"
	"commitsugar/internal/utils"
)

var (
	ErrConfigurationMissing = errors.New("API key is not configured")
	ErrNoRepository         = errors.New("no repository selected")
	ErrNoSink               = errors.New("no commit message input available")
	ErrNoChanges            = errors.New("no changes to commit")
)

// MessageSink is the commit-message input field. SetValue replaces its content.
type MessageSink interface {
	SetValue(value string)
}

type ConfigResolver interface {
	Resolve(ctx context.Context) models.Config
}

type WorkingStateCollector interface {
	Collect(ctx context.Context, repoPath string, backend string) string
}

// ChatModelFactory builds the chat model for one attempt.
type ChatModelFactory func(ctx context.Context, cfg models.Config) (model.BaseChatModel, error)

type GenerateRequest struct {
	RepoPath string
	Sink     MessageSink
}

// CommitMessageService drives one generation attempt at a time: validate,
// collect the working state, stream a draft into the sink.
type CommitMessageService struct {
	context      context.Context
	config       ConfigResolver
	collector    WorkingStateCollector
	newChatModel ChatModelFactory
	llm          *client.LLMClient

	mu        sync.Mutex
	busyOwner string
}

func NewCommitMessageService(config ConfigResolver, collector WorkingStateCollector, factory ChatModelFactory) *CommitMessageService {
	if factory == nil {
		factory = client.NewChatModel
	}
	return &CommitMessageService{
		config:       config,
		collector:    collector,
		newChatModel: factory,
		llm:          client.NewLLMClient(),
	}
}

func (s *CommitMessageService) Startup(ctx context.Context) {
	s.context = ctx
}

// Generate runs one attempt to completion and reports how it ended. Starting
// an attempt while another streams supersedes the older one.
func (s *CommitMessageService) Generate(ctx context.Context, req GenerateRequest) models.GenerationResult {
	if ctx == nil {
		ctx = s.ctx()
	}

	repoPath := strings.TrimSpace(req.RepoPath)
	if repoPath == "" || !utils.DirectoryExists(repoPath) {
		return s.reject(ctx, ErrNoRepository, events.NewError("No repository is open."))
	}
	if req.Sink == nil {
		return s.reject(ctx, ErrNoSink, events.NewError("No commit message input is available."))
	}

	cfg := s.config.Resolve(ctx)
	if strings.TrimSpace(cfg.APIKey) == "" {
		return s.reject(ctx, ErrConfigurationMissing, events.NewWarnAction(noticeMissingAPIKey, actionOpenSettings))
	}

	session := s.llm.StartSession(ctx)
	sessionCtx := events.WithSession(session.Context(), session.ID)

	changeText := s.collector.Collect(sessionCtx, repoPath, cfg.GitBackend)
	if session.Context().Err() != nil {
		session.Release()
		return s.aborted(sessionCtx, "")
	}
	if changeText == "" {
		session.Release()
		return s.reject(ctx, ErrNoChanges, events.NewInfo(noticeNothingToWrite))
	}

	s.setBusy(sessionCtx, session.ID)
	defer s.clearBusy(sessionCtx, session.ID)
	emitProgress(sessionCtx, true)
	defer emitProgress(sessionCtx, false)

	chat, err := s.newChatModel(sessionCtx, cfg)
	if err != nil {
		session.Release()
		return s.fail(sessionCtx, err)
	}

	outcome := session.Stream(chat, client.Request{ChangeText: changeText, Language: cfg.Language},
		func(_ string, accumulated string) {
			req.Sink.SetValue(client.ExtractCommitMessage(accumulated))
		})

	switch outcome.State {
	case models.SessionCompleted:
		message := client.ExtractCommitMessage(outcome.Text)
		if message == "" {
			return s.fail(sessionCtx, client.ErrEmptyResponse)
		}
		emitLog(sessionCtx, events.NewSuccess("commit message generated"))
		return models.GenerationResult{Status: models.GenerationDone, Message: message}
	case models.SessionAborted:
		return s.aborted(sessionCtx, client.ExtractCommitMessage(outcome.Text))
	default:
		return s.fail(sessionCtx, outcome.Err)
	}
}

// Abort signals the active attempt. It never fails and is a no-op when idle.
func (s *CommitMessageService) Abort() {
	s.llm.Abort()
}

func (s *CommitMessageService) IsGenerating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busyOwner != ""
}

func (s *CommitMessageService) reject(ctx context.Context, reason error, notice events.Event) models.GenerationResult {
	emitNotice(ctx, notice)
	return models.GenerationResult{Status: models.GenerationRejected, Reason: reason.Error(), Err: reason}
}

func (s *CommitMessageService) aborted(ctx context.Context, partial string) models.GenerationResult {
	emitLog(ctx, events.NewInfo("commit message generation aborted"))
	return models.GenerationResult{Status: models.GenerationAborted, Message: partial, Reason: client.ErrAborted.Error()}
}

func (s *CommitMessageService) fail(ctx context.Context, cause error) models.GenerationResult {
	if cause == nil {
		cause = errors.New("unknown error")
	}
	err := fmt.Errorf("failed to generate commit message: %w", cause)
	emitNotice(ctx, events.NewError(fmt.Sprintf("Failed to generate commit message: %v", cause)))
	return models.GenerationResult{Status: models.GenerationErrored, Reason: cause.Error(), Err: err}
}

// setBusy hands the busy flag to owner. A superseded attempt that finishes
// later cannot clear the flag of the attempt that replaced it.
func (s *CommitMessageService) setBusy(ctx context.Context, owner string) {
	s.mu.Lock()
	wasBusy := s.busyOwner != ""
	s.busyOwner = owner
	s.mu.Unlock()
	if !wasBusy {
		emitBusy(ctx, true)
	}
}

func (s *CommitMessageService) clearBusy(ctx context.Context, owner string) {
	s.mu.Lock()
	if s.busyOwner != owner {
		s.mu.Unlock()
		return
	}
	s.busyOwner = ""
	s.mu.Unlock()
	emitBusy(ctx, false)
}

func (s *CommitMessageService) ctx() context.Context {
	if s == nil || s.context == nil {
		return context.Background()
	}
	return s.context
}
