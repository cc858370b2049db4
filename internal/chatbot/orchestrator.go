// Package chatbot decides, per question, between a direct QnA answer, an AI
// answer and a fallback, and carries the conversation-level copy.
package chatbot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/yhseo-kgs/chatbot-proxy/internal/domain"
	"github.com/yhseo-kgs/chatbot-proxy/internal/observability"
	"github.com/yhseo-kgs/chatbot-proxy/internal/qna"
	"github.com/yhseo-kgs/chatbot-proxy/internal/ranking"
)

// User-facing notices.
const (
	BusyMessage       = "⏳ 처리 중입니다. 잠시만 기다려주세요."
	FallbackPrefix    = "⚠️ 일시적 오류로 인해 관련 정보를 제공합니다.\n\n"
	UnreachableNotice = "⚠️ 서버와 연결할 수 없습니다. 잠시 후 다시 시도해주세요."
	EmptyAIMessage    = "응답을 생성할 수 없습니다."
	EmptyQueryMessage = "질문을 입력해주세요."
	LoadingMessage    = "🤖 답변 준비 중..."
	InitErrorMessage  = "⚠️ 챗봇 초기화에 실패했습니다. 페이지를 새로고침 해주세요."
)

// Defaults.
const (
	DefaultScoreThreshold = 0.5
	DefaultAITimeout      = 10 * time.Second
)

// ResponseType tags which branch produced a Response.
type ResponseType string

const (
	TypeQnA      ResponseType = "qna"
	TypeAI       ResponseType = "ai"
	TypeFallback ResponseType = "fallback"
	TypeError    ResponseType = "error"
)

// Response is the outcome of one Process call.
type Response struct {
	Type    ResponseType `json:"type"`
	Content string       `json:"content"`
	Score   float64      `json:"score,omitempty"`
	Record  *qna.Record  `json:"data,omitempty"`
	Query   string       `json:"query,omitempty"`
	Actions []Action     `json:"actions,omitempty"`
	Err     error        `json:"-"`
}

// KnowledgeBase is the part of the QnA store the orchestrator reads.
type KnowledgeBase interface {
	ranking.RecordSource
	Ready() bool
	FindByID(id int) (qna.Record, bool, error)
	Index() (qna.CategoryIndex, error)
}

// Config holds orchestrator tuning. A nil ScoreThreshold means
// DefaultScoreThreshold; use Threshold to set one, including 0.
type Config struct {
	ScoreThreshold *float64
	AITimeout      time.Duration
}

// Threshold returns a pointer to v for Config.ScoreThreshold.
func Threshold(v float64) *float64 { return &v }

// Status is a snapshot of orchestrator state.
type Status struct {
	Initialized bool    `json:"initialized"`
	Processing  bool    `json:"processing"`
	Threshold   float64 `json:"threshold"`
}

// Orchestrator answers one question at a time. A second call while one is
// in flight is rejected, not queued.
type Orchestrator struct {
	kb     KnowledgeBase
	ranker *ranking.Ranker
	ai     AIClient
	logger *observability.Logger

	timeout time.Duration
	busy    atomic.Bool

	mu        sync.RWMutex
	threshold float64
}

// New creates an Orchestrator. A nil ai client sends every low-confidence
// question straight to the fallback branch.
func New(kb KnowledgeBase, ai AIClient, cfg Config, logger *observability.Logger) *Orchestrator {
	if logger == nil {
		logger = observability.NopLogger()
	}
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	o := &Orchestrator{
		kb:      kb,
		ranker:  ranking.NewRanker(kb),
		ai:      ai,
		logger:  logger.WithComponent("orchestrator"),
		timeout: timeout,
	}
	o.threshold = DefaultScoreThreshold
	if cfg.ScoreThreshold != nil {
		o.threshold = clamp(*cfg.ScoreThreshold)
	}
	return o
}

// SetThreshold sets the direct-answer threshold, clamped to [0, 1].
func (o *Orchestrator) SetThreshold(v float64) {
	o.mu.Lock()
	o.threshold = clamp(v)
	o.mu.Unlock()
}

// Threshold returns the current direct-answer threshold.
func (o *Orchestrator) Threshold() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.threshold
}

// Processing reports whether a question is in flight.
func (o *Orchestrator) Processing() bool {
	return o.busy.Load()
}

// Status returns the current state.
func (o *Orchestrator) Status() Status {
	return Status{
		Initialized: o.kb.Ready(),
		Processing:  o.Processing(),
		Threshold:   o.Threshold(),
	}
}

// Process answers query. It never returns an error; failures are reported
// through Response.Type and Response.Err.
func (o *Orchestrator) Process(ctx context.Context, query string) Response {
	if !o.busy.CompareAndSwap(false, true) {
		o.logger.Debug().Msg("rejected concurrent question")
		return Response{Type: TypeError, Content: BusyMessage, Query: query, Err: domain.BusyError()}
	}
	defer o.busy.Store(false)

	resp := o.process(ctx, query)
	o.logConversation(query, resp)
	return resp
}

func (o *Orchestrator) process(ctx context.Context, query string) Response {
	if strings.TrimSpace(query) == "" {
		return Response{
			Type:    TypeError,
			Content: EmptyQueryMessage,
			Err:     domain.ValidationError("query is empty", nil),
		}
	}

	res, err := o.ranker.Rank(ctx, query)
	if err != nil {
		o.logger.WithOperation("rank").Error().Err(err).Msg("ranking failed")
		return Response{Type: TypeError, Content: UnreachableNotice, Query: query, Err: err}
	}

	if res.Best != nil && res.Best.Score > o.Threshold() {
		return directResponse(TypeQnA, ranking.FormatAnswer(res.Best.Record), query, res.Best)
	}

	content, err := o.askAI(ctx, query)
	if err == nil {
		return Response{Type: TypeAI, Content: content, Query: query}
	}

	o.logger.WithOperation("ask_ai").Warn().
		Err(err).
		Str("error_type", string(domain.TypeOf(err))).
		Bool("has_fallback", res.Best != nil).
		Msg("ai answer unavailable")

	if res.Best != nil {
		resp := directResponse(TypeFallback, FallbackPrefix+ranking.FormatAnswer(res.Best.Record), query, res.Best)
		resp.Err = err
		return resp
	}
	return Response{Type: TypeError, Content: UnreachableNotice, Query: query, Err: err}
}

func directResponse(t ResponseType, content, query string, best *ranking.Candidate) Response {
	rec := best.Record
	return Response{
		Type:    t,
		Content: content,
		Score:   best.Score,
		Record:  &rec,
		Query:   query,
		Actions: ParseActions(rec.Action),
	}
}

func (o *Orchestrator) askAI(ctx context.Context, query string) (string, error) {
	if o.ai == nil {
		return "", domain.ConfigError("no ai client configured", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	out, err := o.ai.Ask(ctx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", domain.TimeoutError("ai request timed out", err)
		}
		return "", err
	}
	if !out.Accepted() {
		return "", domain.UpstreamError(0, out.FailureReason(), nil)
	}

	content := out.Content()
	if content == "" {
		content = EmptyAIMessage
	}
	return content, nil
}

// Related resolves the record behind a related-question action.
func (o *Orchestrator) Related(ctx context.Context, id int) (Response, error) {
	if err := o.kb.Initialize(ctx); err != nil {
		return Response{}, err
	}
	rec, ok, err := o.kb.FindByID(id)
	if err != nil {
		return Response{}, err
	}
	if !ok {
		return Response{Type: TypeError, Content: ranking.NoMatchMessage}, nil
	}
	return Response{
		Type:    TypeQnA,
		Content: ranking.FormatAnswer(rec),
		Record:  &rec,
		Actions: ParseActions(rec.Action),
	}, nil
}

// Suggestions returns the expanded quick-reply chips.
func (o *Orchestrator) Suggestions(ctx context.Context) ([]string, error) {
	if err := o.kb.Initialize(ctx); err != nil {
		return nil, err
	}
	idx, err := o.kb.Index()
	if err != nil {
		return nil, err
	}
	return MoreChips(idx.Keys()), nil
}

func (o *Orchestrator) logConversation(query string, resp Response) {
	if !o.logger.DebugEnabled() {
		return
	}
	o.logger.Debug().
		Str("query", query).
		Str("response_type", string(resp.Type)).
		Int("response_length", utf8.RuneCountInString(resp.Content)).
		Float64("score", resp.Score).
		Bool("fallback", resp.Type == TypeFallback).
		Msg("conversation")
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
