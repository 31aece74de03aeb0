package etymology

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Agent 串联拼写纠正、模型查询和结果清洗，每次请求互不影响。
type Agent struct {
	llm     LLMClient
	speller Speller
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithSpeller replaces the default pass-through speller.
func WithSpeller(s Speller) Option {
	return func(a *Agent) {
		if s != nil {
			a.speller = s
		}
	}
}

// WithTimeout bounds the model query. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(a *Agent) { a.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

func NewAgent(llm LLMClient, opts ...Option) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	a := &Agent{
		llm:     llm,
		speller: PassthroughSpeller{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Lookup runs correct -> query -> normalize for one word. The only error it
// returns is a *ModelError from the query step.
func (a *Agent) Lookup(ctx context.Context, message string) (Answer, error) {
	corr := a.speller.Correct(ctx, message)
	a.logger.Debug("spell-check",
		zap.String("original", message),
		zap.String("corrected", corr.Corrected),
		zap.Bool("changed", corr.WasCorrected))

	qctx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	raw, err := a.llm.Complete(qctx, BuildPrompt(corr.Corrected))
	if err != nil {
		var me *ModelError
		if !errors.As(err, &me) {
			err = &ModelError{Provider: "llm", Err: err}
		}
		a.logger.Warn("model query failed", zap.String("term", corr.Corrected), zap.Error(err))
		return Answer{Correction: corr}, err
	}
	a.logger.Debug("raw model reply", zap.String("raw", raw))

	rec, degraded := NormalizeDetailed(raw, message, corr)
	if degraded {
		a.logger.Warn("model reply was not valid JSON", zap.String("term", corr.Corrected))
	}
	return Answer{Record: rec, Correction: corr, Degraded: degraded}, nil
}
