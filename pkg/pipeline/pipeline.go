// Package pipeline runs one creation end to end: validate, resolve the
// prompt, generate, persist.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"storycraft/pkg/inference"
	"storycraft/pkg/metrics"
	"storycraft/pkg/persist"
	"storycraft/pkg/prompt"
	"storycraft/pkg/schema"
)

const SystemPrompt = "You are a literary author. Write only the requested piece, without a preamble, title notes or commentary."

// Stage names the progress points reported while a creation runs.
type Stage string

const (
	StageValidated  Stage = "validated"
	StageResolved   Stage = "resolved"
	StageGenerating Stage = "generating"
	StagePersisting Stage = "persisting"
)

// GenerationFailure wraps every backend failure, including an empty reply.
// Nothing is persisted when it is returned.
type GenerationFailure struct {
	Err error
}

func (e *GenerationFailure) Error() string {
	return "generation failed: " + e.Err.Error()
}

func (e *GenerationFailure) Unwrap() error { return e.Err }

// Outcome is a completed creation. Errors lists artifact writes that failed;
// the text is valid either way.
type Outcome struct {
	RequestID    string         `json:"request_id"`
	ID           string         `json:"id"`
	Prompt       string         `json:"prompt"`
	Text         string         `json:"text"`
	TextPath     string         `json:"text_path,omitempty"`
	DocumentPath string         `json:"document_path,omitempty"`
	Errors       []string       `json:"errors,omitempty"`
	Result       persist.Result `json:"-"`
}

type Pipeline struct {
	Resolver   *prompt.Resolver
	Inferencer inference.Inferencer
	Persister  *persist.Persister

	// Provider labels generation metrics.
	Provider string
	System   string
	Params   inference.Params
	Timeout  time.Duration

	// Tokens counts prompt tokens for metrics. Nil disables counting.
	Tokens func(string) (int, error)
	Now    func() time.Time
}

func New(resolver *prompt.Resolver, inf inference.Inferencer, persister *persist.Persister, provider string) *Pipeline {
	return &Pipeline{
		Resolver:   resolver,
		Inferencer: inf,
		Persister:  persister,
		Provider:   provider,
		System:     SystemPrompt,
		Now:        time.Now,
	}
}

// Create runs the pipeline once.
func (p *Pipeline) Create(ctx context.Context, req schema.CreationRequest) (*Outcome, error) {
	return p.CreateWithProgress(ctx, req, nil)
}

// CreateWithProgress is Create, calling progress as each stage starts.
func (p *Pipeline) CreateWithProgress(ctx context.Context, req schema.CreationRequest, progress func(Stage)) (*Outcome, error) {
	notify := func(s Stage) {
		if progress != nil {
			progress(s)
		}
	}
	if req.Category == "" {
		req.Category = schema.Story
	}
	if req.Narrator == "" {
		req.Narrator = schema.ThirdPerson
	}
	category := string(req.Category)
	requestID := ksuid.New().String()

	if err := prompt.ValidateRequest(req); err != nil {
		metrics.RecordCreation(category, metrics.StatusInvalid)
		log.Warn("rejected creation", "request", requestID, "error", err)
		return nil, err
	}
	notify(StageValidated)

	text, err := p.Resolver.Resolve(req)
	if err != nil {
		metrics.RecordCreation(category, metrics.StatusTemplate)
		log.Error("failed resolving prompt", "request", requestID, "style", req.StyleKey, "error", err)
		return nil, fmt.Errorf("resolve prompt: %w", err)
	}
	notify(StageResolved)
	p.countTokens(requestID, text)

	notify(StageGenerating)
	output, err := p.generate(ctx, text)
	if err != nil {
		metrics.RecordCreation(category, metrics.StatusFailed)
		log.Error("generation failed", "request", requestID, "provider", p.Provider, "error", err)
		return nil, err
	}

	notify(StagePersisting)
	res := p.Persister.Persist(schema.GeneratedArtifact{
		Text:        output,
		Category:    req.Category,
		StyleKey:    req.StyleKey,
		Tone:        req.Tone,
		Protagonist: req.Protagonist,
		Setting:     req.Setting,
		Timestamp:   p.now(),
	})

	out := &Outcome{
		RequestID:    requestID,
		ID:           res.ID,
		Prompt:       text,
		Text:         output,
		TextPath:     res.TextPath,
		DocumentPath: res.DocumentPath,
		Result:       res,
	}
	for _, err := range res.Errors() {
		var perr *persist.Error
		if errors.As(err, &perr) {
			metrics.RecordPersistFailure(perr.Artifact)
		}
		out.Errors = append(out.Errors, err.Error())
	}

	metrics.RecordCreation(category, metrics.StatusSuccess)
	log.Info("creation ready", "request", requestID, "id", res.ID, "chars", len(output), "persist_errors", len(out.Errors))
	return out, nil
}

func (p *Pipeline) generate(ctx context.Context, user string) (string, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := p.Inferencer.Infer(ctx, p.Params.ChatParams(), p.System, user)
	metrics.RecordGeneration(p.Provider, time.Since(start).Seconds())
	if err != nil {
		return "", &GenerationFailure{Err: err}
	}

	ok, err := p.Inferencer.Verify(ctx, out)
	if err == nil && !ok {
		err = inference.ErrEmptyContent
	}
	if err != nil {
		return "", &GenerationFailure{Err: err}
	}
	return out, nil
}

func (p *Pipeline) countTokens(requestID, text string) {
	if p.Tokens == nil {
		return
	}
	n, err := p.Tokens(text)
	if err != nil {
		log.Debug("token count unavailable", "request", requestID, "error", err)
		return
	}
	metrics.RecordPromptTokens(n)
	log.Debug("resolved prompt", "request", requestID, "chars", len(text), "tokens", n)
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
