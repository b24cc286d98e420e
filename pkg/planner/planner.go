// ABOUTME: Project planner turning a one-line idea into mindmap nodes and a root PRD
// ABOUTME: Generates via a chat model, parses the sectioned reply, submits the PRD

package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nainya/prdstore/internal/logger"
	"github.com/nainya/prdstore/internal/metrics"
	"github.com/nainya/prdstore/pkg/genai"
	"github.com/nainya/prdstore/pkg/hierarchy"
	"github.com/nainya/prdstore/pkg/prd"
)

// Submitter is the slice of the hierarchy store the planner needs.
type Submitter interface {
	Submit(c prd.Candidate) (*hierarchy.SubmitResult, error)
}

// Planner drives the project-planning flow: one project description in, a
// mindmap plus a root PRD out.
type Planner struct {
	gen     genai.Generator
	store   Submitter
	log     *logger.Logger
	metrics *metrics.Metrics
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger injects a logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// New creates a planner over a generator and a document store.
func New(gen genai.Generator, store Submitter, opts ...Option) *Planner {
	p := &Planner{gen: gen, store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.GetGlobalLogger()
	}
	return p
}

// Plan generates a project plan for the description and stores the resulting
// PRD. The mindmap sections are optional in the model's reply; the PRD
// section falls back to the whole reply when the marker is missing.
func (p *Planner) Plan(ctx context.Context, description string) (*PlanResult, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("empty project description")
	}

	start := time.Now()
	reply, err := p.gen.Generate(ctx, BuildPrompt(description))
	if p.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		p.metrics.RecordGeneration(status, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	sections := ParseSections(reply)
	result := &PlanResult{
		Nodes:       sections.Nodes,
		Connections: sections.Connections,
	}

	submitted, err := p.store.Submit(prd.Candidate{
		Title:   PRDTitle(description),
		Content: sections.PRD,
		Origin:  prd.PlannerOrigin(),
	})
	if err != nil {
		return nil, fmt.Errorf("store plan PRD: %w", err)
	}
	result.PRD = submitted.PRD
	result.Outcome = submitted.Outcome

	p.log.PlannerLogger().Info("project plan generated").
		Str("prd_id", submitted.PRD.ID).
		Str("outcome", string(submitted.Outcome)).
		Int("nodes", len(sections.Nodes)).
		Int("connections", len(sections.Connections)).
		Send()
	return result, nil
}

// PlanResult is the outcome of one planning run.
type PlanResult struct {
	Nodes       []MindmapNode
	Connections []Connection
	PRD         *prd.PRD
	Outcome     hierarchy.Outcome
}

// PRDTitle derives the stored document title from the project description:
// the first four words, suffixed to mark the tree's main document.
func PRDTitle(description string) string {
	words := strings.Fields(description)
	if len(words) > 4 {
		words = words[:4]
	}
	title := strings.Join(words, " ")
	if title == "" {
		title = "New Project"
	}
	return title + " - Main PRD"
}
