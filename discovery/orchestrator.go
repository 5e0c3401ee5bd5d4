// orchestrator.go - Generates knowledge-base answers for a product's discovery questions
//
// Generation is sequential: each question's chat call is awaited before the
// next starts, so upstream rate limits hold, progress is reported in question
// order and logs are deterministic. A failing question never aborts the pass;
// its failure is recorded as a warning outcome and the pass continues.

package discovery

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-discovery-backend/apperrors"
	"go-discovery-backend/logger"
	"go-discovery-backend/models"
)

// ChatClient sends a composed message to a knowledge base workspace.
type ChatClient interface {
	SendMessage(ctx context.Context, workspace, message string) (string, error)
}

type eventPublisher interface {
	Publish(topic string, payload any) error
}

// TopicGenerationCompleted is published after every bulk pass.
const TopicGenerationCompleted = "generation/completed"

// Request carries the session context shared by every question of a pass.
type Request struct {
	CustomerName string
	ProjectName  string
	Answers      map[string]string // questionId -> customer answer
}

func (r Request) answer(questionID string) (string, bool) {
	a := r.Answers[questionID]
	return a, strings.TrimSpace(a) != ""
}

// Progress is reported after each question of a bulk pass completes.
type Progress struct {
	QuestionID string
	Index      int // position among eligible questions, 0-based
	Total      int // number of eligible questions
	Outcome    Outcome
}

// BatchResult is the outcome of one bulk pass.
type BatchResult struct {
	Outcomes         map[string]Outcome `json:"results"`
	Statuses         map[string]Status  `json:"statuses"`
	ResultsAvailable bool               `json:"showResults"`
}

// GeneratedAnswers renders the outcomes as the questionId -> text map that is saved with a result.
func (b BatchResult) GeneratedAnswers() map[string]string {
	out := make(map[string]string, len(b.Outcomes))
	for id, o := range b.Outcomes {
		out[id] = o.Display()
	}
	return out
}

// pass tracks question status for one generation pass. It is private to
// that pass and never shared between invocations.
type pass struct {
	mu       sync.Mutex
	statuses map[string]Status
	outcomes map[string]Outcome
}

func newPass(questions []models.DiscoveryQuestion) *pass {
	p := &pass{
		statuses: make(map[string]Status, len(questions)),
		outcomes: map[string]Outcome{},
	}
	for _, q := range questions {
		p.statuses[q.ID] = StatusIdle
	}
	return p
}

func (p *pass) set(id string, s Status) {
	p.mu.Lock()
	p.statuses[id] = s
	p.mu.Unlock()
}

func (p *pass) record(id string, o Outcome) {
	p.mu.Lock()
	p.outcomes[id] = o
	p.statuses[id] = o.Status()
	p.mu.Unlock()
}

func (p *pass) result() BatchResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	statuses := make(map[string]Status, len(p.statuses))
	for id, s := range p.statuses {
		statuses[id] = s
	}
	outcomes := make(map[string]Outcome, len(p.outcomes))
	for id, o := range p.outcomes {
		outcomes[id] = o
	}
	return BatchResult{Outcomes: outcomes, Statuses: statuses, ResultsAvailable: len(outcomes) > 0}
}

type Orchestrator struct {
	resolver *Resolver
	chat     ChatClient
	events   eventPublisher
	log      *logger.Logger
}

func NewOrchestrator(resolver *Resolver, chat ChatClient, events eventPublisher, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		chat:     chat,
		events:   events,
		log:      log.With("component", "orchestrator"),
	}
}

// GenerateOne generates the answer for a single question. A blank answer
// fails with apperrors.ErrAnswerRequired before anything is sent.
func (o *Orchestrator) GenerateOne(ctx context.Context, req Request, q models.DiscoveryQuestion) (Outcome, error) {
	answer, ok := req.answer(q.ID)
	if !ok {
		return Outcome{}, apperrors.New(apperrors.ErrAnswerRequired, "Please provide an answer before generating a response.")
	}
	return o.generate(ctx, req, q, answer), nil
}

// GenerateAll walks the product's questions in order. Every answered question
// is marked loading up front, then generated one at a time; unanswered
// questions stay idle and get no outcome. onProgress may be nil.
func (o *Orchestrator) GenerateAll(ctx context.Context, req Request, product models.Product, onProgress func(Progress)) BatchResult {
	p := newPass(product.Questions)

	var eligible []models.DiscoveryQuestion
	for _, q := range product.Questions {
		if _, ok := req.answer(q.ID); ok {
			eligible = append(eligible, q)
			p.set(q.ID, StatusLoading)
		}
	}

	start := time.Now()
	for i, q := range eligible {
		answer, _ := req.answer(q.ID)
		outcome := o.generate(ctx, req, q, answer)
		p.record(q.ID, outcome)
		if onProgress != nil {
			onProgress(Progress{QuestionID: q.ID, Index: i, Total: len(eligible), Outcome: outcome})
		}
	}

	result := p.result()
	warnings := 0
	for _, oc := range result.Outcomes {
		if oc.IsWarning() {
			warnings++
		}
	}
	o.log.Info("generation pass finished",
		"product_id", product.ID,
		"eligible", len(eligible),
		"warnings", warnings,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	o.publish(product, len(eligible), warnings)
	return result
}

// generate never returns an error: every failure becomes a warning outcome.
func (o *Orchestrator) generate(ctx context.Context, req Request, q models.DiscoveryQuestion, answer string) Outcome {
	log := o.log.With("question_id", q.ID, "category", q.Category)

	workspace, err := o.resolver.Workspace(q.Category)
	if err != nil {
		log.Warn("question category has no workspace mapping")
		return Warning(unmappedMessage(q.Category))
	}

	kind, template := o.resolver.Template(q.Category)
	message := Compose(PromptInput{
		Template:     template,
		CustomerName: req.CustomerName,
		ProjectName:  req.ProjectName,
		Category:     q.Category,
		Question:     q.Question,
		Answer:       answer,
	})

	response, err := o.chat.SendMessage(ctx, workspace, message)
	if err != nil {
		class, text := Classify(err)
		log.Error("knowledge base chat failed", "workspace", workspace, "class", class, "error", err)
		return Warning(text)
	}
	response = strings.TrimSpace(response)
	if response == "" {
		log.Warn("knowledge base returned an empty response", "workspace", workspace)
		return Warning(msgEmptyResponse)
	}

	log.Debug("answer generated", "workspace", workspace, "template", kind)
	return Success(response)
}

func (o *Orchestrator) publish(product models.Product, eligible, warnings int) {
	if o.events == nil {
		return
	}
	payload := map[string]any{
		"product_id":   product.ID,
		"product_name": product.Name,
		"generated":    eligible - warnings,
		"warnings":     warnings,
	}
	if err := o.events.Publish(TopicGenerationCompleted, payload); err != nil {
		o.log.Warn("publish generation event failed", "error", err)
	}
}
