package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/firstlinehq/firstline/internal/tools"
)

// node is a state of the pipeline state machine.
type node int

const (
	nodeClassify node = iota
	nodeRetrieveContext
	nodeCheckEscalation
	nodeGenerateEscalated
	nodePlanTools
	nodeRunTools
	nodeResolveWithTools
	nodeGenerateResponse
	nodeValidateResponse
	nodeEnd
)

func (n node) String() string {
	switch n {
	case nodeClassify:
		return "classify"
	case nodeRetrieveContext:
		return "retrieve_context"
	case nodeCheckEscalation:
		return "check_escalation"
	case nodeGenerateEscalated:
		return "generate_escalated_response"
	case nodePlanTools:
		return "plan_tools"
	case nodeRunTools:
		return "run_tools"
	case nodeResolveWithTools:
		return "resolve_with_tools"
	case nodeGenerateResponse:
		return "generate_response"
	case nodeValidateResponse:
		return "validate_response"
	case nodeEnd:
		return "end"
	}
	return "unknown"
}

// Engine sequences the pipeline stages. It is safe for concurrent use: runs
// share only the read-only configuration, the backend, and the stateless
// tool registry.
type Engine struct {
	backend  *Backend
	registry *tools.Registry

	// variantMode is the configured prompt_variant value: "a", "b",
	// "random", "auto", or anything else for the default fallback.
	variantMode string

	tracer trace.Tracer
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	Backend     *Backend
	Registry    *tools.Registry
	VariantMode string
}

func NewEngine(cfg EngineConfig) *Engine {
	backend := cfg.Backend
	if backend == nil {
		backend = NewBackend(BackendConfig{Registry: cfg.Registry})
	}
	registry := cfg.Registry
	if registry == nil {
		registry = tools.DefaultRegistry(nil)
	}
	return &Engine{
		backend:     backend,
		registry:    registry,
		variantMode: cfg.VariantMode,
		tracer:      otel.Tracer("firstline/pipeline"),
	}
}

// Run processes one inbound message through the state machine and returns
// the finalized outcome. It never returns an error and never panics: any
// unexpected fault is converted into a safe, escalation-flagged outcome at
// this boundary.
func (e *Engine) Run(ctx context.Context, req Request) (out Outcome) {
	runID := uuid.NewString()

	ctx, span := e.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("pipeline fault", "run", runID, "panic", r)
			out = faultOutcome(fmt.Sprintf("%v", r))
		}
		span.SetAttributes(
			attribute.String("pipeline.intent", string(out.Intent)),
			attribute.Bool("pipeline.escalated", out.RequiresEscalation),
		)
	}()

	slog.Debug("pipeline run started", "run", runID, "chars", len(req.Message))

	st := newState(req)
	for n := nodeClassify; n != nodeEnd; n = next(n, st) {
		e.step(ctx, n, st)
	}

	slog.Info("pipeline run complete",
		"run", runID,
		"intent", st.Intent,
		"escalated", st.RequiresEscalation,
		"variant", st.PromptVariant,
		"language", st.Language,
	)

	return st.outcome()
}

// next is the transition table. Guards read only state already written by
// the node just executed.
func next(n node, st *State) node {
	switch n {
	case nodeClassify:
		return nodeRetrieveContext
	case nodeRetrieveContext:
		return nodeCheckEscalation
	case nodeCheckEscalation:
		if st.RequiresEscalation {
			return nodeGenerateEscalated
		}
		return nodePlanTools
	case nodePlanTools:
		if len(st.PlannedCalls) > 0 {
			return nodeRunTools
		}
		return nodeGenerateResponse
	case nodeRunTools:
		return nodeResolveWithTools
	case nodeResolveWithTools, nodeGenerateResponse:
		return nodeValidateResponse
	case nodeGenerateEscalated, nodeValidateResponse:
		return nodeEnd
	}
	return nodeEnd
}

func (e *Engine) step(ctx context.Context, n node, st *State) {
	ctx, span := e.tracer.Start(ctx, "pipeline."+n.String())
	defer span.End()

	switch n {
	case nodeClassify:
		e.classify(ctx, st)
	case nodeRetrieveContext:
		e.retrieveContext(st)
	case nodeCheckEscalation:
		e.checkEscalation(st)
	case nodeGenerateEscalated:
		e.generateEscalated(st)
	case nodePlanTools:
		e.planTools(st)
	case nodeRunTools:
		e.runTools(ctx, st)
	case nodeResolveWithTools:
		e.resolveWithTools(ctx, st)
	case nodeGenerateResponse:
		e.generateResponse(ctx, st)
	case nodeValidateResponse:
		e.validateResponse(st)
	}
}

// faultOutcome is the safe terminal outcome for unexpected failures.
func faultOutcome(detail string) Outcome {
	return Outcome{
		Response:           "I apologize for the inconvenience. Let me connect you with a human agent.",
		Intent:             IntentError,
		RequiresEscalation: true,
		EscalationReason:   "Processing error: " + detail,
		SentimentScore:     0.0,
		Metadata:           Metadata{Error: detail},
	}
}
