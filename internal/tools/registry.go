package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"google.golang.org/genai"

	"github.com/galeproject/gale/internal/instrumentation"
	"github.com/galeproject/gale/internal/logging"
)

// Handler executes a tool call with validated arguments and returns the
// result payload handed back to the model.
type Handler func(ctx context.Context, args map[string]any) (map[string]any, error)

// Result is the outcome of a dispatch, ready to be appended to the
// conversation as a function response.
type Result struct {
	Name     string
	Response map[string]any
}

// IsError reports whether the result carries an error payload.
func (r Result) IsError() bool {
	_, ok := r.Response["error"]
	return ok
}

// FunctionResponse converts the result into the content part the model
// expects.
func (r Result) FunctionResponse() *genai.Part {
	return genai.NewPartFromFunctionResponse(r.Name, r.Response)
}

// Registry maps tool names to declarations and handlers.
type Registry struct {
	declarations map[string]*genai.FunctionDeclaration
	handlers     map[string]Handler
	metrics      *instrumentation.Metrics
	logger       *slog.Logger
}

// NewRegistry creates an empty registry. metrics may be nil.
func NewRegistry(metrics *instrumentation.Metrics) *Registry {
	return &Registry{
		declarations: make(map[string]*genai.FunctionDeclaration),
		handlers:     make(map[string]Handler),
		metrics:      metrics,
		logger:       slog.Default().With(logging.Service("tools")),
	}
}

// Register adds a tool. The declaration name must be unique.
func (r *Registry) Register(decl *genai.FunctionDeclaration, handler Handler) error {
	if decl == nil || decl.Name == "" {
		return fmt.Errorf("tool declaration requires a name")
	}
	if handler == nil {
		return fmt.Errorf("tool %s requires a handler", decl.Name)
	}
	if _, exists := r.declarations[decl.Name]; exists {
		return fmt.Errorf("tool %s is already registered", decl.Name)
	}
	r.declarations[decl.Name] = decl
	r.handlers[decl.Name] = handler
	return nil
}

// Declarations returns all registered declarations in stable name order,
// ready to be attached to a model call.
func (r *Registry) Declarations() []*genai.FunctionDeclaration {
	names := r.Names()
	decls := make([]*genai.FunctionDeclaration, 0, len(names))
	for _, name := range names {
		decls = append(decls, r.declarations[name])
	}
	return decls
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.declarations))
	for name := range r.declarations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch validates and executes a function call requested by the
// model. It always returns a usable Result; failures are encoded as
// error responses rather than raised.
func (r *Registry) Dispatch(ctx context.Context, call *genai.FunctionCall) Result {
	logger := logging.WithTool(r.logger, call.Name)
	start := time.Now()

	result := r.dispatch(ctx, call)

	success := !result.IsError()
	r.metrics.RecordToolInvocation(ctx, call.Name, time.Since(start), success)
	if success {
		logger.Info("tool dispatched", logging.Status(logging.StatusSuccess))
	} else {
		logger.Warn("tool dispatch failed",
			logging.Status(logging.StatusError),
			slog.Any("response", result.Response["error"]))
	}
	return result
}

func (r *Registry) dispatch(ctx context.Context, call *genai.FunctionCall) Result {
	decl, ok := r.declarations[call.Name]
	if !ok {
		return errorResult(call.Name, fmt.Sprintf("tool not found: %s", call.Name))
	}

	if err := validateArgs(decl, call.Args); err != nil {
		return errorResult(call.Name, err.Error())
	}

	response, err := r.handlers[call.Name](ctx, call.Args)
	if err != nil {
		return errorResult(call.Name, err.Error())
	}
	return Result{Name: call.Name, Response: response}
}

func errorResult(name, msg string) Result {
	return Result{Name: name, Response: map[string]any{"error": msg}}
}
