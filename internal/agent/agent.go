package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/galeproject/gale/internal/instrumentation"
	"github.com/galeproject/gale/internal/llm"
	"github.com/galeproject/gale/internal/logging"
	"github.com/galeproject/gale/internal/retry"
	"github.com/galeproject/gale/internal/tools"
)

// roleTool marks function-response turns in the history.
const roleTool = genai.Role("tool")

// exitWords end the interactive session.
var exitWords = map[string]bool{
	"bye":     true,
	"exit":    true,
	"goodbye": true,
	"quit":    true,
}

// Options configures an Agent.
type Options struct {
	Provider llm.Provider
	Registry *tools.Registry

	// Metrics may be nil; model calls are then not recorded.
	Metrics *instrumentation.Metrics

	// ModelName labels model-call metrics.
	ModelName string

	// RetryPolicy wraps model calls. The zero value means a single
	// attempt without backoff.
	RetryPolicy retry.Policy

	// HistoryWindow bounds the number of history entries kept between
	// turns. Zero or negative disables trimming.
	HistoryWindow int

	// MaxFuncRounds bounds consecutive function-call rounds in a single
	// turn. Defaults to 8.
	MaxFuncRounds int

	// Greeting is the user's given name for the startup greeting; may be
	// empty.
	Greeting string
}

// Agent drives the conversation: one Turn per user input, dispatching
// function calls until the model settles on a text reply.
type Agent struct {
	provider      llm.Provider
	registry      *tools.Registry
	metrics       *instrumentation.Metrics
	modelName     string
	retryPolicy   retry.Policy
	window        int
	maxFuncRounds int
	greeting      string

	history []*genai.Content
	logger  *slog.Logger
}

// New creates an Agent. Provider and Registry are required.
func New(opts Options) (*Agent, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("agent requires a model provider")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("agent requires a tool registry")
	}

	maxRounds := opts.MaxFuncRounds
	if maxRounds <= 0 {
		maxRounds = 8
	}

	return &Agent{
		provider:      opts.Provider,
		registry:      opts.Registry,
		metrics:       opts.Metrics,
		modelName:     opts.ModelName,
		retryPolicy:   opts.RetryPolicy,
		window:        opts.HistoryWindow,
		maxFuncRounds: maxRounds,
		greeting:      opts.Greeting,
		logger:        slog.Default().With(logging.Service("agent")),
	}, nil
}

// History returns the current conversation history. Exposed for tests.
func (a *Agent) History() []*genai.Content {
	return a.history
}

// Turn processes one user input and returns the model's text reply.
// If the model call fails after retries, the history is restored to its
// pre-turn state so the failed turn leaves no trace.
func (a *Agent) Turn(ctx context.Context, userText string) (string, error) {
	saved := len(a.history)
	a.history = append(a.history, genai.NewContentFromText(userText, genai.RoleUser))

	for round := 0; ; round++ {
		reply, err := a.generate(ctx)
		if err != nil {
			a.history = a.history[:saved]
			return "", fmt.Errorf("model call failed: %w", err)
		}
		a.history = append(a.history, reply.Content)

		if len(reply.FunctionCalls) == 0 {
			a.trimHistory()
			return reply.Text, nil
		}

		if round+1 >= a.maxFuncRounds {
			a.history = a.history[:saved]
			return "", fmt.Errorf("model exceeded %d consecutive function-call rounds", a.maxFuncRounds)
		}

		parts := make([]*genai.Part, 0, len(reply.FunctionCalls))
		for _, call := range reply.FunctionCalls {
			result := a.registry.Dispatch(ctx, call)
			parts = append(parts, result.FunctionResponse())
		}
		a.history = append(a.history, genai.NewContentFromParts(parts, roleTool))
	}
}

// generate calls the model under the retry policy and records metrics.
func (a *Agent) generate(ctx context.Context) (*llm.Reply, error) {
	decls := a.registry.Declarations()

	start := time.Now()
	reply, err := retry.Do(ctx, a.retryPolicy, func() (*llm.Reply, error) {
		return a.provider.Generate(ctx, a.history, decls)
	})
	a.metrics.RecordModelCall(ctx, a.modelName, time.Since(start), err == nil)
	return reply, err
}

// trimHistory enforces the rolling window between turns. The cut never
// starts the window on a function-response entry, so a model call and
// its responses are always dropped together.
func (a *Agent) trimHistory() {
	if a.window <= 0 || len(a.history) <= a.window {
		return
	}
	cut := len(a.history) - a.window
	for cut < len(a.history) && a.history[cut].Role == string(roleTool) {
		cut++
	}
	a.history = a.history[cut:]
	a.logger.Debug("history trimmed", slog.Int("dropped", cut), slog.Int("kept", len(a.history)))
}

// Run drives the interactive session until an exit word or EOF.
func (a *Agent) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if a.greeting != "" {
		fmt.Fprintf(out, "Hello, %s!\n", a.greeting)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if exitWords[strings.ToLower(text)] {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		reply, err := a.Turn(ctx, text)
		if err != nil {
			a.logger.Error("turn failed", logging.Err(err))
			fmt.Fprintln(out, "Sorry, I could not reach the model. Please try again.")
			continue
		}
		fmt.Fprintf(out, "Gale: %s\n", strings.TrimSpace(reply))
	}
}
