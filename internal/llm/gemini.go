package llm

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/galeproject/gale/internal/logging"
)

// Gemini is a Provider backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	system *genai.Content
	logger *slog.Logger
}

// NewGemini creates a Gemini provider. systemPrompt seeds the model's
// behavior for every call; pass "" to omit the system instruction.
func NewGemini(ctx context.Context, apiKey, model, systemPrompt string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g := &Gemini{
		client: client,
		model:  model,
		logger: slog.Default().With(logging.Service("gemini")),
	}
	if systemPrompt != "" {
		g.system = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	return g, nil
}

// Generate sends the history to the model and decodes the reply. When
// tools is non-empty the declarations are attached so the model can
// request function calls.
func (g *Gemini) Generate(ctx context.Context, history []*genai.Content, tools []*genai.FunctionDeclaration) (*Reply, error) {
	config := &genai.GenerateContentConfig{}
	if g.system != nil {
		config.SystemInstruction = g.system
	}
	if len(tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: tools}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, history, config)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("model returned no candidates")
	}

	reply := &Reply{
		Text:          resp.Text(),
		Content:       resp.Candidates[0].Content,
		FunctionCalls: resp.FunctionCalls(),
	}

	g.logger.Debug("model reply",
		slog.Int("function_calls", len(reply.FunctionCalls)),
		slog.Int("history_len", len(history)))

	return reply, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	return g.model
}
