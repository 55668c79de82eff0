package gmail_tools

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/galeproject/gale/internal/gmail"
	"github.com/galeproject/gale/internal/google"
	"github.com/galeproject/gale/internal/retry"
	"github.com/galeproject/gale/internal/tools"
)

// Mailer is the subset of the Gmail client the tools need. It is an
// interface so tests can substitute a fake.
type Mailer interface {
	SendEmail(msg *gmail.EmailMessage) (*gmail.SendResult, error)
	CreateDraft(msg *gmail.EmailMessage) (*gmail.DraftInfo, error)
	UpdateDraft(draftID string, msg *gmail.EmailMessage) (*gmail.DraftInfo, error)
	ListDrafts(max int64) ([]gmail.DraftInfo, error)
}

// Service provides the Gmail-backed tool handlers. The underlying client
// is constructed on first use, and calls are retried on transient
// failures.
type Service struct {
	creds  google.ClientCredentials
	client Mailer
	policy retry.Policy
}

// NewService creates a Service that will authenticate with creds when
// the first email tool runs.
func NewService(creds google.ClientCredentials) *Service {
	return &Service{creds: creds, policy: retry.DefaultPolicy(gmail.IsTransient)}
}

// NewServiceWithMailer creates a Service bound to an existing Mailer,
// used in tests.
func NewServiceWithMailer(m Mailer) *Service {
	return &Service{client: m, policy: retry.DefaultPolicy(gmail.IsTransient)}
}

// mailer returns the cached client, creating it on first use.
func (s *Service) mailer(ctx context.Context) (Mailer, error) {
	if s.client != nil {
		return s.client, nil
	}
	if !gmail.HasToken() {
		return nil, fmt.Errorf("not authenticated with Google; ask the user to run 'gale auth' and try again")
	}
	client, err := gmail.NewClient(ctx, s.creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client: %w", err)
	}
	s.client = client
	return s.client, nil
}

// RegisterEmailTools registers all email tools with the registry.
func RegisterEmailTools(r *tools.Registry, s *Service) error {
	for _, t := range []struct {
		decl    *genai.FunctionDeclaration
		handler tools.Handler
	}{
		{sendEmailDecl(), s.handleSendEmail},
		{addDraftDecl(), s.handleAddDraft},
		{updateDraftDecl(), s.handleUpdateDraft},
		{listDraftsDecl(), s.handleListDrafts},
	} {
		if err := r.Register(t.decl, t.handler); err != nil {
			return fmt.Errorf("failed to register email tools: %w", err)
		}
	}
	return nil
}

func sendEmailDecl() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "send_email",
		Description: "Sends an email from the user's Gmail account.",
		Parameters:  emailSchema(false),
	}
}

func addDraftDecl() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "add_draft",
		Description: "Saves a composed email into the user's Gmail drafts.",
		Parameters:  emailSchema(false),
	}
}

func updateDraftDecl() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "update_draft",
		Description: "Updates a pre-existing Gmail draft identified by its draft id.",
		Parameters:  emailSchema(true),
	}
}

func listDraftsDecl() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "list_drafts",
		Description: "Returns the user's Gmail drafts with draft id, recipient, subject and body.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"max": {
					Type:        genai.TypeNumber,
					Description: "Maximum number of drafts to return (default 20).",
				},
			},
		},
	}
}

// emailSchema builds the shared to/subject/body parameter schema,
// optionally with the draft_id used by update_draft.
func emailSchema(withDraftID bool) *genai.Schema {
	properties := map[string]*genai.Schema{
		"to": {
			Type:        genai.TypeString,
			Description: "Email address of the receiver.",
		},
		"subject": {
			Type:        genai.TypeString,
			Description: "Subject of the email.",
		},
		"body": {
			Type:        genai.TypeString,
			Description: "Actual body of the email.",
		},
	}
	required := []string{"to", "subject", "body"}

	if withDraftID {
		properties["draft_id"] = &genai.Schema{
			Type:        genai.TypeString,
			Description: "Id of the draft to be updated.",
		}
		required = append([]string{"draft_id"}, required...)
	}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   required,
	}
}

func messageFromArgs(args map[string]any) *gmail.EmailMessage {
	msg := &gmail.EmailMessage{}
	if v, ok := args["to"].(string); ok {
		msg.To = v
	}
	if v, ok := args["subject"].(string); ok {
		msg.Subject = v
	}
	if v, ok := args["body"].(string); ok {
		msg.Body = v
	}
	return msg
}

func (s *Service) handleSendEmail(ctx context.Context, args map[string]any) (map[string]any, error) {
	client, err := s.mailer(ctx)
	if err != nil {
		return nil, err
	}
	sent, err := retry.Do(ctx, s.policy, func() (*gmail.SendResult, error) {
		return client.SendEmail(messageFromArgs(args))
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"status":     "sent",
		"message_id": sent.MessageID,
		"thread_id":  sent.ThreadID,
	}, nil
}

func (s *Service) handleAddDraft(ctx context.Context, args map[string]any) (map[string]any, error) {
	client, err := s.mailer(ctx)
	if err != nil {
		return nil, err
	}
	draft, err := retry.Do(ctx, s.policy, func() (*gmail.DraftInfo, error) {
		return client.CreateDraft(messageFromArgs(args))
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"status":   "draft created",
		"draft_id": draft.ID,
	}, nil
}

func (s *Service) handleUpdateDraft(ctx context.Context, args map[string]any) (map[string]any, error) {
	client, err := s.mailer(ctx)
	if err != nil {
		return nil, err
	}
	draftID, _ := args["draft_id"].(string)
	draft, err := retry.Do(ctx, s.policy, func() (*gmail.DraftInfo, error) {
		return client.UpdateDraft(draftID, messageFromArgs(args))
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"status":   "draft updated",
		"draft_id": draft.ID,
	}, nil
}

func (s *Service) handleListDrafts(ctx context.Context, args map[string]any) (map[string]any, error) {
	client, err := s.mailer(ctx)
	if err != nil {
		return nil, err
	}

	max := int64(20)
	if v, ok := args["max"].(float64); ok && v > 0 {
		max = int64(v)
	}

	drafts, err := retry.Do(ctx, s.policy, func() ([]gmail.DraftInfo, error) {
		return client.ListDrafts(max)
	})
	if err != nil {
		return nil, err
	}

	list := make([]map[string]any, 0, len(drafts))
	for _, d := range drafts {
		list = append(list, map[string]any{
			"draft_id": d.ID,
			"to":       d.To,
			"subject":  d.Subject,
			"body":     d.Body,
		})
	}
	return map[string]any{
		"count":  len(list),
		"drafts": list,
	}, nil
}
