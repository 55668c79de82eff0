package gmail_tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"github.com/galeproject/gale/internal/gmail"
	"github.com/galeproject/gale/internal/retry"
	"github.com/galeproject/gale/internal/tools"
)

type fakeMailer struct {
	sent       []*gmail.EmailMessage
	created    []*gmail.EmailMessage
	updated    map[string]*gmail.EmailMessage
	drafts     []gmail.DraftInfo
	failWith   error
	failOnce   bool
	calls      int
	listCalled bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{updated: make(map[string]*gmail.EmailMessage)}
}

// fail consumes the configured failure. With failOnce set only the
// first call errors.
func (f *fakeMailer) fail() error {
	err := f.failWith
	if err != nil && f.failOnce {
		f.failWith = nil
	}
	return err
}

func (f *fakeMailer) SendEmail(msg *gmail.EmailMessage) (*gmail.SendResult, error) {
	f.calls++
	if err := f.fail(); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	f.sent = append(f.sent, msg)
	return &gmail.SendResult{MessageID: "m1", ThreadID: "t1"}, nil
}

func (f *fakeMailer) CreateDraft(msg *gmail.EmailMessage) (*gmail.DraftInfo, error) {
	f.calls++
	if err := f.fail(); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	f.created = append(f.created, msg)
	return &gmail.DraftInfo{ID: "d1"}, nil
}

func (f *fakeMailer) UpdateDraft(draftID string, msg *gmail.EmailMessage) (*gmail.DraftInfo, error) {
	f.calls++
	if err := f.fail(); err != nil {
		return nil, err
	}
	if draftID == "" {
		return nil, errors.New("draft_id is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	f.updated[draftID] = msg
	return &gmail.DraftInfo{ID: draftID}, nil
}

func (f *fakeMailer) ListDrafts(max int64) ([]gmail.DraftInfo, error) {
	f.calls++
	f.listCalled = true
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.drafts, nil
}

// fastRetry is the production transient classifier with test-friendly
// backoff intervals.
func fastRetry() retry.Policy {
	return retry.Policy{
		MaxAttempts:     2,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		Multiplier:      1,
		Transient:       gmail.IsTransient,
	}
}

func newTestRegistry(t *testing.T, m Mailer) *tools.Registry {
	t.Helper()
	r := tools.NewRegistry(nil)
	require.NoError(t, RegisterEmailTools(r, NewServiceWithMailer(m)))
	return r
}

func TestRegisterEmailTools(t *testing.T) {
	r := newTestRegistry(t, newFakeMailer())
	assert.Equal(t, []string{"add_draft", "list_drafts", "send_email", "update_draft"}, r.Names())
}

func TestSendEmail(t *testing.T) {
	mailer := newFakeMailer()
	r := newTestRegistry(t, mailer)

	result := r.Dispatch(context.Background(), &genai.FunctionCall{
		Name: "send_email",
		Args: map[string]any{"to": "alice@example.com", "subject": "Hi", "body": "Hello"},
	})

	require.False(t, result.IsError(), "unexpected error: %v", result.Response["error"])
	assert.Equal(t, "sent", result.Response["status"])
	assert.Equal(t, "m1", result.Response["message_id"])
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com", mailer.sent[0].To)
}

func TestSendEmailMissingRecipient(t *testing.T) {
	mailer := newFakeMailer()
	r := newTestRegistry(t, mailer)

	result := r.Dispatch(context.Background(), &genai.FunctionCall{
		Name: "send_email",
		Args: map[string]any{"subject": "Hi", "body": "Hello"},
	})

	assert.True(t, result.IsError())
	assert.Contains(t, result.Response["error"], `missing required argument "to"`)
	assert.Empty(t, mailer.sent, "no email may be sent on validation failure")
}

func TestAddDraft(t *testing.T) {
	mailer := newFakeMailer()
	r := newTestRegistry(t, mailer)

	result := r.Dispatch(context.Background(), &genai.FunctionCall{
		Name: "add_draft",
		Args: map[string]any{"to": "bob@example.com", "subject": "Plan", "body": "Draft body"},
	})

	require.False(t, result.IsError())
	assert.Equal(t, "d1", result.Response["draft_id"])
	require.Len(t, mailer.created, 1)
}

func TestAddDraftInvalidRecipient(t *testing.T) {
	mailer := newFakeMailer()
	r := newTestRegistry(t, mailer)

	result := r.Dispatch(context.Background(), &genai.FunctionCall{
		Name: "add_draft",
		Args: map[string]any{"to": "nope", "subject": "Plan", "body": "Draft"},
	})

	assert.True(t, result.IsError())
	assert.Contains(t, result.Response["error"], "invalid recipient address")
	assert.Empty(t, mailer.created)
}

func TestUpdateDraft(t *testing.T) {
	mailer := newFakeMailer()
	r := newTestRegistry(t, mailer)

	result := r.Dispatch(context.Background(), &genai.FunctionCall{
		Name: "update_draft",
		Args: map[string]any{
			"draft_id": "d42",
			"to":       "bob@example.com",
			"subject":  "Updated",
			"body":     "New text",
		},
	})

	require.False(t, result.IsError())
	assert.Equal(t, "d42", result.Response["draft_id"])
	require.Contains(t, mailer.updated, "d42")
	assert.Equal(t, "Updated", mailer.updated["d42"].Subject)
}

func TestUpdateDraftMissingID(t *testing.T) {
	r := newTestRegistry(t, newFakeMailer())

	result := r.Dispatch(context.Background(), &genai.FunctionCall{
		Name: "update_draft",
		Args: map[string]any{"to": "bob@example.com", "subject": "s", "body": "b"},
	})

	assert.True(t, result.IsError())
	assert.Contains(t, result.Response["error"], `missing required argument "draft_id"`)
}

func TestListDrafts(t *testing.T) {
	mailer := newFakeMailer()
	mailer.drafts = []gmail.DraftInfo{
		{ID: "d1", To: "a@b.com", Subject: "One", Body: "first"},
		{ID: "d2", To: "c@d.com", Subject: "Two", Body: "second"},
	}
	r := newTestRegistry(t, mailer)

	result := r.Dispatch(context.Background(), &genai.FunctionCall{
		Name: "list_drafts",
		Args: map[string]any{},
	})

	require.False(t, result.IsError())
	assert.Equal(t, 2, result.Response["count"])
	list, ok := result.Response["drafts"].([]map[string]any)
	require.True(t, ok)
	assert.Equal(t, "d1", list[0]["draft_id"])
	assert.Equal(t, "One", list[0]["subject"])
}

func TestUpstreamErrorBecomesToolError(t *testing.T) {
	mailer := newFakeMailer()
	mailer.failWith = &googleapi.Error{Code: 400, Message: "invalid message"}
	r := newTestRegistry(t, mailer)

	result := r.Dispatch(context.Background(), &genai.FunctionCall{
		Name: "send_email",
		Args: map[string]any{"to": "a@b.com", "subject": "s", "body": "b"},
	})

	assert.True(t, result.IsError())
	assert.Contains(t, result.Response["error"], "invalid message")
	assert.Equal(t, 1, mailer.calls, "a rejected message must not be retried")
}

func TestSendEmailRetriesTransientFailure(t *testing.T) {
	mailer := newFakeMailer()
	mailer.failWith = &googleapi.Error{Code: 503, Message: "backend unavailable"}
	mailer.failOnce = true

	s := NewServiceWithMailer(mailer)
	s.policy = fastRetry()
	r := tools.NewRegistry(nil)
	require.NoError(t, RegisterEmailTools(r, s))

	result := r.Dispatch(context.Background(), &genai.FunctionCall{
		Name: "send_email",
		Args: map[string]any{"to": "a@b.com", "subject": "s", "body": "b"},
	})

	require.False(t, result.IsError(), "unexpected error: %v", result.Response["error"])
	assert.Equal(t, "sent", result.Response["status"])
	assert.Equal(t, 2, mailer.calls)
	require.Len(t, mailer.sent, 1)
}

func TestListDraftsRetriesTransientFailure(t *testing.T) {
	mailer := newFakeMailer()
	mailer.drafts = []gmail.DraftInfo{{ID: "d1"}}
	mailer.failWith = &googleapi.Error{Code: 429, Message: "rate limit exceeded"}
	mailer.failOnce = true

	s := NewServiceWithMailer(mailer)
	s.policy = fastRetry()
	r := tools.NewRegistry(nil)
	require.NoError(t, RegisterEmailTools(r, s))

	result := r.Dispatch(context.Background(), &genai.FunctionCall{
		Name: "list_drafts",
		Args: map[string]any{},
	})

	require.False(t, result.IsError())
	assert.Equal(t, 1, result.Response["count"])
	assert.Equal(t, 2, mailer.calls)
}
