package gmail

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/galeproject/gale/internal/logging"
)

// DraftInfo summarizes a stored draft for the model.
type DraftInfo struct {
	ID      string
	To      string
	Subject string
	Body    string
}

// CreateDraft stores msg as a new draft and returns its id.
func (c *Client) CreateDraft(msg *EmailMessage) (*DraftInfo, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	draft, err := c.svc.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{Raw: msg.raw()},
	}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	logging.WithOperation(slog.Default(), "gmail.draft_create").Debug("draft created",
		slog.String("draft_id", draft.Id))
	return &DraftInfo{ID: draft.Id, To: msg.To, Subject: msg.Subject, Body: msg.Body}, nil
}

// UpdateDraft replaces the content of an existing draft.
func (c *Client) UpdateDraft(draftID string, msg *EmailMessage) (*DraftInfo, error) {
	if strings.TrimSpace(draftID) == "" {
		return nil, fmt.Errorf("draft_id is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	draft, err := c.svc.Drafts.Update("me", draftID, &gmail.Draft{
		Message: &gmail.Message{Raw: msg.raw()},
	}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update draft %s: %w", draftID, err)
	}

	logging.WithOperation(slog.Default(), "gmail.draft_update").Debug("draft updated",
		slog.String("draft_id", draft.Id))
	return &DraftInfo{ID: draft.Id, To: msg.To, Subject: msg.Subject, Body: msg.Body}, nil
}

// ListDrafts returns up to max drafts with their recipient, subject and
// body resolved. The list endpoint only returns ids, so each draft is
// fetched individually.
func (c *Client) ListDrafts(max int64) ([]DraftInfo, error) {
	if max <= 0 {
		max = 20
	}

	res, err := c.svc.Drafts.List("me").MaxResults(max).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	drafts := make([]DraftInfo, 0, len(res.Drafts))
	for _, d := range res.Drafts {
		full, err := c.svc.Drafts.Get("me", d.Id).Format("full").Do()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch draft %s: %w", d.Id, err)
		}
		drafts = append(drafts, draftInfoFromMessage(full.Id, full.Message))
	}

	logging.WithOperation(slog.Default(), "gmail.draft_list").Debug("drafts listed",
		slog.Int("count", len(drafts)))
	return drafts, nil
}

// draftInfoFromMessage extracts the headers and body text of a draft's
// underlying message.
func draftInfoFromMessage(id string, msg *gmail.Message) DraftInfo {
	info := DraftInfo{ID: id}
	if msg == nil || msg.Payload == nil {
		return info
	}

	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "to":
			info.To = h.Value
		case "subject":
			info.Subject = h.Value
		}
	}

	info.Body = extractBody(msg.Payload)
	if info.Body == "" {
		info.Body = msg.Snippet
	}
	return info
}

// extractBody walks the MIME tree looking for the first text/plain part.
func extractBody(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}
	if part.Body != nil && part.Body.Data != "" &&
		(part.MimeType == "text/plain" || part.MimeType == "") {
		data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(part.Body.Data, "="))
		if err != nil {
			return ""
		}
		return string(data)
	}
	for _, p := range part.Parts {
		if body := extractBody(p); body != "" {
			return body
		}
	}
	return ""
}
