package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
)

func TestCreateDraftValidatesBeforeNetwork(t *testing.T) {
	c := &Client{}
	_, err := c.CreateDraft(&EmailMessage{To: "bad", Subject: "s", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipient address")
}

func TestUpdateDraftRequiresID(t *testing.T) {
	c := &Client{}
	_, err := c.UpdateDraft("", &EmailMessage{To: "a@b.com", Subject: "s", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft_id is required")
}

func TestUpdateDraftValidatesMessage(t *testing.T) {
	c := &Client{}
	_, err := c.UpdateDraft("draft-1", &EmailMessage{To: "a@b.com", Subject: "", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject is required")
}

func TestDraftInfoFromMessage(t *testing.T) {
	body := base64.RawURLEncoding.EncodeToString([]byte("See you at noon."))
	msg := &gmail.Message{
		Snippet: "See you at…",
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers: []*gmail.MessagePartHeader{
				{Name: "To", Value: "carol@example.com"},
				{Name: "Subject", Value: "Lunch"},
			},
			Body: &gmail.MessagePartBody{Data: body},
		},
	}

	info := draftInfoFromMessage("d1", msg)
	assert.Equal(t, "d1", info.ID)
	assert.Equal(t, "carol@example.com", info.To)
	assert.Equal(t, "Lunch", info.Subject)
	assert.Equal(t, "See you at noon.", info.Body)
}

func TestDraftInfoFromMultipartMessage(t *testing.T) {
	body := base64.RawURLEncoding.EncodeToString([]byte("plain text part"))
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Headers: []*gmail.MessagePartHeader{
				{Name: "subject", Value: "Mixed"},
			},
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: base64.RawURLEncoding.EncodeToString([]byte("<p>html</p>"))}},
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: body}},
			},
		},
	}

	info := draftInfoFromMessage("d2", msg)
	assert.Equal(t, "Mixed", info.Subject)
	assert.Equal(t, "plain text part", info.Body)
}

func TestDraftInfoFromNilPayload(t *testing.T) {
	info := draftInfoFromMessage("d3", &gmail.Message{})
	assert.Equal(t, "d3", info.ID)
	assert.Empty(t, info.Body)
}
