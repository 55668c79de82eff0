package llm

import (
	"context"
	"errors"
	"net"
	"net/url"

	"google.golang.org/genai"
)

// Reply is a single model response. Content carries the full turn for
// the conversation history; Text and FunctionCalls are the decoded
// views the loop acts on. A reply holds either text or function calls,
// never both empty.
type Reply struct {
	Text          string
	Content       *genai.Content
	FunctionCalls []*genai.FunctionCall
}

// Provider generates model replies for a conversation history with the
// given tool declarations attached.
type Provider interface {
	Generate(ctx context.Context, history []*genai.Content, tools []*genai.FunctionDeclaration) (*Reply, error)
}

// IsTransient classifies a model-call failure. Rate limits, request
// timeouts and server-side errors are worth retrying; authentication and
// malformed-request failures are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 408 || apiErr.Code == 429:
			return true
		case apiErr.Code >= 500:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// http.Client wraps every transport failure in *url.Error, so the
	// envelope alone says nothing; only connection-level failures inside
	// it (refused, reset, DNS) are worth another attempt. TLS rejections
	// and malformed URLs are not.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var opErr *net.OpError
		return errors.As(urlErr.Err, &opErr)
	}
	return false
}
