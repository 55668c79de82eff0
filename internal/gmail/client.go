package gmail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/galeproject/gale/internal/google"
)

// Client wraps the Gmail Users service and People service.
type Client struct {
	svc       *gmail.UsersService
	peopleSvc *people.Service
}

// HasToken checks if a valid OAuth token exists.
func HasToken() bool {
	return google.HasToken()
}

// IsTransient reports whether a Gmail call failure is worth retrying.
// Rate limits, server-side errors, timeouts and connection failures are
// transient; auth failures and rejected messages are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var opErr *net.OpError
		return errors.As(urlErr.Err, &opErr)
	}
	return false
}

// NewClient creates a new Gmail client with OAuth2 authentication.
// It fails if no cached token exists; run 'gale auth' to obtain one.
func NewClient(ctx context.Context, creds google.ClientCredentials) (*Client, error) {
	httpClient, err := google.HTTPClient(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	peopleSvc, err := people.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}

	return &Client{
		svc:       svc.Users,
		peopleSvc: peopleSvc,
	}, nil
}

// Profile holds the authenticated user's display name and email address.
type Profile struct {
	GivenName   string
	DisplayName string
	Email       string
}

// UserProfile fetches the user's name and email via the People API.
func (c *Client) UserProfile() (*Profile, error) {
	person, err := c.peopleSvc.People.Get("people/me").
		PersonFields("names,emailAddresses").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}

	p := &Profile{}
	if len(person.Names) > 0 {
		p.GivenName = person.Names[0].GivenName
		p.DisplayName = person.Names[0].DisplayName
	}
	if len(person.EmailAddresses) > 0 {
		p.Email = person.EmailAddresses[0].Value
	}
	return p, nil
}
