// Package google handles OAuth2 authentication against Google services.
//
// Tokens are cached as JSON under the user cache directory and refreshed
// transparently through the oauth2 token source. The interactive consent
// flow (printing the URL, exchanging the authorization code) lives in the
// auth command; this package only implements the mechanics.
package google
