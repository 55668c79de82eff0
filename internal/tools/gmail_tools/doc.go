// Package gmail_tools declares the email tools exposed to the model:
// send_email, add_draft, update_draft and list_drafts. The Gmail client
// is built lazily on first use so a session that never touches email
// works without Google credentials.
package gmail_tools
