// Package gmail wraps the Gmail API operations the assistant exposes as
// tools: sending mail and creating, updating, and listing drafts. It also
// fetches the user's profile through the People API for the startup
// greeting.
//
// All operations act on the authenticated user ("me"). Argument
// validation happens at this boundary so that an invalid request never
// reaches the network.
package gmail
