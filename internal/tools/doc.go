// Package tools implements the tool registry and dispatch. A tool is a
// function declaration handed to the model plus a handler executed when
// the model requests that function. Dispatch validates the model's
// arguments against the declaration, runs the handler, and wraps the
// outcome as a function response.
//
// Dispatch never returns a Go error: every failure (unknown tool,
// invalid arguments, upstream API error) becomes an error response fed
// back into the conversation so the model can react in natural language.
package tools
