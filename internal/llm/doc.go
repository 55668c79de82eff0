// Package llm abstracts access to the language model. The Provider
// interface keeps the conversation loop testable against a fake; the
// Gemini implementation talks to the Gemini API with function-calling
// declarations attached.
package llm
