// Package modeladapter holds the HTTP plumbing shared by everything in
// chatbench that talks to a model endpoint.
//
// It contains:
//   - [ModelAdapter], an embeddable base struct with JSON and multipart
//     helpers, auth, custom headers and a token usage tracker
//   - [Completer], the interface backend providers implement
//   - [github.com/germanamz/chatbench/pkg/modeladapter/usage]: thread-safe token usage tracker
//
// The chat client in pkg/backend and the providers under pkg/providers embed
// ModelAdapter; this package contains no provider-specific code.
package modeladapter
