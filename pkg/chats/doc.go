// Package chats provides the conversation data model used by chatbench.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/chatbench/pkg/chats/role]: conversation roles (user, assistant)
//   - [github.com/germanamz/chatbench/pkg/chats/message]: immutable message records
//   - [github.com/germanamz/chatbench/pkg/chats/chat]: append-only conversation store
//
// No transport code is included; chats is a foundation layer that the
// session and the terminal client build on.
package chats
