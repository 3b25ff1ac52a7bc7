// Package providers groups the model backends the chatbench server can
// answer chat requests with.
//
// Sub-packages:
//   - [github.com/germanamz/chatbench/pkg/providers/gemini]: Google Gemini generateContent API
//   - [github.com/germanamz/chatbench/pkg/providers/openai]: OpenAI-compatible Chat Completions via go-openai (also used for xAI Grok)
//   - [github.com/germanamz/chatbench/pkg/providers/anthropic]: Anthropic Messages API
//   - [github.com/germanamz/chatbench/pkg/providers/echo]: offline completer that repeats the prompt
//   - [github.com/germanamz/chatbench/pkg/providers/provider]: factory that builds a completer from its kind
package providers
