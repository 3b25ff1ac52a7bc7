package main

import (
	"time"

	"github.com/germanamz/chatbench/pkg/backend"
	"github.com/germanamz/chatbench/pkg/chats/message"
	"github.com/germanamz/chatbench/pkg/params"
	"github.com/germanamz/chatbench/pkg/trace"
)

// chatMessageMsg delivers a new conversation message from the bridge goroutine.
type chatMessageMsg struct {
	msg message.Message
}

// traceMsg delivers the trace of a settled dispatch.
type traceMsg struct {
	trace trace.Trace
}

// paramsChangedMsg carries the session's parameters after a change.
type paramsChangedMsg struct {
	params params.Parameters
}

// inputSubmitMsg carries the text the user submitted from the input box.
type inputSubmitMsg struct {
	text string
}

// sendCompleteMsg is returned by the tea.Cmd that calls sess.Send.
type sendCompleteMsg struct {
	err      error
	duration time.Duration
}

// uploadCompleteMsg is returned by the tea.Cmd that calls sess.Upload.
type uploadCompleteMsg struct {
	file string
	resp backend.MessageResponse
	err  error
}

// syncCompleteMsg is returned by the tea.Cmd that calls sess.SyncParameters.
type syncCompleteMsg struct {
	resp backend.MessageResponse
	err  error
}

// healthCompleteMsg is returned by the tea.Cmd that calls sess.Health.
type healthCompleteMsg struct {
	resp backend.HealthResponse
	err  error
}

// datasetEntriesMsg carries the JSON files found for the dataset picker.
type datasetEntriesMsg struct {
	entries []string
}

// initDrainMsg fires after a short delay so that stale terminal responses
// (e.g. OSC 11 background-color replies) are discarded before focusing input.
type initDrainMsg struct{}
