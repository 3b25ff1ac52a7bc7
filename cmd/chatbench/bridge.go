package main

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/chatbench/pkg/chats/chat"
	"github.com/germanamz/chatbench/pkg/params"
	"github.com/germanamz/chatbench/pkg/session"
	"github.com/germanamz/chatbench/pkg/trace"
)

// sender is the part of *tea.Program the bridge uses.
type sender interface {
	Send(msg tea.Msg)
}

// startBridge launches the event watcher and chat watcher goroutines.
// Both goroutines only call p.Send(); they never touch model state directly.
// cursor is the number of chat messages the model already shows. The
// returned function cancels the bridge and waits for both goroutines.
func startBridge(ctx context.Context, p sender, c *chat.Chat, events *session.EventBus, cursor int) context.CancelFunc {
	bridgeCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	sub := events.Subscribe(64)

	// Event watcher: converts session events to bubbletea messages.
	wg.Go(func() {
		defer events.Unsubscribe(sub)
		for {
			select {
			case <-bridgeCtx.Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				switch ev.Kind {
				case session.EventDispatchEnd:
					if t, ok := ev.Data.(trace.Trace); ok {
						p.Send(traceMsg{trace: t})
					}
				case session.EventParametersChanged:
					if pp, ok := ev.Data.(params.Parameters); ok {
						p.Send(paramsChangedMsg{params: pp})
					}
				}
			}
		}
	})

	// Chat watcher: detects new messages via Wait/Since and forwards them.
	wg.Go(func() {
		for {
			_, err := c.Wait(bridgeCtx, cursor)

			// Always drain pending messages even when context is cancelled.
			for _, msg := range c.Since(cursor) {
				p.Send(chatMessageMsg{msg: msg})
				cursor++
			}

			if err != nil {
				return
			}
		}
	})

	return func() {
		cancel()
		wg.Wait()
	}
}
