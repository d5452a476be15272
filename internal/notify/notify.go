// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify delivers in-app notifications off the request path.
// Delivery is best effort: a failed insert is logged and dropped, never
// surfaced to the user action that triggered it.
package notify

import (
	"log/slog"
	"sync"

	"kalem/internal/models"
	"kalem/internal/store"
)

// defaultQueueSize bounds the in-flight notification backlog. When the
// queue is full new notifications are dropped rather than blocking the
// request that produced them.
const defaultQueueSize = 256

// Worker consumes queued notifications and persists them.
type Worker struct {
	notifications *store.NotificationStore
	queue         chan models.Notification
	wg            sync.WaitGroup
	stopOnce      sync.Once
}

// NewWorker creates a notification worker and starts its delivery
// goroutine. Call Stop to drain and shut it down.
func NewWorker(notifications *store.NotificationStore) *Worker {
	w := &Worker{
		notifications: notifications,
		queue:         make(chan models.Notification, defaultQueueSize),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Enqueue queues a notification for delivery. Self-notifications are
// silently ignored so callers don't have to special-case acting on your
// own content. Never blocks.
func (w *Worker) Enqueue(n models.Notification) {
	if n.Recipient == n.SenderID {
		return
	}
	select {
	case w.queue <- n:
	default:
		slog.Warn("notification queue full, dropping",
			"recipient", n.Recipient, "type", n.Type)
	}
}

// Stop drains the queue and waits for the delivery goroutine to exit.
// Safe to call more than once; Enqueue must not be called after Stop.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.queue) })
	w.wg.Wait()
}

func (w *Worker) run() {
	defer w.wg.Done()
	for n := range w.queue {
		if err := w.notifications.Create(&n); err != nil {
			slog.Error("notification delivery failed",
				"recipient", n.Recipient, "type", n.Type, "error", err)
		}
	}
}
