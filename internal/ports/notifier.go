package ports

// Notifier delivers human-readable trade notifications. Sends are
// fire-and-forget: implementations must never block the caller on a slow
// channel and never surface delivery failures to the engine.
type Notifier interface {
	// Send enqueues a message for delivery.
	Send(text string)

	// Close flushes pending messages and stops the delivery worker.
	Close()
}
