// Package notifier fans out change signals from the file watcher to open
// SSE connections.
package notifier

import (
	"sync"
	"sync/atomic"
)

// Notifier broadcasts change signals to all subscribed listeners.
// A signal carries no payload; listeners re-read checks and results.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
	version   atomic.Uint64
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives a signal after every change and
// a function that cancels the subscription. Cancel may be called more than once.
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, ch)
			n.mu.Unlock()
			close(ch)
		})
	}
}

// Broadcast signals every listener.
// A listener with a pending signal is skipped; it re-reads state once for both.
func (n *Notifier) Broadcast() {
	n.version.Add(1)

	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Version returns the number of broadcasts so far.
func (n *Notifier) Version() uint64 {
	return n.version.Load()
}

// Listeners returns the number of active subscriptions.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
