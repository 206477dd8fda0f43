package server

import (
	"sync"
)

const ReloadRoute = "GET /dev/reload"

// reloadNotifier fans out template change signals to the open dev reload
// streams. Each subscriber has a one slot buffer, so a slow browser gets at
// most one pending reload.
type reloadNotifier struct {
	mu      sync.Mutex
	closed  bool
	nextID  int
	clients map[int]chan struct{}
}

func newReloadNotifier() *reloadNotifier {
	return &reloadNotifier{
		clients: make(map[int]chan struct{}),
	}
}

// Subscribe registers a listener. The returned func unsubscribes it. After
// Close the channel is nil.
func (n *reloadNotifier) Subscribe() (func(), <-chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return func() {}, nil
	}

	id := n.nextID
	n.nextID++

	ch := make(chan struct{}, 1)
	n.clients[id] = ch

	return func() {
		n.unsubscribe(id)
	}, ch
}

func (n *reloadNotifier) unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ch, ok := n.clients[id]; ok {
		close(ch)
		delete(n.clients, id)
	}
}

func (n *reloadNotifier) Notify() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}

	for _, ch := range n.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close ends every open stream.
func (n *reloadNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true

	for id, ch := range n.clients {
		close(ch)
		delete(n.clients, id)
	}
}
