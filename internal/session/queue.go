package session

import (
	"sync"

	"github.com/roach88/patternlock/internal/ir"
)

// commandQueue is an unbounded, thread-safe FIFO of commands.
//
// Producers call Enqueue from any goroutine; the Run loop drains it with
// TryDequeue and parks on Wait. The signal channel has a buffer of one so
// that many enqueues coalesce into a single wake-up.
type commandQueue struct {
	mu       sync.Mutex
	commands []ir.Command
	closed   bool
	signal   chan struct{}
}

func newCommandQueue() *commandQueue {
	return &commandQueue{
		commands: make([]ir.Command, 0, 64),
		signal:   make(chan struct{}, 1),
	}
}

// Enqueue adds a command to the back of the queue.
// Returns false if the queue is closed.
func (q *commandQueue) Enqueue(cmd ir.Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.commands = append(q.commands, cmd)

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes and returns the front command without blocking.
func (q *commandQueue) TryDequeue() (ir.Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.commands) == 0 {
		return ir.Command{}, false
	}

	cmd := q.commands[0]
	// Release the args map held by the backing array.
	q.commands[0] = ir.Command{}

	if len(q.commands) == 1 {
		q.commands = q.commands[:0]
	} else {
		q.commands = q.commands[1:]
	}

	return cmd, true
}

// Wait returns a channel that signals when commands may be available.
// The channel is closed by Close.
func (q *commandQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of pending commands.
func (q *commandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.commands)
}

// Closed reports whether Close has been called.
func (q *commandQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close stops accepting commands and wakes any waiter.
// Commands already queued can still be dequeued.
func (q *commandQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
