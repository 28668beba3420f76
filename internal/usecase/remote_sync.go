package usecase

import (
	"context"
	"log"
	"sync"
	"time"
)

// defaultSyncTimeout bounds a single background push
const defaultSyncTimeout = 15 * time.Second

// pushQueue holds the newest push not yet started for one component and user.
// At most one worker drains it, so pushes for a key never overlap or reorder.
type pushQueue struct {
	running bool
	action  string
	pending func(ctx context.Context) error
}

// RemoteSyncer runs best-effort pushes to the remote store in the background.
// Pushes are whole-state snapshots, so a push still waiting when a newer one
// arrives for the same key is replaced by it. Failures are logged and never
// surface to the caller that triggered them.
type RemoteSyncer struct {
	mu      sync.Mutex
	queues  map[string]*pushQueue
	wg      sync.WaitGroup
	timeout time.Duration
}

// NewRemoteSyncer creates a syncer whose pushes time out after timeout
func NewRemoteSyncer(timeout time.Duration) *RemoteSyncer {
	if timeout <= 0 {
		timeout = defaultSyncTimeout
	}
	return &RemoteSyncer{
		queues:  make(map[string]*pushQueue),
		timeout: timeout,
	}
}

// Push schedules fn for component and userID. Pushes for the same pair run
// one at a time in call order, and the last one scheduled always runs last.
func (s *RemoteSyncer) Push(component, userID, action string, fn func(ctx context.Context) error) {
	key := component + "/" + userID

	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[key]
	if !ok {
		q = &pushQueue{}
		s.queues[key] = q
	}
	if q.pending != nil {
		log.Printf("[%s] Superseding pending %s push with %s", component, q.action, action)
	}
	q.action = action
	q.pending = fn

	if !q.running {
		q.running = true
		s.wg.Add(1)
		go s.drain(component, q)
	}
}

func (s *RemoteSyncer) drain(component string, q *pushQueue) {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		fn, action := q.pending, q.action
		if fn == nil {
			q.running = false
			s.mu.Unlock()
			return
		}
		q.pending = nil
		s.mu.Unlock()

		s.run(component, action, fn)
	}
}

func (s *RemoteSyncer) run(component, action string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		log.Printf("[%s] Failed to sync %s with backend: %v", component, action, err)
	}
}

// Flush blocks until every pending push has finished
func (s *RemoteSyncer) Flush() {
	s.wg.Wait()
}
