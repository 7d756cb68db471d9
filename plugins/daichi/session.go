package daichi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
)

type sessionState int

const (
	sessionUninitialized sessionState = iota
	sessionInitializing
	sessionReady
)

func (s sessionState) String() string {
	switch s {
	case sessionUninitialized:
		return "uninitialized"
	case sessionInitializing:
		return "initializing"
	case sessionReady:
		return "ready"
	default:
		return "unknown"
	}
}

// session is the authenticated transport shared by every call of a client.
// It is read-only once built.
type session struct {
	baseURL string
	client  *http.Client
}

func (s *session) do(ctx context.Context, method, path, endpoint string, payload any) ([]byte, error) {
	target, err := resolve(s.baseURL, path)
	if err != nil {
		return nil, err
	}
	return doJSON(ctx, s.client, method, target, endpoint, payload)
}

// pendingSession is the single in-flight construction all waiters share.
type pendingSession struct {
	done chan struct{}
	sess *session
	err  error
}

func (p *pendingSession) wait(ctx context.Context) (*session, error) {
	select {
	case <-p.done:
		return p.sess, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// sessionGuard builds at most one session. Callers arriving while a build is
// running attach to it; a failed build returns the guard to uninitialized.
type sessionGuard struct {
	build func(context.Context) (*session, error)

	mu      sync.Mutex
	state   sessionState
	sess    *session
	pending *pendingSession

	// waiters counts callers blocked on the pending build.
	waiters atomic.Int32
}

func (g *sessionGuard) get(ctx context.Context) (*session, error) {
	g.mu.Lock()
	if g.state == sessionReady {
		sess := g.sess
		g.mu.Unlock()
		return sess, nil
	}

	pending := g.pending
	if g.state == sessionUninitialized {
		pending = &pendingSession{done: make(chan struct{})}
		g.state = sessionInitializing
		g.pending = pending
		// The build outlives any single waiter's cancellation.
		go g.run(context.WithoutCancel(ctx), pending)
	}
	g.waiters.Add(1)
	g.mu.Unlock()

	defer g.waiters.Add(-1)
	return pending.wait(ctx)
}

func (g *sessionGuard) run(ctx context.Context, pending *pendingSession) {
	sess, err := g.build(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.state = sessionUninitialized
	} else {
		g.state = sessionReady
		g.sess = sess
		sessionUp.Set(1)
	}
	g.pending = nil
	pending.sess = sess
	pending.err = err
	close(pending.done)
}

func (g *sessionGuard) current() sessionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func resolve(baseURL, path string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", path, err)
	}
	return base.ResolveReference(ref).String(), nil
}
