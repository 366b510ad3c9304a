package telegram

import "sync"

// pendingNames tracks users who were asked to type a collection name.
// The next plain-text message from such a user is consumed as the name
// instead of being treated as a search query.
type pendingNames struct {
	mu      sync.Mutex
	waiting map[int64]struct{}
}

func newPendingNames() *pendingNames {
	return &pendingNames{waiting: make(map[int64]struct{})}
}

func (p *pendingNames) begin(userID int64) {
	p.mu.Lock()
	p.waiting[userID] = struct{}{}
	p.mu.Unlock()
}

// consume reports whether the user had a pending prompt and clears it.
func (p *pendingNames) consume(userID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.waiting[userID]; !ok {
		return false
	}
	delete(p.waiting, userID)
	return true
}

func (p *pendingNames) cancel(userID int64) bool {
	return p.consume(userID)
}
