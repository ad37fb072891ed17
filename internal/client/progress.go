package client

import (
	"io"
	"sync"
	"time"
)

// progressReader reports bytes read from the request body, at most every 100ms
// plus once when the body is exhausted
type progressReader struct {
	r        io.Reader
	total    int64
	done     int64
	cb       ProgressFunc
	mu       sync.Mutex
	lastFire time.Time
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.done += int64(n)
	now := time.Now()
	if n > 0 && (now.Sub(p.lastFire) >= 100*time.Millisecond || p.done == p.total) {
		p.lastFire = now
		p.cb(p.done, p.total)
	}
	return n, err
}
