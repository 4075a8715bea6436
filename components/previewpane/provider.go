package previewpane

import (
	"errors"
	"sync"

	"github.com/goliatone/go-schemeweave/pkg/workspace"
)

var errNoWorkspace = errors.New("previewpane: workspace is not configured")

// Provider guards a workspace shared between request handlers and writers.
type Provider struct {
	mu sync.RWMutex
	ws *workspace.Workspace
}

// NewProvider wraps ws.
func NewProvider(ws *workspace.Workspace) *Provider {
	return &Provider{ws: ws}
}

// Read runs fn holding the read lock.
func (p *Provider) Read(fn func(*workspace.Workspace) error) error {
	if p == nil {
		return errNoWorkspace
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.ws == nil {
		return errNoWorkspace
	}
	return fn(p.ws)
}

// Update runs fn holding the write lock.
func (p *Provider) Update(fn func(*workspace.Workspace) error) error {
	if p == nil {
		return errNoWorkspace
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ws == nil {
		return errNoWorkspace
	}
	return fn(p.ws)
}

// Dispatch applies cmd under the write lock.
func (p *Provider) Dispatch(cmd workspace.Command) error {
	return p.Update(func(ws *workspace.Workspace) error {
		return ws.Dispatch(cmd)
	})
}

// Swap replaces the served workspace.
func (p *Provider) Swap(ws *workspace.Workspace) {
	p.mu.Lock()
	p.ws = ws
	p.mu.Unlock()
}
