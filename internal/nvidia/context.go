package nvidia

import (
	"errors"
	"runtime"
	"sync"
)

// Context owns one CUDA context. It is floating between calls: WithScoped
// pushes it onto the calling OS thread for the duration of fn, WithFloating
// hands the raw handle to fn without making it current. Any failure inside
// either call, returned error or panic, destroys the context before the
// failure propagates.
type Context struct {
	mu        sync.Mutex
	api       API
	handle    Handle
	destroyed bool
}

// NewContext creates a context on dev and pops it off the calling thread.
func NewContext(api API, dev Device) (*Context, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	handle, err := api.CtxCreate(dev)
	if err != nil {
		return nil, err
	}
	if _, err := api.CtxPop(); err != nil {
		return nil, errors.Join(err, api.CtxDestroy(handle))
	}
	return &Context{api: api, handle: handle}, nil
}

// WithScoped runs fn with the context current on a locked OS thread.
func (c *Context) WithScoped(fn func() error) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrContextDestroyed
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := c.api.CtxPush(c.handle); err != nil {
		return errors.Join(err, c.destroyLocked())
	}
	defer c.destroyOnPanic()

	err = fn()
	if _, popErr := c.api.CtxPop(); popErr != nil && err == nil {
		err = popErr
	}
	if err != nil {
		return errors.Join(err, c.destroyLocked())
	}
	return nil
}

// WithFloating runs fn with the raw handle. The context is not made current.
func (c *Context) WithFloating(fn func(Handle) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrContextDestroyed
	}
	defer c.destroyOnPanic()

	if err := fn(c.handle); err != nil {
		return errors.Join(err, c.destroyLocked())
	}
	return nil
}

// Close destroys the context. Later calls, and calls after a failed scoped
// or floating run, do nothing.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyLocked()
}

// Destroyed reports whether the native context has been released.
func (c *Context) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// destroyOnPanic must be deferred while c.mu is held. It releases the
// context and re-raises the original panic value.
func (c *Context) destroyOnPanic() {
	if r := recover(); r != nil {
		_ = c.destroyLocked()
		panic(r)
	}
}

func (c *Context) destroyLocked() error {
	if c.destroyed {
		return nil
	}
	c.destroyed = true
	return c.api.CtxDestroy(c.handle)
}
