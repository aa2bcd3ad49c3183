// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package hostmem implements a driver whose buffers live
// in host memory.
// It registers itself on init under the name "hostmem".
// Useful for headless tools and tests, where mesh data
// must go through the buffering path without a device.
package hostmem

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/gviegas/scenegraph/driver"
)

// Name is the name of the driver.
const Name = "hostmem"

// maxBuffer is the largest buffer the driver creates.
const maxBuffer = 1 << 30

// Driver is the host memory driver.
type Driver struct {
	mu   sync.Mutex
	gpu  *GPU
	open bool
}

func init() { driver.Register(&Driver{}) }

// Open implements driver.Driver.
func (d *Driver) Open() (driver.GPU, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		d.gpu = &GPU{drv: d}
		d.open = true
	}
	return d.gpu, nil
}

// Name implements driver.Driver.
func (*Driver) Name() string { return Name }

// Close implements driver.Driver.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		d.gpu.closed = true
		d.gpu = nil
		d.open = false
	}
}

// GPU implements driver.GPU.
type GPU struct {
	drv    *Driver
	closed bool
	// Number of live buffers.
	live int
}

// Driver implements driver.GPU.
func (g *GPU) Driver() driver.Driver { return g.drv }

// NewBuffer implements driver.GPU.
// Non-visible buffers are backed by host memory as well,
// but Bytes returns nil for them as required.
// Exceeding Limits().MaxBuffer fails with
// driver.ErrNoHostMemory for visible buffers and with
// driver.ErrNoDeviceMemory otherwise.
func (g *GPU) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	switch {
	case g.closed:
		return nil, driver.ErrClosed
	case size <= 0:
		return nil, errors.Errorf("hostmem: invalid buffer size %d", size)
	case size > maxBuffer && visible:
		return nil, errors.Wrapf(driver.ErrNoHostMemory, "hostmem: buffer size %d", size)
	case size > maxBuffer:
		return nil, errors.Wrapf(driver.ErrNoDeviceMemory, "hostmem: buffer size %d", size)
	}
	g.live++
	return &Buffer{gpu: g, data: make([]byte, size), visible: visible, usage: usg}, nil
}

// Limits implements driver.GPU.
func (*GPU) Limits() driver.Limits {
	return driver.Limits{MaxBuffer: maxBuffer, BufferAlign: 4}
}

// Live returns the number of buffers created by g and
// not yet destroyed.
func (g *GPU) Live() int { return g.live }

// Buffer implements driver.Buffer.
type Buffer struct {
	gpu     *GPU
	data    []byte
	visible bool
	usage   driver.Usage
}

// Destroy implements driver.Destroyer.
func (b *Buffer) Destroy() {
	if b.data != nil {
		b.data = nil
		b.gpu.live--
	}
}

// Visible implements driver.Buffer.
func (b *Buffer) Visible() bool { return b.visible }

// Bytes implements driver.Buffer.
func (b *Buffer) Bytes() []byte {
	if !b.visible {
		return nil
	}
	return b.data
}

// Cap implements driver.Buffer.
func (b *Buffer) Cap() int64 { return int64(len(b.data)) }

// Usage returns the usage the buffer was created with.
func (b *Buffer) Usage() driver.Usage { return b.usage }
