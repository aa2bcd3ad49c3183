// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package ctxt holds the GPU driver that mesh data is
// buffered into.
package ctxt

import (
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/gviegas/scenegraph/driver"
	"github.com/gviegas/scenegraph/internal/logx"
)

var (
	mu     sync.Mutex
	drv    driver.Driver
	gpu    driver.GPU
	limits driver.Limits
)

// ErrNoDriver means that no registered driver matched
// the requested name or none could be opened.
var ErrNoDriver = errors.New("ctxt: driver not found")

// Load attempts to load any driver whose name contains
// the name string. It is case insensitive.
// If name is the empty string, then all registered
// drivers are considered.
// If a matching driver is already loaded, it does
// nothing.
func Load(name string) error {
	mu.Lock()
	defer mu.Unlock()
	name = strings.ToLower(name)
	if drv != nil && strings.Contains(strings.ToLower(drv.Name()), name) {
		return nil
	}
	err := ErrNoDriver
	for _, d := range driver.Drivers() {
		if !strings.Contains(strings.ToLower(d.Name()), name) {
			continue
		}
		var u driver.GPU
		if u, err = d.Open(); err != nil {
			logx.L().Warn("driver failed to open", "name", d.Name(), "err", err)
			continue
		}
		if drv != nil && drv != d {
			drv.Close()
		}
		drv = d
		gpu = u
		limits = gpu.Limits()
		logx.L().Info("driver loaded", "name", d.Name())
		return nil
	}
	return errors.Wrapf(err, "ctxt: load %q", name)
}

// Unload closes the loaded driver, if any.
func Unload() {
	mu.Lock()
	defer mu.Unlock()
	if drv != nil {
		drv.Close()
	}
	drv, gpu, limits = nil, nil, driver.Limits{}
}

// Driver returns the loaded driver.Driver, or nil.
func Driver() driver.Driver {
	mu.Lock()
	defer mu.Unlock()
	return drv
}

// GPU returns the loaded driver.GPU, or nil.
func GPU() driver.GPU {
	mu.Lock()
	defer mu.Unlock()
	return gpu
}

// Limits returns GPU().Limits().
// This value is retrieved only once per Load.
func Limits() driver.Limits {
	mu.Lock()
	defer mu.Unlock()
	return limits
}
