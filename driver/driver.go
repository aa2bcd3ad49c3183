// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package driver defines the graphics context that mesh
// data is buffered into.
// Only GPU buffer management is exposed: draw calls and
// pipeline state belong to the renderer.
package driver

import (
	"errors"
	"sync"

	"github.com/gviegas/scenegraph/internal/logx"
)

// Driver is the interface that provides methods for
// loading and unloading an underlying implementation.
type Driver interface {
	// Open initializes the driver.
	// If it succeeds, further calls with the same receiver
	// have no effect and must return the same GPU instance.
	Open() (GPU, error)

	// Name returns the name of the driver.
	// It must not cause the driver to be opened.
	Name() string

	// Close deinitializes the driver.
	// Closing a driver that is not open has no effect.
	Close()
}

// ErrNoHostMemory means that host memory could not be
// allocated.
var ErrNoHostMemory = errors.New("driver: out of host memory")

// ErrNoDeviceMemory means that device memory could not
// be allocated.
var ErrNoDeviceMemory = errors.New("driver: out of device memory")

// ErrClosed means that the GPU was used after its
// driver was closed.
var ErrClosed = errors.New("driver: driver is closed")

// Drivers returns the registered Drivers.
// Client code imports specific driver packages, whose
// init functions call Register.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Register registers a Driver.
// If a driver with the same name has already been
// registered, it is replaced by drv.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			logx.L().Warn("driver replaced", "name", drv.Name())
			return
		}
	}
	drivers = append(drivers, drv)
	logx.L().Debug("driver registered", "name", drv.Name())
}

var (
	mu      sync.Mutex
	drivers = make([]Driver, 0, 1)
)
