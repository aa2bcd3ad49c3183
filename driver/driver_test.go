// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"testing"
)

type testDriver struct{ name string }

func (d *testDriver) Open() (GPU, error) { return nil, ErrClosed }
func (d *testDriver) Name() string       { return d.name }
func (d *testDriver) Close()             {}

func TestRegister(t *testing.T) {
	mu.Lock()
	saved := drivers
	drivers = nil
	mu.Unlock()
	defer func() {
		mu.Lock()
		drivers = saved
		mu.Unlock()
	}()

	a := &testDriver{"a"}
	b := &testDriver{"b"}
	Register(a)
	Register(b)
	if n := len(Drivers()); n != 2 {
		t.Fatalf("Drivers: len\nhave %d\nwant 2", n)
	}
	a2 := &testDriver{"a"}
	Register(a2)
	drv := Drivers()
	if len(drv) != 2 {
		t.Fatalf("Register: replace: len\nhave %d\nwant 2", len(drv))
	}
	if drv[0] != Driver(a2) {
		t.Fatalf("Register: replace\nhave %p\nwant %p", drv[0], a2)
	}
	// The returned slice is a copy.
	drv[1] = nil
	if Drivers()[1] == nil {
		t.Fatal("Drivers: returned slice aliases the registry")
	}
}

func TestUsage(t *testing.T) {
	if UGeneric&UVertexData == 0 || UGeneric&UIndexData == 0 {
		t.Fatalf("UGeneric\nhave %b\nwant all bits", UGeneric)
	}
}
