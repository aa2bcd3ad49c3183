// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package ctxt

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	defer Unload()
	require.NoError(t, Load("HostMem"))
	require.NotNil(t, GPU())
	assert.Equal(t, "hostmem", Driver().Name())
	assert.Equal(t, GPU().Limits(), Limits())

	gpu := GPU()
	require.NoError(t, Load(""))
	assert.Same(t, gpu, GPU(), "Load should keep a matching driver")
}

func TestLoadFallback(t *testing.T) {
	defer Unload()
	require.NoError(t, Load(""))
	require.NotNil(t, Driver())
	assert.Equal(t, "hostmem", Driver().Name())
	lim := Limits()
	assert.Positive(t, lim.MaxBuffer)
	assert.Positive(t, lim.BufferAlign)
}

func TestLoadMissing(t *testing.T) {
	defer Unload()
	err := Load("no-such-driver")
	assert.True(t, errors.Is(err, ErrNoDriver))
	assert.Nil(t, GPU())
}

func TestUnload(t *testing.T) {
	require.NoError(t, Load(""))
	Unload()
	assert.Nil(t, Driver())
	assert.Nil(t, GPU())
	assert.Zero(t, Limits())
}
