// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package ctxt

import (
	// Fallback for when no hardware driver is registered.
	_ "github.com/gviegas/scenegraph/driver/hostmem"
)
