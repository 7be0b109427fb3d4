// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"path/filepath"

	"github.com/google/uuid"
)

// Handle identifies an asset. The zero Handle refers to nothing.
type Handle uuid.UUID

// namespace for path-derived handles
var pathSpace = uuid.MustParse("6f3c8f0e-5a1d-4c43-9a51-2d7e4b1f9c20")

// NewHandle returns a fresh random handle.
func NewHandle() Handle {
	return Handle(uuid.New())
}

// HandleFor returns the stable handle for a file path.
func HandleFor(path string) Handle {
	return Handle(uuid.NewSHA1(pathSpace, []byte(filepath.ToSlash(filepath.Clean(path)))))
}

func (h Handle) IsZero() bool { return h == Handle{} }

func (h Handle) String() string { return uuid.UUID(h).String() }
