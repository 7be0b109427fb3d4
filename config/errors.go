// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidAuxSends   = errors.New("aux send count must not be negative")
	ErrConfigExists      = errors.New("config file already exists")
)
