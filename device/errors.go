// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	ErrUnsupportedChannelCount = errors.New("unsupported channel count")
	ErrInvalidValue            = errors.New("invalid value")
	ErrInvalidSend             = errors.New("aux send index out of range")
	ErrDeleted                 = errors.New("object was deleted")
	ErrUnknownPreset           = errors.New("unknown reverb preset")
	ErrUnknownEffectKind       = errors.New("unknown effect kind")
	ErrInvalidOperation        = errors.New("invalid operation in current state")
	ErrClosed                  = errors.New("context is closed")
	ErrForeignObject           = errors.New("object belongs to another context")
)
