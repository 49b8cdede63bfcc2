// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrEmptyBuffer    = errors.New("audio buffer has no samples")
	ErrUnknownFormat  = errors.New("no decoder registered for format")
	ErrInvalidFormat  = errors.New("invalid sample rate or channel count")
)
