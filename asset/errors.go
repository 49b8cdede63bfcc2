// SPDX-License-Identifier: EPL-2.0

package asset

import "errors"

var (
	ErrDuplicateAsset = errors.New("asset id already registered")
	ErrUnknownAsset   = errors.New("unknown asset")
	ErrStoreClosed    = errors.New("asset store closed")
)
