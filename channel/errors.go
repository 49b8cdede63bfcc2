// SPDX-License-Identifier: EPL-2.0

package channel

import "errors"

var ErrUnknownDistanceModel = errors.New("unknown distance model")
