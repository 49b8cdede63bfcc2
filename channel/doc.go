// SPDX-License-Identifier: EPL-2.0

// Package channel defines the playback contract between audio sources and
// a backend: a Backend starts a Channel, either non-positional or
// positional, and the Channel exposes pause, stop and parameter setters.
//
// Positional channels report SupportsDistance and are attenuated by Gain
// using one of the Linear, Inverse or Exponential distance models.
package channel
