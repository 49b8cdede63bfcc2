// SPDX-License-Identifier: EPL-2.0

// Package component implements the audio source: it resolves a list of
// assets into decoded clips and drives one playback channel for them.
//
// A Resolver batch subscribes to every present asset, waits until each
// one loaded or failed, then reports the map of loaded clips with the
// first one, in list order, as the current source. Ids missing from the
// registry are picked up when they are added but are never waited for.
// Starting a batch revokes the subscriptions of the previous one, and
// results of superseded batches are discarded.
//
// AudioSource keeps the live channel in step with its Params, swaps it
// between positional and non-positional playback keeping the paused and
// suspended flags, autoplays on enable and pauses on disable. Nothing in
// this package returns an error: a failed load, an unknown source name or
// a call while disabled simply leaves nothing playing.
package component
