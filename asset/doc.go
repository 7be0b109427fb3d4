// SPDX-License-Identifier: EPL-2.0

// Package asset owns decoded audio by handle and reports every change as an
// Event, so that device-side registries can follow along.
//
// A Loader decodes files with an audio.Registry and stores the result under a
// handle derived from the file path; loading the same path twice yields a
// Modified event instead of a second asset.
package asset
