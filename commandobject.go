// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"fmt"

	"github.com/fyuuforge/rhi/rhi/command"
)

// CommandObject re-exports rhi/command.Object under the root package so
// callers never import an internal-looking subpackage for the type they
// record commands into day to day. Re-exporting types (BeginRecording,
// EndRecording, and the rest of the recording-state-machine operations)
// follows Go's type-alias idiom rather than wrapping each method in a
// forwarding stub.
type CommandObject = command.Object

// Viewport, Rect, VertexDesc, PrimitiveTopology and ResourceState mirror
// the rhi/command package's operation vocabulary at the root for the same
// reason.
type (
	Viewport          = command.Viewport
	Rect              = command.Rect
	VertexDesc        = command.VertexDesc
	PrimitiveTopology = command.PrimitiveTopology
	ResourceState     = command.ResourceState
)

const (
	PointList     = command.PointList
	LineList      = command.LineList
	LineStrip     = command.LineStrip
	TriangleList  = command.TriangleList
	TriangleStrip = command.TriangleStrip
)

const (
	StateCommon       = command.StateCommon
	StateVertexBuffer = command.StateVertexBuffer
	StateIndexBuffer  = command.StateIndexBuffer
	StatePresent      = command.StatePresent
	StateOutputTarget = command.StateOutputTarget
	StateCopySrc      = command.StateCopySrc
	StateCopyDest     = command.StateCopyDest
)

// GetCommandObject returns workerID's CommandObject for r's current frame
// slot. Any number of worker goroutines may call this any number of
// times per frame; the first call from a given workerID lazily
// constructs that worker's per-frame-slot command objects.
func GetCommandObject(r *Renderer, workerID uint64) (*CommandObject, ErrorCode) {
	if r == nil {
		return nil, fail(fmt.Errorf("rhi: GetCommandObject: %w", errNilHandle))
	}
	obj, err := r.inner.GetCommandObject(workerID)
	if err != nil {
		return nil, fail(err)
	}
	setLastError(Success, nil)
	return obj, Success
}

// ReleaseCommandObjectWorker removes workerID's row from r, releasing its
// CommandObjects. Call this when a worker goroutine retires.
func ReleaseCommandObjectWorker(r *Renderer, workerID uint64) ErrorCode {
	if r == nil {
		return fail(fmt.Errorf("rhi: ReleaseCommandObjectWorker: %w", errNilHandle))
	}
	r.inner.ReleaseWorker(workerID)
	setLastError(Success, nil)
	return Success
}
