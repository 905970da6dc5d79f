// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package command

import (
	"fmt"
	"sync"

	"github.com/fyuuforge/rhi/internal/backend"
)

// Driver is the backend-specific translation a CommandObject calls
// through. handle is the backend's native command-list/buffer object
// (e.g. a VkCommandBuffer, an ID3D12GraphicsCommandList, or a captured
// OpenGL draw-call closure); it is created/reset by BeginRecording/Reset
// and finalized by EndRecording.
type Driver interface {
	BeginRecording(handle any) error
	EndRecording(handle any) (commandList any, err error)
	Reset(handle any) error

	SetViewport(handle any, vp Viewport) error
	SetScissorRect(handle any, r Rect) error
	Barrier(handle any, resource any, before, after ResourceState) error
	BeginRenderPass(handle any, output any, clearRGBA [4]float32) error
	EndRenderPass(handle any, output any) error
	BindVertexBuffer(handle any, buffer any, desc VertexDesc) error
	SetPrimitiveTopology(handle any, t PrimitiveTopology) error
	Draw(handle any, indexCount, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) error
	Clear(handle any, output any, rgba [4]float32, rect Rect) error
	Copy(handle any, src, dst any) error
}

// ReadyFunc receives a CommandObject's finalized backend command list
// when EndRecording publishes it, delivered as a direct callback rather
// than a message-bus object since Go channels already give the renderer
// a synchronized mailbox to receive on (rhi/frame).
type ReadyFunc func(commandList any)

// Object is one thread's recording surface for one frame slot. It is not
// safe for concurrent use by multiple goroutines — callers are expected
// to assign exactly one Object per (renderer, thread, frame-slot)
// triple, so contention never arises by construction; the mutex here
// only guards against a caller misusing the same Object from two
// goroutines at once.
type Object struct {
	mu      sync.Mutex
	tag     backend.Tag
	driver  Driver
	handle  any
	state   State
	onReady ReadyFunc
}

// New wraps handle (a freshly created, Closed-state backend command
// list) behind the recording state machine.
func New(tag backend.Tag, driver Driver, handle any, onReady ReadyFunc) *Object {
	return &Object{tag: tag, driver: driver, handle: handle, state: Closed, onReady: onReady}
}

func (o *Object) BackendTag() backend.Tag { return o.tag }

// BeginRecording resets the object's pool/allocator via the driver and
// transitions Closed→Recording.
func (o *Object) BeginRecording() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != Closed {
		return fmt.Errorf("command: BeginRecording: object is %s, want Closed", o.state)
	}
	if err := o.driver.BeginRecording(o.handle); err != nil {
		return err
	}
	o.state = Recording
	return nil
}

// EndRecording finalizes the backend command list and publishes it via
// onReady, then transitions Recording→Closed.
func (o *Object) EndRecording() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != Recording {
		return fmt.Errorf("command: EndRecording: object is %s, want Recording", o.state)
	}
	list, err := o.driver.EndRecording(o.handle)
	if err != nil {
		return err
	}
	o.state = Closed
	if o.onReady != nil {
		o.onReady(list)
	}
	return nil
}

// Reset returns a Closed object to a freshly reset Closed state, discarding
// whatever was last recorded into it without publishing anything.
func (o *Object) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != Closed {
		return fmt.Errorf("command: Reset: object is %s, want Closed", o.state)
	}
	return o.driver.Reset(o.handle)
}

func (o *Object) requireRecording(op string) error {
	if o.state != Recording {
		return fmt.Errorf("command: %s: object is %s, want Recording", op, o.state)
	}
	return nil
}

func (o *Object) SetViewport(vp Viewport) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.requireRecording("SetViewport"); err != nil {
		return err
	}
	return o.driver.SetViewport(o.handle, vp)
}

func (o *Object) SetScissorRect(r Rect) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.requireRecording("SetScissorRect"); err != nil {
		return err
	}
	return o.driver.SetScissorRect(o.handle, r)
}

// Barrier translates the abstract (before, after) resource-state pair
// into the backend's native barrier.
func (o *Object) Barrier(resource any, before, after ResourceState) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.requireRecording("Barrier"); err != nil {
		return err
	}
	return o.driver.Barrier(o.handle, resource, before, after)
}

func (o *Object) BeginRenderPass(output any, clearRGBA [4]float32) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.requireRecording("BeginRenderPass"); err != nil {
		return err
	}
	return o.driver.BeginRenderPass(o.handle, output, clearRGBA)
}

func (o *Object) EndRenderPass(output any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.requireRecording("EndRenderPass"); err != nil {
		return err
	}
	return o.driver.EndRenderPass(o.handle, output)
}

func (o *Object) BindVertexBuffer(buffer any, desc VertexDesc) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.requireRecording("BindVertexBuffer"); err != nil {
		return err
	}
	return o.driver.BindVertexBuffer(o.handle, buffer, desc)
}

func (o *Object) SetPrimitiveTopology(t PrimitiveTopology) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.requireRecording("SetPrimitiveTopology"); err != nil {
		return err
	}
	return o.driver.SetPrimitiveTopology(o.handle, t)
}

// Draw issues a draw call; this entry point is identical across
// backends. The OpenGL driver issues glDrawElements, or
// glDrawElementsInstanced when instanceCount>1, and returns an error for
// a nonzero baseVertex or startInstance, which it has no GL call for.
func (o *Object) Draw(indexCount, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.requireRecording("Draw"); err != nil {
		return err
	}
	return o.driver.Draw(o.handle, indexCount, instanceCount, startIndex, baseVertex, startInstance)
}

func (o *Object) Clear(output any, rgba [4]float32, rect Rect) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.requireRecording("Clear"); err != nil {
		return err
	}
	return o.driver.Clear(o.handle, output, rgba, rect)
}

func (o *Object) Copy(src, dst any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.requireRecording("Copy"); err != nil {
		return err
	}
	return o.driver.Copy(o.handle, src, dst)
}
