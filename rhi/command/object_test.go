// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package command

import (
	"testing"

	"github.com/fyuuforge/rhi/internal/backend"
)

type fakeDriver struct {
	began, ended, reset int
	lastList            any
}

func (f *fakeDriver) BeginRecording(handle any) error { f.began++; return nil }
func (f *fakeDriver) EndRecording(handle any) (any, error) {
	f.ended++
	f.lastList = handle
	return handle, nil
}
func (f *fakeDriver) Reset(handle any) error                            { f.reset++; return nil }
func (f *fakeDriver) SetViewport(handle any, vp Viewport) error          { return nil }
func (f *fakeDriver) SetScissorRect(handle any, r Rect) error            { return nil }
func (f *fakeDriver) Barrier(handle, resource any, before, after ResourceState) error {
	return nil
}
func (f *fakeDriver) BeginRenderPass(handle, output any, clear [4]float32) error { return nil }
func (f *fakeDriver) EndRenderPass(handle, output any) error                    { return nil }
func (f *fakeDriver) BindVertexBuffer(handle, buffer any, desc VertexDesc) error { return nil }
func (f *fakeDriver) SetPrimitiveTopology(handle any, t PrimitiveTopology) error { return nil }
func (f *fakeDriver) Draw(handle any, indexCount, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) error {
	return nil
}
func (f *fakeDriver) Clear(handle, output any, rgba [4]float32, rect Rect) error { return nil }
func (f *fakeDriver) Copy(handle, src, dst any) error                           { return nil }

func TestStateMachineRejectsOperationsOutsideRecording(t *testing.T) {
	drv := &fakeDriver{}
	obj := New(backend.Vulkan, drv, "handle", nil)

	if err := obj.SetViewport(Viewport{}); err == nil {
		t.Fatal("SetViewport should fail before BeginRecording")
	}
	if err := obj.EndRecording(); err == nil {
		t.Fatal("EndRecording should fail before BeginRecording")
	}
}

func TestRecordingRoundTripPublishesOnEndRecording(t *testing.T) {
	drv := &fakeDriver{}
	var published any
	obj := New(backend.Vulkan, drv, "handle", func(list any) { published = list })

	if err := obj.BeginRecording(); err != nil {
		t.Fatalf("BeginRecording: %v", err)
	}
	if err := obj.SetViewport(Viewport{Width: 1920, Height: 1080}); err != nil {
		t.Fatalf("SetViewport: %v", err)
	}
	if err := obj.Draw(3, 1, 0, 0, 0); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := obj.EndRecording(); err != nil {
		t.Fatalf("EndRecording: %v", err)
	}
	if published != "handle" {
		t.Fatalf("onReady got %v, want handle", published)
	}
	if drv.began != 1 || drv.ended != 1 {
		t.Fatalf("began=%d ended=%d, want 1,1", drv.began, drv.ended)
	}

	if err := obj.BeginRecording(); err != nil {
		t.Fatalf("second BeginRecording: %v", err)
	}
}

func TestDoubleBeginRecordingRejected(t *testing.T) {
	drv := &fakeDriver{}
	obj := New(backend.Vulkan, drv, "handle", nil)
	if err := obj.BeginRecording(); err != nil {
		t.Fatalf("BeginRecording: %v", err)
	}
	if err := obj.BeginRecording(); err == nil {
		t.Fatal("second BeginRecording while already Recording should fail")
	}
}

func TestResetRequiresClosed(t *testing.T) {
	drv := &fakeDriver{}
	obj := New(backend.Vulkan, drv, "handle", nil)
	if err := obj.Reset(); err != nil {
		t.Fatalf("Reset from Closed: %v", err)
	}
	if err := obj.BeginRecording(); err != nil {
		t.Fatalf("BeginRecording: %v", err)
	}
	if err := obj.Reset(); err == nil {
		t.Fatal("Reset while Recording should fail")
	}
}
