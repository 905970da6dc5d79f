// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"sync"
	"testing"
	"time"

	"github.com/fyuuforge/rhi/internal/backend"
	"github.com/fyuuforge/rhi/rhi/command"
)

type fakeDriver struct {
	mu          sync.Mutex
	executed    [][]any
	presents    int
	signalValue uint64
	backBuffer  int
	occluded    bool
	resizedTo   [2]uint32
}

func (f *fakeDriver) CreateFence(device any) (any, error)             { return "fence", nil }
func (f *fakeDriver) TestPresentOccluded(swapchain any) (bool, error) { return false, nil }
func (f *fakeDriver) WaitFrameLatencyWaitable(swapchain any, timeout time.Duration) error {
	return nil
}
func (f *fakeDriver) WaitFence(fence any, value uint64) error { return nil }
func (f *fakeDriver) SignalFence(queue, fence any, value uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signalValue = value
	return value, nil
}
func (f *fakeDriver) ExecuteCommandLists(queue any, lists []any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.executed = append(f.executed, lists)
	return nil
}
func (f *fakeDriver) Present(swapchain any, vsync int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presents++
	return f.occluded, nil
}
func (f *fakeDriver) CurrentBackBufferIndex(swapchain any) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backBuffer = (f.backBuffer + 1) % DefaultFrameCount
	return f.backBuffer
}
func (f *fakeDriver) NewCommandObject(device any) (any, error) { return new(int), nil }
func (f *fakeDriver) ResizeSwapChain(swapchain any, width, height uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resizedTo = [2]uint32{width, height}
	return nil
}

type fakeCmdDriver struct{}

func (fakeCmdDriver) BeginRecording(handle any) error      { return nil }
func (fakeCmdDriver) EndRecording(handle any) (any, error) { return handle, nil }
func (fakeCmdDriver) Reset(handle any) error                                     { return nil }
func (fakeCmdDriver) SetViewport(handle any, vp command.Viewport) error          { return nil }
func (fakeCmdDriver) SetScissorRect(handle any, r command.Rect) error            { return nil }
func (fakeCmdDriver) Barrier(handle, resource any, before, after command.ResourceState) error {
	return nil
}
func (fakeCmdDriver) BeginRenderPass(handle, output any, clear [4]float32) error { return nil }
func (fakeCmdDriver) EndRenderPass(handle, output any) error                    { return nil }
func (fakeCmdDriver) BindVertexBuffer(handle, buffer any, desc command.VertexDesc) error {
	return nil
}
func (fakeCmdDriver) SetPrimitiveTopology(handle any, t command.PrimitiveTopology) error {
	return nil
}
func (fakeCmdDriver) Draw(handle any, indexCount, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) error {
	return nil
}
func (fakeCmdDriver) Clear(handle, output any, rgba [4]float32, rect command.Rect) error {
	return nil
}
func (fakeCmdDriver) Copy(handle, src, dst any) error { return nil }

func TestBeginFrameOpensWindowAndEndFrameSubmits(t *testing.T) {
	drv := &fakeDriver{}
	r := New(backend.Vulkan, drv, fakeCmdDriver{}, "device", "queue", "swapchain", "fence", 0)

	ok, err := r.BeginFrame(0)
	if err != nil || !ok {
		t.Fatalf("BeginFrame: ok=%v err=%v", ok, err)
	}

	obj, err := r.GetCommandObject(1)
	if err != nil {
		t.Fatalf("GetCommandObject: %v", err)
	}
	if err := obj.BeginRecording(); err != nil {
		t.Fatalf("BeginRecording: %v", err)
	}
	if err := obj.EndRecording(); err != nil {
		t.Fatalf("EndRecording: %v", err)
	}

	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}

	drv.mu.Lock()
	defer drv.mu.Unlock()
	if len(drv.executed) != 1 || len(drv.executed[0]) != 1 {
		t.Fatalf("executed = %v, want one batch of one list", drv.executed)
	}
	if drv.presents != 1 {
		t.Fatalf("presents = %d, want 1", drv.presents)
	}
	if drv.signalValue != 1 {
		t.Fatalf("signalValue = %d, want 1", drv.signalValue)
	}
}

func TestPublishReadyBlocksUntilWindowOpen(t *testing.T) {
	drv := &fakeDriver{}
	r := New(backend.Vulkan, drv, fakeCmdDriver{}, "device", "queue", "swapchain", "fence", 0)

	obj, err := r.GetCommandObject(1)
	if err != nil {
		t.Fatalf("GetCommandObject: %v", err)
	}
	if err := obj.BeginRecording(); err != nil {
		t.Fatalf("BeginRecording: %v", err)
	}

	done := make(chan struct{})
	go func() {
		obj.EndRecording()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("EndRecording published before the submission window opened")
	case <-time.After(20 * time.Millisecond):
	}

	if _, err := r.BeginFrame(0); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	<-done
}

func TestReleaseWorkerRemovesRow(t *testing.T) {
	drv := &fakeDriver{}
	r := New(backend.Vulkan, drv, fakeCmdDriver{}, "device", "queue", "swapchain", "fence", 0)
	if _, err := r.GetCommandObject(7); err != nil {
		t.Fatalf("GetCommandObject: %v", err)
	}
	r.ReleaseWorker(7)
	if len(r.workers) != 0 {
		t.Fatalf("workers after ReleaseWorker: %d entries, want 0", len(r.workers))
	}
}

func TestOnResizeDebouncesUntilQuiet(t *testing.T) {
	drv := &fakeDriver{}
	r := New(backend.Vulkan, drv, fakeCmdDriver{}, "device", "queue", "swapchain", "fence", 0)

	r.OnResize(100, 100)
	time.Sleep(ResizeDebounce / 2)
	r.OnResize(200, 150)

	drv.mu.Lock()
	resized := drv.resizedTo
	drv.mu.Unlock()
	if resized != ([2]uint32{}) {
		t.Fatalf("ResizeSwapChain called before debounce elapsed: %v", resized)
	}

	time.Sleep(ResizeDebounce + 50*time.Millisecond)
	drv.mu.Lock()
	resized = drv.resizedTo
	drv.mu.Unlock()
	if resized != [2]uint32{200, 150} {
		t.Fatalf("ResizeSwapChain got %v, want the latest OnResize size", resized)
	}
}
