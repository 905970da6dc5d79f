// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package frame implements the frame lifecycle and submission pipeline:
// a triple-buffered (by default) Renderer that opens a submission window
// once per frame, collects CommandReady lists from any number of worker
// goroutines through that window, and submits them in one batch on
// EndFrame. Generalizes a render-thread/UI-thread separation built
// around one dedicated OS thread into an arbitrary set of worker
// goroutines feeding a single renderer, with fence-value bookkeeping in
// the same monotonic-counter shape a timeline semaphore uses.
package frame

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fyuuforge/rhi/internal/backend"
	"github.com/fyuuforge/rhi/rhi/command"
)

// DefaultFrameCount is the default number of in-flight frame slots.
const DefaultFrameCount = 3

// Driver is the backend hook Renderer drives frame submission through.
type Driver interface {
	CreateFence(device any) (any, error)
	TestPresentOccluded(swapchain any) (bool, error)
	WaitFrameLatencyWaitable(swapchain any, timeout time.Duration) error
	WaitFence(fence any, value uint64) error
	SignalFence(queue any, fence any, value uint64) (newValue uint64, err error)
	ExecuteCommandLists(queue any, lists []any) error
	Present(swapchain any, vsync int) (occluded bool, err error)
	CurrentBackBufferIndex(swapchain any) int
	NewCommandObject(device any) (handle any, err error)
	ResizeSwapChain(swapchain any, width, height uint32) error
}

// ResizeDebounce is how long OnResize waits for resize events to stop
// arriving before it actually recreates the swap chain. Window systems
// fire a resize callback on every intermediate size during an interactive
// drag; recreating back buffers on each one would stall the GPU for no
// visible benefit.
const ResizeDebounce = 150 * time.Millisecond

// frameContext is one slot of the renderer's ring buffer.
type frameContext struct {
	mu         sync.Mutex
	ready      []any
	fenceValue uint64
}

// workerRow holds one worker goroutine's per-frame-slot CommandObjects
// for one renderer.
type workerRow struct {
	objects []*command.Object
}

// Renderer owns the frame ring, submission window, and fence bookkeeping
// for one swap chain.
type Renderer struct {
	tag       backend.Tag
	driver    Driver
	cmdDriver command.Driver

	device    any
	queue     any
	swapchain any
	fence     any

	frames       []frameContext
	currentIdx   atomic.Int32
	previousIdx  atomic.Int32
	fenceValue   atomic.Uint64

	windowMu     sync.Mutex
	windowCond   *sync.Cond
	windowOpen   bool

	iconified atomic.Bool
	occluded  atomic.Bool

	workersMu sync.Mutex
	workers   map[uint64]*workerRow

	resizeMu      sync.Mutex
	resizeTimer   *time.Timer
	pendingWidth  uint32
	pendingHeight uint32
}

// New creates a Renderer with frameCount frame slots (DefaultFrameCount
// if 0).
func New(tag backend.Tag, driver Driver, cmdDriver command.Driver, device, queue, swapchain, fence any, frameCount int) *Renderer {
	if frameCount == 0 {
		frameCount = DefaultFrameCount
	}
	r := &Renderer{
		tag: tag, driver: driver, cmdDriver: cmdDriver,
		device: device, queue: queue, swapchain: swapchain, fence: fence,
		frames:  make([]frameContext, frameCount),
		workers: make(map[uint64]*workerRow),
	}
	r.windowCond = sync.NewCond(&r.windowMu)
	return r
}

func (r *Renderer) BackendTag() backend.Tag { return r.tag }

// SetIconified lets the windowing layer tell the renderer its window is
// minimized, so BeginFrame can skip frames cheaply.
func (r *Renderer) SetIconified(v bool) { r.iconified.Store(v) }

// Occluded reports whether the last Present call returned an occluded
// swap chain.
func (r *Renderer) Occluded() bool { return r.occluded.Load() }

func (r *Renderer) currentFrame() *frameContext {
	return &r.frames[r.currentIdx.Load()]
}

// BeginFrame skips the frame on iconified or present-occluded, waits on
// the frame-latency waitable and the current slot's fence, then opens
// the submission window so workers can publish command lists.
func (r *Renderer) BeginFrame(frameLatencyTimeout time.Duration) (bool, error) {
	if r.iconified.Load() {
		return false, nil
	}
	occluded, err := r.driver.TestPresentOccluded(r.swapchain)
	if err != nil {
		return false, fmt.Errorf("frame: BeginFrame: test-present: %w", err)
	}
	if occluded {
		return false, nil
	}

	if err := r.driver.WaitFrameLatencyWaitable(r.swapchain, frameLatencyTimeout); err != nil {
		return false, fmt.Errorf("frame: BeginFrame: frame-latency wait: %w", err)
	}
	fc := r.currentFrame()
	fc.mu.Lock()
	pendingValue := fc.fenceValue
	fc.mu.Unlock()
	if pendingValue != 0 {
		if err := r.driver.WaitFence(r.fence, pendingValue); err != nil {
			return false, fmt.Errorf("frame: BeginFrame: fence wait: %w", err)
		}
	}

	r.windowMu.Lock()
	r.windowOpen = true
	r.windowCond.Broadcast()
	r.windowMu.Unlock()
	return true, nil
}

// publishReady is the CommandReady message-bus receiver: it parks until
// the submission window is open, then appends list to the current
// frame's ready queue — all under windowMu, so a concurrent EndFrame
// closing the window cannot race a publish into thinking the window is
// still open.
func (r *Renderer) publishReady(list any) {
	r.windowMu.Lock()
	for !r.windowOpen {
		r.windowCond.Wait()
	}
	fc := r.currentFrame()
	fc.mu.Lock()
	fc.ready = append(fc.ready, list)
	fc.mu.Unlock()
	r.windowMu.Unlock()
}

// EndFrame closes the submission window, drains and submits the
// accumulated command lists, presents, and advances the fence and
// frame index.
func (r *Renderer) EndFrame() error {
	r.windowMu.Lock()
	r.windowOpen = false
	fc := r.currentFrame()
	fc.mu.Lock()
	lists := fc.ready
	fc.ready = nil
	fc.mu.Unlock()
	r.windowMu.Unlock()

	if len(lists) > 0 {
		if err := r.driver.ExecuteCommandLists(r.queue, lists); err != nil {
			return fmt.Errorf("frame: EndFrame: ExecuteCommandLists: %w", err)
		}
	}

	occluded, err := r.driver.Present(r.swapchain, 1)
	if err != nil {
		return fmt.Errorf("frame: EndFrame: Present: %w", err)
	}
	r.occluded.Store(occluded)

	newValue, err := r.driver.SignalFence(r.queue, r.fence, r.fenceValue.Add(1))
	if err != nil {
		return fmt.Errorf("frame: EndFrame: SignalFence: %w", err)
	}
	fc.mu.Lock()
	fc.fenceValue = newValue
	fc.mu.Unlock()

	r.previousIdx.Store(r.currentIdx.Load())
	r.currentIdx.Store(int32(r.driver.CurrentBackBufferIndex(r.swapchain)))
	return nil
}

// OnResize records width/height as the pending swap chain size and
// (re)arms a ResizeDebounce timer; the swap chain is only actually
// recreated once that timer fires without a further OnResize call
// resetting it, matching the original engine's resize-storm debounce
// rather than recreating back buffers on every intermediate size a
// window system reports during an interactive drag.
func (r *Renderer) OnResize(width, height uint32) {
	r.resizeMu.Lock()
	defer r.resizeMu.Unlock()
	r.pendingWidth = width
	r.pendingHeight = height
	if r.resizeTimer != nil {
		r.resizeTimer.Stop()
	}
	r.resizeTimer = time.AfterFunc(ResizeDebounce, r.commitResize)
}

func (r *Renderer) commitResize() {
	r.resizeMu.Lock()
	width, height := r.pendingWidth, r.pendingHeight
	r.resizeMu.Unlock()
	if width == 0 || height == 0 {
		return
	}
	if err := r.driver.ResizeSwapChain(r.swapchain, width, height); err != nil {
		return
	}
	r.currentIdx.Store(int32(r.driver.CurrentBackBufferIndex(r.swapchain)))
}

// GetCommandObject returns workerID's CommandObject for the current
// frame slot, lazily constructing one row of len(frames) objects on that
// worker's first call. Go has no thread-local storage, so callers supply
// a stable workerID (typically a worker-pool slot index or goroutine
// identity token) in place of an OS thread id, and must call
// ReleaseWorker when that worker retires to free its row.
func (r *Renderer) GetCommandObject(workerID uint64) (*command.Object, error) {
	r.workersMu.Lock()
	row, ok := r.workers[workerID]
	if !ok {
		row = &workerRow{objects: make([]*command.Object, len(r.frames))}
		r.workers[workerID] = row
	}
	r.workersMu.Unlock()

	idx := r.currentIdx.Load()
	if row.objects[idx] == nil {
		handle, err := r.driver.NewCommandObject(r.device)
		if err != nil {
			return nil, fmt.Errorf("frame: GetCommandObject: %w", err)
		}
		row.objects[idx] = command.New(r.tag, r.cmdDriver, handle, r.publishReady)
	}
	return row.objects[idx], nil
}

// ReleaseWorker removes workerID's row from this renderer's map. Call it
// when the worker retires so its CommandObjects can be collected.
func (r *Renderer) ReleaseWorker(workerID uint64) {
	r.workersMu.Lock()
	delete(r.workers, workerID)
	r.workersMu.Unlock()
}

// Destroy waits on the last submitted frame's fence before releasing
// frame contexts, so no in-flight GPU work references them.
func (r *Renderer) Destroy() error {
	fc := &r.frames[r.previousIdx.Load()]
	fc.mu.Lock()
	value := fc.fenceValue
	fc.mu.Unlock()
	if value != 0 {
		if err := r.driver.WaitFence(r.fence, value); err != nil {
			return fmt.Errorf("frame: Destroy: fence wait: %w", err)
		}
	}
	r.workersMu.Lock()
	r.workers = make(map[uint64]*workerRow)
	r.workersMu.Unlock()
	return nil
}
