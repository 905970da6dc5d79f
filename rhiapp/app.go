// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package rhiapp is the optional application shim: a thin glfw-backed
// window and input source wired directly to the rhi package's own
// physical-device/surface/swap-chain/renderer pipeline. Nothing in rhi
// itself depends on this package; an application that wants its own
// window and event loop is free to call rhi directly instead.
package rhiapp

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/fyuuforge/rhi"
)

func init() {
	// glfw's window and event-loop calls must run on the thread that
	// initialized it; RunApp never hands this goroutine back.
	runtime.LockOSThread()
}

// ApplicationConfig configures RunApp's window, device, and worker pool.
type ApplicationConfig struct {
	ApplicationName string
	Title           string
	Width           uint32
	Height          uint32
	// RenderingThreads is the number of distinct rhi/frame.Renderer
	// worker rows this shim reserves for App.OnRender to record command
	// lists from concurrently (see Context.Threads). 1 if unset.
	RenderingThreads int
	Backend          rhi.API
}

// Context is passed to every App callback: the live handles RunApp
// opened, so the application never has to stash them itself.
type Context struct {
	PhysicalDevice *rhi.PhysicalDevice
	Device         *rhi.LogicalDevice
	Queue          *rhi.CommandQueue
	Surface        *rhi.Surface
	SwapChain      *rhi.SwapChain
	Renderer       *rhi.Renderer
	// Threads is ApplicationConfig.RenderingThreads, the number of
	// distinct workerIDs (0..Threads-1) OnRender may call
	// Renderer.GetCommandObject with concurrently.
	Threads int
}

// App is implemented by the embedding application. RunApp drives every
// method from the glfw event loop's goroutine: the input and resize
// callbacks from within PollEvents, OnUpdate once per tick after
// PollEvents, and OnRender between BeginFrame and EndFrame when
// BeginFrame opens a frame.
type App interface {
	OnUpdate(ctx *Context, dt float64)
	OnRender(ctx *Context)
	OnClose(ctx *Context)
	OnResize(ctx *Context, width, height uint32)
	OnKeyDown(ctx *Context, key Key)
	OnKeyUp(ctx *Context, key Key)
	OnKeyRepeat(ctx *Context, key Key)
	OnMouseMove(ctx *Context, x, y float64)
	OnMouseButtonDown(ctx *Context, button MouseButton)
	OnMouseButtonUp(ctx *Context, button MouseButton)
}

var stopRequested atomic.Bool

// RequestStop tells the current RunApp's loop to exit after its current
// tick, as though its window had been closed.
func RequestStop() {
	stopRequested.Store(true)
}

// RunApp opens a physical device, window surface, logical device, queue,
// swap chain, and renderer per cfg, runs app's update/render loop until
// the window closes or RequestStop is called, then tears the pipeline
// back down. Returns a process exit code (0 on a clean stop).
func RunApp(cfg ApplicationConfig, app App) int {
	if cfg.Width == 0 {
		cfg.Width = 1280
	}
	if cfg.Height == 0 {
		cfg.Height = 720
	}
	if cfg.RenderingThreads <= 0 {
		cfg.RenderingThreads = 1
	}
	if cfg.Title == "" {
		cfg.Title = cfg.ApplicationName
	}
	stopRequested.Store(false)

	physicalDevice, ec := rhi.CreatePhysicalDevice(rhi.InitOptions{AppName: cfg.ApplicationName}, cfg.Backend)
	if ec != rhi.Success {
		return int(ec)
	}
	defer rhi.DestroyPhysicalDevice(physicalDevice)

	surface, ec := rhi.CreateSurface(physicalDevice, cfg.Width, cfg.Height, 0)
	if ec != rhi.Success {
		return int(ec)
	}
	defer rhi.DestroySurface(surface)
	rhi.SetSurfaceTitle(surface, cfg.Title)

	win, ec := surface.NativeWindow()
	if ec != rhi.Success {
		return int(ec)
	}

	device, ec := rhi.CreateLogicalDevice(physicalDevice)
	if ec != rhi.Success {
		return int(ec)
	}
	defer rhi.DestroyLogicalDevice(device)

	queue, ec := rhi.CreateCommandQueue(device, rhi.AllCommands, rhi.PriorityNormal)
	if ec != rhi.Success {
		return int(ec)
	}
	defer rhi.DestroyCommandQueue(queue)

	swapChain, ec := rhi.CreateSwapChain(physicalDevice, device, queue, surface, 0)
	if ec != rhi.Success {
		return int(ec)
	}
	defer rhi.DestroySwapChain(swapChain)

	renderer, ec := rhi.CreateRenderer(device, queue, swapChain, 0)
	if ec != rhi.Success {
		return int(ec)
	}
	defer rhi.DestroyRenderer(renderer)

	ctx := &Context{
		PhysicalDevice: physicalDevice,
		Device:         device,
		Queue:          queue,
		Surface:        surface,
		SwapChain:      swapChain,
		Renderer:       renderer,
		Threads:        cfg.RenderingThreads,
	}

	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		renderer.OnResize(uint32(width), uint32(height))
		app.OnResize(ctx, uint32(width), uint32(height))
	})
	win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		renderer.SetIconified(iconified)
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			app.OnKeyDown(ctx, Key(key))
		case glfw.Release:
			app.OnKeyUp(ctx, Key(key))
		case glfw.Repeat:
			app.OnKeyRepeat(ctx, Key(key))
		}
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		app.OnMouseMove(ctx, x, y)
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			app.OnMouseButtonDown(ctx, MouseButton(button))
		case glfw.Release:
			app.OnMouseButtonUp(ctx, MouseButton(button))
		}
	})

	last := time.Now()
	for !win.ShouldClose() && !stopRequested.Load() {
		glfw.PollEvents()

		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		app.OnUpdate(ctx, dt)

		opened, frameErr := rhi.BeginFrame(renderer, 0)
		if frameErr == rhi.Success && opened {
			app.OnRender(ctx)
			rhi.EndFrame(renderer)
		}
	}

	app.OnClose(ctx)
	win.SetShouldClose(true)
	return 0
}
