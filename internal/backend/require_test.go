// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"testing"
)

type fakeHandle struct{ tag Tag }

func (h fakeHandle) BackendTag() Tag { return h.tag }

type fakeDriver struct{ tag Tag }

func (d fakeDriver) Tag() Tag { return d.tag }
func (d fakeDriver) EnumeratePhysicalDevices() ([]PhysicalDeviceInfo, error) {
	return nil, nil
}
func (d fakeDriver) CreateLogicalDevice(any) (any, error) { return nil, nil }
func (d fakeDriver) DestroyLogicalDevice(any) error       { return nil }
func (d fakeDriver) CreateQueue(any, int, int) (QueueOps, error) {
	return nil, nil
}
func (d fakeDriver) CreateHeap(any, uint64, int) (any, uintptr, error) { return nil, 0, nil }
func (d fakeDriver) DestroyHeap(any, any) error                        { return nil }

func TestRequireSameBackendSucceeds(t *testing.T) {
	Register(fakeDriver{tag: Vulkan})
	_, err := Require(fakeHandle{Vulkan}, fakeHandle{Vulkan})
	if err != nil {
		t.Fatalf("Require() = %v, want nil", err)
	}
}

func TestRequireMismatchedBackendFails(t *testing.T) {
	Register(fakeDriver{tag: Vulkan})
	Register(fakeDriver{tag: D3D12})
	_, err := Require(fakeHandle{Vulkan}, fakeHandle{D3D12})
	if err == nil {
		t.Fatal("Require() = nil, want mismatch error")
	}
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Require() error = %v, want *MismatchError", err)
	}
	if Classify(err) != CodeUnsupported {
		t.Fatalf("Classify(mismatch) = %v, want CodeUnsupported", Classify(err))
	}
}

func TestRequireUnregisteredBackendFails(t *testing.T) {
	driversMu.Lock()
	delete(drivers, OpenGL)
	driversMu.Unlock()
	_, err := Require(fakeHandle{OpenGL})
	if !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("Require() error = %v, want ErrNotRegistered", err)
	}
}
