// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package backend

import "fmt"

// MismatchError is the error Require returns when two or more tags
// disagree; Classify maps any error wrapping it to CodeUnsupported.
type MismatchError struct {
	Tags []Tag
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("backend: handles from different backends: %v", e.Tags)
}

// Tagged is implemented by every handle type the rhi package hands out.
type Tagged interface {
	BackendTag() Tag
}

// Require checks that every tagged handle shares one backend and that the
// backend is registered. It is called first thing in every rhi function
// that touches more than one handle (e.g. submitting a CommandObject to a
// CommandQueue, binding a Resource backed by one LogicalDevice's
// VideoMemory to a CommandObject from another).
func Require(handles ...Tagged) (Driver, error) {
	if len(handles) == 0 {
		return nil, fmt.Errorf("backend: Require called with no handles")
	}
	want := handles[0].BackendTag()
	var mismatched []Tag
	for _, h := range handles {
		if h.BackendTag() != want {
			mismatched = append(mismatched, h.BackendTag())
		}
	}
	if len(mismatched) > 0 {
		return nil, &MismatchError{Tags: append([]Tag{want}, mismatched...)}
	}
	d, ok := Get(want)
	if !ok {
		return nil, fmt.Errorf("backend: %s: %w", want, ErrNotRegistered)
	}
	return d, nil
}
