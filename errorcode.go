// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fyuuforge/rhi/internal/backend"
)

// errNilHandle is returned (wrapped) when a Destroy*/operation call
// receives a nil or already-destroyed handle; it classifies as
// InvalidPointer.
var errNilHandle = errors.New("rhi: nil or already-destroyed handle")

// ErrorCode is the seven-value classification every Create*/Destroy*
// entry point returns alongside its handle. It is deliberately narrow:
// backend-specific errors are collapsed into one of these at the
// dispatch seam (internal/backend.Classify) rather than threading driver
// error types out through the public API.
type ErrorCode int

const (
	// Success indicates the call completed normally.
	Success ErrorCode = iota
	// Unsupported indicates the requested operation, format or
	// cross-backend combination is not supported. Mixing handles from two
	// different Tags always classifies here.
	Unsupported
	// BadAllocation indicates a heap pool or driver allocation failed, for
	// example because a HeapPool is exhausted or a driver reports
	// out-of-device-memory.
	BadAllocation
	// InvalidPointer indicates a caller passed a nil or already-destroyed
	// handle.
	InvalidPointer
	// InvalidParameter indicates a malformed argument that the caller
	// could have validated up front (zero-sized surface, unknown enum
	// value, descriptor with conflicting fields).
	InvalidParameter
	// SystemError indicates an unrecoverable driver/OS-level failure: a
	// lost device, a removed adapter, a failed syscall into the platform
	// graphics API.
	SystemError
	// UnknownError is the fallback for anything internal/backend.Classify
	// could not map to the above, including a recovered backend panic.
	UnknownError
)

func (e ErrorCode) String() string {
	switch e {
	case Success:
		return "Success"
	case Unsupported:
		return "Unsupported"
	case BadAllocation:
		return "BadAllocation"
	case InvalidPointer:
		return "InvalidPointer"
	case InvalidParameter:
		return "InvalidParameter"
	case SystemError:
		return "SystemError"
	case UnknownError:
		return "UnknownError"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(e))
	}
}

// lastErr is the thread-local-shaped fallback GetLastError reads. Go has
// no true thread-local storage and no per-goroutine slots either, so it is
// one package-wide record: every Create*/Destroy* call records here under a mutex,
// matching the single-threaded C API this shape is meant to stand in for.
// Concurrent callers should prefer the returned ErrorCode directly.
var lastErrMu sync.Mutex
var lastErr struct {
	code ErrorCode
	msg  string
}

func setLastError(code ErrorCode, err error) {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	lastErr.code = code
	if err != nil {
		lastErr.msg = err.Error()
	} else {
		lastErr.msg = ""
	}
}

// GetLastError returns the ErrorCode and message recorded by the most
// recent Create*/Destroy* call made by any goroutine. Prefer the
// ErrorCode returned directly from each call; GetLastError exists for
// callers adapting this API to a literal C ABI at the edge, where the
// call convention has no room for a second return value.
func GetLastError() (ErrorCode, string) {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	return lastErr.code, lastErr.msg
}

// classify maps err (nil included) onto an ErrorCode via
// internal/backend.Classify, keeping the Code→ErrorCode mapping in one
// place.
func classify(err error) ErrorCode {
	switch backend.Classify(err) {
	case backend.CodeSuccess:
		return Success
	case backend.CodeUnsupported:
		return Unsupported
	case backend.CodeBadAllocation:
		return BadAllocation
	case backend.CodeInvalidPointer:
		return InvalidPointer
	case backend.CodeInvalidParameter:
		return InvalidParameter
	case backend.CodeSystemError:
		return SystemError
	default:
		return UnknownError
	}
}

// fail classifies err, records it as the last error, and returns code.
// Every Create*/Destroy* call that can fail funnels its error through
// this single choke point.
func fail(err error) ErrorCode {
	if errors.Is(err, errNilHandle) {
		setLastError(InvalidPointer, err)
		return InvalidPointer
	}
	code := classify(err)
	setLastError(code, err)
	return code
}

// reportError is fail's two-return-value form, for Create* functions that
// hand back a typed nil handle alongside the ErrorCode.
func reportError[T any](err error) (T, ErrorCode) {
	var zero T
	return zero, fail(err)
}
