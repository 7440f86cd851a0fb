package core

import (
	"errors"
	"fmt"
)

var (
	// ErrSurfaceOutOfDate is returned when the presentation surface no longer
	// matches the swapchain. It is recovered by rebuilding the swapchain.
	ErrSurfaceOutOfDate = errors.New("surface out of date")
	// ErrZeroExtent is returned when a swapchain is requested for a window
	// with a zero width or height.
	ErrZeroExtent = errors.New("extent has a zero dimension")
	// ErrInsufficientImages is returned when the device hands out fewer
	// swapchain images than the surface requires.
	ErrInsufficientImages = errors.New("device returned fewer swapchain images than required")

	ErrMissingPipelineLayout = errors.New("pipeline layout is not set")
	ErrMissingRenderPass     = errors.New("render pass is not set")
	ErrUnknownHandle         = errors.New("unknown handle")
)

// MissingResourceError reports a file that could not be found or read.
type MissingResourceError struct {
	Path string
	Err  error
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("missing resource %q: %v", e.Path, e.Err)
}

func (e *MissingResourceError) Unwrap() error {
	return e.Err
}

// BuildRejectedError reports that the device refused to build an object
// from the given description.
type BuildRejectedError struct {
	Object string
	Err    error
}

func (e *BuildRejectedError) Error() string {
	return fmt.Sprintf("device rejected %s: %v", e.Object, e.Err)
}

func (e *BuildRejectedError) Unwrap() error {
	return e.Err
}

// ContractViolation is the value panicked with when an API is used outside
// of the state it requires. It signals a programming error, never a runtime
// condition to recover from.
type ContractViolation struct {
	Op     string
	Reason string
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("%s: %s", c.Op, c.Reason)
}

// Assert panics with a ContractViolation when cond is false.
func Assert(cond bool, op, reason string) {
	if !cond {
		LogError("contract violation in %s: %s", op, reason)
		panic(&ContractViolation{Op: op, Reason: reason})
	}
}
