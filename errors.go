package rhi

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error categories. Every typed error in this package matches exactly one
// of these through errors.Is.
var (
	// ErrResourceCreation matches a *ResourceCreationError.
	ErrResourceCreation = errors.New("rhi: resource creation failed")

	// ErrPipelineCompilation matches a *PipelineCompilationError.
	ErrPipelineCompilation = errors.New("rhi: pipeline compilation failed")

	// ErrValidation matches a *ValidationError.
	ErrValidation = errors.New("rhi: command validation failed")

	// ErrBackendUnavailable matches a *BackendUnavailableError.
	ErrBackendUnavailable = errors.New("rhi: graphics backend unavailable")
)

// State errors returned by resources and command lists.
var (
	// ErrNotRecording is returned when a command list is used outside the
	// Recording state.
	ErrNotRecording = errors.New("rhi: command list is not recording")

	// ErrAlreadyRecording is returned by Begin on a list that is recording.
	ErrAlreadyRecording = errors.New("rhi: command list is already recording")

	// ErrNotRecorded is returned when submitting a list that was not ended.
	ErrNotRecorded = errors.New("rhi: command list has not been recorded")

	// ErrResourceDestroyed is returned when a destroyed resource is used.
	ErrResourceDestroyed = errors.New("rhi: resource has been destroyed")

	// ErrForeignResource is returned when a resource from another device is used.
	ErrForeignResource = errors.New("rhi: resource belongs to a different device")

	// ErrDeviceClosed is returned by every operation on a closed device.
	ErrDeviceClosed = errors.New("rhi: graphics device is closed")

	// ErrBufferNotHostVisible is returned by Map on a device-local buffer.
	ErrBufferNotHostVisible = errors.New("rhi: buffer is not host visible")

	// ErrBufferMapped is returned when a mapped buffer is mapped or written again.
	ErrBufferMapped = errors.New("rhi: buffer is already mapped")

	// ErrBufferNotMapped is returned by Unmap on a buffer that is not mapped.
	ErrBufferNotMapped = errors.New("rhi: buffer is not mapped")

	// ErrOutOfRange is returned when a write exceeds the resource bounds.
	ErrOutOfRange = errors.New("rhi: range exceeds resource bounds")

	// ErrUnknownSlot is returned when a resource set is written through a
	// name its pipeline does not declare.
	ErrUnknownSlot = errors.New("rhi: unknown resource slot")

	// ErrSlotKindMismatch is returned when a uniform buffer is written to an
	// image slot or the other way around.
	ErrSlotKindMismatch = errors.New("rhi: resource kind does not match slot")

	// ErrUnknownSampleCount is returned for a SampleCount outside the enum.
	ErrUnknownSampleCount = errors.New("rhi: unknown sample count")
)

// ResourceCreationError reports an invalid description or an unsupported
// format or usage for the active backend.
type ResourceCreationError struct {
	// Resource is the kind of resource, e.g. "buffer" or "texture2d".
	Resource string
	// Name is the debug name, if any.
	Name string
	// Reason describes what was wrong with the description.
	Reason string
	// Err is the backend error, if the failure came from the backend.
	Err error
}

func (e *ResourceCreationError) Error() string {
	msg := "rhi: create " + e.Resource
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the category sentinel and, when present, the backend cause.
func (e *ResourceCreationError) Unwrap() error { return markCause(e.Err, ErrResourceCreation) }

// PipelineCompilationError reports a shader compile or link failure, or an
// inconsistent resource schema.
type PipelineCompilationError struct {
	// Pipeline is the pipeline's debug name.
	Pipeline string
	// Reason is a short description.
	Reason string
	// Diagnostic carries the backend compiler or linker output verbatim.
	Diagnostic string
	// Err is the backend error, if any.
	Err error
}

func (e *PipelineCompilationError) Error() string {
	msg := fmt.Sprintf("rhi: compile pipeline %q: %s", e.Pipeline, e.Reason)
	if e.Diagnostic != "" {
		msg += "\n" + e.Diagnostic
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the category sentinel and, when present, the backend cause.
func (e *PipelineCompilationError) Unwrap() error { return markCause(e.Err, ErrPipelineCompilation) }

// ValidationError reports a recorded command that failed validation at
// execution time. The command is skipped.
type ValidationError struct {
	// Command is the kind of the rejected command.
	Command CommandType
	// Index is the position of the command in its list, or -1 when the
	// check ran outside an executor.
	Index int
	// Slot names the resource slot involved, if any.
	Slot string
	// Reason is a human readable diagnostic.
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("rhi: %s: %s", e.Command, e.Reason)
	}
	return fmt.Sprintf("rhi: command %d (%s): %s", e.Index, e.Command, e.Reason)
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// BackendUnavailableError reports a graphics API that cannot be used on the
// current platform. No fallback backend is chosen.
type BackendUnavailableError struct {
	API    GraphicsAPI
	Reason string
	Err    error
}

func (e *BackendUnavailableError) Error() string {
	msg := fmt.Sprintf("rhi: backend %s unavailable: %s", e.API, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the category sentinel and, when present, the cause.
func (e *BackendUnavailableError) Unwrap() error { return markCause(e.Err, ErrBackendUnavailable) }

// markCause keeps both the category and the original cause reachable from
// errors.Is.
func markCause(cause, category error) error {
	if cause == nil {
		return category
	}
	return errors.Mark(cause, category)
}

func newResourceError(resource, name, format string, args ...any) *ResourceCreationError {
	return &ResourceCreationError{Resource: resource, Name: name, Reason: fmt.Sprintf(format, args...)}
}

func wrapResourceError(err error, resource, name, reason string) *ResourceCreationError {
	var rce *ResourceCreationError
	if errors.As(err, &rce) {
		return rce
	}
	return &ResourceCreationError{Resource: resource, Name: name, Reason: reason, Err: err}
}
