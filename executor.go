package rhi

import (
	"fmt"
)

// CommandExecutor replays command lists on one backend. Every executor
// validates each command with a Validator before issuing native calls,
// and skips the commands that fail.
type CommandExecutor interface {
	// ExecuteCommands validates and replays list in order. Rejected
	// commands are reported through a *SubmitError; the others still run.
	ExecuteCommands(list *CommandList) error
	// Reset drops any state cached between submissions.
	Reset()
}

// SubmitError aggregates the commands of one list that failed validation.
// errors.Is(err, ErrValidation) holds for it, and errors.As extracts the
// first *ValidationError.
type SubmitError struct {
	List     string
	Failures []*ValidationError
}

func (e *SubmitError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("rhi: command list %q: %v", e.List, e.Failures[0])
	}
	return fmt.Sprintf("rhi: command list %q: %d commands failed validation, first: %v",
		e.List, len(e.Failures), e.Failures[0])
}

// Unwrap returns the first failure.
func (e *SubmitError) Unwrap() error { return e.Failures[0] }

// Validator applies the shared validation rules during replay and collects
// the failures of one list.
//
//	var v rhi.Validator
//	v.Begin(list)
//	for i, cmd := range list.Commands() {
//	    if !v.Validate(i, cmd) {
//	        continue
//	    }
//	    switch c := cmd.(type) { ... }
//	}
//	return v.Err()
type Validator struct {
	list     string
	failures []*ValidationError
}

// Begin prepares the validator for list.
func (v *Validator) Begin(list *CommandList) {
	v.list = list.Name()
	v.failures = v.failures[:0]
}

// Validate checks the command at index. On failure it logs the
// diagnostic, records it, and returns false.
func (v *Validator) Validate(index int, cmd Command) bool {
	err := ValidateCommand(cmd)
	if err == nil {
		return true
	}
	err.Index = index
	report(err, v.list)
	v.failures = append(v.failures, err)
	return false
}

// Failures returns the failures recorded since Begin.
func (v *Validator) Failures() []*ValidationError { return v.failures }

// Err returns a *SubmitError if any command failed, or nil.
func (v *Validator) Err() error {
	if len(v.failures) == 0 {
		return nil
	}
	return &SubmitError{List: v.list, Failures: append([]*ValidationError(nil), v.failures...)}
}
