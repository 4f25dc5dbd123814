package script

import (
	"errors"
	"fmt"
)

// ErrStateClosed is returned when using a closed interpreter.
var ErrStateClosed = errors.New("lua state is closed")

// ScriptError reports a failure loading or running a script file.
type ScriptError struct {
	Path string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Path, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
