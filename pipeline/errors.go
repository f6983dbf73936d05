package pipeline

import (
	"fmt"

	"youtube-automation/constant"
)

// StageError is a collaborator failure, tagged with the stage that raised it.
// It is terminal for the run; the failed stage is never retried.
type StageError struct {
	Stage constant.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StoreError is a record-store failure. It is kept distinct from collaborator
// failures because it can prevent even the failure path from recording anything.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("record store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
