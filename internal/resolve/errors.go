package resolve

import (
	"errors"
	"fmt"

	"github.com/tapcraft-io/ecsexec/pkg/types"
)

var (
	// ErrEmptyCandidates is wrapped by EmptyCandidatesError
	ErrEmptyCandidates = errors.New("no candidates")

	// ErrPromptAborted is returned by a Prompter when the operator quits without choosing
	ErrPromptAborted = errors.New("selection aborted")

	// ErrInvalidChoice is returned when a Prompter answers with a value it was not offered
	ErrInvalidChoice = errors.New("choice not among candidates")
)

// EmptyCandidatesError reports the level whose listing came back empty
type EmptyCandidatesError struct {
	Level types.Level
	Path  types.ResourcePath
}

func (e *EmptyCandidatesError) Error() string {
	if e.Path.Profile == "" {
		return fmt.Sprintf("no %s found", e.Level)
	}
	return fmt.Sprintf("no %s found under %s", e.Level, e.Path)
}

func (e *EmptyCandidatesError) Unwrap() error {
	return ErrEmptyCandidates
}
