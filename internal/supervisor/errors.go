package supervisor

import (
	"errors"
	"fmt"

	"github.com/jmylchreest/a2dpsink/internal/model"
)

// ErrNoConnection is returned when a factory reports success without a handle.
var ErrNoConnection = errors.New("connection factory returned no connection")

// OpenError reports a non-success open status.
type OpenError struct {
	Result model.OpenResult
}

func (e *OpenError) Error() string {
	if e.Result.Reason != "" {
		return fmt.Sprintf("failed to open connection: %s (%s)", e.Result.Status, e.Result.Reason)
	}
	return fmt.Sprintf("failed to open connection: %s", e.Result.Status)
}
