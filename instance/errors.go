package instance

import (
	"fmt"

	"q.log/qpsimplex/model"
)

var (
	// ErrFormat reports an instance or config file that cannot be parsed.
	ErrFormat = fmt.Errorf("%w: malformed file", model.ErrConfiguration)

	// ErrArgument reports generator arguments out of range.
	ErrArgument = fmt.Errorf("%w: invalid generator argument", model.ErrConfiguration)
)
