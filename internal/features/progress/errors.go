package progress

import "errors"

var ErrInvalidProgress = errors.New("currentTime and duration must be finite and not negative")
