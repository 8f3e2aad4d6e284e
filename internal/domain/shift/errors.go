package shift

import "errors"

var (
	ErrShiftNotFound    = errors.New("shift template not found")
	ErrShiftNameExists  = errors.New("a shift template with that name already exists")
	ErrDegenerateWindow = errors.New("start and end time must differ")
	ErrShiftInUse       = errors.New("shift template is referenced by active schedule assignments")
)
