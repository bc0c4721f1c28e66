package tempo

import (
	"errors"
	"fmt"
	"math"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// ErrInvalidArgument is returned when a setter gets a value that is not a
// usable number. Out-of-range numbers are clamped, never rejected.
var ErrInvalidArgument = errors.New("invalid argument")

func checkNumber(op, param string, v float64) error {
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		return nil
	}
	return fault.Wrap(ErrInvalidArgument,
		fmsg.WithDesc(
			fmt.Sprintf("%s: %s should be a finite number, %v given", op, param, v),
			fmt.Sprintf("%s must be a number", param),
		),
		ftag.With(ftag.InvalidArgument),
	)
}
