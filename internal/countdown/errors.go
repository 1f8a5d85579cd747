package countdown

import (
	"errors"
	"fmt"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// ErrScheduleIncomplete is returned when a schedule lacks one of the daily prayers.
var ErrScheduleIncomplete = errors.New("schedule incomplete")

func validate(s model.Schedule) error {
	if missing := s.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrScheduleIncomplete, missing)
	}
	return nil
}
