package imaging

import (
	"fmt"

	"github.com/gocomics/panelflow"
)

func errInvalidRatio(field string, value float64) error {
	return fmt.Errorf("imaging: %s=%v: %w", field, value, panelflow.ErrInvalidConfig)
}
