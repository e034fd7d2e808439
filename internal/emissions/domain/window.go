package emissions

import (
	"fmt"
	"time"

	"github.com/dahyun0301/carbon-report-server/internal/period"
)

// ReportWindow is one submitted reporting configuration: a month range and
// the allowance actual emissions are compared against. Windows are
// append-only; the row with the highest id is a tenant's current window.
type ReportWindow struct {
	ID        int64
	TenantID  string
	Company   string
	Industry  string
	Start     period.Month
	End       period.Month
	Allowance float64
	CreatedAt time.Time
}

// Validate checks the window before it is appended.
func (w *ReportWindow) Validate() error {
	if w == nil {
		return ErrInvalidWindow
	}
	if w.TenantID == "" {
		return fmt.Errorf("%w: empty tenant", ErrInvalidWindow)
	}
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: missing month bounds", ErrInvalidWindow)
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidWindow, w.End, w.Start)
	}
	return nil
}
