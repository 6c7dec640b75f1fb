package model

import (
	"fmt"
	"time"
)

// Window is an inclusive range of calendar months used when comparing
// predictions against metered data.
type Window struct {
	From time.Month `json:"from"`
	To   time.Month `json:"to"`
}

// DefaultWindow covers the operational season with reliable metered coverage.
var DefaultWindow = Window{From: time.March, To: time.September}

func (w Window) Validate() error {
	if w.From < time.January || w.From > time.December || w.To < time.January || w.To > time.December {
		return fmt.Errorf("window months must be in 1..12, got %d..%d", w.From, w.To)
	}
	if w.From > w.To {
		return fmt.Errorf("window start %s is after end %s", w.From, w.To)
	}
	return nil
}

// Months lists the months of the window in order.
func (w Window) Months() []time.Month {
	out := make([]time.Month, 0, int(w.To-w.From)+1)
	for m := w.From; m <= w.To; m++ {
		out = append(out, m)
	}
	return out
}

func (w Window) Contains(m time.Month) bool {
	return m >= w.From && m <= w.To
}

func (w Window) String() string {
	return fmt.Sprintf("%s-%s", w.From, w.To)
}
