package health

import (
	"fmt"
	"strings"
	"time"
)

// Category is one of the fixed metric domains tracked by pulse.
type Category string

const (
	Heart       Category = "heart"
	Sleep       Category = "sleep"
	Mind        Category = "mind"
	Performance Category = "performance"
	Vitals      Category = "vitals"
)

// AllCategories returns every category in canonical display order.
func AllCategories() []Category {
	return []Category{Heart, Sleep, Mind, Performance, Vitals}
}

// ParseCategory maps a CLI/config string to a Category.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range AllCategories() {
		if string(c) == s {
			return c, nil
		}
	}
	valid := make([]string, 0, len(AllCategories()))
	for _, c := range AllCategories() {
		valid = append(valid, string(c))
	}
	return "", fmt.Errorf("unknown category %q (valid: %s)", s, strings.Join(valid, ", "))
}

// Label returns the human-readable category name.
func (c Category) Label() string {
	switch c {
	case Heart:
		return "Heart"
	case Sleep:
		return "Sleep"
	case Mind:
		return "Mind"
	case Performance:
		return "Performance"
	case Vitals:
		return "Vitals"
	}
	return string(c)
}

// TimeSpan is the aggregation window for a summary.
type TimeSpan string

const (
	Daily   TimeSpan = "daily"
	Weekly  TimeSpan = "weekly"
	Monthly TimeSpan = "monthly"
)

// AllTimeSpans returns every timespan in canonical order.
func AllTimeSpans() []TimeSpan {
	return []TimeSpan{Daily, Weekly, Monthly}
}

// ParseTimeSpan maps a CLI/config string to a TimeSpan.
func ParseTimeSpan(s string) (TimeSpan, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "d":
		return Daily, nil
	case "weekly", "week", "w":
		return Weekly, nil
	case "monthly", "month", "m":
		return Monthly, nil
	}
	return "", fmt.Errorf("unknown timespan %q (valid: daily, weekly, monthly)", s)
}

// MaxAge returns how old a cached summary may be before it is stale.
func (ts TimeSpan) MaxAge() time.Duration {
	switch ts {
	case Weekly:
		return 3 * 24 * time.Hour
	case Monthly:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Range returns the metric query window ending at now.
func (ts TimeSpan) Range(now time.Time) (start, end time.Time) {
	switch ts {
	case Weekly:
		return now.Add(-7 * 24 * time.Hour), now
	case Monthly:
		return now.Add(-30 * 24 * time.Hour), now
	default:
		return now.Add(-24 * time.Hour), now
	}
}

// Label returns the human-readable timespan name.
func (ts TimeSpan) Label() string {
	switch ts {
	case Weekly:
		return "Weekly"
	case Monthly:
		return "Monthly"
	default:
		return "Daily"
	}
}
