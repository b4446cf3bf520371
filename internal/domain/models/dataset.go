package models

import (
	"fmt"
	"time"
)

// DatePart is the calendar unit time entries are bucketed by
type DatePart string

const (
	DatePartDay   DatePart = "day"
	DatePartMonth DatePart = "month"
)

// LocalDateLayout is the wire format of a bucket's local date
const LocalDateLayout = "2006-01-02"

// Truncate returns the local calendar bucket t falls into, formatted as YYYY-MM-DD.
// Month buckets are reported as the first day of the month.
func (p DatePart) Truncate(t time.Time, loc *time.Location) (string, error) {
	local := t.In(loc)
	switch p {
	case DatePartDay:
		return local.Format(LocalDateLayout), nil
	case DatePartMonth:
		return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc).Format(LocalDateLayout), nil
	default:
		return "", fmt.Errorf("unsupported date part %q", string(p))
	}
}

// DatePoint is the summed duration of one local date bucket
type DatePoint struct {
	LocalDate string `json:"local_date"`
	Duration  int64  `json:"duration"` // seconds
}

// FolderDataset is the time series of a folder's whole subtree
type FolderDataset struct {
	FolderID string      `json:"folder_id"`
	Data     []DatePoint `json:"data"`
}

// CategoryDataset is the time series summed over a category's folders
type CategoryDataset struct {
	CategoryID string      `json:"category_id"`
	Data       []DatePoint `json:"data"`
}

// ChartDataset is everything a chart renders
type ChartDataset struct {
	Folders    []FolderDataset   `json:"folders"`
	Categories []CategoryDataset `json:"categories"`
}
