package analytics

import (
	"fmt"
	"time"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// trendSeries buckets tickets by created_date at the requested granularity
// and zero-fills every bucket between the observed minimum and maximum so
// the series stays contiguous for charting. This is the one place zero-fill
// is correct: the gaps are time intervals, not missing data values.
func trendSeries(tickets []models.Ticket, granularity models.Granularity) models.TrendSeries {
	series := models.TrendSeries{Granularity: granularity, Points: []models.TrendPoint{}}
	if len(tickets) == 0 {
		return series
	}

	counts := make(map[string]int, len(tickets))
	minDate, maxDate := tickets[0].CreatedDate, tickets[0].CreatedDate
	for _, t := range tickets {
		counts[bucketKey(t.CreatedDate, granularity)]++
		if t.CreatedDate.Before(minDate) {
			minDate = t.CreatedDate
		}
		if t.CreatedDate.After(maxDate) {
			maxDate = t.CreatedDate
		}
	}

	for cur := bucketStart(minDate, granularity); !cur.After(maxDate); cur = nextBucket(cur, granularity) {
		key := bucketKey(cur, granularity)
		series.Points = append(series.Points, models.TrendPoint{
			Bucket: key,
			Label:  bucketLabel(cur, granularity),
			Count:  counts[key],
		})
	}
	return series
}

// bucketKey is the sortable identity of the interval containing ts.
func bucketKey(ts time.Time, granularity models.Granularity) string {
	switch granularity {
	case models.GranularityWeek:
		year, week := ts.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case models.GranularityMonth:
		return ts.Format("2006-01")
	default:
		return ts.Format("2006-01-02")
	}
}

// bucketLabel is the display form of the interval containing ts.
func bucketLabel(ts time.Time, granularity models.Granularity) string {
	switch granularity {
	case models.GranularityWeek:
		year, week := ts.ISOWeek()
		return fmt.Sprintf("Week %d, %d", week, year)
	case models.GranularityMonth:
		return ts.Format("January 2006")
	default:
		return ts.Format("2006-01-02")
	}
}

// bucketStart truncates ts to the first instant of its bucket.
func bucketStart(ts time.Time, granularity models.Granularity) time.Time {
	switch granularity {
	case models.GranularityWeek:
		// Back up to the ISO week's Monday.
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case models.GranularityMonth:
		return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, ts.Location())
	default:
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	}
}

func nextBucket(ts time.Time, granularity models.Granularity) time.Time {
	switch granularity {
	case models.GranularityWeek:
		return ts.AddDate(0, 0, 7)
	case models.GranularityMonth:
		return ts.AddDate(0, 1, 0)
	default:
		return ts.AddDate(0, 0, 1)
	}
}
