package models

import "time"

// Usage event types tracked for adoption metrics.
const (
	EventView     = "VIEW"
	EventSearch   = "SEARCH"
	EventDownload = "DOWNLOAD"
	EventCreate   = "CREATE"
	EventComment  = "COMMENT"
	EventApprove  = "APPROVE"
)

// UsageEvent is one tracked user action. Tracking is best-effort and never
// fails the request that produced it.
type UsageEvent struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	EventType string         `json:"event_type"`
	ContentID *int64         `json:"content_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// EventTypeCount is an aggregated count per event type over a range.
type EventTypeCount struct {
	EventType string `json:"event_type"`
	Count     int64  `json:"count"`
}

// WeeklyTrendPoint is one week's adoption figures.
type WeeklyTrendPoint struct {
	Week         string `json:"week"`
	ActiveUsers  int64  `json:"activeUsers"`
	Contributors int64  `json:"contributors"`
	Consumers    int64  `json:"consumers"`
}

// AdoptionMetrics aggregates usage over a date range.
type AdoptionMetrics struct {
	Range                     DateRange          `json:"range"`
	ActiveUsers               int64              `json:"activeUsers"`
	Contributors              int64              `json:"contributors"`
	Consumers                 int64              `json:"consumers"`
	ContributorVsConsumerRate float64            `json:"contributorVsConsumerRate"`
	TopEvents                 []EventTypeCount   `json:"topEvents"`
	WeeklyTrend               []WeeklyTrendPoint `json:"weeklyTrend"`
}

// DateRange is the inclusive day range a metrics query covers.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}
