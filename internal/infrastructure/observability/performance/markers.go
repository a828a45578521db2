// Package performance provides operation markers and a tracker that aggregates them
// into health snapshots for the banner service.
package performance

import (
	"runtime"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation   string         `json:"operation"` // e.g. "banner:update", "editor:save"
	Scope       string         `json:"scope"`     // banner id, "storefront" or "admin"
	StartTime   time.Time      `json:"startTime"`
	EndTime     time.Time      `json:"endTime"`
	Duration    time.Duration  `json:"duration"`
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
	Metadata    map[string]any `json:"metadata"`
	MemoryUsage int64          `json:"memoryUsage"`
	CacheHits   int            `json:"cacheHits"`
	CacheMisses int            `json:"cacheMisses"`
	Completed   bool           `json:"completed"`

	tracker *Tracker
}

// Complete marks the operation as finished and calculates final metrics
func (m *Marker) Complete() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	if m.tracker != nil {
		m.tracker.mu.Lock()
	}
	if m.Completed {
		if m.tracker != nil {
			m.tracker.mu.Unlock()
		}
		return
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
	m.MemoryUsage = int64(memStats.Alloc)
	if m.tracker != nil {
		m.tracker.mu.Unlock()
		m.tracker.recordCompletion(m)
	}
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

func (m *Marker) AddCacheHit()  { m.CacheHits++ }
func (m *Marker) AddCacheMiss() { m.CacheMisses++ }

// GetCacheHitRatio returns the cache hit ratio (0.0 to 1.0)
func (m *Marker) GetCacheHitRatio() float64 {
	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0.0
	}
	return float64(m.CacheHits) / float64(total)
}

// BannerPerformanceTracker holds the latest marker of each banner operation family
type BannerPerformanceTracker struct {
	RepositoryQuery *Marker `json:"repositoryQuery,omitempty"`
	Validation      *Marker `json:"validation,omitempty"`
	Reorder         *Marker `json:"reorder,omitempty"`
	Render          *Marker `json:"render,omitempty"`
}

// EditorPerformanceTracker holds the latest marker of each editor operation family
type EditorPerformanceTracker struct {
	SessionOpen *Marker `json:"sessionOpen,omitempty"`
	Save        *Marker `json:"save,omitempty"`
	Preview     *Marker `json:"preview,omitempty"`
}

// MediaPerformanceTracker holds the latest upload marker
type MediaPerformanceTracker struct {
	Upload *Marker `json:"upload,omitempty"`
}

// PerformanceSnapshot represents a point-in-time view of service performance
type PerformanceSnapshot struct {
	Timestamp           time.Time                 `json:"timestamp"`
	Banner              *BannerPerformanceTracker `json:"banner,omitempty"`
	Editor              *EditorPerformanceTracker `json:"editor,omitempty"`
	Media               *MediaPerformanceTracker  `json:"media,omitempty"`
	OverallHealth       HealthStatus              `json:"overallHealth"`
	ActiveOperations    int                       `json:"activeOperations"`
	CompletedOperations int                       `json:"completedOperations"`
}

// HealthStatus represents the overall health of the service
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
	HealthUnknown   HealthStatus = "unknown"
)

// PerformanceAlert represents a threshold violation
type PerformanceAlert struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Scope     string         `json:"scope"`
	Severity  AlertSeverity  `json:"severity"`
	Operation string         `json:"operation"`
	Actual    time.Duration  `json:"actual"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
}

// AlertSeverity represents the severity level of a performance alert
type AlertSeverity string

const (
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)
