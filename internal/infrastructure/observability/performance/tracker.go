package performance

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers    map[string]*Marker
	alerts     []*PerformanceAlert
	thresholds *AlertThresholds
	mu         sync.RWMutex
	started    time.Time
	config     *TrackerConfig
	seq        uint64
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers   int           `json:"maxMarkers"`
	MaxAlerts    int           `json:"maxAlerts"`
	Retention    time.Duration `json:"retention"`
	EnableAlerts bool          `json:"enableAlerts"`
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:   10000,
		MaxAlerts:    500,
		Retention:    time.Hour,
		EnableAlerts: true,
	}
}

// AlertThresholds defines performance thresholds for generating alerts
type AlertThresholds struct {
	VerySlowResponseThreshold time.Duration `json:"verySlowResponseThreshold"`
	CriticalResponseThreshold time.Duration `json:"criticalResponseThreshold"`

	RenderThreshold     time.Duration `json:"renderThreshold"`
	RepositoryThreshold time.Duration `json:"repositoryThreshold"`
	UploadThreshold     time.Duration `json:"uploadThreshold"`
}

// DefaultAlertThresholds returns sensible default alert thresholds
func DefaultAlertThresholds() *AlertThresholds {
	return &AlertThresholds{
		VerySlowResponseThreshold: 2 * time.Second,
		CriticalResponseThreshold: 5 * time.Second,
		RenderThreshold:           100 * time.Millisecond,
		RepositoryThreshold:       200 * time.Millisecond,
		UploadThreshold:           3 * time.Second,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		markers:    make(map[string]*Marker),
		thresholds: DefaultAlertThresholds(),
		started:    time.Now(),
		config:     config,
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation, scope string) *Marker {
	marker := &Marker{
		Operation: operation,
		Scope:     scope,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true,
		tracker:   t,
	}

	t.mu.Lock()
	t.seq++
	t.markers[fmt.Sprintf("%s_%s_%d", scope, operation, t.seq)] = marker
	overflow := len(t.markers) > t.config.MaxMarkers
	t.mu.Unlock()

	if overflow {
		t.Cleanup()
	}
	return marker
}

func (t *Tracker) recordCompletion(marker *Marker) {
	if !t.config.EnableAlerts {
		return
	}
	alerts := t.evaluateThresholds(marker)
	if len(alerts) == 0 {
		return
	}

	t.mu.Lock()
	t.alerts = append(t.alerts, alerts...)
	if len(t.alerts) > t.config.MaxAlerts {
		t.alerts = t.alerts[len(t.alerts)-t.config.MaxAlerts:]
	}
	t.mu.Unlock()
}

func (t *Tracker) evaluateThresholds(marker *Marker) []*PerformanceAlert {
	var alerts []*PerformanceAlert

	if marker.Duration > t.thresholds.CriticalResponseThreshold {
		alerts = append(alerts, t.createAlert(marker, AlertCritical,
			"Operation exceeded critical response time threshold"))
	} else if marker.Duration > t.thresholds.VerySlowResponseThreshold {
		alerts = append(alerts, t.createAlert(marker, AlertWarning,
			"Operation exceeded slow response time threshold"))
	}

	switch {
	case strings.Contains(marker.Operation, "render"), strings.Contains(marker.Operation, "preview"):
		if marker.Duration > t.thresholds.RenderThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning, "Render exceeded threshold"))
		}
	case strings.Contains(marker.Operation, "repository"):
		if marker.Duration > t.thresholds.RepositoryThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning, "Repository query exceeded threshold"))
		}
	case strings.Contains(marker.Operation, "upload"):
		if marker.Duration > t.thresholds.UploadThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning, "Asset upload exceeded threshold"))
		}
	}

	return alerts
}

func (t *Tracker) createAlert(marker *Marker, severity AlertSeverity, message string) *PerformanceAlert {
	return &PerformanceAlert{
		ID:        fmt.Sprintf("alert_%d", time.Now().UnixNano()),
		Timestamp: time.Now(),
		Scope:     marker.Scope,
		Severity:  severity,
		Operation: marker.Operation,
		Actual:    marker.Duration,
		Message:   message,
		Metadata: map[string]any{
			"cacheHitRatio": marker.GetCacheHitRatio(),
			"success":       marker.Success,
		},
	}
}

// GetRecentMetrics returns operations completed within the specified duration
func (t *Tracker) GetRecentMetrics(within time.Duration) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := time.Now().Add(-within)
	var metrics []Marker
	for _, marker := range t.markers {
		if marker.Completed && marker.EndTime.After(cutoff) {
			metrics = append(metrics, *marker)
		}
	}
	return metrics
}

// GetActiveOperations returns currently running operations
func (t *Tracker) GetActiveOperations() []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var active []Marker
	for _, marker := range t.markers {
		if !marker.Completed {
			m := *marker
			m.Duration = time.Since(marker.StartTime)
			active = append(active, m)
		}
	}
	return active
}

// GetAlerts returns the retained performance alerts
func (t *Tracker) GetAlerts() []*PerformanceAlert {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*PerformanceAlert, len(t.alerts))
	copy(out, t.alerts)
	return out
}

// TakeSnapshot summarizes the last five minutes of operations
func (t *Tracker) TakeSnapshot() *PerformanceSnapshot {
	metrics := t.GetRecentMetrics(5 * time.Minute)
	active := t.GetActiveOperations()

	snapshot := &PerformanceSnapshot{
		Timestamp:           time.Now(),
		ActiveOperations:    len(active),
		CompletedOperations: len(metrics),
		OverallHealth:       t.calculateHealth(metrics, active),
		Banner:              &BannerPerformanceTracker{},
		Editor:              &EditorPerformanceTracker{},
		Media:               &MediaPerformanceTracker{},
	}

	for _, metric := range metrics {
		m := metric
		switch {
		case strings.HasPrefix(m.Operation, "banner:"):
			switch {
			case strings.Contains(m.Operation, "reorder"):
				latest(&snapshot.Banner.Reorder, &m)
			case strings.Contains(m.Operation, "validate"):
				latest(&snapshot.Banner.Validation, &m)
			case strings.Contains(m.Operation, "render"):
				latest(&snapshot.Banner.Render, &m)
			default:
				latest(&snapshot.Banner.RepositoryQuery, &m)
			}
		case strings.HasPrefix(m.Operation, "editor:"):
			switch {
			case strings.Contains(m.Operation, "save"):
				latest(&snapshot.Editor.Save, &m)
			case strings.Contains(m.Operation, "preview"):
				latest(&snapshot.Editor.Preview, &m)
			default:
				latest(&snapshot.Editor.SessionOpen, &m)
			}
		case strings.HasPrefix(m.Operation, "media:"):
			latest(&snapshot.Media.Upload, &m)
		}
	}
	return snapshot
}

func latest(slot **Marker, m *Marker) {
	if *slot == nil || m.EndTime.After((*slot).EndTime) {
		*slot = m
	}
}

func (t *Tracker) calculateHealth(metrics, activeOps []Marker) HealthStatus {
	total := len(metrics) + len(activeOps)
	if total == 0 {
		return HealthUnknown
	}

	critical, warning := 0, 0
	for _, op := range append(metrics, activeOps...) {
		if op.Duration > t.thresholds.CriticalResponseThreshold || (op.Completed && !op.Success) {
			critical++
		} else if op.Duration > t.thresholds.VerySlowResponseThreshold {
			warning++
		}
	}

	criticalRatio := float64(critical) / float64(total)
	warningRatio := float64(warning) / float64(total)
	switch {
	case criticalRatio > 0.1:
		return HealthUnhealthy
	case criticalRatio > 0.05 || warningRatio > 0.2:
		return HealthDegraded
	default:
		return HealthHealthy
	}
}

// Cleanup removes markers older than the retention window
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-t.config.Retention)
	for id, marker := range t.markers {
		if marker.Completed && marker.EndTime.Before(cutoff) {
			delete(t.markers, id)
		}
	}

	if len(t.markers) > t.config.MaxMarkers {
		excess := len(t.markers) - t.config.MaxMarkers/2
		for id, marker := range t.markers {
			if excess == 0 {
				break
			}
			if marker.Completed {
				delete(t.markers, id)
				excess--
			}
		}
	}
}

// GetOverallStats returns overall tracker statistics
func (t *Tracker) GetOverallStats() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	activeCount, completedCount := 0, 0
	for _, marker := range t.markers {
		if marker.Completed {
			completedCount++
		} else {
			activeCount++
		}
	}

	return map[string]any{
		"trackerUptime":       time.Since(t.started).String(),
		"totalMarkers":        len(t.markers),
		"activeOperations":    activeCount,
		"completedOperations": completedCount,
		"totalAlerts":         len(t.alerts),
		"memoryUsageMB":       memStats.Alloc / (1024 * 1024),
		"goroutines":          runtime.NumGoroutine(),
	}
}
