package metrics

import (
	"sync"
)

var initOnce sync.Once

// Init initializes all metrics and registers them with Prometheus
// This function is safe to call multiple times (uses sync.Once)
func Init() {
	initOnce.Do(func() {
		initCleanupMetrics()
		registerCleanupMetrics()
	})
}
