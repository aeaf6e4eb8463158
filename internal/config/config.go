package config

import "sync"

// RenderSettings holds host-loop settings that can change while the scene runs
type RenderSettings struct {
	mu       sync.RWMutex
	fpsLimit int // 0 = unlimited
}

var globalRenderSettings = &RenderSettings{
	fpsLimit: 60,
}

// GetFPSLimit returns the frame cap used by the host pump
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap. Values above 240 are clamped; negative values mean unlimited.
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	if limit > 240 {
		limit = 240
	}

	globalRenderSettings.fpsLimit = limit
}
