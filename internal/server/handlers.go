package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

// handleHealth handles health check requests.
// Responds 503 when a database does not answer a ping.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	databases := make(map[string]string, len(s.databases))
	for _, db := range s.databases {
		if err := db.QuickCheck(ctx); err != nil {
			s.log.Warn().Err(err).Str("database", db.Name()).Msg("Database health check failed")
			databases[db.Name()] = "unavailable"
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		databases[db.Name()] = "ok"
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memory := map[string]interface{}{
		"heap_alloc_mb": float64(memStats.HeapAlloc) / 1024 / 1024,
		"goroutines":    runtime.NumGoroutine(),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		memory["system_used_percent"] = vm.UsedPercent
		memory["system_available_mb"] = float64(vm.Available) / 1024 / 1024
	} else {
		s.log.Debug().Err(err).Msg("Failed to get memory statistics")
	}

	s.writeJSON(w, code, map[string]interface{}{
		"status":    status,
		"version":   s.version,
		"service":   "factorlens",
		"databases": databases,
		"memory":    memory,
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
