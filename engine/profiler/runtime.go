package profiler

import "runtime"

// RuntimeStats is what the debug overlay shows next to frame timings.
type RuntimeStats struct {
	HeapAlloc  uint64
	Mallocs    uint64
	NumGC      uint32
	Goroutines int
	CPUs       int
}

// Runtime samples the Go runtime. ReadMemStats stops the world; call it at
// most a few times per second.
func Runtime() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeStats{
		HeapAlloc:  m.HeapAlloc,
		Mallocs:    m.Mallocs,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
	}
}
