//go:build profile

package profiler

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// Enabled reports whether scopes are being recorded.
const Enabled = true

// Init must be called once at startup with the ring capacity in events.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 20
	}
	ring.init(capacity)
}

// Start opens a scope and returns the func that closes it.
//
//	defer profiler.Start("ui.EndFrame")()
func Start(name string) func() {
	if !ring.ready.Load() {
		return func() {}
	}
	id := intern(name)
	start := time.Now().UnixNano()
	ring.push(event{AtNS: start, Frame: id, Open: true})
	return func() {
		end := max(time.Now().UnixNano(), start)
		ring.push(event{AtNS: end, Frame: id})
	}
}

// Dump writes the recorded events to path in speedscope format.
func Dump(path string) error {
	names := snapshotNames()
	doc, err := toSpeedscope(ring.snapshot(), names)
	if err != nil {
		return err
	}
	return writeJSON(path, &doc)
}

// Open dumps into the temp dir and launches the speedscope viewer on it.
func Open() (string, error) {
	path := filepath.Join(os.TempDir(), "canopy.speedscope.json")
	if err := Dump(path); err != nil {
		return "", err
	}
	cmd := exec.Command("speedscope", path)
	hideWindow(cmd)
	return path, cmd.Start()
}

// ---------- event ring ----------

type eventRing struct {
	ready atomic.Bool
	size  uint64
	write atomic.Uint64
	evs   []event
}

var ring eventRing

func (r *eventRing) init(capacity int) {
	r.size = uint64(capacity)
	r.evs = make([]event, r.size)
	r.write.Store(0)
	r.ready.Store(true)
}

func (r *eventRing) push(e event) {
	i := r.write.Add(1) - 1
	r.evs[i%r.size] = e
}

// snapshot returns events in write order, oldest first.
func (r *eventRing) snapshot() []event {
	n := r.write.Load()
	if n == 0 {
		return nil
	}
	var start uint64
	if n > r.size {
		start = n - r.size
	}
	out := make([]event, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.size])
	}
	return out
}

// ---------- string interner ----------

var (
	muNames sync.Mutex
	names   []string
	index   = map[string]int{}
)

func intern(name string) int {
	muNames.Lock()
	defer muNames.Unlock()
	if id, ok := index[name]; ok {
		return id
	}
	id := len(names)
	index[name] = id
	names = append(names, name)
	return id
}

func snapshotNames() []string {
	muNames.Lock()
	defer muNames.Unlock()
	return append([]string(nil), names...)
}
