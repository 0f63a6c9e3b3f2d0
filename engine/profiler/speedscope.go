package profiler

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// event is one scope boundary recorded by Start.
type event struct {
	AtNS  int64
	Frame int
	Open  bool
}

// speedscope evented format, https://www.speedscope.app/file-format-schema.json
type ssFile struct {
	Schema             string      `json:"$schema"`
	Shared             ssShared    `json:"shared"`
	Profiles           []ssProfile `json:"profiles"`
	ActiveProfileIndex int         `json:"activeProfileIndex"`
	Exporter           string      `json:"exporter,omitempty"`
	Name               string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // µs since the first event
	Frame int    `json:"frame"`
}

// toSpeedscope converts events in write order. Closes that do not match the
// innermost open scope are dropped and scopes still open at the end are
// closed at the last timestamp.
func toSpeedscope(evs []event, names []string) (ssFile, error) {
	if len(evs) == 0 {
		return ssFile{}, errors.New("profiler: no events")
	}
	frames := make([]ssFrame, len(names))
	for i, n := range names {
		frames[i] = ssFrame{Name: n}
	}

	base := evs[0].AtNS
	out := make([]ssEvent, 0, len(evs))
	stack := make([]int, 0, 64)
	var last, end int64
	for _, e := range evs {
		at := max((e.AtNS-base)/1000, last)
		if e.Open {
			out = append(out, ssEvent{Type: "O", At: at, Frame: e.Frame})
			stack = append(stack, e.Frame)
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.Frame {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: at, Frame: e.Frame})
		}
		last = at
		end = max(end, at)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: last, Frame: stack[i]})
	}

	return ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     "canopy frames",
			Unit:     "microseconds",
			EndValue: end,
			Events:   out,
		}},
		Exporter: "canopy-profiler",
		Name:     "canopy capture",
	}, nil
}

func writeJSON(path string, doc any) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "profiler: create dump")
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.Wrap(err, "profiler: encode dump")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "profiler: close dump")
	}
	return errors.Wrap(os.Rename(tmp, path), "profiler: rename dump")
}
