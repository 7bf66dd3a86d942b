package gazekit

import (
	"fmt"
	"io"
	"os"
	"time"
)

// debugOutput receives debug-mode output. Tests swap it for a buffer.
var debugOutput io.Writer = os.Stderr

func debugf(format string, args ...any) {
	_, _ = fmt.Fprintf(debugOutput, "[gazekit] "+format+"\n", args...)
}

// trackerStats holds timing and event counts accumulated between debug
// reports. Only populated when the tracker is in debug mode.
type trackerStats struct {
	ticks      int
	events     int
	updateTime time.Duration
	maxUpdate  time.Duration
}

func (s *trackerStats) record(d time.Duration, events int) {
	s.ticks++
	s.events += events
	s.updateTime += d
	if d > s.maxUpdate {
		s.maxUpdate = d
	}
}

// debugReportTicks is the number of ticks between stats reports.
const debugReportTicks = 90

// debugTick prints and resets stats every debugReportTicks ticks.
func (t *Tracker) debugTick() {
	if t.stats.ticks < debugReportTicks {
		return
	}
	s := t.stats
	avg := s.updateTime / time.Duration(s.ticks)
	debugf("ticks: %d | events: %d | avg update: %v | max update: %v | current: %d | dwell: %.3f/%.3f",
		s.ticks, s.events, avg, s.maxUpdate, t.current, t.dwell, t.cfg.DwellThreshold)
	t.stats = trackerStats{}
}
