package run

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/danielreuter/reagency/internal/codec"
	"github.com/danielreuter/reagency/internal/platform/atomicfile"
)

// Status is the lifecycle state of a run.
type Status string

// Possible run status values. There is deliberately no "failed": a run
// that never completes remains started, with its EndTime unset.
const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
)

// Record tracks one end-to-end pass over a dataset. EndTime is set if and
// only if Status is completed.
type Record struct {
	ID        string     `json:"id"`
	Status    Status     `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

// LogFileName is the run ledger file name inside the run directory.
const LogFileName = "runs.json"

// Log is the ordered, persisted sequence of run records for one
// orchestrator scope.
type Log struct {
	mu   sync.Mutex
	path string
	runs []Record
}

// OpenLog loads the ledger at dir/runs.json, or starts an empty one if
// the file does not exist yet.
func OpenLog(dir string) (*Log, error) {
	l := &Log{path: filepath.Join(dir, LogFileName)}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("loading run log: %w", err)
	}

	v, err := codec.UnmarshalCanonical(data)
	if err != nil {
		return nil, fmt.Errorf("parsing run log: %w", err)
	}
	if err := codec.Decode(v, &l.runs); err != nil {
		return nil, fmt.Errorf("parsing run log: %w", err)
	}
	return l, nil
}

// Path returns the ledger file path.
func (l *Log) Path() string { return l.path }

// Runs returns a snapshot of the recorded runs in order.
func (l *Log) Runs() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.runs))
	copy(out, l.runs)
	return out
}

// Append adds a record and persists the full ledger.
func (l *Log) Append(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runs = append(l.runs, rec)
	return l.persistLocked()
}

// Complete marks the record with the given id completed as of now and
// persists the ledger.
func (l *Log) Complete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.runs {
		if l.runs[i].ID == id {
			now := time.Now().UTC()
			l.runs[i].Status = StatusCompleted
			l.runs[i].EndTime = &now
			return l.persistLocked()
		}
	}
	return fmt.Errorf("run %s not found in log", id)
}

func (l *Log) persistLocked() error {
	v, err := codec.Encode(l.runs)
	if err != nil {
		return fmt.Errorf("encoding run log: %w", err)
	}
	if v.IsNull() { // empty ledger still persists as a list
		v = codec.List()
	}
	data, err := codec.MarshalCanonical(v)
	if err != nil {
		return fmt.Errorf("encoding run log: %w", err)
	}
	if err := atomicfile.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("persisting run log: %w", err)
	}
	return nil
}
