package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/stationops/shareclean/internal/cleanup"
	"github.com/stationops/shareclean/internal/target"
)

// defaultWorkers bounds how many stations are cleaned concurrently.
const defaultWorkers = 8

// ErrManifestFormat is returned for manifests that are not a JSON object of
// station names to addresses, or lack the .json extension.
var ErrManifestFormat = errors.New("manifest must be a .json object of station names to addresses")

// Station is one manifest entry with a usable address.
type Station struct {
	Name    string
	Address string
}

// FleetLogger interface for structured logging in fleet dispatch
type FleetLogger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// fleetStdLogger wraps standard log.Logger to implement FleetLogger interface
type fleetStdLogger struct {
	*log.Logger
}

func (l *fleetStdLogger) Info(msg string, args ...interface{}) {
	l.logWithLevel("INFO", msg, args...)
}

func (l *fleetStdLogger) Error(msg string, args ...interface{}) {
	l.logWithLevel("ERROR", msg, args...)
}

func (l *fleetStdLogger) logWithLevel(level, msg string, args ...interface{}) {
	var parts []interface{}
	parts = append(parts, fmt.Sprintf("[%s]", level), msg)
	parts = append(parts, args...)
	l.Logger.Println(parts...)
}

// Cleaner runs one cleanup per target. Satisfied by *cleanup.Runner.
type Cleaner interface {
	Run(ctx context.Context, tgt target.Target) (*cleanup.Report, error)
}

// Result is one station's outcome. Exactly one of Report and Err is
// meaningful; a panic or error in one station's run never affects siblings.
type Result struct {
	Station string
	Address string
	Report  *cleanup.Report
	Err     error
}

// Failed reports whether this station needs operator attention.
func (r Result) Failed() bool {
	return r.Err != nil || (r.Report != nil && r.Report.ExitCode() != 0)
}

// LoadManifest reads a station manifest: a single JSON object whose keys
// are station names and whose values are host addresses or null. Null
// entries are dropped here and logged by the dispatcher caller via the
// returned skipped list. Station order is name-sorted for stable output.
func LoadManifest(path string) (stations []Station, skipped []string, err error) {
	if filepath.Ext(path) != ".json" {
		return nil, nil, fmt.Errorf("%s: %w", path, ErrManifestFormat)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read manifest: %w", err)
	}

	var entries map[string]*string
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %v", path, ErrManifestFormat, err)
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		addr := entries[name]
		if addr == nil || *addr == "" {
			skipped = append(skipped, name)
			continue
		}
		stations = append(stations, Station{Name: name, Address: *addr})
	}
	return stations, skipped, nil
}

// Dispatcher fans one cleanup run out per station over a bounded worker
// pool.
type Dispatcher struct {
	cleaner Cleaner
	share   string
	user    string
	workers int
	logger  FleetLogger
}

// NewDispatcher creates a Dispatcher. share and user are applied to every
// station address when building its smb target.
func NewDispatcher(cleaner Cleaner, share, user string, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		cleaner: cleaner,
		share:   share,
		user:    user,
		workers: defaultWorkers,
		logger:  &fleetStdLogger{Logger: logger},
	}
}

// Dispatch runs the cleaner against every station concurrently and returns
// all results once the pool drains. Completion order between stations is
// unspecified; the returned slice preserves manifest order.
func (d *Dispatcher) Dispatch(ctx context.Context, stations []Station) []Result {
	jobs := make(chan int)
	results := make([]Result, len(stations))

	var wg sync.WaitGroup
	for w := 0; w < d.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = d.runOne(ctx, stations[i])
			}
		}()
	}

	for i := range stations {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// runOne executes a single station's cleanup, converting errors and panics
// into a Result so one bad station cannot abort the fleet.
func (d *Dispatcher) runOne(ctx context.Context, st Station) (res Result) {
	res = Result{Station: st.Name, Address: st.Address}
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic cleaning %s: %v", st.Name, p)
			d.logger.Error("Station run panicked", "station", st.Name, "panic", fmt.Sprint(p))
		}
	}()

	tgt, err := target.Parse("smb://"+st.Address, d.share, d.user)
	if err != nil {
		res.Err = err
		d.logger.Error("Invalid station address", "station", st.Name, "address", st.Address, "error", err)
		return res
	}

	d.logger.Info("Dispatching station", "station", st.Name, "target", tgt.Address())
	report, err := d.cleaner.Run(ctx, tgt)
	if err != nil {
		res.Err = err
		d.logger.Error("Station run failed", "station", st.Name, "error", err)
		return res
	}
	res.Report = report
	return res
}
