// Package profiling provides optional CPU and memory profiling for the
// linefeed command-line tools. Profiles are written to a directory with
// timestamped names so consecutive runs do not clobber each other.
package profiling

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"go.uber.org/zap"
)

// Flags holds the profiling command-line flags.
type Flags struct {
	CPUProfile bool
	MemProfile bool
	ProfileDir string
}

// AddFlags registers the profiling flags on the default flag set.
func AddFlags(f *Flags) {
	flag.BoolVar(&f.CPUProfile, "cpuprofile", false, "Write a CPU profile")
	flag.BoolVar(&f.MemProfile, "memprofile", false, "Write a heap profile on exit")
	flag.StringVar(&f.ProfileDir, "profiledir", "profiles", "Directory to store profiles")
}

// Enabled reports whether any profiling was requested.
func (f *Flags) Enabled() bool {
	return f.CPUProfile || f.MemProfile
}

// Profiler writes CPU and heap profiles for one tool run.
type Profiler struct {
	cpuFile *os.File
	memPath string
	log     *zap.Logger
}

// Start begins profiling according to the flags. It returns a no-op
// profiler when nothing was requested, so callers can defer Stop
// unconditionally.
func Start(f *Flags, name string, log *zap.Logger) *Profiler {
	p := &Profiler{log: log}
	if !f.Enabled() {
		return p
	}

	if err := os.MkdirAll(f.ProfileDir, 0755); err != nil {
		log.Warn("Unable to create profile directory", zap.Error(err))
		return p
	}
	stamp := time.Now().Format("20060102_150405")

	if f.CPUProfile {
		path := filepath.Join(f.ProfileDir, fmt.Sprintf("%s_cpu_%s.prof", name, stamp))
		file, err := os.Create(path)
		if err != nil {
			log.Warn("Unable to create CPU profile", zap.Error(err))
		} else if err := pprof.StartCPUProfile(file); err != nil {
			log.Warn("Unable to start CPU profile", zap.Error(err))
			file.Close()
		} else {
			p.cpuFile = file
			log.Info("Started CPU profiling", zap.String("path", path))
		}
	}

	if f.MemProfile {
		p.memPath = filepath.Join(f.ProfileDir, fmt.Sprintf("%s_mem_%s.prof", name, stamp))
	}
	return p
}

// Stop finishes the CPU profile and writes the heap profile, if requested.
func (p *Profiler) Stop() {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		p.cpuFile = nil
	}
	if p.memPath == "" {
		return
	}
	file, err := os.Create(p.memPath)
	if err != nil {
		p.log.Warn("Unable to create heap profile", zap.Error(err))
		return
	}
	defer file.Close()

	// GC first so the profile reflects live data, not garbage.
	runtime.GC()
	if err := pprof.WriteHeapProfile(file); err != nil {
		p.log.Warn("Unable to write heap profile", zap.Error(err))
		return
	}
	p.log.Info("Wrote heap profile", zap.String("path", p.memPath))
}
