// Package proc launches and supervises the external processes that back
// managed windows: browsers resolved from the configured table and arbitrary
// application commands. The supervisor owns the tracked-process collection;
// everything else holds pids only.
package proc

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/screenmachine/winctl/internal/config"
)

// ErrUnsupportedBrowser is returned when a browser kind has no entry in the
// configured browser table.
var ErrUnsupportedBrowser = errors.New("unsupported browser")

// ErrNotTracked is returned for pids the supervisor is not tracking.
var ErrNotTracked = errors.New("process not tracked")

// Kind classifies a tracked process.
type Kind string

const (
	KindBrowser     Kind = "browser"
	KindApplication Kind = "application"
)

// Status is the lifecycle state of a tracked process.
type Status string

const (
	StatusRunning    Status = "running"
	StatusTerminated Status = "terminated"
)

// Info is the supervisor's record of a spawned process.
type Info struct {
	PID       int
	Name      string
	Command   string
	Args      []string
	Status    Status
	Kind      Kind
	CreatedAt time.Time
	Metadata  map[string]string
}

// Supervisor tracks spawned processes keyed by pid. All exported methods are
// safe for concurrent use.
type Supervisor struct {
	cfg    *config.Config
	logger *slog.Logger

	mu    sync.Mutex
	procs map[int]*Info

	// Injection points for tests; defaults touch the real OS.
	spawn    func(path string, args []string) (int, error)
	pidAlive func(pid int) bool
	sendSig  func(pid int, sig syscall.Signal) error
}

// NewSupervisor creates a supervisor using the configured browser table and
// termination timeout.
func NewSupervisor(cfg *config.Config, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		cfg:      cfg,
		logger:   logger,
		procs:    make(map[int]*Info),
		spawn:    spawnDetached,
		pidAlive: pidExists,
		sendSig:  syscall.Kill,
	}
}

// spawnDetached starts path with args in its own session so supervisor
// shutdown does not take the child down via signal propagation. The started
// command is reaped in the background to avoid zombies.
func spawnDetached(path string, args []string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	go func() { _ = cmd.Wait() }()
	return cmd.Process.Pid, nil
}

func pidExists(pid int) bool {
	alive, err := process.PidExists(int32(pid))
	return err == nil && alive
}

// LaunchBrowser spawns the named browser kind pointed at url. The command
// line is the configured path, the configured per-browser flags, extraArgs,
// then the URL.
func (s *Supervisor) LaunchBrowser(kind, url string, extraArgs []string) (*Info, error) {
	browser, ok := s.cfg.Browsers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBrowser, kind)
	}

	args := make([]string, 0, len(browser.Args)+len(extraArgs)+1)
	args = append(args, browser.Args...)
	args = append(args, extraArgs...)
	args = append(args, url)

	pid, err := s.spawn(browser.Path, args)
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", kind, err)
	}

	info := &Info{
		PID:       pid,
		Name:      kind,
		Command:   browser.Path,
		Args:      args,
		Status:    StatusRunning,
		Kind:      KindBrowser,
		CreatedAt: time.Now(),
		Metadata:  map[string]string{"url": url},
	}

	s.mu.Lock()
	s.procs[pid] = info
	s.mu.Unlock()

	s.logger.Info("launched browser", "browser", kind, "url", url, "pid", pid)
	return copyInfo(info), nil
}

// LaunchApplication spawns an arbitrary command with the same detached
// discipline as browsers. No path table is consulted.
func (s *Supervisor) LaunchApplication(command string, args []string) (*Info, error) {
	pid, err := s.spawn(command, args)
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", command, err)
	}

	info := &Info{
		PID:       pid,
		Name:      command,
		Command:   command,
		Args:      args,
		Status:    StatusRunning,
		Kind:      KindApplication,
		CreatedAt: time.Now(),
		Metadata:  map[string]string{},
	}

	s.mu.Lock()
	s.procs[pid] = info
	s.mu.Unlock()

	s.logger.Info("launched application", "command", command, "pid", pid)
	return copyInfo(info), nil
}

// Terminate stops a tracked process: SIGTERM first, escalating to SIGKILL
// after the configured grace period. The pid is removed from tracking on
// every success path; a process that is already gone counts as success.
func (s *Supervisor) Terminate(pid int) error {
	s.mu.Lock()
	_, tracked := s.procs[pid]
	s.mu.Unlock()
	if !tracked {
		return fmt.Errorf("%w: pid %d", ErrNotTracked, pid)
	}

	err := s.terminatePid(pid)

	s.mu.Lock()
	if info, ok := s.procs[pid]; ok {
		info.Status = StatusTerminated
	}
	delete(s.procs, pid)
	s.mu.Unlock()

	return err
}

func (s *Supervisor) terminatePid(pid int) error {
	if err := s.sendSig(pid, syscall.SIGTERM); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			s.logger.Info("process already terminated", "pid", pid)
			return nil
		}
		return fmt.Errorf("failed to signal pid %d: %w", pid, err)
	}

	deadline := time.Now().Add(s.cfg.TerminateTimeout())
	for time.Now().Before(deadline) {
		if !s.pidAlive(pid) {
			s.logger.Info("process terminated gracefully", "pid", pid)
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	if err := s.sendSig(pid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("failed to kill pid %d: %w", pid, err)
	}
	s.logger.Info("process force killed", "pid", pid)
	return nil
}

// RefreshStatus polls every tracked pid for liveness, flips dead entries to
// terminated and prunes them.
func (s *Supervisor) RefreshStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pruned int
	for pid, info := range s.procs {
		if s.pidAlive(pid) {
			info.Status = StatusRunning
			continue
		}
		info.Status = StatusTerminated
		delete(s.procs, pid)
		pruned++
	}

	if pruned > 0 {
		s.logger.Info("pruned terminated processes", "count", pruned)
	}
}

// List returns a copy of every tracked process, ordered by pid.
func (s *Supervisor) List() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Info, 0, len(s.procs))
	for _, info := range s.procs {
		out = append(out, *copyInfo(info))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}

// ByPID returns the tracked record for a pid.
func (s *Supervisor) ByPID(pid int) (*Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.procs[pid]
	if !ok {
		return nil, false
	}
	return copyInfo(info), true
}

// ByName returns all tracked processes with the given name.
func (s *Supervisor) ByName(name string) []Info {
	var out []Info
	for _, info := range s.List() {
		if info.Name == name {
			out = append(out, info)
		}
	}
	return out
}

// ByKind returns all tracked processes of the given kind.
func (s *Supervisor) ByKind(kind Kind) []Info {
	var out []Info
	for _, info := range s.List() {
		if info.Kind == kind {
			out = append(out, info)
		}
	}
	return out
}

// Count returns the number of tracked processes.
func (s *Supervisor) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.procs)
}

// Cleanup terminates every tracked process. Deferred by the daemon so
// children do not outlive a shutdown.
func (s *Supervisor) Cleanup() {
	s.mu.Lock()
	pids := make([]int, 0, len(s.procs))
	for pid := range s.procs {
		pids = append(pids, pid)
	}
	s.mu.Unlock()

	for _, pid := range pids {
		if err := s.Terminate(pid); err != nil {
			s.logger.Warn("cleanup: failed to terminate process", "pid", pid, "error", err)
		}
	}
}

func copyInfo(info *Info) *Info {
	dup := *info
	dup.Args = append([]string(nil), info.Args...)
	dup.Metadata = make(map[string]string, len(info.Metadata))
	for k, v := range info.Metadata {
		dup.Metadata[k] = v
	}
	return &dup
}
