//go:build linux

package capfilter

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// FindProcesses returns the running processes whose command line contains
// pattern, e.g. "tcpdump" to detect an already-running capture. Kernel
// threads and processes that exit mid-scan are skipped.
func FindProcesses(pattern string) (Processes, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}
	found := Processes{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		raw, err := os.ReadFile(filepath.Join("/proc", entry.Name(), "cmdline"))
		if err != nil || len(raw) == 0 {
			continue
		}
		cmdline := strings.TrimRight(strings.ReplaceAll(string(raw), "\x00", " "), " ")
		if !strings.Contains(cmdline, pattern) {
			continue
		}
		// the cmdline read can race with process exit
		if err := unix.Kill(pid, 0); err != nil && err != unix.EPERM {
			log.Debugf("skipping pid %d: %v", pid, err)
			continue
		}
		found[pid] = cmdline
	}
	return found, nil
}
