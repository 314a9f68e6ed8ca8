//go:build !linux

package capfilter

import (
	"os/exec"
	"strconv"
	"strings"
)

// FindProcesses returns the running processes whose command line contains
// pattern, via ps on platforms without procfs.
func FindProcesses(pattern string) (Processes, error) {
	out, err := exec.Command("ps", "-axww", "-o", "pid=,command=").Output()
	if err != nil {
		return nil, err
	}
	found := Processes{}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
		if len(fields) != 2 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		cmdline := strings.TrimSpace(fields[1])
		if strings.Contains(cmdline, pattern) {
			found[pid] = cmdline
		}
	}
	return found, nil
}
