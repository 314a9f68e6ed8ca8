package capfilter

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// DefaultSnapLen is the capture length handed to the tool when none is
// configured.
const DefaultSnapLen = 1600

// Invoker runs the capture tool with a compiled filter expression.
type Invoker struct {
	Tool      string // capture binary, default tcpdump
	Interface string
	SnapLen   int
	Count     int    // stop after this many packets; 0 means no limit
	Output    string // write raw capture to this file instead of stdout
	Promisc   bool
}

// Command returns the argv the invoker would run for expression, without
// running it.
func (iv *Invoker) Command(expression string) []string {
	tool := iv.Tool
	if tool == "" {
		tool = "tcpdump"
	}
	args := []string{tool, "-n"}
	if iv.Interface != "" {
		args = append(args, "-i", iv.Interface)
	}
	snaplen := iv.SnapLen
	if snaplen == 0 {
		snaplen = DefaultSnapLen
	}
	args = append(args, "-s", strconv.Itoa(snaplen))
	if iv.Count > 0 {
		args = append(args, "-c", strconv.Itoa(iv.Count))
	}
	if iv.Output != "" {
		args = append(args, "-w", iv.Output)
	}
	if !iv.Promisc {
		args = append(args, "-p")
	}
	if expression != "" {
		args = append(args, expression)
	}
	return args
}

// Run invokes the capture tool, streaming its output to this process's
// stdout and stderr until the tool exits or ctx is canceled.
func (iv *Invoker) Run(ctx context.Context, expression string) error {
	argv := iv.Command(expression)
	log.WithField("argv", argv).Debug("starting capture")
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("capture tool: %w", err)
	}
	return nil
}
