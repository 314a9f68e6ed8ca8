package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	capfilter "github.com/packetcap/go-capfilter"
	"github.com/packetcap/go-capfilter/filter"
)

var (
	debug      bool
	printOnly  bool
	listIfaces bool
	running    bool
	specFile   string
	iface      string
	snaplen    int
	count      int
	attrFlags  []string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "capfilter",
	Short: "Compile structured capture criteria into a tcpdump filter and run the capture",
	Long: `Compile structured capture criteria, organized by VLAN tagging section,
into a single tcpdump filter expression, then run the capture (or just print
the expression with --print). Criteria come from a YAML spec file or from
repeated --attr section:match:kind:value flags.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			log.SetLevel(log.DebugLevel)
		}
		if listIfaces {
			ifaces, err := capfilter.Interfaces()
			if err != nil {
				return err
			}
			for _, i := range ifaces {
				fmt.Printf("%s: %s\n", i.Name, i.Description)
			}
			return nil
		}
		if running {
			procs, err := capfilter.FindProcesses("tcpdump")
			if err != nil {
				return err
			}
			for pid, cmdline := range procs {
				fmt.Printf("%d: %s\n", pid, cmdline)
			}
			return nil
		}

		invoker := &capfilter.Invoker{Interface: iface, SnapLen: snaplen, Count: count}
		var expression string
		if specFile != "" {
			spec, err := capfilter.LoadSpec(specFile)
			if err != nil {
				return err
			}
			invoker = spec.Invoker()
			if iface != "" {
				invoker.Interface = iface
			}
			if expression, err = spec.Expression(); err != nil {
				return err
			}
		} else {
			attrs := make([]*filter.Attribute, 0, len(attrFlags))
			for _, flag := range attrFlags {
				record, err := parseAttrFlag(flag)
				if err != nil {
					return err
				}
				attr, err := capfilter.ParseAttribute(record)
				if err != nil {
					return fmt.Errorf("--attr %q: %w", flag, err)
				}
				attrs = append(attrs, attr)
			}
			var err error
			if expression, err = filter.Compose(attrs); err != nil {
				return err
			}
		}

		if printOnly {
			fmt.Println(expression)
			return nil
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return invoker.Run(ctx, expression)
	},
}

// parseAttrFlag splits section:match:kind[:value]. The value may itself
// contain colons (MAC addresses), so it is everything after the third one.
func parseAttrFlag(s string) (capfilter.AttributeSpec, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) < 3 {
		return capfilter.AttributeSpec{}, fmt.Errorf("--attr %q: expected section:match:kind[:value]", s)
	}
	record := capfilter.AttributeSpec{Section: parts[0], Match: parts[1], Kind: parts[2]}
	if len(parts) == 4 {
		record.Value = parts[3]
	}
	return record, nil
}

func init() {
	rootCmd.Flags().BoolVar(&debug, "debug", false, "print lots of debugging messages")
	rootCmd.Flags().BoolVar(&printOnly, "print", false, "print the compiled filter expression and exit")
	rootCmd.Flags().BoolVar(&listIfaces, "list-interfaces", false, "list capturable interfaces and exit")
	rootCmd.Flags().BoolVar(&running, "running", false, "list already-running tcpdump processes and exit")
	rootCmd.Flags().StringVarP(&specFile, "spec", "f", "", "YAML capture specification file")
	rootCmd.Flags().StringVarP(&iface, "interface", "i", "", "interface from which to capture")
	rootCmd.Flags().IntVar(&snaplen, "snaplen", 0, "capture length per packet; 0 uses the default")
	rootCmd.Flags().IntVarP(&count, "count", "c", 0, "stop after this many packets; 0 means no limit")
	rootCmd.Flags().StringArrayVar(&attrFlags, "attr", nil, "filter attribute as section:match:kind:value; repeatable")
}
