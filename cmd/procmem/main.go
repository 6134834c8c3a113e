// Command procmem is a thin front-end over the process library:
// locate a process, dump its memory map, query regions and issue raw
// reads and writes.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"procmem/hexdump"
	"procmem/process"
	"procmem/process/memmap"
	"procmem/process_linux"

	"github.com/spf13/cobra"
)

var procRoot string

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "procmem",
		Short:         "Inspect and modify the memory of running processes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&procRoot, "proc-path", "/proc", "path to the proc filesystem")

	root.AddCommand(pidofCommand())
	root.AddCommand(mapsCommand())
	root.AddCommand(regionCommand())
	root.AddCommand(readCommand())
	root.AddCommand(writeCommand())

	return root
}

// openTarget opens a handle from a pid or, failing that, a name.
func openTarget(target string) (*process.Handle, error) {
	sys := process_linux.NewSystemAt(procRoot)
	if pid, err := strconv.Atoi(target); err == nil {
		return process.OpenPid(sys, process.ProcessID(pid))
	}
	return process.Open(sys, target)
}

func pidofCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pidof <name>",
		Short: "Print the pid of the first process matching a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := process.Open(process_linux.NewSystemAt(procRoot), args[0])
			if err != nil {
				return err
			}
			fmt.Println(h.PID())
			return nil
		},
	}
}

func mapsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "maps <pid|name>",
		Short: "Print the memory map of a process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openTarget(args[0])
			if err != nil {
				return err
			}
			if err := h.ParseMaps(); err != nil {
				return err
			}
			regions, err := h.Regions()
			if err != nil {
				return err
			}
			for _, r := range regions {
				fmt.Println(r)
			}
			return nil
		},
	}
}

func regionCommand() *cobra.Command {
	var (
		name     string
		addrFlag string
		perms    string
	)
	cmd := &cobra.Command{
		Use:   "region <pid|name>",
		Short: "Find a region by basename or containing address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (name == "") == (addrFlag == "") {
				return fmt.Errorf("exactly one of --name and --addr is required")
			}

			h, err := openTarget(args[0])
			if err != nil {
				return err
			}
			if err := h.ParseMaps(); err != nil {
				return err
			}

			var region *memmap.Region
			if name != "" {
				var filter *memmap.Permissions
				if perms != "" {
					p := memmap.ParsePermissions(perms)
					filter = &p
				}
				region, err = h.FindRegion(name, filter)
			} else {
				var addr uint64
				addr, err = strconv.ParseUint(addrFlag, 0, 64)
				if err != nil {
					return fmt.Errorf("invalid address %q: %w", addrFlag, err)
				}
				region, err = h.FindRegionAt(process.ProcessMemoryAddress(addr))
			}
			if err != nil {
				return err
			}

			fmt.Println(region)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "region basename, e.g. libc.so.6 or [heap]")
	cmd.Flags().StringVar(&addrFlag, "addr", "", "address the region must contain")
	cmd.Flags().StringVar(&perms, "perms", "", "require exact permissions on the first name match, e.g. rw-p")
	return cmd
}

func readCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read <pid|name> <addr> <size>",
		Short: "Read bytes from a process and hexdump them",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openTarget(args[0])
			if err != nil {
				return err
			}
			addr, err := strconv.ParseUint(args[1], 0, 64)
			if err != nil {
				return fmt.Errorf("invalid address %q: %w", args[1], err)
			}
			size, err := strconv.ParseUint(args[2], 0, 32)
			if err != nil {
				return fmt.Errorf("invalid size %q: %w", args[2], err)
			}

			data, err := h.ReadMemory(process.ProcessMemoryAddress(addr), process.ProcessMemorySize(size))
			if err != nil {
				return err
			}

			fmt.Print(hexdump.Dump(data, addr))
			return nil
		},
	}
}

func writeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "write <pid|name> <addr> <hexbytes>",
		Short: "Write hex-encoded bytes into a process",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openTarget(args[0])
			if err != nil {
				return err
			}
			addr, err := strconv.ParseUint(args[1], 0, 64)
			if err != nil {
				return fmt.Errorf("invalid address %q: %w", args[1], err)
			}
			data, err := hex.DecodeString(args[2])
			if err != nil {
				return fmt.Errorf("invalid hex data %q: %w", args[2], err)
			}
			if len(data) == 0 {
				return fmt.Errorf("no bytes to write")
			}

			if err := h.WriteMemory(process.ProcessMemoryAddress(addr), data); err != nil {
				return err
			}
			fmt.Printf("wrote %d bytes at 0x%x\n", len(data), addr)
			return nil
		},
	}
}
