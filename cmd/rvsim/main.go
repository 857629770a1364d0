// Command rvsim is a demo driver for the simulator core: it loads a
// 32-bit RISC-V ELF binary, wires a minimal POSIX syscall host, and runs
// it to completion or a step budget, logging progress along the way.
// This is explicitly outside the core's scope — the core never loads
// ELFs, never logs, and never picks a syscall ABI — it exists the same
// way the teacher's rvgo/cmd exists beside rvgo/fast.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "rvsim",
		Usage: "run a 32-bit RISC-V ELF binary under the rvsim core",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:     "elf",
				Usage:    "path to the RV32 ELF binary to run",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "rv32c",
				Usage: "enable the C (compressed instruction) extension",
			},
			&cli.BoolFlag{
				Name:  "rv32fd",
				Usage: "enable the F/D (single/double float) extensions",
			},
			&cli.Uint64Flag{
				Name:  "max-steps",
				Usage: "stop after this many instructions (0 = unbounded)",
			},
			&cli.Uint64Flag{
				Name:  "log-every",
				Usage: "log progress every N steps (0 = only at exit)",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "cpuprofile",
				Usage: "write a CPU profile of the run to ./cpu.pprof",
			},
		},
		Action: Run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
