package main

import (
	"debug/elf"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/stephank/rvsim/elfloader"
	"github.com/stephank/rvsim/riscv"
	"github.com/stephank/rvsim/simulator"
)

func Run(ctx *cli.Context) error {
	if ctx.Bool("cpuprofile") {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	l := Logger(os.Stderr, log.LevelInfo)

	f, err := elf.Open(ctx.Path("elf"))
	if err != nil {
		return fmt.Errorf("failed to open ELF: %w", err)
	}
	defer f.Close()

	mem, cpu, err := elfloader.Load(f)
	if err != nil {
		return fmt.Errorf("failed to load ELF: %w", err)
	}

	var ext riscv.Extensions
	if ctx.Bool("rv32c") {
		ext |= riscv.ExtC
	}
	if ctx.Bool("rv32fd") {
		ext |= riscv.ExtFD
	}

	sys := &PosixSyscalls{
		Mem:    mem,
		Stdout: &LoggingWriter{Name: "program std-out", Log: l},
		Stderr: &LoggingWriter{Name: "program std-err", Log: l},
	}

	sim := simulator.New(cpu, mem, sys, riscv.NewSimpleClock(), ext)

	maxSteps := ctx.Uint64("max-steps")
	logEvery := ctx.Uint64("log-every")
	start := time.Now()

	var steps uint64
	for {
		if maxSteps != 0 && steps >= maxSteps {
			l.Info("stopped at step budget", "steps", steps)
			break
		}

		t := sim.Step()
		steps++

		if logEvery != 0 && steps%logEvery == 0 {
			l.Info("progress",
				"step", steps,
				"pc", HexU32(cpu.Pc),
				"ips", float64(steps)/time.Since(start).Seconds(),
				"pages", mem.PageCount(),
			)
		}

		if t != nil {
			if t.Kind != riscv.EnvironmentCall {
				return fmt.Errorf("trapped at step %d (pc=%08x): %w", steps, cpu.Pc, t)
			}
			if t.Halt {
				l.Info("exited", "steps", steps, "a0", cpu.ReadX(10))
				return nil
			}
			// ecall never advances PC itself; the host resumes past it.
			cpu.Pc += 4
		}
	}

	return nil
}
