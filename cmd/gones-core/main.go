// Package main is the smallest useful driver loop for the core: it
// loads a ROM, runs it headlessly for a bounded number of frames, and
// reports CPU state. It exists to exercise the core end to end, not
// as a playable emulator front end — there is no video/audio output
// and no input capture (both explicitly out of this core's scope).
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/profile"

	"github.com/nesforge/gones-core/internal/cartridge"
	"github.com/nesforge/gones-core/internal/cpu"
	"github.com/nesforge/gones-core/internal/emulator"
	"github.com/nesforge/gones-core/internal/version"
)

var (
	romPath    = flag.String("rom", "", "path to an iNES ROM file")
	frames     = flag.Uint64("frames", 60, "number of PPU frames to run before reporting state")
	cpuprofile = flag.Bool("cpuprofile", false, "write a CPU profile to cpu.pprof for the run")
	showVer    = flag.Bool("version", false, "print version information and exit")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if *showVer {
		fmt.Println(version.GetDetailedVersion())
		return
	}

	if *romPath == "" {
		glog.Fatal("missing -rom: a ROM path is required")
	}

	if *cpuprofile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	rom, err := cartridge.LoadFile(*romPath)
	if err != nil {
		glog.Fatalf("load rom %q: %v", *romPath, err)
	}
	glog.Infof("loaded %q: mapper=%d mirror=%d prg=%dKiB", *romPath, rom.MapperID, rom.Mirror, len(rom.PRGROM)/1024)

	e, err := emulator.New(rom)
	if err != nil {
		glog.Fatalf("construct emulator: %v", err)
	}

	targetFrames := e.Bus.PPU.FrameCount() + *frames
	for e.Bus.PPU.FrameCount() < targetFrames {
		if _, err := e.Step(); err != nil {
			reportHalt(e, err)
			os.Exit(1)
		}
	}

	fmt.Printf("ran %d frames, %d CPU cycles\n", e.Bus.PPU.FrameCount(), e.CPU.Cycles())
}

func reportHalt(e *emulator.Emulator, err error) {
	var illegal *cpu.IllegalOpcodeError
	if errors.As(err, &illegal) {
		glog.Errorf("halted on illegal opcode 0x%02X at PC=0x%04X after %d frames", illegal.Opcode, illegal.PC, e.Bus.PPU.FrameCount())
		return
	}
	glog.Errorf("halted: %v", err)
}
