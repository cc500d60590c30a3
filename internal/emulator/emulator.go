// Package emulator wires the CPU, bus, cartridge mapper, and the
// register-shell PPU/APU/Input collaborators into a single unit a
// driver loop can step, matching spec.md §4.5's per-instruction
// contract without imposing any particular frame or rendering loop.
package emulator

import (
	"github.com/pkg/errors"

	"github.com/nesforge/gones-core/internal/bus"
	"github.com/nesforge/gones-core/internal/cartridge"
	"github.com/nesforge/gones-core/internal/cpu"
	"github.com/nesforge/gones-core/internal/mapper"
)

// Emulator owns one cartridge's worth of machine state: the bus (and
// through it, RAM, the register-shell PPU/APU/Input), the mapper, and
// the CPU. It does not own a frame loop, a video/audio sink, or a
// save-state format; those are the caller's problem.
type Emulator struct {
	Bus *bus.Bus
	CPU *cpu.CPU
}

// New loads rom through the mapper factory and wires a fresh machine
// around it, then runs the CPU's power-up reset sequence.
func New(rom *cartridge.ROM) (*Emulator, error) {
	m, err := mapper.New(rom)
	if err != nil {
		return nil, errors.Wrap(err, "construct emulator")
	}

	e := &Emulator{Bus: bus.New(m)}
	e.CPU = cpu.New(e.Bus)
	e.Bus.WireInterrupts(e.CPU)
	e.CPU.Reset()
	return e, nil
}

// Step advances the CPU by exactly one instruction (or one interrupt
// entry, if one is pending) and returns the cycles consumed. It then
// advances the PPU by three cycles and the APU by one cycle per CPU
// cycle consumed, plus any OAM-DMA stall the instruction incurred, per
// spec.md §5's cooperative time-slicing model. The returned count does
// not include the stall.
func (e *Emulator) Step() (uint64, error) {
	cycles, err := e.CPU.Step()
	if err != nil {
		return cycles, errors.Wrap(err, "step cpu")
	}
	for i := uint64(0); i < cycles*3; i++ {
		e.Bus.PPU.Step()
	}
	e.Bus.APU.Step(cycles)
	if stall := e.Bus.TakeOAMDMAStall(); stall > 0 {
		for i := uint64(0); i < stall*3; i++ {
			e.Bus.PPU.Step()
		}
		e.Bus.APU.Step(stall)
	}
	return cycles, nil
}

// Reset re-runs the CPU's reset sequence and restores the bus's
// register-shell collaborators to power-up state, without clearing RAM,
// reloading the cartridge or re-selecting the mapper, per spec.md §3's
// lifecycle rule.
func (e *Emulator) Reset() {
	e.Bus.Reset()
	e.CPU.Reset()
}

// AssertNMI raises NMI directly, for driver loops or tests that want
// to exercise interrupt entry without waiting on the register-shell
// PPU's own vblank schedule.
func (e *Emulator) AssertNMI() {
	e.CPU.AssertNMI(true)
	e.CPU.AssertNMI(false)
}
