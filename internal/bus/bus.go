// Package bus implements the CPU-visible memory map of the NES: the
// device that dispatches every load/store by address range to RAM,
// the register-shell PPU, the register-shell APU, the controller
// ports, or the cartridge mapper's program-space window.
package bus

import (
	"github.com/nesforge/gones-core/internal/apu"
	"github.com/nesforge/gones-core/internal/input"
	"github.com/nesforge/gones-core/internal/mapper"
	"github.com/nesforge/gones-core/internal/ppu"
	"github.com/nesforge/gones-core/internal/ram"
)

// Bus dispatches CPU reads/writes by address range, per spec.md §3's
// memory map: RAM mirrored in 0x0000-0x1FFF, PPU registers mirrored
// every 8 bytes in 0x2000-0x3FFF, APU registers and OAM-DMA trigger
// and controller ports in 0x4000-0x401F, an unmapped expansion window
// in 0x4020-0x5FFF, and the cartridge mapper's PRG-RAM/PRG-ROM above
// that.
type Bus struct {
	RAM    *ram.RAM
	PPU    *ppu.PPU
	APU    *apu.APU
	Input  *input.Pair
	Mapper mapper.Mapper

	oamDMACycles uint64
}

// New constructs a bus wired to the given mapper. The PPU and APU
// raise no interrupts until WireInterrupts gives them a CPU to signal;
// that two-step construction lets the CPU's own Bus argument be this
// same bus.
func New(m mapper.Mapper) *Bus {
	return &Bus{
		RAM:    ram.New(),
		PPU:    ppu.New(ppuMemory{m}),
		APU:    apu.New(),
		Input:  input.NewPair(),
		Mapper: m,
	}
}

// interruptTarget is the narrow slice of *cpu.CPU that the register-
// shell PPU/APU need to raise NMI and IRQ. Spelled out here instead of
// importing package cpu, so the bus depends only on these two methods
// and tests can wire in a recording sink.
type interruptTarget interface {
	AssertNMI(state bool)
	SetIRQ(state bool)
}

// WireInterrupts connects the PPU's vblank NMI and the APU's
// frame-counter IRQ to cpu. Call this once, after constructing the
// CPU with this bus.
func (b *Bus) WireInterrupts(cpu interruptTarget) {
	// AssertNMI only latches on a true->false transition, so the
	// vblank callback must drive a full edge rather than holding the
	// line high.
	b.PPU.SetNMICallback(func() {
		cpu.AssertNMI(true)
		cpu.AssertNMI(false)
	})
	b.APU.SetIRQCallback(func() { cpu.SetIRQ(true) })
	b.APU.SetIRQClearCallback(func() { cpu.SetIRQ(false) })
}

// Reset restores the register-shell PPU/APU and the controller ports
// to their power-up state. RAM keeps its contents, as on a real console
// reset. It does not touch the mapper, which owns its own reset
// semantics tied to cartridge state, not bus state.
func (b *Bus) Reset() {
	b.PPU.Reset()
	b.APU.Reset()
	b.Input.Reset()
	b.oamDMACycles = 0
}

// Load implements the CPU's Bus contract.
func (b *Bus) Load(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.RAM.Load(addr)
	case addr < 0x4000:
		return b.PPU.Load(addr)
	case addr == 0x4016 || addr == 0x4017:
		return b.Input.Load(addr)
	case addr <= 0x4015:
		return b.APU.Load(addr)
	case addr <= 0x401F:
		return 0
	case addr < 0x6000:
		return 0
	default:
		return b.Mapper.PRGLoad(addr)
	}
}

// Store implements the CPU's Bus contract.
func (b *Bus) Store(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.RAM.Store(addr, value)
	case addr < 0x4000:
		b.PPU.Store(addr, value)
	case addr == 0x4014:
		b.runOAMDMA(value)
	case addr == 0x4016:
		b.Input.Store(addr, value)
	case addr == 0x4017:
		b.APU.Store(addr, value) // frame counter; Input ignores non-0x4016 writes
	case addr <= 0x4015:
		b.APU.Store(addr, value)
	case addr <= 0x401F:
		// unmapped
	case addr < 0x6000:
		// unmapped expansion window
	default:
		b.Mapper.PRGStore(addr, value)
	}
}

// runOAMDMA performs the 256-byte transfer from page*0x100 into OAM
// that a CPU write to 0x4014 triggers, and records the stall a driver
// loop should charge the CPU for it.
func (b *Bus) runOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.PPU.WriteOAM(uint8(i), b.Load(base+uint16(i)))
	}
	b.oamDMACycles = 513
}

// TakeOAMDMAStall returns the CPU-cycle stall the most recent 0x4014
// write incurred, if any, and clears it. A driver loop adds this to
// the cycle count it advances PPU/APU by for that step.
func (b *Bus) TakeOAMDMAStall() uint64 {
	stall := b.oamDMACycles
	b.oamDMACycles = 0
	return stall
}

// ppuMemory adapts the cartridge mapper's CHR-space load/store to the
// PPU's own Memory contract, so the PPU never needs to know mappers
// exist.
type ppuMemory struct {
	m mapper.Mapper
}

func (p ppuMemory) Load(addr uint16) uint8 {
	if addr < 0x2000 {
		return p.m.CHRLoad(addr)
	}
	return 0 // nametable/palette RAM is out of this core's scope
}

func (p ppuMemory) Store(addr uint16, value uint8) {
	if addr < 0x2000 {
		p.m.CHRStore(addr, value)
	}
}
