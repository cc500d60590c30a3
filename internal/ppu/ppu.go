// Package ppu implements the bus-visible register surface of the NES
// Picture Processing Unit. It tracks PPUCTRL/PPUMASK/PPUSTATUS/OAMADDR/
// OAMDATA/PPUSCROLL/PPUADDR/PPUDATA exactly as a cartridge-driving CPU
// core observes them and runs a deterministic vblank/NMI schedule, but
// does not render: no nametable fetch, no tile/sprite compositing, no
// frame buffer. That pipeline sits outside this core's scope.
package ppu

const (
	cyclesPerScanline = 341
	scanlinesPerFrame = 262
	vblankScanline    = 241
	preRenderScanline = 261
)

// Memory is the PPU's own address space (nametables, palette RAM, and
// whatever pattern memory the cartridge's mapper exposes through CHR
// load/store). PPUDATA reads/writes route through it.
type Memory interface {
	Load(addr uint16) uint8
	Store(addr uint16, value uint8)
}

// PPU is the register-level half of the 2C02 visible to the CPU bus.
type PPU struct {
	ctrl   uint8
	mask   uint8
	status uint8

	oamAddr uint8
	oam     [256]uint8

	v uint16 // current VRAM address
	t uint16 // temporary VRAM address / write latch target
	x uint8  // fine X scroll
	w bool   // address/scroll write toggle

	readBuffer uint8

	mem Memory

	cycle    int
	scanline int
	frame    uint64

	nmiCallback func()
}

// New constructs a register-shell PPU backed by mem. mem may be nil
// until the cartridge is wired in; PPUDATA reads return 0 until then.
func New(mem Memory) *PPU {
	return &PPU{mem: mem, scanline: preRenderScanline}
}

// SetNMICallback installs the function the PPU calls when PPUCTRL's
// NMI-enable bit is set during vblank. The CPU bus wires this to
// cpu.AssertNMI.
func (p *PPU) SetNMICallback(cb func()) {
	p.nmiCallback = cb
}

// Reset restores power-up register state without touching OAM.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.v = 0
	p.t = 0
	p.x = 0
	p.w = false
	p.readBuffer = 0
	p.cycle = 0
	p.scanline = preRenderScanline
	p.frame = 0
}

// Load reads a CPU-visible PPU register. reg may be any address in
// 0x2000-0x3FFF: only its low three bits select the register, so the
// 8-byte mirror is applied here and the bus forwards the raw address.
func (p *PPU) Load(reg uint16) uint8 {
	switch reg & 0x7 {
	case 2: // PPUSTATUS
		status := p.status
		p.status &^= 0x80 // clear VBL flag on read
		p.w = false
		return status
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		return p.readData()
	default: // write-only registers read back as open bus; 0 is fine here
		return 0
	}
}

// Store writes a CPU-visible PPU register.
func (p *PPU) Store(reg uint16, value uint8) {
	switch reg & 0x7 {
	case 0: // PPUCTRL
		p.ctrl = value
		p.t = (p.t &^ 0x0C00) | ((uint16(value) & 0x03) << 10)
	case 1: // PPUMASK
		p.mask = value
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5: // PPUSCROLL
		p.writeScroll(value)
	case 6: // PPUADDR
		p.writeAddr(value)
	case 7: // PPUDATA
		p.writeData(value)
	}
}

// WriteOAM writes OAM directly, bypassing OAMADDR auto-increment. The
// CPU bus's OAM-DMA handler uses this for the 256-byte $4014 transfer.
func (p *PPU) WriteOAM(addr uint8, value uint8) {
	p.oam[addr] = value
}

// Step advances the PPU by one PPU cycle (three run per CPU cycle on
// NTSC hardware; the driver loop is responsible for that ratio). The
// vblank/NMI schedule is a pure function of the running cycle count,
// so it is deterministic across runs given the same Step call pattern.
func (p *PPU) Step() {
	p.cycle++
	if p.cycle >= cyclesPerScanline {
		p.cycle = 0
		p.scanline++
		if p.scanline > preRenderScanline {
			p.scanline = 0
			p.frame++
		}
	}

	if p.scanline == vblankScanline && p.cycle == 1 {
		p.status |= 0x80
		if p.ctrl&0x80 != 0 && p.nmiCallback != nil {
			p.nmiCallback()
		}
	}
	if p.scanline == preRenderScanline && p.cycle == 1 {
		p.status &^= 0x80
		p.status &^= 0x60 // sprite-0-hit and sprite-overflow, cleared at pre-render
	}
}

// InVBlank reports whether the PPU is currently past the vblank
// scanline boundary, for driver loops that want to poll rather than
// rely on the NMI callback.
func (p *PPU) InVBlank() bool {
	return p.status&0x80 != 0
}

// FrameCount returns the number of frames completed.
func (p *PPU) FrameCount() uint64 {
	return p.frame
}

func (p *PPU) writeScroll(value uint8) {
	if !p.w {
		p.t = (p.t &^ 0x001F) | (uint16(value) >> 3)
		p.x = value & 0x07
		p.w = true
		return
	}
	p.t = (p.t &^ 0x73E0) | ((uint16(value) & 0x07) << 12) | ((uint16(value) & 0xF8) << 2)
	p.w = false
}

func (p *PPU) writeAddr(value uint8) {
	if !p.w {
		p.t = (p.t &^ 0x7F00) | ((uint16(value) & 0x3F) << 8)
		p.w = true
		return
	}
	p.t = (p.t &^ 0x00FF) | uint16(value)
	p.v = p.t
	p.w = false
}

func (p *PPU) readData() uint8 {
	var data uint8
	if p.mem == nil {
		data = 0
	} else if p.v >= 0x3F00 {
		data = p.mem.Load(p.v)
		p.readBuffer = p.mem.Load(p.v & 0x2FFF)
	} else {
		data = p.readBuffer
		p.readBuffer = p.mem.Load(p.v)
	}
	p.advanceAddr()
	return data
}

func (p *PPU) writeData(value uint8) {
	if p.mem != nil {
		p.mem.Store(p.v, value)
	}
	p.advanceAddr()
}

func (p *PPU) advanceAddr() {
	if p.ctrl&0x04 != 0 {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x3FFF
}
