package mapper

import "github.com/nesforge/gones-core/internal/cartridge"

// nrom implements mapper 0: no bank switching. A 16 KiB PRG-ROM is
// mirrored to fill the 32 KiB program window; a 32 KiB PRG-ROM fills it
// directly. CHR is either fixed CHR-ROM or, if absent, 8 KiB of CHR-RAM.
type nrom struct {
	rom    *cartridge.ROM
	chr    chrAccess
	prgRAM prgRAMAccess
	// twoBank is true for 32 KiB PRG-ROM images; false mirrors the
	// single 16 KiB bank across the whole 0x8000-0xFFFF window.
	twoBank bool
}

func newNROM(rom *cartridge.ROM) *nrom {
	return &nrom{
		rom:     rom,
		chr:     chrAccess{rom},
		prgRAM:  prgRAMAccess{rom},
		twoBank: len(rom.PRGROM) > prgBankSize,
	}
}

const prgBankSize = 16 * 1024

func (m *nrom) PRGLoad(addr uint16) uint8 {
	if addr < 0x8000 {
		return m.prgRAM.load(addr)
	}
	offset := addr - 0x8000
	if !m.twoBank {
		offset &= 0x3FFF
	} else {
		offset &= 0x7FFF
	}
	return m.rom.PRGROM[offset]
}

func (m *nrom) PRGStore(addr uint16, value uint8) {
	if addr < 0x8000 {
		m.prgRAM.store(addr, value)
	}
	// Writes to the ROM window are discarded; NROM has no registers.
}

func (m *nrom) CHRLoad(addr uint16) uint8 {
	return m.chr.load(int(addr))
}

func (m *nrom) CHRStore(addr uint16, value uint8) {
	m.chr.store(int(addr), value)
}

func (m *nrom) Mirror() cartridge.Mirror {
	return m.rom.Mirror
}
