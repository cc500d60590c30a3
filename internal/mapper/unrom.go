package mapper

import "github.com/nesforge/gones-core/internal/cartridge"

// unrom implements mapper 2: a 3-bit PRG bank latch selects the
// 0x8000-0xBFFF window; 0xC000-0xFFFF is fixed to the last bank. CHR
// behaves exactly like NROM (fixed CHR-ROM or CHR-RAM), so unrom reuses
// the same chrAccess/prgRAMAccess helpers NROM uses.
type unrom struct {
	rom      *cartridge.ROM
	chr      chrAccess
	prgRAM   prgRAMAccess
	prgBank  uint8
	numBanks int
}

func newUNROM(rom *cartridge.ROM) *unrom {
	return &unrom{
		rom:      rom,
		chr:      chrAccess{rom},
		prgRAM:   prgRAMAccess{rom},
		numBanks: len(rom.PRGROM) / prgBankSize,
	}
}

func (m *unrom) PRGLoad(addr uint16) uint8 {
	if addr < 0x8000 {
		return m.prgRAM.load(addr)
	}
	if addr >= 0xC000 {
		lastBank := m.numBanks - 1
		return m.rom.PRGROM[lastBank*prgBankSize+int(addr&0x3FFF)]
	}
	return m.rom.PRGROM[int(m.prgBank)*prgBankSize+int(addr&0x3FFF)]
}

func (m *unrom) PRGStore(addr uint16, value uint8) {
	if addr < 0x8000 {
		m.prgRAM.store(addr, value)
		return
	}
	m.prgBank = value & 0x07
}

func (m *unrom) CHRLoad(addr uint16) uint8 {
	return m.chr.load(int(addr))
}

func (m *unrom) CHRStore(addr uint16, value uint8) {
	m.chr.store(int(addr), value)
}

func (m *unrom) Mirror() cartridge.Mirror {
	return m.rom.Mirror
}
