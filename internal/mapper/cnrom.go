package mapper

import "github.com/nesforge/gones-core/internal/cartridge"

// cnrom implements mapper 3: fixed PRG (NROM-style), with a 2-bit CHR
// bank latch selecting an 8 KiB window of CHR-ROM on any write to
// 0x8000-0xFFFF.
type cnrom struct {
	rom     *cartridge.ROM
	prgRAM  prgRAMAccess
	chrBank uint8
	twoBank bool
}

const chrBankSize = 8 * 1024

func newCNROM(rom *cartridge.ROM) *cnrom {
	return &cnrom{
		rom:     rom,
		prgRAM:  prgRAMAccess{rom},
		twoBank: len(rom.PRGROM) > prgBankSize,
	}
}

func (m *cnrom) PRGLoad(addr uint16) uint8 {
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

func (m *cnrom) PRGStore(addr uint16, value uint8) {
	if addr < 0x8000 {
		m.prgRAM.store(addr, value)
		return
	}
	m.chrBank = value & 0x03
}

func (m *cnrom) CHRLoad(addr uint16) uint8 {
	if m.rom.HasCHRRAM {
		return m.rom.CHRRAM[addr&(chrBankSize-1)]
	}
	offset := int(m.chrBank)*chrBankSize + int(addr)
	if offset >= len(m.rom.CHRROM) {
		return 0
	}
	return m.rom.CHRROM[offset]
}

func (m *cnrom) CHRStore(addr uint16, value uint8) {
	if m.rom.HasCHRRAM {
		m.rom.CHRRAM[addr&(chrBankSize-1)] = value
	}
	// CNROM's CHR-ROM banks are never writable.
}

func (m *cnrom) Mirror() cartridge.Mirror {
	return m.rom.Mirror
}
