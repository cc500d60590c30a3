// Package mapper implements the NES cartridge mapper family: the
// polymorphic controller that translates CPU program-space and PPU
// pattern-space addresses to physical ROM/RAM bytes and absorbs writes
// as bank-switch commands.
package mapper

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/nesforge/gones-core/internal/cartridge"
)

// Mapper is the narrow interface every cartridge controller exposes:
// program-space and pattern-space load/store, plus the nametable
// mirroring mode the video subsystem should use.
type Mapper interface {
	PRGLoad(addr uint16) uint8
	PRGStore(addr uint16, value uint8)
	CHRLoad(addr uint16) uint8
	CHRStore(addr uint16, value uint8)
	Mirror() cartridge.Mirror
}

// New selects and constructs the mapper named by rom.MapperID.
// Mapper numbers outside the four this core implements are a
// cartridge-load failure, not a silent fallback to NROM.
func New(rom *cartridge.ROM) (Mapper, error) {
	switch rom.MapperID {
	case 0:
		return newNROM(rom), nil
	case 1:
		return newSxROM(rom), nil
	case 2:
		return newUNROM(rom), nil
	case 3:
		return newCNROM(rom), nil
	default:
		return nil, errors.Wrap(fmt.Errorf("mapper %d", rom.MapperID), "unsupported mapper")
	}
}

// chrAccess centralizes the CHR-ROM-vs-CHR-RAM routing shared by NROM
// and UNROM (CNROM routes CHR itself to apply its bank latch): reads/writes target CHR-RAM when no CHR-ROM was
// present in the cartridge image, otherwise they target CHR-ROM and
// writes are discarded.
type chrAccess struct {
	rom *cartridge.ROM
}

func (c chrAccess) load(offset int) uint8 {
	if c.rom.HasCHRRAM {
		return c.rom.CHRRAM[offset&(len(c.rom.CHRRAM)-1)]
	}
	if offset < 0 || offset >= len(c.rom.CHRROM) {
		return 0
	}
	return c.rom.CHRROM[offset]
}

func (c chrAccess) store(offset int, value uint8) {
	if c.rom.HasCHRRAM {
		c.rom.CHRRAM[offset&(len(c.rom.CHRRAM)-1)] = value
	}
	// Writes to CHR-ROM are discarded; real hardware wires them nowhere.
}

// prgRAMAccess centralizes the 0x6000-0x7FFF PRG-RAM window shared by
// every mapper variant.
type prgRAMAccess struct {
	rom *cartridge.ROM
}

func (p prgRAMAccess) load(addr uint16) uint8 {
	return p.rom.PRGRAM[addr&0x1FFF]
}

func (p prgRAMAccess) store(addr uint16, value uint8) {
	p.rom.PRGRAM[addr&0x1FFF] = value
}
