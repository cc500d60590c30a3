// Package cartridge parses iNES ROM images into the byte vectors and
// header fields the mapper family needs.
package cartridge

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

const (
	headerSize  = 16
	trainerSize = 512
	prgBankSize = 16 * 1024
	chrBankSize = 8 * 1024
	prgRAMSize  = 8 * 1024
)

var magic = []byte{'N', 'E', 'S', 0x1A}

// Mirror is the nametable mirroring mode selected by the header or, for
// SxROM, by the mapper's control register.
type Mirror uint8

const (
	MirrorHorizontal Mirror = iota
	MirrorVertical
	MirrorSingleScreenLower
	MirrorSingleScreenUpper
	MirrorFourScreen
)

// ROM is a parsed iNES cartridge image: the header fields plus the
// program ROM, character ROM/RAM, and PRG-RAM vectors a mapper needs.
// Once loaded, PRGROM and CHRROM are read-only and safely shared; PRGRAM
// and CHRRAM are the mapper's private mutable scratch.
type ROM struct {
	MapperID   uint8
	Mirror     Mirror
	HasBattery bool
	HasCHRRAM  bool

	PRGROM []uint8
	CHRROM []uint8 // nil when HasCHRRAM is true; use CHRRAM instead
	CHRRAM []uint8 // populated when HasCHRRAM is true
	PRGRAM []uint8
}

// header mirrors the 16-byte iNES header layout.
type header struct {
	prgROMSize uint8 // 16 KiB units
	chrROMSize uint8 // 8 KiB units
	flags6     uint8
	flags7     uint8
	prgRAMSize uint8
}

// LoadFile reads and parses an iNES ROM image from disk.
func LoadFile(path string) (*ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open rom %q", path)
	}
	defer f.Close()
	return Load(f)
}

// Load parses an iNES ROM image from r.
func Load(r io.Reader) (*ROM, error) {
	raw := make([]byte, headerSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, errors.Wrap(err, "read ines header")
	}

	if !bytes.Equal(raw[0:4], magic) {
		return nil, errors.New("not an iNES image: bad magic")
	}

	// A historical "DiskDude!" corruption pattern stamps garbage into
	// bytes 7..15 of some dumped ROMs. Detect and zero it before
	// interpreting flags7 (mapper high nibble) and beyond.
	if isDiskDudeCorrupted(raw) {
		for i := 7; i < headerSize; i++ {
			raw[i] = 0
		}
	}

	h := header{
		prgROMSize: raw[4],
		chrROMSize: raw[5],
		flags6:     raw[6],
		flags7:     raw[7],
		prgRAMSize: raw[8],
	}

	if h.prgROMSize == 0 {
		return nil, errors.New("invalid rom: PRG-ROM size is zero")
	}

	rom := &ROM{
		MapperID:   (h.flags7 & 0xF0) | (h.flags6 >> 4),
		HasBattery: h.flags6&0x02 != 0,
	}

	switch {
	case h.flags6&0x08 != 0:
		rom.Mirror = MirrorFourScreen
	case h.flags6&0x01 != 0:
		rom.Mirror = MirrorVertical
	default:
		rom.Mirror = MirrorHorizontal
	}

	if h.flags6&0x04 != 0 {
		trainer := make([]byte, trainerSize)
		if _, err := io.ReadFull(r, trainer); err != nil {
			return nil, errors.Wrap(err, "read trainer")
		}
	}

	rom.PRGROM = make([]uint8, int(h.prgROMSize)*prgBankSize)
	if _, err := io.ReadFull(r, rom.PRGROM); err != nil {
		return nil, errors.Wrap(err, "read PRG-ROM")
	}

	if h.chrROMSize == 0 {
		rom.HasCHRRAM = true
		rom.CHRRAM = make([]uint8, chrBankSize)
	} else {
		rom.CHRROM = make([]uint8, int(h.chrROMSize)*chrBankSize)
		if _, err := io.ReadFull(r, rom.CHRROM); err != nil {
			return nil, errors.Wrap(err, "read CHR-ROM")
		}
	}

	rom.PRGRAM = make([]uint8, prgRAMSize)

	return rom, nil
}

// isDiskDudeCorrupted reports whether bytes 7..15 of the header carry
// the "DiskDude!" signature some early dumps stamped into the padding.
func isDiskDudeCorrupted(raw []byte) bool {
	return raw[7] == 'D' && raw[8] == 'i' && raw[9] == 's' && raw[10] == 'k'
}
