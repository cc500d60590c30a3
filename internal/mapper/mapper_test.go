package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesforge/gones-core/internal/cartridge"
)

func romWithPRG(banks int) *cartridge.ROM {
	prg := make([]uint8, banks*prgBankSize)
	for i := range prg {
		prg[i] = uint8(i) ^ uint8(i/prgBankSize) // distinguishable bytes per bank
	}
	return &cartridge.ROM{
		PRGROM: prg,
		CHRRAM: make([]uint8, chrBankSize),
		HasCHRRAM: true,
		PRGRAM: make([]uint8, 8*1024),
	}
}

func TestNROMMirrorsSingleBank(t *testing.T) {
	rom := romWithPRG(1)
	rom.PRGROM[0] = 0xAB
	m := newNROM(rom)

	assert.Equal(t, uint8(0xAB), m.PRGLoad(0x8000))
	assert.Equal(t, uint8(0xAB), m.PRGLoad(0xC000), "16KiB ROM must mirror into upper half")
}

func TestNROMTwoBanksNotMirrored(t *testing.T) {
	rom := romWithPRG(2)
	m := newNROM(rom)

	assert.Equal(t, rom.PRGROM[0], m.PRGLoad(0x8000))
	assert.Equal(t, rom.PRGROM[0x4000], m.PRGLoad(0xC000))
}

func TestNROMPRGRAM(t *testing.T) {
	rom := romWithPRG(1)
	m := newNROM(rom)
	m.PRGStore(0x6000, 0x42)
	assert.Equal(t, uint8(0x42), m.PRGLoad(0x6000))
}

func TestUNROMBankSwitchAndFixedLastBank(t *testing.T) {
	rom := romWithPRG(4)
	m := newUNROM(rom)

	m.PRGStore(0x8000, 0x02)
	assert.Equal(t, rom.PRGROM[2*prgBankSize], m.PRGLoad(0x8000))

	// REDESIGN FLAG: the fixed-last-bank window is >= 0xC000, inclusive.
	assert.Equal(t, rom.PRGROM[3*prgBankSize], m.PRGLoad(0xC000))
	assert.Equal(t, rom.PRGROM[3*prgBankSize+0x3FFF], m.PRGLoad(0xFFFF))
}

func TestUNROMBankLatchMasksToThreeBits(t *testing.T) {
	rom := romWithPRG(8)
	m := newUNROM(rom)
	m.PRGStore(0x8000, 0xFF)
	assert.Equal(t, uint8(0x07), m.prgBank)
}

func TestCNROMChrBankSwitch(t *testing.T) {
	rom := romWithPRG(1)
	rom.HasCHRRAM = false
	rom.CHRRAM = nil
	rom.CHRROM = make([]uint8, 4*chrBankSize)
	rom.CHRROM[3*chrBankSize] = 0x55
	m := newCNROM(rom)

	m.PRGStore(0x8000, 0x03)
	assert.Equal(t, uint8(0x55), m.CHRLoad(0x0000))
}

func TestCNROMChrBankMaskedToTwoBits(t *testing.T) {
	rom := romWithPRG(1)
	rom.HasCHRRAM = false
	rom.CHRRAM = nil
	rom.CHRROM = make([]uint8, 4*chrBankSize)
	m := newCNROM(rom)

	m.PRGStore(0x8000, 0xFF)
	assert.Equal(t, uint8(0x03), m.chrBank)
}

// sxromWithBanks builds an SxROM cartridge with the given number of
// 16 KiB PRG banks, each stamped with its bank index at offset 0 so
// tests can identify which bank got selected.
func sxromWithBanks(banks int) *cartridge.ROM {
	prg := make([]uint8, banks*sxromPRGBankSize)
	for b := 0; b < banks; b++ {
		prg[b*sxromPRGBankSize] = uint8(b)
	}
	return &cartridge.ROM{
		PRGROM:    prg,
		HasCHRRAM: true,
		CHRRAM:    make([]uint8, chrBankSize),
		PRGRAM:    make([]uint8, 8*1024),
	}
}

// sxromSerialWrite performs the five-write serial protocol, LSB first,
// targeting the register window selected by addr.
func sxromSerialWrite(m *sxrom, addr uint16, value uint8) {
	for i := 0; i < 5; i++ {
		bit := (value >> i) & 0x01
		m.PRGStore(addr, bit)
	}
}

func TestSxROMBankSelect(t *testing.T) {
	rom := sxromWithBanks(8)
	m := newSxROM(rom)

	sxromSerialWrite(m, 0xE000, 0x03)

	require.True(t, m.prgSize16KiB)
	require.True(t, m.slotSelect)
	assert.Equal(t, rom.PRGROM[3*sxromPRGBankSize], m.PRGLoad(0x8000))
	// Fixed-last-bank slot at 0xC000 per the default slot_select=true.
	assert.Equal(t, rom.PRGROM[7*sxromPRGBankSize], m.PRGLoad(0xC000))
}

func TestSxROMResetBit(t *testing.T) {
	rom := sxromWithBanks(8)
	m := newSxROM(rom)

	sxromSerialWrite(m, 0xE000, 0x05) // arbitrary non-default bank select first
	m.PRGStore(0x8000, 0x80)          // reset bit

	assert.True(t, m.prgSize16KiB)
	assert.True(t, m.slotSelect)
	assert.Equal(t, uint8(0), m.writeCount)
	assert.Equal(t, uint8(0), m.shiftAccumulator)
	// Last bank must still be fixed at 0xC000 regardless of the prior
	// prg_bank register value.
	assert.Equal(t, rom.PRGROM[7*sxromPRGBankSize], m.PRGLoad(0xC000))
}

func TestSxROMControlRegisterMirroring(t *testing.T) {
	rom := sxromWithBanks(2)
	m := newSxROM(rom)

	sxromSerialWrite(m, 0x8000, 0x03) // mirror bits = 11 -> Horizontal
	assert.Equal(t, cartridge.MirrorHorizontal, m.Mirror())

	sxromSerialWrite(m, 0x8000, 0x02) // mirror bits = 10 -> Vertical
	assert.Equal(t, cartridge.MirrorVertical, m.Mirror())
}

func TestSxROM32KiBMode(t *testing.T) {
	rom := sxromWithBanks(4)
	m := newSxROM(rom)

	// Control register: bit3=0 selects 32KiB PRG mode.
	sxromSerialWrite(m, 0x8000, 0x00)
	sxromSerialWrite(m, 0xE000, 0x02) // prg_bank = 2, ignoring the low bit

	assert.Equal(t, rom.PRGROM[1*0x8000], m.PRGLoad(0x8000))
}

func TestSxROMWriteCountResetsAfterFifthWriteRegardlessOfWindow(t *testing.T) {
	rom := sxromWithBanks(2)
	m := newSxROM(rom)

	for _, addr := range []uint16{0x8000, 0xA000, 0xC000, 0xE000} {
		sxromSerialWrite(m, addr, 0x01)
		assert.Equal(t, uint8(0), m.writeCount, "window 0x%04X", addr)
		assert.Equal(t, uint8(0), m.shiftAccumulator, "window 0x%04X", addr)
	}
}
