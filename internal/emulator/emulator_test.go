package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesforge/gones-core/internal/cartridge"
)

func nromCartridge() *cartridge.ROM {
	rom := &cartridge.ROM{
		PRGROM:    make([]uint8, 0x8000),
		CHRRAM:    make([]uint8, 0x2000),
		HasCHRRAM: true,
		PRGRAM:    make([]uint8, 0x2000),
	}
	rom.PRGROM[0x7FFC] = 0x00 // reset vector low, at PRGROM offset for 0xFFFC
	rom.PRGROM[0x7FFD] = 0x80 // reset vector high -> PC = 0x8000
	rom.PRGROM[0] = 0xEA      // NOP at 0x8000
	return rom
}

func TestNewRunsResetSequence(t *testing.T) {
	e, err := New(nromCartridge())
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8000), e.CPU.PC)
	assert.True(t, e.CPU.I)
}

func TestStepExecutesOneInstructionAndAdvancesCollaborators(t *testing.T) {
	e, err := New(nromCartridge())
	require.NoError(t, err)

	cycles, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), cycles) // NOP
	assert.Equal(t, uint16(0x8001), e.CPU.PC)
}

func TestUnknownMapperIsALoadError(t *testing.T) {
	rom := nromCartridge()
	rom.MapperID = 200
	_, err := New(rom)
	assert.Error(t, err)
}

func TestResetReturnsPCToVector(t *testing.T) {
	e, err := New(nromCartridge())
	require.NoError(t, err)
	e.CPU.PC = 0x1234
	e.Reset()
	assert.Equal(t, uint16(0x8000), e.CPU.PC)
}

func TestAssertNMIPreemptsNextStep(t *testing.T) {
	e, err := New(nromCartridge())
	require.NoError(t, err)
	e.AssertNMI()

	cycles, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cycles)
}
