package cartridge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildINES(prgBanks, chrBanks uint8, flags6, flags7 uint8, trainer bool) []byte {
	var buf bytes.Buffer
	buf.Write(magic)
	buf.WriteByte(prgBanks)
	buf.WriteByte(chrBanks)
	buf.WriteByte(flags6)
	buf.WriteByte(flags7)
	buf.Write(make([]byte, 8)) // PRG-RAM size + padding

	if trainer {
		buf.Write(make([]byte, trainerSize))
	}
	buf.Write(make([]byte, int(prgBanks)*prgBankSize))
	buf.Write(make([]byte, int(chrBanks)*chrBankSize))
	return buf.Bytes()
}

func TestLoadNROM(t *testing.T) {
	data := buildINES(2, 1, 0x00, 0x00, false)
	rom, err := Load(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, uint8(0), rom.MapperID)
	assert.Equal(t, MirrorHorizontal, rom.Mirror)
	assert.False(t, rom.HasCHRRAM)
	assert.Len(t, rom.PRGROM, 2*prgBankSize)
	assert.Len(t, rom.CHRROM, chrBankSize)
	assert.Len(t, rom.PRGRAM, prgRAMSize)
}

func TestLoadCHRRAMWhenAbsent(t *testing.T) {
	data := buildINES(1, 0, 0x00, 0x00, false)
	rom, err := Load(bytes.NewReader(data))
	require.NoError(t, err)

	assert.True(t, rom.HasCHRRAM)
	assert.Nil(t, rom.CHRROM)
	assert.Len(t, rom.CHRRAM, chrBankSize)
}

func TestMapperNumberFromBothNibbles(t *testing.T) {
	// flags6 high nibble = low nibble of mapper, flags7 high nibble = high nibble of mapper.
	data := buildINES(1, 1, 0x10, 0x30, false) // mapper 0x31 -> 0x30 | 0x01
	rom, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, uint8(0x31), rom.MapperID)
}

func TestMirroringFromFlags6(t *testing.T) {
	vertical, err := Load(bytes.NewReader(buildINES(1, 1, 0x01, 0x00, false)))
	require.NoError(t, err)
	assert.Equal(t, MirrorVertical, vertical.Mirror)

	fourScreen, err := Load(bytes.NewReader(buildINES(1, 1, 0x08, 0x00, false)))
	require.NoError(t, err)
	assert.Equal(t, MirrorFourScreen, fourScreen.Mirror)
}

func TestBatteryFlag(t *testing.T) {
	rom, err := Load(bytes.NewReader(buildINES(1, 1, 0x02, 0x00, false)))
	require.NoError(t, err)
	assert.True(t, rom.HasBattery)
}

func TestTrainerIsSkipped(t *testing.T) {
	data := buildINES(1, 1, 0x04, 0x00, true)
	rom, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, rom.PRGROM, prgBankSize)
}

func TestBadMagicRejected(t *testing.T) {
	data := buildINES(1, 1, 0, 0, false)
	data[0] = 'X'
	_, err := Load(bytes.NewReader(data))
	assert.Error(t, err)
}

func TestTruncatedFileRejected(t *testing.T) {
	data := buildINES(1, 1, 0, 0, false)
	_, err := Load(bytes.NewReader(data[:len(data)-10]))
	assert.Error(t, err)
}

func TestZeroPRGSizeRejected(t *testing.T) {
	data := buildINES(0, 1, 0, 0, false)
	_, err := Load(bytes.NewReader(data))
	assert.Error(t, err)
}

func TestDiskDudeCorruptionIsZeroed(t *testing.T) {
	data := buildINES(1, 1, 0x00, 0x00, false)
	copy(data[7:], []byte("DiskDude!"))
	rom, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	// flags7 was corrupted but gets zeroed, so the mapper number comes
	// only from the (also-zero) flags6 high nibble.
	assert.Equal(t, uint8(0), rom.MapperID)
}
