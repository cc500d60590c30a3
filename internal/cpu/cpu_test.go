package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatBus is a 64KiB flat address space used to exercise the CPU in
// isolation from the real memory map, which lives in package bus.
type flatBus struct {
	mem [65536]uint8
}

func (b *flatBus) Load(addr uint16) uint8        { return b.mem[addr] }
func (b *flatBus) Store(addr uint16, value uint8) { b.mem[addr] = value }

func (b *flatBus) loadProgram(addr uint16, bytes ...uint8) {
	for i, v := range bytes {
		b.mem[addr+uint16(i)] = v
	}
}

func (b *flatBus) setResetVector(addr uint16) {
	b.mem[resetVector] = uint8(addr)
	b.mem[resetVector+1] = uint8(addr >> 8)
}

func newTestCPU(setup func(*flatBus)) (*CPU, *flatBus) {
	bus := &flatBus{}
	if setup != nil {
		setup(bus)
	}
	c := New(bus)
	c.Reset()
	return c, bus
}

func TestLDAImmediateSetsFlagsAndCycles(t *testing.T) {
	c, bus := newTestCPU(func(b *flatBus) {
		b.setResetVector(0x8000)
		b.loadProgram(0x8000, 0xA9, 0x00)
	})

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), cycles)
	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.Z)
	assert.False(t, c.N)
	assert.Equal(t, uint16(0x8002), c.PC)
	_ = bus
}

func TestADCSignedOverflow(t *testing.T) {
	c, _ := newTestCPU(func(b *flatBus) {
		b.setResetVector(0x8000)
		b.loadProgram(0x8000, 0x69, 0x50) // ADC #$50
	})
	c.A = 0x50
	c.C = false

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xA0), c.A)
	assert.False(t, c.C)
	assert.True(t, c.V)
	assert.True(t, c.N)
	assert.False(t, c.Z)
}

func TestBranchTakenPageCrossed(t *testing.T) {
	c, bus := newTestCPU(func(b *flatBus) {
		b.setResetVector(0x80FE)
		b.loadProgram(0x80FE, 0xF0, 0x02) // BEQ +2
	})
	c.Z = true

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8102), c.PC)
	assert.Equal(t, uint64(4), cycles)
	_ = bus
}

func TestSTAAbsoluteXPageCrossIsNotPenalized(t *testing.T) {
	c, bus := newTestCPU(func(b *flatBus) {
		b.setResetVector(0x8000)
		b.loadProgram(0x8000, 0x9D, 0xFF, 0x80) // STA $80FF,X
	})
	c.X = 0x01 // $80FF + 1 crosses into page $81
	c.A = 0x42

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), cycles, "stores are fixed-cost; a page cross must not add a cycle")
	assert.Equal(t, uint8(0x42), bus.mem[0x8100])
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, _ := newTestCPU(func(b *flatBus) {
		b.setResetVector(0x8000)
		b.loadProgram(0x8000, 0x6C, 0xFF, 0x02) // JMP ($02FF)
		b.mem[0x02FF] = 0x34
		b.mem[0x0200] = 0x12
		b.mem[0x0300] = 0xFF
	})

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), c.PC)
}

func TestZeroPageIndirectWrapsWithinPageZero(t *testing.T) {
	c, _ := newTestCPU(func(b *flatBus) {
		b.setResetVector(0x8000)
		b.loadProgram(0x8000, 0xB1, 0xFF) // LDA ($FF),Y
		b.mem[0x00FF] = 0x00
		b.mem[0x0000] = 0x90 // would be 0x0100 if the wrap were wrong
		b.mem[0x9000] = 0x77
	})
	c.Y = 0

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x77), c.A)
}

func TestPLPForcesBreakZeroAndBitFiveOne(t *testing.T) {
	c, _ := newTestCPU(func(b *flatBus) {
		b.setResetVector(0x8000)
		b.loadProgram(0x8000, 0x28) // PLP
	})
	c.push(0x00) // stacked byte with every bit clear, including bit 5

	_, err := c.Step()
	require.NoError(t, err)
	assert.False(t, c.B)
	assert.Equal(t, uint8(unusedMask), c.GetStatusByte()&(bFlagMask|unusedMask))
}

func TestStatusByteBitFiveAlwaysOne(t *testing.T) {
	c, _ := newTestCPU(nil)
	c.SetStatusByte(0x00)
	assert.NotZero(t, c.GetStatusByte()&unusedMask)
}

func TestPHAPLARoundTrip(t *testing.T) {
	c, _ := newTestCPU(nil)
	c.A = 0x42
	c.push(c.A)
	c.A = 0x00
	c.A = c.pop()
	c.setZN(c.A)
	assert.Equal(t, uint8(0x42), c.A)
	assert.False(t, c.Z)
	assert.False(t, c.N)
}

func TestNMIHandling(t *testing.T) {
	c, bus := newTestCPU(func(b *flatBus) {
		b.setResetVector(0x8000)
		b.mem[nmiVector] = 0x00
		b.mem[nmiVector+1] = 0xC0
		b.loadProgram(0x8000, 0xEA) // NOP; never fetched once NMI preempts
	})
	spBefore := c.SP
	pcBefore := c.PC

	c.AssertNMI(true)
	c.AssertNMI(false) // falling edge latches the NMI

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xC000), c.PC)
	assert.True(t, c.I)
	assert.Equal(t, uint64(7), cycles)

	pushedPCLow := bus.mem[stackBase+uint16(spBefore)-1]
	pushedPCHigh := bus.mem[stackBase+uint16(spBefore)]
	pushedStatus := bus.mem[stackBase+uint16(spBefore)-2]
	assert.Equal(t, uint8(pcBefore), pushedPCLow)
	assert.Equal(t, uint8(pcBefore>>8), pushedPCHigh)
	assert.Zero(t, pushedStatus&bFlagMask)
	assert.NotZero(t, pushedStatus&unusedMask)
}

func TestUnknownOpcodeIsFatal(t *testing.T) {
	c, _ := newTestCPU(func(b *flatBus) {
		b.setResetVector(0x8000)
		b.loadProgram(0x8000, 0x02) // JAM: never decoded
	})

	cycles, err := c.Step()
	require.Error(t, err)
	assert.Zero(t, cycles)

	var illegal *IllegalOpcodeError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, uint16(0x8000), illegal.PC)
	assert.Equal(t, uint8(0x02), illegal.Opcode)
}

func TestRegistersStayWithinWidthAfterWraparoundArithmetic(t *testing.T) {
	c, _ := newTestCPU(nil)
	c.SP = 0x00
	c.push(0x11) // must wrap to 0xFF, not underflow the Go type
	assert.Equal(t, uint8(0xFF), c.SP)

	c.PC = 0xFFFF
	c.PC++
	assert.Equal(t, uint16(0x0000), c.PC)
}
