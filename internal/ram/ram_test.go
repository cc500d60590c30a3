package ram

import "testing"

func TestMirroring(t *testing.T) {
	r := New()
	r.Store(0x0042, 0x99)

	for _, mirror := range []uint16{0x0042, 0x0842, 0x1042, 0x1842} {
		if got := r.Load(mirror); got != 0x99 {
			t.Errorf("Load(0x%04X) = 0x%02X, want 0x99", mirror, got)
		}
	}
}

func TestResetZeroFills(t *testing.T) {
	r := New()
	r.Store(0x0000, 0xFF)
	r.Store(0x07FF, 0xFF)
	r.Reset()

	if got := r.Load(0x0000); got != 0 {
		t.Errorf("Load(0x0000) after reset = 0x%02X, want 0", got)
	}
	if got := r.Load(0x07FF); got != 0 {
		t.Errorf("Load(0x07FF) after reset = 0x%02X, want 0", got)
	}
}

func TestIndependentBytes(t *testing.T) {
	r := New()
	r.Store(0x0010, 0x11)
	r.Store(0x0020, 0x22)

	if got := r.Load(0x0010); got != 0x11 {
		t.Errorf("Load(0x0010) = 0x%02X, want 0x11", got)
	}
	if got := r.Load(0x0020); got != 0x22 {
		t.Errorf("Load(0x0020) = 0x%02X, want 0x22", got)
	}
}
