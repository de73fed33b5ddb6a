package constants

import "testing"

func TestIOC(t *testing.T) {
	// PERF_EVENT_IOC_SET_BPF = _IOW('$', 8, __u32) = 0x40042408
	if PerfEventIocSetBPF != 0x40042408 {
		t.Errorf("PerfEventIocSetBPF = 0x%x, want 0x40042408", PerfEventIocSetBPF)
	}
	// PERF_EVENT_IOC_ENABLE = _IO('$', 0) = 0x2400
	if PerfEventIocEnable != 0x2400 {
		t.Errorf("PerfEventIocEnable = 0x%x, want 0x2400", PerfEventIocEnable)
	}
	// PERF_EVENT_IOC_DISABLE = _IO('$', 1) = 0x2401
	if PerfEventIocDisable != 0x2401 {
		t.Errorf("PerfEventIocDisable = 0x%x, want 0x2401", PerfEventIocDisable)
	}
}
