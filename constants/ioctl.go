package constants

// ioctl direction bits (asm-generic/ioctl.h).
const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2

	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14
	iocDirBits  = 2

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits
)

// IOC encodes an ioctl command number the way asm-generic/ioctl.h's _IOC
// macro does: dir in bits 30-31, size in bits 16-29, type in bits 8-15,
// nr in bits 0-7.
func IOC(dir, typ, nr, size uint32) uint32 {
	return (dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNrShift) | (size << iocSizeShift)
}

// IO encodes a no-argument ioctl command.
func IO(typ, nr uint32) uint32 { return IOC(iocNone, typ, nr, 0) }

// perfEventType is the ioctl 'type' byte ('$' = 0x24) used by all
// PERF_EVENT_IOC_* commands.
const perfEventType = 0x24

// Perf event ioctl commands (linux/perf_event.h).
var (
	PerfEventIocEnable    = IO(perfEventType, 0)
	PerfEventIocDisable   = IO(perfEventType, 1)
	PerfEventIocSetBPF    = IOC(iocWrite, perfEventType, 8, 4)
	PerfEventIocSetOutput = IO(perfEventType, 5)
)
