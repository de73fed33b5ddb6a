package constants

import "golang.org/x/sys/unix"

// ErrnoKindName classifies a raw errno into a stable symbolic name used by
// bpferrs.ErrSyscall errors. The eBPF-specific ENOTSUPP (524) is included
// alongside the POSIX set.
func ErrnoKindName(errno int) string {
	switch errno {
	case int(unix.EPERM):
		return "EPERM"
	case int(unix.ENOENT):
		return "ENOENT"
	case int(unix.ESRCH):
		return "ESRCH"
	case int(unix.EINTR):
		return "EINTR"
	case int(unix.EIO):
		return "EIO"
	case int(unix.ENXIO):
		return "ENXIO"
	case int(unix.E2BIG):
		return "E2BIG"
	case int(unix.ENOEXEC):
		return "ENOEXEC"
	case int(unix.EBADF):
		return "EBADF"
	case int(unix.ECHILD):
		return "ECHILD"
	case int(unix.EAGAIN):
		return "EAGAIN"
	case int(unix.ENOMEM):
		return "ENOMEM"
	case int(unix.EACCES):
		return "EACCES"
	case int(unix.EFAULT):
		return "EFAULT"
	case int(unix.EBUSY):
		return "EBUSY"
	case int(unix.EEXIST):
		return "EEXIST"
	case int(unix.EXDEV):
		return "EXDEV"
	case int(unix.ENODEV):
		return "ENODEV"
	case int(unix.ENOTDIR):
		return "ENOTDIR"
	case int(unix.EISDIR):
		return "EISDIR"
	case int(unix.EINVAL):
		return "EINVAL"
	case int(unix.ENFILE):
		return "ENFILE"
	case int(unix.EMFILE):
		return "EMFILE"
	case int(unix.ENOTTY):
		return "ENOTTY"
	case int(unix.EFBIG):
		return "EFBIG"
	case int(unix.ENOSPC):
		return "ENOSPC"
	case int(unix.ESPIPE):
		return "ESPIPE"
	case int(unix.EROFS):
		return "EROFS"
	case int(unix.EMLINK):
		return "EMLINK"
	case int(unix.EPIPE):
		return "EPIPE"
	case int(unix.ERANGE):
		return "ERANGE"
	case int(unix.ENAMETOOLONG):
		return "ENAMETOOLONG"
	case int(unix.ENOSYS):
		return "ENOSYS"
	case int(unix.ENOTEMPTY):
		return "ENOTEMPTY"
	case int(unix.ELOOP):
		return "ELOOP"
	case int(unix.EOVERFLOW):
		return "EOVERFLOW"
	case 524:
		return "ENOTSUPP"
	default:
		return "UNKNOWN"
	}
}
