// Package link houses the per-hook attach facades that bpfprog delegates
// to: cgroup directory attachment, network namespace FD handles, a
// hand-rolled XDP netlink client, and SOCKMAP/SOCKHASH program attach.
package link

import (
	"regexp"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/constants"
	"github.com/kornnellio/ebpfcore/sysc"
)

// validCgroupPathSegment matches a single path component, the same
// character class the source repo enforces on cgroup controller file
// names, applied here per path segment instead of per key.
var validCgroupPathSegment = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

func validateCgroupPath(path string) error {
	if path == "" || !strings.HasPrefix(path, "/") {
		return bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape, "link.validateCgroupPath", "path must be absolute")
	}
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "." || seg == ".." {
			return bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape, "link.validateCgroupPath", "path traversal in "+path)
		}
		if !validCgroupPathSegment.MatchString(seg) {
			return bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape, "link.validateCgroupPath", "invalid segment in "+path)
		}
	}
	return nil
}

// CgroupLink is a program attached to a cgroupv2 hook.
type CgroupLink struct {
	path       string
	attachType constants.AttachType
	cgroupFD   int
	progFD     int32
}

// Cgroup opens the cgroupv2 directory at path and attaches progFd to it
// under attachType with the given PROG_ATTACH flags.
func Cgroup(path string, progFD int32, attachType constants.AttachType, flags uint32) (*CgroupLink, error) {
	if err := validateCgroupPath(path); err != nil {
		return nil, err
	}
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY, 0)
	if err != nil {
		return nil, bpferrs.WrapWithSubject(err, bpferrs.ErrSyscall, "link.Cgroup", path)
	}
	if err := sysc.ProgAttach(sysc.ProgAttachArgs{
		TargetFd:    int32(fd),
		AttachBpfFd: progFD,
		AttachType:  attachType,
		AttachFlags: flags,
	}); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &CgroupLink{path: path, attachType: attachType, cgroupFD: fd, progFD: progFD}, nil
}

func (l *CgroupLink) Kind() string   { return "cgroup" }
func (l *CgroupLink) Target() string { return l.path }

// Detach detaches the program from the cgroup and closes the directory fd.
func (l *CgroupLink) Detach() error {
	err := sysc.ProgDetach(sysc.ProgAttachArgs{
		TargetFd:    int32(l.cgroupFD),
		AttachBpfFd: l.progFD,
		AttachType:  l.attachType,
	})
	if cerr := unix.Close(l.cgroupFD); err == nil {
		err = cerr
	}
	return err
}
