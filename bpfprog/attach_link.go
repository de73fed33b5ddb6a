package bpfprog

import (
	"github.com/kornnellio/ebpfcore/constants"
	"github.com/kornnellio/ebpfcore/link"
	"github.com/kornnellio/ebpfcore/sysc"
)

// linkFDAttach wraps a raw BPF_LINK_CREATE-produced link fd: fentry/fexit,
// iterator, and struct_ops attachments all reduce to this shape.
type linkFDAttach struct {
	kind   string
	target string
	fd     int
}

func (a *linkFDAttach) Kind() string   { return a.kind }
func (a *linkFDAttach) Target() string { return a.target }
func (a *linkFDAttach) Detach() error  { return sysc.CloseFD(a.fd) }

// AttachFentry attaches a type=tracing program (loaded with AttachBTFID
// set to the target function's BTF id) as an fentry probe.
func (p *Program) AttachFentry(targetBTFID uint32) (Attachment, error) {
	return p.attachTracing("fentry", targetBTFID, constants.AttachTraceFentry)
}

// AttachFexit attaches a type=tracing program as an fexit probe.
func (p *Program) AttachFexit(targetBTFID uint32) (Attachment, error) {
	return p.attachTracing("fexit", targetBTFID, constants.AttachTraceFexit)
}

func (p *Program) attachTracing(kind string, targetBTFID uint32, attachType constants.AttachType) (Attachment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen("bpfprog.attachTracing"); err != nil {
		return nil, err
	}
	fd, err := sysc.LinkCreate(sysc.LinkCreateArgs{
		ProgFd:      int32(p.fd),
		AttachType:  attachType,
		TargetBTFID: targetBTFID,
	})
	if err != nil {
		return nil, err
	}
	a := &linkFDAttach{kind: kind, target: "btf_id", fd: fd}
	p.attachments = append(p.attachments, a)
	return a, nil
}

// AttachIterator creates a trace-iter link over the program and returns
// the link as the attachment. It does not issue BPF_ITER_CREATE, so no
// readable iterator fd is opened from the link.
func (p *Program) AttachIterator() (Attachment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen("bpfprog.AttachIterator"); err != nil {
		return nil, err
	}
	fd, err := sysc.LinkCreate(sysc.LinkCreateArgs{
		ProgFd:     int32(p.fd),
		AttachType: constants.AttachTraceIter,
	})
	if err != nil {
		return nil, err
	}
	a := &linkFDAttach{kind: "iterator", target: "iter", fd: fd}
	p.attachments = append(p.attachments, a)
	return a, nil
}

// AttachStructOps activates a struct_ops map (already populated with
// callback program FDs at their BTF-derived offsets) via LINK_CREATE.
func (p *Program) AttachStructOps(mapFD int32) (Attachment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen("bpfprog.AttachStructOps"); err != nil {
		return nil, err
	}
	fd, err := sysc.LinkCreate(sysc.LinkCreateArgs{
		ProgFd:     int32(p.fd),
		TargetFd:   mapFD,
		AttachType: constants.AttachStructOps,
	})
	if err != nil {
		return nil, err
	}
	a := &linkFDAttach{kind: "struct_ops", target: "map", fd: fd}
	p.attachments = append(p.attachments, a)
	return a, nil
}

// AttachXDP attaches the program to a network interface via the hand-rolled
// netlink facade in the link package.
func (p *Program) AttachXDP(ifindex int, flags uint32) (Attachment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen("bpfprog.AttachXDP"); err != nil {
		return nil, err
	}
	l, err := link.XDP(ifindex, int32(p.fd), flags)
	if err != nil {
		return nil, err
	}
	p.attachments = append(p.attachments, l)
	return l, nil
}

// AttachCgroup attaches the program to a cgroupv2 directory.
func (p *Program) AttachCgroup(path string, attachType constants.AttachType, flags uint32) (Attachment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen("bpfprog.AttachCgroup"); err != nil {
		return nil, err
	}
	l, err := link.Cgroup(path, int32(p.fd), attachType, flags)
	if err != nil {
		return nil, err
	}
	p.attachments = append(p.attachments, l)
	return l, nil
}

// AttachSkSKB attaches the program to a SOCKMAP/SOCKHASH map as a
// stream-parser or stream-verdict program.
func (p *Program) AttachSkSKB(mapFD int32, attachType constants.AttachType) (Attachment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen("bpfprog.AttachSkSKB"); err != nil {
		return nil, err
	}
	l, err := link.SkSKB(mapFD, int32(p.fd), attachType)
	if err != nil {
		return nil, err
	}
	p.attachments = append(p.attachments, l)
	return l, nil
}

// AttachSkMsg attaches the program to a SOCKMAP/SOCKHASH map as an
// sk-msg-verdict program.
func (p *Program) AttachSkMsg(mapFD int32) (Attachment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen("bpfprog.AttachSkMsg"); err != nil {
		return nil, err
	}
	l, err := link.SkMsg(mapFD, int32(p.fd))
	if err != nil {
		return nil, err
	}
	p.attachments = append(p.attachments, l)
	return l, nil
}

// AttachNetns attaches the program (sk_lookup or flow_dissector) against
// a network namespace's file descriptor via LINK_CREATE.
func (p *Program) AttachNetns(nsPath string, attachType constants.AttachType) (Attachment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen("bpfprog.AttachNetns"); err != nil {
		return nil, err
	}
	ns, err := link.Netns(nsPath)
	if err != nil {
		return nil, err
	}
	fd, err := sysc.LinkCreate(sysc.LinkCreateArgs{
		ProgFd:     int32(p.fd),
		TargetFd:   int32(ns.FD()),
		AttachType: attachType,
	})
	if err != nil {
		ns.Detach()
		return nil, err
	}
	a := &netnsAttach{ns: ns, linkFD: fd, attachType: attachType}
	p.attachments = append(p.attachments, a)
	return a, nil
}

// netnsAttach owns both the namespace fd and the resulting link fd so
// Detach releases both in order.
type netnsAttach struct {
	ns         *link.NetnsLink
	linkFD     int
	attachType constants.AttachType
}

func (a *netnsAttach) Kind() string   { return "netns" }
func (a *netnsAttach) Target() string { return a.ns.Target() }
func (a *netnsAttach) Detach() error {
	err := sysc.CloseFD(a.linkFD)
	if nsErr := a.ns.Detach(); err == nil {
		err = nsErr
	}
	return err
}
