// Package bpfprog implements BPF program lifecycle management: load,
// attach, detach, pin, and test-run, wrapping sysc's raw bpf_attr
// marshalling behind a resource-owning handle with rollback-on-failure
// attach semantics.
package bpfprog

import (
	"log/slog"
	"sync"

	"github.com/kornnellio/ebpfcore/asm"
	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/constants"
	"github.com/kornnellio/ebpfcore/logging"
	"github.com/kornnellio/ebpfcore/sysc"
)

// Program owns a loaded BPF program's file descriptor and the set of
// live attachments created from it, the way the source repo's Container
// owns an init process and the cgroup/namespace/device state that came
// from starting it.
type Program struct {
	mu sync.RWMutex

	fd          int
	closed      bool
	name        string
	progType    constants.ProgType
	attachments []Attachment

	log *slog.Logger
}

// Attachment is satisfied by every hook-specific link type in the link
// package and by bpfprog's own tracefs-based kprobe/uprobe/tracepoint
// attachments.
type Attachment interface {
	Detach() error
	Kind() string
	Target() string
}

// LoadOptions collects everything needed to load a program.
type LoadOptions struct {
	Name               string
	Type               constants.ProgType
	Instructions       asm.Program
	License            string
	LogLevel           uint32
	KernVersion        uint32
	Flags              uint32
	ExpectedAttachType constants.AttachType
	ProgBTFFd          int32
	AttachBTFID        uint32
}

// LoadResult carries the verifier log alongside the loaded Program, since
// a caller may want the log even on success when LogLevel>0.
type LoadResult struct {
	Program *Program
	Log     []byte
}

// Load issues BPF_PROG_LOAD. When the load fails and the kernel wrote a
// verifier log (LogLevel > 0), the returned error wraps
// bpferrs.ErrVerifierRejected and carries the log as Detail. With
// LogLevel 0 no log buffer is passed and the plain syscall error is
// returned.
func Load(o LoadOptions) (LoadResult, error) {
	if len(o.Instructions) == 0 {
		return LoadResult{}, bpferrs.WrapWithSubject(bpferrs.ErrEmptyInstructions, bpferrs.ErrInvalidShape, "bpfprog.Load", o.Name)
	}
	if len(o.Name) > 15 {
		return LoadResult{}, bpferrs.WrapWithSubject(bpferrs.ErrNameTooLong, bpferrs.ErrInvalidShape, "bpfprog.Load", o.Name)
	}
	license := o.License
	if license == "" {
		license = "GPL"
	}

	res, err := sysc.ProgLoad(sysc.ProgLoadArgs{
		ProgType:           o.Type,
		Insns:              o.Instructions,
		License:            license,
		LogLevel:           o.LogLevel,
		KernVersion:        o.KernVersion,
		ProgFlags:          o.Flags,
		Name:               o.Name,
		ExpectedAttachType: o.ExpectedAttachType,
		ProgBTFFd:          o.ProgBTFFd,
		AttachBTFID:        o.AttachBTFID,
	})
	if err != nil {
		return LoadResult{Log: res.LogBuf}, err
	}

	p := &Program{
		fd:       res.FD,
		name:     o.Name,
		progType: o.Type,
		log:      logging.WithProgram(logging.Default(), o.Name),
	}
	return LoadResult{Program: p, Log: res.LogBuf}, nil
}

// FD returns the program's file descriptor.
func (p *Program) FD() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fd
}

// Name returns the program's name.
func (p *Program) Name() string { return p.name }

// Type returns the program's type.
func (p *Program) Type() constants.ProgType { return p.progType }

// logger returns the program's logger, falling back to the package
// default for handles built without going through Load (tests, or a
// handle recovered via GetPinned).
func (p *Program) logger() *slog.Logger {
	if p.log != nil {
		return p.log
	}
	return logging.Default()
}

func (p *Program) checkOpen(op string) error {
	if p.closed {
		return bpferrs.WrapWithSubject(bpferrs.ErrProgramClosed, bpferrs.ErrInvalidShape, op, p.name)
	}
	return nil
}

// addAttachment records a, so Close can detach everything still live.
func (p *Program) addAttachment(a Attachment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attachments = append(p.attachments, a)
}

func (p *Program) removeAttachment(a Attachment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.attachments {
		if existing == a {
			p.attachments = append(p.attachments[:i], p.attachments[i+1:]...)
			return
		}
	}
}

// Attachments returns a snapshot of the program's currently live attachments.
func (p *Program) Attachments() []Attachment {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Attachment, len(p.attachments))
	copy(out, p.attachments)
	return out
}

// DetachAll detaches every live attachment in reverse attach order,
// collecting but not stopping on individual failures, the way the
// teacher's container delete tears down cgroups/namespaces/mounts
// best-effort even when an early step fails.
func (p *Program) DetachAll() []error {
	var errs []error
	live := p.Attachments()
	for i := len(live) - 1; i >= 0; i-- {
		a := live[i]
		if err := a.Detach(); err != nil {
			errs = append(errs, err)
			p.logger().Warn("attachment detach failed",
				"kind", a.Kind(), "target", a.Target(), "error", err)
			continue
		}
		p.removeAttachment(a)
	}
	return errs
}

// Close detaches every attachment and releases the program's file
// descriptor. Safe to call multiple times.
func (p *Program) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	fd := p.fd
	p.mu.Unlock()

	errs := p.DetachAll()
	if err := sysc.CloseFD(fd); err != nil {
		errs = append(errs, err)
		p.logger().Warn("program fd close failed", "name", p.name, "error", err)
	}
	if len(errs) > 0 {
		return bpferrs.WrapWithSubject(errs[0], bpferrs.ErrResourceLeak, "bpfprog.Close", p.name)
	}
	return nil
}
