package bpfprog

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/constants"
	"github.com/kornnellio/ebpfcore/sysc"
)

func timestamp() int64 { return time.Now().UnixNano() }

const (
	tracingDir      = "/sys/kernel/debug/tracing"
	kprobeEventsPath = tracingDir + "/kprobe_events"
	uprobeEventsPath = tracingDir + "/uprobe_events"
)

// unsafeEventChar matches any character not permitted in a tracefs event
// name, the same character-class the teacher enforces on container IDs.
var unsafeEventChar = regexp.MustCompile(`[^A-Za-z0-9_]`)

func sanitizeEventName(s string) string {
	return unsafeEventChar.ReplaceAllString(s, "_")
}

// perfAttach is the common attachment shape for kprobe/kretprobe,
// uprobe/uretprobe, and tracepoint hooks: a tracefs event plus a perf
// event fd wired to the program via ioctl.
type perfAttach struct {
	kind      string
	target    string
	eventName string
	eventsFile string
	perfFD    int
}

func (a *perfAttach) Kind() string   { return a.kind }
func (a *perfAttach) Target() string { return a.target }

func (a *perfAttach) Detach() error {
	if err := sysc.Ioctl(a.perfFD, constants.PerfEventIocDisable, 0); err != nil {
		return err
	}
	if err := sysc.CloseFD(a.perfFD); err != nil {
		return err
	}
	if a.eventsFile != "" {
		removeTracefsEvent(a.eventsFile, a.eventName)
	}
	return nil
}

// AttachKprobe installs a kprobe (or kretprobe if ret is true) on
// funcName and attaches prog to it, following the write-event /
// read-id / perf-open / SET_BPF / ENABLE protocol.
func (p *Program) AttachKprobe(funcName string, ret bool) (Attachment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen("bpfprog.AttachKprobe"); err != nil {
		return nil, err
	}

	prefix := "p"
	groupPrefix := "kprobe_"
	if ret {
		prefix = "r"
		groupPrefix = "kretp_"
	}
	eventName := fmt.Sprintf("%s%s_%d", groupPrefix, sanitizeEventName(funcName), timestamp())
	defLine := fmt.Sprintf("%s:%s %s", prefix, eventName, funcName)

	removeTracefsEvent(kprobeEventsPath, eventName)
	if err := appendTracefs(kprobeEventsPath, defLine); err != nil {
		return nil, err
	}

	id, err := readTracepointID("kprobes", eventName)
	if err != nil {
		removeTracefsEvent(kprobeEventsPath, eventName)
		return nil, err
	}

	a, err := openAndEnable("kprobe", funcName, eventName, kprobeEventsPath, id, p.fd)
	if err != nil {
		removeTracefsEvent(kprobeEventsPath, eventName)
		return nil, err
	}
	p.attachments = append(p.attachments, a)
	return a, nil
}

// AttachUprobe installs a uprobe (or uretprobe) at binary:offsetOrSymbol.
func (p *Program) AttachUprobe(binary, offsetOrSymbol string, ret bool) (Attachment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen("bpfprog.AttachUprobe"); err != nil {
		return nil, err
	}

	prefix := "p"
	groupPrefix := "uprobe_"
	if ret {
		prefix = "r"
		groupPrefix = "uretp_"
	}
	target := binary + ":" + offsetOrSymbol
	eventName := fmt.Sprintf("%s%s_%d", groupPrefix, sanitizeEventName(target), timestamp())
	defLine := fmt.Sprintf("%s:%s %s:%s", prefix, eventName, binary, offsetOrSymbol)

	removeTracefsEvent(uprobeEventsPath, eventName)
	if err := appendTracefs(uprobeEventsPath, defLine); err != nil {
		return nil, err
	}

	id, err := readTracepointID("uprobes", eventName)
	if err != nil {
		removeTracefsEvent(uprobeEventsPath, eventName)
		return nil, err
	}

	a, err := openAndEnable("uprobe", target, eventName, uprobeEventsPath, id, p.fd)
	if err != nil {
		removeTracefsEvent(uprobeEventsPath, eventName)
		return nil, err
	}
	p.attachments = append(p.attachments, a)
	return a, nil
}

// AttachTracepoint attaches to an existing category/name tracepoint.
func (p *Program) AttachTracepoint(category, name string) (Attachment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen("bpfprog.AttachTracepoint"); err != nil {
		return nil, err
	}

	id, err := readTracepointID(category, name)
	if err != nil {
		return nil, err
	}
	a, err := openAndEnable("tracepoint", category+":"+name, "", "", id, p.fd)
	if err != nil {
		return nil, err
	}
	p.attachments = append(p.attachments, a)
	return a, nil
}

// AttachRawTracepoint attaches via BPF_RAW_TRACEPOINT_OPEN, which yields
// a link fd directly without any tracefs event or perf event.
func (p *Program) AttachRawTracepoint(name string) (Attachment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkOpen("bpfprog.AttachRawTracepoint"); err != nil {
		return nil, err
	}
	fd, err := sysc.RawTracepointOpen(name, int32(p.fd))
	if err != nil {
		return nil, err
	}
	a := &rawTracepointAttach{target: name, fd: fd}
	p.attachments = append(p.attachments, a)
	return a, nil
}

type rawTracepointAttach struct {
	target string
	fd     int
}

func (a *rawTracepointAttach) Kind() string   { return "raw_tracepoint" }
func (a *rawTracepointAttach) Target() string { return a.target }
func (a *rawTracepointAttach) Detach() error   { return sysc.CloseFD(a.fd) }

func openAndEnable(kind, target, eventName, eventsFile string, tpID uint64, progFD int) (*perfAttach, error) {
	perfFD, err := sysc.PerfEventOpen(sysc.PerfEventAttr{
		Type:   2, // PERF_TYPE_TRACEPOINT
		Config: tpID,
	}, -1, 0, -1, 0)
	if err != nil {
		return nil, err
	}
	if err := sysc.Ioctl(perfFD, constants.PerfEventIocSetBPF, uintptr(progFD)); err != nil {
		sysc.CloseFD(perfFD)
		return nil, err
	}
	if err := sysc.Ioctl(perfFD, constants.PerfEventIocEnable, 0); err != nil {
		sysc.CloseFD(perfFD)
		return nil, err
	}
	return &perfAttach{kind: kind, target: target, eventName: eventName, eventsFile: eventsFile, perfFD: perfFD}, nil
}

func appendTracefs(path, line string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return bpferrs.WrapWithSubject(err, bpferrs.ErrSyscall, "bpfprog.appendTracefs", path)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return bpferrs.WrapWithSubject(err, bpferrs.ErrSyscall, "bpfprog.appendTracefs", path)
	}
	return nil
}

func removeTracefsEvent(path, name string) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return
	}
	defer f.Close()
	f.WriteString("-:" + name + "\n")
}

func readTracepointID(category, name string) (uint64, error) {
	path := fmt.Sprintf("%s/events/%s/%s/id", tracingDir, category, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, bpferrs.WrapWithSubject(bpferrs.ErrTracepointNotFound, bpferrs.ErrNotFound, "bpfprog.readTracepointID", category+"/"+name)
	}
	id, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, bpferrs.WrapWithSubject(err, bpferrs.ErrInvalidShape, "bpfprog.readTracepointID", category+"/"+name)
	}
	return id, nil
}
