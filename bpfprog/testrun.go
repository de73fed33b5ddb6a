package bpfprog

import "github.com/kornnellio/ebpfcore/sysc"

// TestRunOptions collects the inputs for a BPF_PROG_TEST_RUN invocation.
type TestRunOptions struct {
	Data       []byte
	Ctx        []byte
	Repeat     uint32
	Flags      uint32
	CPU        uint32
	DataOutCap int
	CtxOutCap  int
}

// TestRunResult is the kernel's response to a test run.
type TestRunResult struct {
	Retval   uint32
	Duration uint32
	DataOut  []byte
	CtxOut   []byte
}

// TestRun drives the in-kernel test harness for the program without
// needing a live attach point, per BPF_PROG_TEST_RUN semantics.
func (p *Program) TestRun(o TestRunOptions) (TestRunResult, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.checkOpen("bpfprog.TestRun"); err != nil {
		return TestRunResult{}, err
	}

	res, err := sysc.ProgTestRun(sysc.ProgTestRunArgs{
		ProgFd:     int32(p.fd),
		DataIn:     o.Data,
		CtxIn:      o.Ctx,
		Repeat:     o.Repeat,
		Flags:      o.Flags,
		CPU:        o.CPU,
		DataOutCap: o.DataOutCap,
		CtxOutCap:  o.CtxOutCap,
	})
	return TestRunResult{
		Retval:   res.Retval,
		Duration: res.Duration,
		DataOut:  res.DataOut,
		CtxOut:   res.CtxOut,
	}, err
}
