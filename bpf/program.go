package bpf

import (
	"ebpfcore/ebpftype"
	"ebpfcore/internal/sysbpf"
)

// ProgramState is the program descriptor's lifecycle position.
// Transitions only move forward: not-loaded to loaded to closed, no
// resurrection.
type ProgramState int

const (
	ProgramNotLoaded ProgramState = iota
	ProgramLoaded
	ProgramClosed
)

// ProgramDescriptor owns the fd returned by a successful PROG_LOAD. It
// is mutated only by the kernel after creation; closing it is the only
// client-side transition available.
type ProgramDescriptor struct {
	closer

	progType    ebpftype.ProgType
	name        string
	insnCount   int
	license     string
	verifierLog []byte
	state       ProgramState
}

// LoadProgram assembles no bytecode itself — bytecode is produced by
// asm.Assemble or objelf.ParseObject beforehand — it only submits the
// already-encoded bytes to PROG_LOAD and wraps the result.
//
// level controls how large a verifier log buffer the kernel is asked
// to fill; on a failed load the tail of that buffer is attached to the
// returned error via sysbpf.VerifierError.
func LoadProgram(k sysbpf.Syscaller, progType ebpftype.ProgType, bytecode []byte, license, name string, level sysbpf.LogLevel) (*ProgramDescriptor, error) {
	fd, log, err := k.ProgLoad(sysbpf.ProgLoadSpec{
		Type:     progType,
		Insns:    bytecode,
		License:  license,
		Name:     name,
		LogLevel: level,
	})
	if err != nil {
		return nil, err
	}
	return &ProgramDescriptor{
		closer:      newCloser(fd, k.Close),
		progType:    progType,
		name:        name,
		insnCount:   len(bytecode) / 8,
		license:     license,
		verifierLog: log,
		state:       ProgramLoaded,
	}, nil
}

func (p *ProgramDescriptor) Type() ebpftype.ProgType { return p.progType }
func (p *ProgramDescriptor) Name() string            { return p.name }
func (p *ProgramDescriptor) InsnCount() int          { return p.insnCount }
func (p *ProgramDescriptor) License() string         { return p.license }
func (p *ProgramDescriptor) VerifierLog() []byte     { return p.verifierLog }
func (p *ProgramDescriptor) State() ProgramState     { return p.state }

// Close releases the program's fd. Idempotent; safe to call more than
// once or after the program has already been closed by another path
// (e.g. via a LinkDescriptor's teardown helper).
func (p *ProgramDescriptor) Close() error {
	err := p.closer.Close()
	p.state = ProgramClosed
	return err
}
