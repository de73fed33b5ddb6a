package asm

import "github.com/kornnellio/ebpfcore/constants"

// RelocationKind identifies what a CO-RE relocation site resolves to.
type RelocationKind int

const (
	RelFieldByteOffset RelocationKind = iota
	RelFieldByteSize
	RelFieldExists
	RelFieldSigned
	RelFieldLShiftU64
	RelFieldRShiftU64
	RelTypeIDLocal
	RelTypeIDTarget
	RelTypeExists
	RelTypeSize
	RelEnumvalExists
	RelEnumvalValue
	RelTypeMatches
)

// Relocation records a pending CO-RE site: a mov-immediate instruction
// at InsnOffset whose Imm the core package will overwrite once it has
// resolved AccessString against RootTypeID in the target BTF.
type Relocation struct {
	InsnOffset   int
	RootTypeID   uint32
	AccessString string
	Kind         RelocationKind
}

// Builder assembles a Program while recording CO-RE relocation sites
// alongside it, the way a real CO-RE-aware compiler backend emits both
// the instruction stream and its relocation table in lockstep.
type Builder struct {
	prog  Program
	relos []Relocation
}

// NewBuilder returns an empty instruction builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Emit appends one or more instructions and returns the builder for chaining.
func (b *Builder) Emit(insns ...Instruction) *Builder {
	b.prog = append(b.prog, insns...)
	return b
}

// EmitProgram appends a whole pre-built Program (e.g. a helper-call sequence).
func (b *Builder) EmitProgram(p Program) *Builder {
	b.prog = append(b.prog, p...)
	return b
}

// Len returns the number of instructions emitted so far.
func (b *Builder) Len() int { return len(b.prog) }

// Program returns the accumulated instruction stream.
func (b *Builder) Program() Program { return b.prog }

// Relocations returns the recorded CO-RE relocation sites.
func (b *Builder) Relocations() []Relocation { return b.relos }

// core emits a placeholder `mov64 dst, 0` at the builder's current
// instruction offset and records a relocation site there; core.Relocate
// overwrites the immediate once the target BTF is known.
func (b *Builder) core(dst constants.Register, rootTypeID uint32, access string, kind RelocationKind) *Builder {
	offset := b.Len()
	b.prog = append(b.prog, Mov64Imm(dst, 0))
	b.relos = append(b.relos, Relocation{
		InsnOffset:   offset,
		RootTypeID:   rootTypeID,
		AccessString: access,
		Kind:         kind,
	})
	return b
}

// CoreFieldOffset emits a placeholder for a struct/union field's byte offset.
func (b *Builder) CoreFieldOffset(dst constants.Register, rootTypeID uint32, access string) *Builder {
	return b.core(dst, rootTypeID, access, RelFieldByteOffset)
}

// CoreFieldSize emits a placeholder for a field's byte size.
func (b *Builder) CoreFieldSize(dst constants.Register, rootTypeID uint32, access string) *Builder {
	return b.core(dst, rootTypeID, access, RelFieldByteSize)
}

// CoreFieldExists emits a placeholder resolving to 1 if the field exists, else 0.
func (b *Builder) CoreFieldExists(dst constants.Register, rootTypeID uint32, access string) *Builder {
	return b.core(dst, rootTypeID, access, RelFieldExists)
}

// CoreFieldSigned emits a placeholder resolving to 1 if the field's integer encoding is signed.
func (b *Builder) CoreFieldSigned(dst constants.Register, rootTypeID uint32, access string) *Builder {
	return b.core(dst, rootTypeID, access, RelFieldSigned)
}

// CoreFieldLShiftU64 emits a placeholder for a bitfield's left-shift amount.
func (b *Builder) CoreFieldLShiftU64(dst constants.Register, rootTypeID uint32, access string) *Builder {
	return b.core(dst, rootTypeID, access, RelFieldLShiftU64)
}

// CoreFieldRShiftU64 emits a placeholder for a bitfield's right-shift amount.
func (b *Builder) CoreFieldRShiftU64(dst constants.Register, rootTypeID uint32, access string) *Builder {
	return b.core(dst, rootTypeID, access, RelFieldRShiftU64)
}

// CoreTypeSize emits a placeholder for a type's overall byte size.
func (b *Builder) CoreTypeSize(dst constants.Register, rootTypeID uint32) *Builder {
	return b.core(dst, rootTypeID, "", RelTypeSize)
}

// CoreTypeExists emits a placeholder resolving to 1 if the type exists in target BTF.
func (b *Builder) CoreTypeExists(dst constants.Register, rootTypeID uint32) *Builder {
	return b.core(dst, rootTypeID, "", RelTypeExists)
}

// CoreEnumValue emits a placeholder for a named enumerator's value.
func (b *Builder) CoreEnumValue(dst constants.Register, rootTypeID uint32, valueName string) *Builder {
	return b.core(dst, rootTypeID, valueName, RelEnumvalValue)
}

// CoreEnumExists emits a placeholder resolving to 1 if the named enumerator exists.
func (b *Builder) CoreEnumExists(dst constants.Register, rootTypeID uint32, valueName string) *Builder {
	return b.core(dst, rootTypeID, valueName, RelEnumvalExists)
}
