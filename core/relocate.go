// Package core resolves CO-RE (Compile Once - Run Everywhere) relocations
// recorded by the asm package against a target kernel's BTF and patches
// the corresponding instruction immediates in place.
package core

import (
	"strconv"
	"strings"

	"github.com/kornnellio/ebpfcore/asm"
	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/btf"
	"github.com/kornnellio/ebpfcore/constants"
)

// Relocate resolves every relocation in relos against target and
// overwrites the matching instruction's Imm field in prog. Instructions
// that cannot be resolved are patched with the poison value so the
// verifier rejects their use, rather than failing the whole load.
func Relocate(prog asm.Program, relos []asm.Relocation, target *btf.Spec) []error {
	var errs []error
	for _, r := range relos {
		val, err := resolve(r, target)
		if err != nil {
			errs = append(errs, err)
			val = constants.CorePoisonValue
		}
		if r.InsnOffset < 0 || r.InsnOffset >= len(prog) {
			continue
		}
		prog[r.InsnOffset].Imm = int32(val)
	}
	return errs
}

func resolve(r asm.Relocation, target *btf.Spec) (uint32, error) {
	switch r.Kind {
	case asm.RelFieldByteOffset:
		off, _, err := walkField(r.RootTypeID, r.AccessString, target)
		return off, err
	case asm.RelFieldByteSize:
		_, m, err := walkField(r.RootTypeID, r.AccessString, target)
		if err != nil {
			return 0, err
		}
		mt, err := target.ResolveQualifiers(m.TypeID)
		if err != nil {
			return 0, err
		}
		sz, err := target.SizeOf(mt.ID)
		return sz, err
	case asm.RelFieldExists:
		_, _, err := walkField(r.RootTypeID, r.AccessString, target)
		if err != nil {
			return 0, nil
		}
		return 1, nil
	case asm.RelFieldSigned:
		_, m, err := walkField(r.RootTypeID, r.AccessString, target)
		if err != nil {
			return 0, err
		}
		mt, err := target.ResolveQualifiers(m.TypeID)
		if err != nil {
			return 0, err
		}
		if mt.IntSigned {
			return 1, nil
		}
		return 0, nil
	case asm.RelFieldLShiftU64:
		_, m, err := walkField(r.RootTypeID, r.AccessString, target)
		if err != nil {
			return 0, err
		}
		return lshift(m), nil
	case asm.RelFieldRShiftU64:
		_, m, err := walkField(r.RootTypeID, r.AccessString, target)
		if err != nil {
			return 0, err
		}
		return rshift(m), nil
	case asm.RelTypeSize:
		return target.SizeOf(r.RootTypeID)
	case asm.RelTypeExists:
		if _, ok := target.TypeByID(r.RootTypeID); ok {
			return 1, nil
		}
		return 0, nil
	case asm.RelEnumvalExists:
		values, err := target.EnumValues(r.RootTypeID)
		if err != nil {
			return 0, nil
		}
		for _, v := range values {
			if v.Name == r.AccessString {
				return 1, nil
			}
		}
		return 0, nil
	case asm.RelEnumvalValue:
		values, err := target.EnumValues(r.RootTypeID)
		if err != nil {
			return 0, err
		}
		for _, v := range values {
			if v.Name == r.AccessString {
				return uint32(v.Value), nil
			}
		}
		return 0, notFound(r.AccessString)
	default:
		return 0, notFound(r.AccessString)
	}
}

// walkField walks a dotted member-index access string (e.g. "0:1")
// starting at rootTypeID, accumulating the byte offset across nested
// struct/union members, and returns the final member reached.
func walkField(rootTypeID uint32, access string, target *btf.Spec) (uint32, btf.Member, error) {
	parts := strings.Split(access, ":")
	if len(parts) == 0 {
		return 0, btf.Member{}, notFound(access)
	}

	cur, err := target.ResolveQualifiers(rootTypeID)
	if err != nil {
		return 0, btf.Member{}, err
	}

	var byteOff uint32
	var lastMember btf.Member
	for i, p := range parts {
		idx, err := strconv.Atoi(p)
		if err != nil {
			return 0, btf.Member{}, notFound(access)
		}
		switch cur.Kind {
		case btf.KindArray:
			elemSize, err := target.SizeOf(cur.Elem)
			if err != nil {
				return 0, btf.Member{}, err
			}
			byteOff += uint32(idx) * elemSize
			cur, err = target.ResolveQualifiers(cur.Elem)
			if err != nil {
				return 0, btf.Member{}, err
			}
		case btf.KindStruct, btf.KindUnion:
			if idx < 0 || idx >= len(cur.Members) {
				return 0, btf.Member{}, notFound(access)
			}
			m := cur.Members[idx]
			byteOff += m.BitOffset / 8
			lastMember = m
			if i < len(parts)-1 || m.BitSize == 0 {
				cur, err = target.ResolveQualifiers(m.TypeID)
				if err != nil {
					return 0, btf.Member{}, err
				}
			}
		default:
			return 0, btf.Member{}, notFound(access)
		}
	}
	return byteOff, lastMember, nil
}

// lshift computes the left-shift amount needed to isolate a bitfield once
// it has been loaded into a 64-bit register at its containing byte offset,
// matching the established CO-RE bitfield-extraction convention.
func lshift(m btf.Member) uint32 {
	bitOffset := m.BitOffset % 8
	return 64 - bitOffset - m.BitSize
}

// rshift computes the matching right-shift amount.
func rshift(m btf.Member) uint32 {
	return 64 - m.BitSize
}

func notFound(what string) error {
	return bpferrs.WrapWithDetail(nil, bpferrs.ErrNotFound, "core.Relocate", "relocation target not found: "+what)
}
