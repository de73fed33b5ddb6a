package btf

import "github.com/kornnellio/ebpfcore/bpferrs"

const maxResolveDepth = 64

// FindByName returns the first type with the given name. BTF allows
// multiple types (e.g. a struct and a typedef) to share a name, so
// FindAllByName is available for callers that need every match.
func (s *Spec) FindByName(name string) (Type, error) {
	ids, ok := s.byName[name]
	if !ok || len(ids) == 0 {
		return Type{}, bpferrs.WrapWithDetail(nil, bpferrs.ErrNotFound, "btf.FindByName", name)
	}
	return s.types[ids[0]], nil
}

// FindAllByName returns every type sharing the given name.
func (s *Spec) FindAllByName(name string) []Type {
	ids := s.byName[name]
	out := make([]Type, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.types[id])
	}
	return out
}

// ResolveQualifiers follows typedef/const/volatile/restrict indirections
// until it reaches a non-qualifier type, guarding against cycles.
func (s *Spec) ResolveQualifiers(id uint32) (Type, error) {
	for depth := 0; depth < maxResolveDepth; depth++ {
		t, ok := s.TypeByID(id)
		if !ok {
			return Type{}, bpferrs.WrapWithDetail(nil, bpferrs.ErrNotFound, "btf.ResolveQualifiers", "type id out of range")
		}
		switch t.Kind {
		case KindTypedef, KindConst, KindVolatile, KindRestrict, KindTypeTag:
			id = t.TypeID
			continue
		default:
			return t, nil
		}
	}
	return Type{}, bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape, "btf.ResolveQualifiers", "qualifier chain too deep (possible cycle)")
}

// SizeOf returns a type's byte size, resolving pointers to the machine
// word size and arrays to elem_size*nelems.
func (s *Spec) SizeOf(id uint32) (uint32, error) {
	t, err := s.ResolveQualifiers(id)
	if err != nil {
		return 0, err
	}
	switch t.Kind {
	case KindPtr:
		return 8, nil
	case KindArray:
		elemSize, err := s.SizeOf(t.Elem)
		if err != nil {
			return 0, err
		}
		return elemSize * t.Nelems, nil
	case KindInt, KindFloat, KindStruct, KindUnion, KindEnum, KindEnum64:
		return t.Size, nil
	case KindVoid:
		return 0, nil
	default:
		return 0, bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape, "btf.SizeOf", "type has no well-defined size")
	}
}

// Members returns a struct or union's members (resolving qualifiers first).
func (s *Spec) Members(id uint32) ([]Member, error) {
	t, err := s.ResolveQualifiers(id)
	if err != nil {
		return nil, err
	}
	if t.Kind != KindStruct && t.Kind != KindUnion {
		return nil, bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape, "btf.Members", "type is not a struct or union")
	}
	return t.Members, nil
}

// EnumValues returns an enum or enum64's named values.
func (s *Spec) EnumValues(id uint32) ([]EnumValue, error) {
	t, err := s.ResolveQualifiers(id)
	if err != nil {
		return nil, err
	}
	if t.Kind != KindEnum && t.Kind != KindEnum64 {
		return nil, bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape, "btf.EnumValues", "type is not an enum")
	}
	return t.Enum, nil
}

// MemberByName returns the named member of a struct/union type.
func (s *Spec) MemberByName(id uint32, name string) (Member, error) {
	members, err := s.Members(id)
	if err != nil {
		return Member{}, err
	}
	for _, m := range members {
		if m.Name == name {
			return m, nil
		}
	}
	return Member{}, bpferrs.WrapWithDetail(nil, bpferrs.ErrNotFound, "btf.MemberByName", name)
}
