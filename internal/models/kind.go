package models

import "strings"

// ReflectionKind is a bitmask describing what a reflection documents.
type ReflectionKind int

const (
	KindGlobal               ReflectionKind = 0
	KindExternalModule       ReflectionKind = 1
	KindModule               ReflectionKind = 2
	KindEnum                 ReflectionKind = 4
	KindEnumMember           ReflectionKind = 16
	KindVariable             ReflectionKind = 32
	KindFunction             ReflectionKind = 64
	KindClass                ReflectionKind = 128
	KindInterface            ReflectionKind = 256
	KindConstructor          ReflectionKind = 512
	KindProperty             ReflectionKind = 1024
	KindMethod               ReflectionKind = 2048
	KindCallSignature        ReflectionKind = 4096
	KindIndexSignature       ReflectionKind = 8192
	KindConstructorSignature ReflectionKind = 16384
	KindParameter            ReflectionKind = 32768
	KindTypeLiteral          ReflectionKind = 65536
	KindTypeParameter        ReflectionKind = 131072
	KindAccessor             ReflectionKind = 262144
	KindGetSignature         ReflectionKind = 524288
	KindSetSignature         ReflectionKind = 1048576
	KindObjectLiteral        ReflectionKind = 2097152
	KindTypeAlias            ReflectionKind = 4194304
	KindEvent                ReflectionKind = 8388608
)

// Kind groups.
const (
	KindClassOrInterface   = KindClass | KindInterface
	KindVariableOrProperty = KindVariable | KindProperty
	KindFunctionOrMethod   = KindFunction | KindMethod
	KindSomeSignature      = KindCallSignature | KindIndexSignature | KindConstructorSignature | KindGetSignature | KindSetSignature
	KindSomeModule         = KindModule | KindExternalModule
)

var kindNames = map[ReflectionKind]string{
	KindGlobal:               "Global",
	KindExternalModule:       "External module",
	KindModule:               "Module",
	KindEnum:                 "Enumeration",
	KindEnumMember:           "Enumeration member",
	KindVariable:             "Variable",
	KindFunction:             "Function",
	KindClass:                "Class",
	KindInterface:            "Interface",
	KindConstructor:          "Constructor",
	KindProperty:             "Property",
	KindMethod:               "Method",
	KindCallSignature:        "Call signature",
	KindIndexSignature:       "Index signature",
	KindConstructorSignature: "Constructor signature",
	KindParameter:            "Parameter",
	KindTypeLiteral:          "Type literal",
	KindTypeParameter:        "Type parameter",
	KindAccessor:             "Accessor",
	KindGetSignature:         "Get signature",
	KindSetSignature:         "Set signature",
	KindObjectLiteral:        "Object literal",
	KindTypeAlias:            "Type alias",
	KindEvent:                "Event",
}

// String returns the human readable kind, e.g. "Type alias".
func (k ReflectionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Is reports whether k shares a bit with mask. KindGlobal only matches itself.
func (k ReflectionKind) Is(mask ReflectionKind) bool {
	if mask == KindGlobal {
		return k == KindGlobal
	}
	return k&mask != 0
}

// Plural is used for group titles.
func (k ReflectionKind) Plural() string {
	switch k {
	case KindClass:
		return "Classes"
	case KindProperty:
		return "Properties"
	case KindEnum:
		return "Enumerations"
	case KindEnumMember:
		return "Enumeration members"
	case KindTypeAlias:
		return "Type aliases"
	case KindAccessor:
		return "Accessors"
	}
	name := k.String()
	if strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}

// ReflectionFlag marks visibility and modifiers.
type ReflectionFlag int

const (
	FlagNone    ReflectionFlag = 0
	FlagPrivate ReflectionFlag = 1 << (iota - 1)
	FlagProtected
	FlagPublic
	FlagStatic
	FlagExported
	FlagExportAssignment
	FlagExternal
	FlagOptional
	FlagDefaultValue
	FlagRest
	FlagConstructorProperty
)

var flagKeys = []struct {
	flag ReflectionFlag
	key  string
}{
	{FlagPrivate, "isPrivate"},
	{FlagProtected, "isProtected"},
	{FlagPublic, "isPublic"},
	{FlagStatic, "isStatic"},
	{FlagExported, "isExported"},
	{FlagExportAssignment, "hasExportAssignment"},
	{FlagExternal, "isExternal"},
	{FlagOptional, "isOptional"},
	{FlagDefaultValue, "hasDefaultValue"},
	{FlagRest, "isRest"},
	{FlagConstructorProperty, "isConstructorProperty"},
}

// ReflectionFlags is the set of flags on one reflection.
type ReflectionFlags ReflectionFlag

func (f ReflectionFlags) Has(flag ReflectionFlag) bool { return ReflectionFlag(f)&flag != 0 }

func (f ReflectionFlags) IsPrivate() bool { return f.Has(FlagPrivate) }
func (f ReflectionFlags) IsProtected() bool { return f.Has(FlagProtected) }
func (f ReflectionFlags) IsPublic() bool { return f.Has(FlagPublic) }
func (f ReflectionFlags) IsStatic() bool { return f.Has(FlagStatic) }
func (f ReflectionFlags) IsExported() bool { return f.Has(FlagExported) }
func (f ReflectionFlags) IsExternal() bool { return f.Has(FlagExternal) }
func (f ReflectionFlags) IsOptional() bool { return f.Has(FlagOptional) }

// ToObject lists only the flags that are set.
func (f ReflectionFlags) ToObject() map[string]any {
	out := map[string]any{}
	for _, fk := range flagKeys {
		if f.Has(fk.flag) {
			out[fk.key] = true
		}
	}
	return out
}
