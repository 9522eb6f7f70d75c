// Package importer defines the read-only fact base the deducer and the
// layout generator consume. The Importer itself is an external
// collaborator (the source-language parser/inspector and the
// name-resolution pass that populate it are out of scope); this package
// only specifies the shape it exposes and provides an in-memory
// implementation, FactBase, used by tests and golden fixtures.
package importer

import (
	"github.com/lichen-lang/lichen/internal/loc"
	"github.com/lichen-lang/lichen/internal/reference"
)

// AccessKey identifies a single (name, attrnames, access_number) access
// point within a scope.
type AccessKey struct {
	Name      string
	Attrnames loc.AttrPath
	Number    int
}

// UsageBranch is one observed tuple of attribute names on a given
// branch; the empty branch means "no attributes observed here".
type UsageBranch []string

// AliasTarget is the right-hand side of an aliased-name entry: the
// original name, the attrnames chased off it (empty for a plain
// name-to-name alias), and the access number identifying the specific
// access site that produced the value.
type AliasTarget struct {
	OrigName  string
	Attrnames loc.AttrPath
	Number    int
}

// ConstAccess is a constant/identified-object access: an attribute
// chain rooted at a statically known object.
type ConstAccess struct {
	ObjPath   string
	Ref       reference.Reference
	Attrnames loc.AttrPath
}

// Default pairs a parameter name with its default value reference.
type Default struct {
	Name    string
	Default reference.Reference
}

// Module is the per-unit fact surface: the usage and accessor streams
// recorded for names defined or accessed within it.
type Module interface {
	Name() string
	Scopes() []string
	AttrUsage(scope string) map[string][]UsageBranch
	AttrAccessors(scope string) map[AccessKey][]int
}

// Importer is the whole-program fact base the deducer and generator
// read from. It is logically read-only; SetObject is the one
// sanctioned mutation, used by the mutation pass to demote a
// class-level attribute value to <var> once shown to be mutated on
// instances.
type Importer interface {
	Modules() map[string]Module
	Module(name string) (Module, bool)

	// ClassNames enumerates every class known to the whole program,
	// the universe the attribute-type index and descendant closure
	// are built over.
	ClassNames() []string

	AllAttrAccesses(scope string) []loc.AttrPath
	AllAttrAccessModifiers(scope string) map[AccessKey][]bool
	AliasedNameKeys() []string
	AllAliasedNames(qualifiedName string) map[int]AliasTarget
	AllConstAccesses(scope string) map[AccessKey]ConstAccess
	AllInitialisedNames(path string) map[int]reference.Reference

	Classes(class string) []reference.Reference
	Subclasses(class string) []string
	AllClassAttrs(class string) map[string]string
	AllCombinedAttrs(class string) map[string]struct{}
	AllModuleAttrs(module string) map[string]struct{}
	AllInstanceAttrConstants(class string) map[string]reference.Reference

	FunctionParameters(path string) []string
	FunctionDefaults(path string) []Default

	GetObject(path string) (reference.Reference, bool)
	SetObject(path string, ref reference.Reference)
	Hidden(path string) (Module, bool)
	Identify(path string) (reference.Reference, bool)

	// AddClassAttr injects a synthetic attribute into a class's
	// attribute map, pointing at definingPath. The descendant-closure
	// pass uses this to install the reserved "#<ClassName>" identity
	// markers; nothing else in the pipeline calls it.
	AddClassAttr(class, attr, definingPath string)

	GetClassAttribute(class, attr string) (reference.Reference, bool)
	GetInstanceAttributes(class, attr string) []reference.Reference
	GetModuleAttribute(module, attr string) (reference.Reference, bool)

	// AllFunctionPaths enumerates every object path whose recorded
	// reference has kind <function>, mirroring generator.py's scan of
	// importer.objects.values() for has_kind("<function>") when
	// generating function instance records.
	AllFunctionPaths() []string
}
