package importer

import (
	"sort"

	"github.com/lichen-lang/lichen/internal/loc"
	"github.com/lichen-lang/lichen/internal/reference"
)

// InMemoryModule is a Module backed by plain maps, built incrementally
// by a test or a golden fixture loader.
type InMemoryModule struct {
	name      string
	attrUsage map[string]map[string][]UsageBranch
	accessors map[string]map[AccessKey][]int
	scopes    map[string]struct{}
}

// NewModule creates an empty InMemoryModule for the given unit path.
func NewModule(name string) *InMemoryModule {
	return &InMemoryModule{
		name:      name,
		attrUsage: map[string]map[string][]UsageBranch{},
		accessors: map[string]map[AccessKey][]int{},
		scopes:    map[string]struct{}{},
	}
}

func (m *InMemoryModule) Name() string { return m.name }

// Scopes lists every scope name with usage or accessor data recorded
// in this module.
func (m *InMemoryModule) Scopes() []string {
	out := make([]string, 0, len(m.scopes))
	for s := range m.scopes {
		out = append(out, s)
	}
	return out
}

// AddUsage records one observed usage branch for name within scope.
func (m *InMemoryModule) AddUsage(scope, name string, branch UsageBranch) {
	m.scopes[scope] = struct{}{}
	byName, ok := m.attrUsage[scope]
	if !ok {
		byName = map[string][]UsageBranch{}
		m.attrUsage[scope] = byName
	}
	byName[name] = append(byName[name], branch)
}

// AddAccessor records that the given versions of (name) reach the
// access identified by (scope, key).
func (m *InMemoryModule) AddAccessor(scope string, key AccessKey, versions []int) {
	m.scopes[scope] = struct{}{}
	byKey, ok := m.accessors[scope]
	if !ok {
		byKey = map[AccessKey][]int{}
		m.accessors[scope] = byKey
	}
	byKey[key] = append(byKey[key], versions...)
}

func (m *InMemoryModule) AttrUsage(scope string) map[string][]UsageBranch {
	return m.attrUsage[scope]
}

func (m *InMemoryModule) AttrAccessors(scope string) map[AccessKey][]int {
	return m.accessors[scope]
}

// FactBase is an in-memory Importer used by tests and golden fixtures.
// Every field is exported so fixture-building code can populate it
// directly; the accessor methods satisfy the Importer interface.
type FactBase struct {
	ModulesByName map[string]Module
	AllClasses    []string

	AttrAccesses       map[string][]loc.AttrPath
	AttrAccessMods     map[string]map[AccessKey][]bool
	AliasedNames       map[string]map[int]AliasTarget
	ConstAccesses      map[string]map[AccessKey]ConstAccess
	InitialisedNames   map[string]map[int]reference.Reference
	ClassBases         map[string][]reference.Reference
	SubclassesOf       map[string][]string
	ClassAttrs         map[string]map[string]string
	CombinedAttrs      map[string]map[string]struct{}
	ModuleAttrs        map[string]map[string]struct{}
	InstanceAttrConsts map[string]map[string]reference.Reference
	Parameters         map[string][]string
	Defaults           map[string][]Default
	Objects            map[string]reference.Reference
	HiddenModules      map[string]Module
	Identified         map[string]reference.Reference
}

// NewFactBase returns an empty, ready-to-populate FactBase.
func NewFactBase() *FactBase {
	return &FactBase{
		ModulesByName:      map[string]Module{},
		AttrAccesses:       map[string][]loc.AttrPath{},
		AttrAccessMods:     map[string]map[AccessKey][]bool{},
		AliasedNames:       map[string]map[int]AliasTarget{},
		ConstAccesses:      map[string]map[AccessKey]ConstAccess{},
		InitialisedNames:   map[string]map[int]reference.Reference{},
		ClassBases:         map[string][]reference.Reference{},
		SubclassesOf:       map[string][]string{},
		ClassAttrs:         map[string]map[string]string{},
		CombinedAttrs:      map[string]map[string]struct{}{},
		ModuleAttrs:        map[string]map[string]struct{}{},
		InstanceAttrConsts: map[string]map[string]reference.Reference{},
		Parameters:         map[string][]string{},
		Defaults:           map[string][]Default{},
		Objects:            map[string]reference.Reference{},
		HiddenModules:      map[string]Module{},
		Identified:         map[string]reference.Reference{},
	}
}

func (f *FactBase) Modules() map[string]Module { return f.ModulesByName }

func (f *FactBase) Module(name string) (Module, bool) {
	m, ok := f.ModulesByName[name]
	return m, ok
}

func (f *FactBase) ClassNames() []string { return f.AllClasses }

func (f *FactBase) AllAttrAccesses(scope string) []loc.AttrPath {
	return f.AttrAccesses[scope]
}

func (f *FactBase) AllAttrAccessModifiers(scope string) map[AccessKey][]bool {
	return f.AttrAccessMods[scope]
}

func (f *FactBase) AliasedNameKeys() []string {
	out := make([]string, 0, len(f.AliasedNames))
	for k := range f.AliasedNames {
		out = append(out, k)
	}
	return out
}

func (f *FactBase) AllAliasedNames(qualifiedName string) map[int]AliasTarget {
	return f.AliasedNames[qualifiedName]
}

func (f *FactBase) AllConstAccesses(scope string) map[AccessKey]ConstAccess {
	return f.ConstAccesses[scope]
}

func (f *FactBase) AllInitialisedNames(path string) map[int]reference.Reference {
	return f.InitialisedNames[path]
}

func (f *FactBase) Classes(class string) []reference.Reference {
	return f.ClassBases[class]
}

func (f *FactBase) Subclasses(class string) []string {
	return f.SubclassesOf[class]
}

func (f *FactBase) AllClassAttrs(class string) map[string]string {
	return f.ClassAttrs[class]
}

func (f *FactBase) AllCombinedAttrs(class string) map[string]struct{} {
	return f.CombinedAttrs[class]
}

func (f *FactBase) AllModuleAttrs(module string) map[string]struct{} {
	return f.ModuleAttrs[module]
}

func (f *FactBase) AllInstanceAttrConstants(class string) map[string]reference.Reference {
	return f.InstanceAttrConsts[class]
}

func (f *FactBase) FunctionParameters(path string) []string {
	return f.Parameters[path]
}

func (f *FactBase) FunctionDefaults(path string) []Default {
	return f.Defaults[path]
}

func (f *FactBase) GetObject(path string) (reference.Reference, bool) {
	r, ok := f.Objects[path]
	return r, ok
}

// SetObject is the one sanctioned mutation on the fact base: the
// mutation pass uses it to demote a class attribute's value to <var>.
func (f *FactBase) SetObject(path string, ref reference.Reference) {
	f.Objects[path] = ref
}

func (f *FactBase) AddClassAttr(class, attr, definingPath string) {
	attrs, ok := f.ClassAttrs[class]
	if !ok {
		attrs = map[string]string{}
		f.ClassAttrs[class] = attrs
	}
	attrs[attr] = definingPath
}

func (f *FactBase) Hidden(path string) (Module, bool) {
	m, ok := f.HiddenModules[path]
	return m, ok
}

func (f *FactBase) Identify(path string) (reference.Reference, bool) {
	r, ok := f.Identified[path]
	return r, ok
}

// GetClassAttribute resolves a class attribute to its value reference
// by following all_class_attrs[class][attr] to its defining path and
// looking that path up in objects.
func (f *FactBase) GetClassAttribute(class, attr string) (reference.Reference, bool) {
	attrs := f.ClassAttrs[class]
	if attrs == nil {
		return reference.Reference{}, false
	}
	path, ok := attrs[attr]
	if !ok {
		return reference.Reference{}, false
	}
	return f.GetObject(path)
}

// GetInstanceAttributes resolves the instance-level attribute values
// for attr on class: a known constant if recorded, otherwise a single
// generic <var> reference standing for "some instance value, unknown".
func (f *FactBase) GetInstanceAttributes(class, attr string) []reference.Reference {
	combined := f.CombinedAttrs[class]
	if combined == nil {
		return nil
	}
	if _, ok := combined[attr]; !ok {
		return nil
	}
	if consts, ok := f.InstanceAttrConsts[class]; ok {
		if r, ok := consts[attr]; ok {
			return []reference.Reference{r}
		}
	}
	return []reference.Reference{reference.MustNew(reference.Var, "", attr)}
}

// GetModuleAttribute resolves a module-level attribute to its value
// reference, falling back to the hidden module table per
// generator.py's get_static_attributes two-step lookup.
func (f *FactBase) GetModuleAttribute(module, attr string) (reference.Reference, bool) {
	if attrs := f.ModuleAttrs[module]; attrs != nil {
		if _, ok := attrs[attr]; ok {
			if r, ok := f.GetObject(module + "." + attr); ok {
				return r, true
			}
		}
	}
	if hidden, ok := f.HiddenModules[module]; ok {
		if hm, ok := hidden.(*InMemoryModule); ok {
			if r, ok := f.Objects[hm.Name()+"."+attr]; ok {
				return r, true
			}
		}
	}
	return reference.Reference{}, false
}

// AllFunctionPaths returns every object path recorded with kind
// <function>, sorted.
func (f *FactBase) AllFunctionPaths() []string {
	var paths []string
	for path, ref := range f.Objects {
		if ref.Kind() == reference.Function {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}
