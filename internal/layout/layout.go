package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lichen-lang/lichen/internal/config"
	"github.com/lichen-lang/lichen/internal/importer"
	"github.com/lichen-lang/lichen/internal/reference"
)

// Generate runs the optimiser over imp and renders the five C source
// artifacts §6 names.
func Generate(imp importer.Importer) Artifacts {
	o := Build(imp)
	recs := BuildRecords(imp, o)

	sizeEnums := buildSizeEnums(o)
	codeEnums := buildCodeEnums(o)

	var decls, defs, sigs, inst strings.Builder
	writtenTables := map[string]struct{}{}

	for _, class := range o.Classes {
		writeClass(imp, o, class, &decls, &defs, &sigs, &inst, writtenTables)
	}
	for _, module := range o.Modules {
		writeModule(imp, o, module, &decls, &defs)
	}
	writeFunctionRecords(o, recs, &decls, &defs, &sigs, writtenTables)

	return Artifacts{
		ProgConstsHeader: render(progConstsTemplate, struct{ SizeEnums, CodeEnums string }{sizeEnums, codeEnums}),
		ProgTypesHeader: render(progTypesHeaderTemplate, struct {
			Declarations, FunctionTypeVar, FunctionInstanceSize string
		}{decls.String(), encodeObjVar(config.FunctionType), encodeSize("i", config.FunctionType)}),
		ProgTypesSource: render(progTypesSourceTemplate, struct{ Definitions string }{defs.String()}),
		MainHeader:      render(mainHeaderTemplate, struct{ Signatures string }{sigs.String()}),
		MainSource:      render(mainSourceTemplate, struct{ Instantiators string }{inst.String()}),
	}
}

func enumBlock(tag string, entries []string) string {
	if len(entries) == 0 {
		return fmt.Sprintf("enum %s {\n    };\n", tag)
	}
	return fmt.Sprintf("enum %s {\n    %s\n    };\n", tag, strings.Join(entries, ",\n    "))
}

func buildSizeEnums(o *Optimiser) string {
	var csize, msize, isize []string
	for _, class := range o.Classes {
		csize = append(csize, fmt.Sprintf("%s = %d", encodeSize("c", class), len(o.ClassStructures[class])))
		isize = append(isize, fmt.Sprintf("%s = %d", encodeSize("i", class), len(o.InstanceStructures[class])))
	}
	for _, module := range o.Modules {
		msize = append(msize, fmt.Sprintf("%s = %d", encodeSize("m", module), len(o.ModuleStructures[module])))
	}

	argMin := map[string]int{}
	argMax := map[string]int{}
	for path, v := range o.ArgMin {
		argMin[path] = v
	}
	for path, v := range o.ArgMax {
		argMax[path] = v
	}
	for class, v := range o.InstantiatorArgMin {
		argMin[class] = v
	}
	for class, v := range o.InstantiatorArgMax {
		argMax[class] = v
	}

	var pmin, pmax []string
	for _, path := range sortedKeys(argMin) {
		pmin = append(pmin, fmt.Sprintf("%s = %d", encodeSize("pmin", path), argMin[path]))
	}
	for _, path := range sortedKeys(argMax) {
		pmax = append(pmax, fmt.Sprintf("%s = %d", encodeSize("pmax", path), argMax[path]))
	}

	return enumBlock(encodeSize("c", ""), csize) +
		enumBlock(encodeSize("m", ""), msize) +
		enumBlock(encodeSize("i", ""), isize) +
		enumBlock(encodeSize("pmin", ""), pmin) +
		enumBlock(encodeSize("pmax", ""), pmax)
}

func buildCodeEnums(o *Optimiser) string {
	var codes, poss []string
	for _, attr := range o.AllAttrNames {
		idx := o.CodeOf[attr]
		codes = append(codes, fmt.Sprintf("%s = %d", encodeCodeConstant(attr), idx))
		poss = append(poss, fmt.Sprintf("%s = %d", encodePosConstant(attr), idx))
	}
	return enumBlock("__code", codes) + enumBlock("__pos", poss)
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// writeClass emits a class's object literal, table, struct typedef,
// instance table, parameter table, and instantiator. Its initialiser's
// parameter table is named after the class itself rather than the
// "<class>.__init__" path, so that the function record generated for
// the initialiser later in the pass (see writeFunctionRecords) shares
// the very same table instead of emitting a redundant duplicate.
func writeClass(imp importer.Importer, o *Optimiser, class string, decls, defs, sigs, inst *strings.Builder, written map[string]struct{}) {
	structure := o.ClassStructures[class]
	tableName := encodeTableName("Class", class)

	members := make([]string, len(structure))
	codes := make([]string, len(structure))
	for i, attr := range structure {
		codes[i] = encodeCodeConstant(attr)
		switch attr {
		case config.FnSlot:
			members[i] = fmt.Sprintf("{0, .fn=%s}", encodeInstantiator(class))
		case config.ArgsSlot:
			members[i] = fmt.Sprintf("{.min=%d, .ptable=&%s}", o.InstantiatorArgMin[class], encodeParamTableName(class))
		default:
			members[i] = encodeClassMember(imp, class, attr)
		}
	}

	writeTable(decls, defs, tableName, encodeSize("c", class), codes)
	writeObj(decls, defs, class, tableName, members)

	fmt.Fprintf(decls, "typedef struct {\n    const __table * table;\n    unsigned int pos;\n    __attr attrs[%s];\n} %s;\n\n",
		encodeSize("i", class), encodeStructType(class))

	instanceCodes := make([]string, len(o.InstanceStructures[class]))
	for i, attr := range o.InstanceStructures[class] {
		instanceCodes[i] = encodeCodeConstant(attr)
	}
	writeTable(decls, defs, encodeTableName("Instance", class), encodeSize("i", class), instanceCodes)

	if _, hasInit := o.InstantiatorArgMin[class]; hasInit {
		initPath := class + ".__init__"
		paramTable := encodeParamTableName(class)
		writeParameterTable(decls, defs, paramTable, o.ArgMax[initPath], o.Parameters[initPath])
		written[paramTable] = struct{}{}
		writeInstantiator(inst, sigs, class, o.Parameters[initPath])
	}
}

func encodeClassMember(imp importer.Importer, class, attr string) string {
	ref, ok := imp.GetClassAttribute(class, attr)
	if !ok {
		return "{0, 0}"
	}
	return encodeMember(ref, class, true)
}

func writeModule(imp importer.Importer, o *Optimiser, module string, decls, defs *strings.Builder) {
	structure := o.ModuleStructures[module]
	tableName := encodeTableName("Module", module)

	members := make([]string, len(structure))
	codes := make([]string, len(structure))
	for i, attr := range structure {
		codes[i] = encodeCodeConstant(attr)
		ref, ok := imp.GetModuleAttribute(module, attr)
		if !ok {
			members[i] = "{0, 0}"
			continue
		}
		members[i] = encodeMember(ref, module, false)
	}

	writeTable(decls, defs, tableName, encodeSize("m", module), codes)
	writeObj(decls, defs, module, tableName, members)
}

// encodeMember resolves a single attribute's {context, target} pair.
// A function attribute resolved on its own class carries the class as
// context (an unbound-method-style reference); everything else either
// points directly at the target object or, for an unresolved variable
// value, carries no reference at all.
func encodeMember(ref reference.Reference, owner string, isClassMember bool) string {
	switch ref.Kind() {
	case reference.Var:
		return "{0, 0}"
	case reference.Function:
		if isClassMember {
			return fmt.Sprintf("{&%s, &%s}", encodeObjVar(owner), encodeObjVar(ref.Origin()))
		}
		return fmt.Sprintf("{0, &%s}", encodeObjVar(ref.Origin()))
	case reference.Instance:
		return fmt.Sprintf("{&%s, &%s}", encodeObjVar(ref.Origin()), encodeObjVar(ref.Origin()))
	default:
		return fmt.Sprintf("{0, &%s}", encodeObjVar(ref.Origin()))
	}
}

func writeTable(decls, defs *strings.Builder, tableName, size string, codes []string) {
	fmt.Fprintf(decls, "extern const __table %s;\n\n", tableName)
	fmt.Fprintf(defs, "const __table %s = {\n    %s,\n    {\n        %s\n        }\n    };\n\n",
		tableName, size, strings.Join(codes, ",\n        "))
}

func writeParameterTable(decls, defs *strings.Builder, tableName string, size int, params []Param) {
	entries := make([]string, len(params))
	for i, p := range params {
		entries[i] = fmt.Sprintf("{%s, %d}", encodeSymbol("pcode", p.Name), p.Pos)
	}
	fmt.Fprintf(decls, "extern const __ptable %s;\n\n", tableName)
	fmt.Fprintf(defs, "const __ptable %s = {\n    %d,\n    {\n        %s\n        }\n    };\n\n",
		tableName, size, strings.Join(entries, ",\n        "))
}

func writeObj(decls, defs *strings.Builder, path, tableName string, members []string) {
	varName := encodeObjVar(path)
	fmt.Fprintf(decls, "extern __obj %s;\n\n", varName)
	fmt.Fprintf(defs, "__obj %s = {\n    &%s,\n    0,\n    {\n        %s\n    }};\n\n",
		varName, tableName, strings.Join(members, ",\n        "))
}

// writeInstantiator emits a class's __new_<class> allocator, shifting
// the caller's argument vector one slot to the right to reserve room
// for the freshly allocated instance, per §4.J item 5.
func writeInstantiator(inst, sigs *strings.Builder, class string, params []Param) {
	name := encodeInstantiator(class)
	fmt.Fprintf(sigs, "__attr %s(__attr[]);\n", name)

	n := len(params)
	copyLine := ""
	if n-1 > 0 {
		copyLine = fmt.Sprintf("memcpy(&__tmp_args[1], args, %d * sizeof(__attr));\n    ", n-1)
	}

	fmt.Fprintf(inst, `__attr %s(__attr args[])
{
    __attr __tmp_args[%d];
    __tmp_args[0] = __new(&%s, &%s, sizeof(%s));
    %s%s(__tmp_args);
    return __tmp_args[0];
}

`, name, n, encodeTableName("Instance", class), encodeObjVar(class), encodeStructType(class),
		copyLine, encodeFunctionPointer(class+".__init__"))
}

// writeFunctionRecords emits every function/method instance record the
// records pass derived, along with its forward declaration and
// parameter table. written tracks table names already emitted by the
// class pass so an initialiser's shared table isn't duplicated.
func writeFunctionRecords(o *Optimiser, recs Records, decls, defs, sigs *strings.Builder, written map[string]struct{}) {
	cls := config.FunctionType
	tableName := encodeTableName("Instance", cls)
	structure := o.InstanceStructures[cls]

	byPath := map[string]functionRecord{}

	for _, r := range recs.Functions {
		members := make([]string, len(structure))
		for i, attr := range structure {
			switch attr {
			case config.FnSlot:
				if r.BoundSide != "" {
					members[i] = fmt.Sprintf("{.b=%s, .fn=%s}", encodeFunctionPointer(r.BoundSide), r.FnPointer)
				} else {
					members[i] = fmt.Sprintf("{0, .fn=%s}", r.FnPointer)
				}
			case config.ArgsSlot:
				members[i] = fmt.Sprintf("{.min=%d, .ptable=&%s}", r.ArgMin, r.ParamTable)
			default:
				members[i] = "{0, 0}"
			}
		}
		writeObj(decls, defs, r.Name, tableName, members)

		if !strings.HasPrefix(r.Name, config.BoundMethodPrefix) {
			byPath[r.Name] = r
		}
	}

	for _, path := range uniqueFunctionPaths(recs) {
		fmt.Fprintf(sigs, "__attr %s(__attr args[]);\n", encodeFunctionPointer(path))
		r := byPath[path]
		if _, done := written[r.ParamTable]; done {
			continue
		}
		written[r.ParamTable] = struct{}{}
		writeParameterTable(decls, defs, r.ParamTable, o.ArgMax[path], o.Parameters[path])
	}
}

// uniqueFunctionPaths extracts the sorted set of canonical (non-bound)
// function paths BuildRecords derived its records from.
func uniqueFunctionPaths(recs Records) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range recs.Functions {
		if strings.HasPrefix(r.Name, config.BoundMethodPrefix) {
			continue
		}
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		out = append(out, r.Name)
	}
	sort.Strings(out)
	return out
}
