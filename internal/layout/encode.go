package layout

import "strings"

// encodePath mangles a dotted program path into a valid C identifier,
// the substitution generator.py's encoders apply before splicing a
// path into a variable or function name: "A.B.__init__" becomes
// "A_B___init__".
func encodePath(path string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(path)
}

// encodeSymbol names a "__<prefix>_<path>" constant or type, the family
// progtypes.h's per-class struct typedef belongs to (§6: "__obj_<c>").
func encodeSymbol(prefix string, parts ...string) string {
	var b strings.Builder
	b.WriteString("__")
	b.WriteString(prefix)
	for _, p := range parts {
		b.WriteByte('_')
		b.WriteString(encodePath(p))
	}
	return b.String()
}

// encodeCodeConstant names the "code:<attrname>" enumerator for attr.
func encodeCodeConstant(attr string) string { return encodeSymbol("code", attr) }

// encodePosConstant names the "pos:<attrname>" enumerator for attr.
func encodePosConstant(attr string) string { return encodeSymbol("pos", attr) }

// encodeTableName names the per-object attribute table, e.g.
// encodeTableName("Class", "A") -> "__ClassTable_A".
func encodeTableName(kind, path string) string {
	return "__" + kind + "Table_" + encodePath(path)
}

// encodeParamTableName names a parameter table. tablePath is the class
// path for an instantiator's table (the class shares its initialiser's
// parameter table under its own name) or the function's own path
// otherwise.
func encodeParamTableName(tablePath string) string {
	return encodeTableName("Function", tablePath)
}

// encodeObjVar names the global object variable for a class or module,
// the plain mangled path with no symbol prefix (§6's "extern __obj
// <encoded_path>").
func encodeObjVar(path string) string { return encodePath(path) }

// encodeStructType names the per-class instance struct typedef, e.g.
// encodeStructType("A") -> "__obj_A".
func encodeStructType(class string) string { return encodeSymbol("obj", class) }

// encodeInstantiator names a class's allocator function.
func encodeInstantiator(class string) string { return "__new_" + encodePath(class) }

// encodeBoundName names the bound-method record mangled under the
// canonical unbound path, per §4.J's "bound-<path>" convention.
func encodeBoundName(path string) string { return "bound-" + path }

// encodeFunctionPointer names the C function emitted for a function
// path; it is just the mangled path itself.
func encodeFunctionPointer(path string) string { return encodePath(path) }

// encodeSize names a "__<prefix>size[_<path>]" enumerator or, with no
// path, the enum tag itself (e.g. "__csize", "__csize_A").
func encodeSize(prefix string, path string) string {
	if path == "" {
		return "__" + prefix + "size"
	}
	return "__" + prefix + "size_" + encodePath(path)
}
