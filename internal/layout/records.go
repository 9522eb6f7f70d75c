package layout

import (
	"sort"
	"strings"

	"github.com/lichen-lang/lichen/internal/config"
	"github.com/lichen-lang/lichen/internal/importer"
)

// functionRecord is one emitted function object: a C function plus the
// obj literal and parameter table that make it callable as a first
// class value.
type functionRecord struct {
	Name           string // the C record name, either the mangled path or a bound-<path> mangling
	FnPointer      string // the function pointer the __fn__ slot holds, or config.UnboundMethodMarker
	BoundSide      string // the ".b" side-band target for an unbound method, "" otherwise
	ParamTable     string
	ParamTablePath string // the path the parameter table is keyed by: the class itself for __init__, else the function's own path
	ArgMin         int
	ArgMax         int
	IsMethod       bool
}

// Records holds every function record the generator must emit,
// unbound methods paired with their bound counterpart per §4.J item 4.
type Records struct {
	Functions []functionRecord
}

// isMethodPath reports whether path names a function directly owned by
// a class (its parent component names a known class), as opposed to a
// module-level function or nested function.
func isMethodPath(path string, classes map[string]struct{}) (class string, ok bool) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return "", false
	}
	parent := path[:i]
	_, known := classes[parent]
	return parent, known
}

// BuildRecords derives the function/method record set from imp and o,
// mirroring generator.py's populate_function special-casing of class
// methods into an unbound/bound pair.
func BuildRecords(imp importer.Importer, o *Optimiser) Records {
	classSet := map[string]struct{}{}
	for _, c := range o.Classes {
		classSet[c] = struct{}{}
	}

	var recs []functionRecord
	for _, path := range imp.AllFunctionPaths() {
		argMin, argMax := o.ArgMin[path], o.ArgMax[path]

		// An initialiser shares its owning class's parameter table
		// (the same one the instantiator's __args__ slot points at)
		// rather than emitting a redundant duplicate under its own
		// mangled path.
		tablePath := path
		if class, ok := strings.CutSuffix(path, ".__init__"); ok {
			tablePath = class
		}
		paramTable := encodeParamTableName(tablePath)

		if _, ok := isMethodPath(path, classSet); ok {
			bound := encodeBoundName(path)
			recs = append(recs, functionRecord{
				Name:           path,
				FnPointer:      config.UnboundMethodMarker,
				BoundSide:      bound,
				ParamTable:     paramTable,
				ParamTablePath: tablePath,
				ArgMin:         argMin,
				ArgMax:         argMax,
				IsMethod:       true,
			})
			recs = append(recs, functionRecord{
				Name:           bound,
				FnPointer:      encodeFunctionPointer(path),
				ParamTable:     paramTable,
				ParamTablePath: tablePath,
				ArgMin:         argMin,
				ArgMax:         argMax,
				IsMethod:       true,
			})
			continue
		}

		recs = append(recs, functionRecord{
			Name:           path,
			FnPointer:      encodeFunctionPointer(path),
			ParamTable:     paramTable,
			ParamTablePath: tablePath,
			ArgMin:         argMin,
			ArgMax:         argMax,
		})
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].Name < recs[j].Name })
	return Records{Functions: recs}
}
