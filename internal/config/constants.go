// Package config carries the small set of package-level constants and
// YAML-loadable settings every other package in this module treats as
// ambient configuration, in the style of the teacher's
// internal/config/constants.go.
package config

// Version is the current module version.
// Set at build time via -ldflags, or by writing to this file.
var Version = "0.1.0"

// MarkerPrefix prefixes the reserved identity-marker attributes the
// descendant-closure pass injects: "#<ClassName>".
const MarkerPrefix = "#"

// ObjectRootType is the fully qualified name of the root builtins
// type every class implicitly descends from.
const ObjectRootType = "__builtins__.object"

// FunctionType is the fully qualified name of the builtin class whose
// instances are plain functions; the layout generator prepends the
// __fn__/__args__ special slots to this class's instance structure
// before any other class's, since every function record is itself an
// instance of it.
const FunctionType = "__builtins__.core.function"

// Special record slot names the layout generator reserves: the
// function-pointer slot, the parameter-table/arity slot, and the
// inline-literal payload slot.
const (
	FnSlot   = "__fn__"
	ArgsSlot = "__args__"
	DataSlot = "__data__"
)

// UnboundMethodMarker is the sentinel function value an unbound
// method's __fn__ slot holds; its companion ".b" side-band names the
// bound record.
const UnboundMethodMarker = "__unbound_method"

// BoundMethodPrefix names the mangled-path prefix bound method records
// are emitted under: "bound-<path>".
const BoundMethodPrefix = "bound-"

// Deducer output artifact filenames, one per §6 record format.
const (
	MutationsFile         = "mutations"
	TypesFile              = "types"
	TypeSummaryFile        = "type_summary"
	TypeWarningsFile       = "type_warnings"
	GuardsFile             = "guards"
	AttributesFile         = "attributes"
	AttributeSummaryFile   = "attribute_summary"
	TestsFile              = "tests"
	AttributeWarningsFile  = "attribute_warnings"
)

// Generator output artifact filenames.
const (
	ProgConstsHeader = "progconsts.h"
	ProgTypesHeader   = "progtypes.h"
	ProgTypesSource   = "progtypes.c"
	MainHeader        = "main.h"
	MainSource        = "main.c"
)

// IsTestMode is a test-mode flag (named after the teacher's
// config.IsTestMode) that a test harness or CLI may set at startup. No
// package in this module reads it; output is deterministic regardless.
var IsTestMode = false
