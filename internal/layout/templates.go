package layout

import (
	"strings"
	"text/template"
)

// Artifacts is the set of five C source files §6 names, each rendered
// in full, bit-for-bit reproducible given identical input (testable
// property 6).
type Artifacts struct {
	ProgConstsHeader string // progconsts.h
	ProgTypesHeader  string // progtypes.h
	ProgTypesSource  string // progtypes.c
	MainHeader       string // main.h
	MainSource       string // main.c
}

var progConstsTemplate = template.Must(template.New("progconsts.h").Parse(
	`#ifndef __PROGCONSTS_H__
#define __PROGCONSTS_H__

{{.SizeEnums}}
{{.CodeEnums}}
#endif /* __PROGCONSTS_H__ */
`))

var progTypesHeaderTemplate = template.Must(template.New("progtypes.h").Parse(
	`#ifndef __PROGTYPES_H__
#define __PROGTYPES_H__

#include "progconsts.h"
#include "types.h"

{{.Declarations}}
#define __FUNCTION_TYPE {{.FunctionTypeVar}}
#define __FUNCTION_INSTANCE_SIZE {{.FunctionInstanceSize}}

#endif /* __PROGTYPES_H__ */
`))

var progTypesSourceTemplate = template.Must(template.New("progtypes.c").Parse(
	`#include "progtypes.h"
#include "main.h"

{{.Definitions}}`))

var mainHeaderTemplate = template.Must(template.New("main.h").Parse(
	`#ifndef __MAIN_H__
#define __MAIN_H__

#include "types.h"

{{.Signatures}}
#endif /* __MAIN_H__ */
`))

var mainSourceTemplate = template.Must(template.New("main.c").Parse(
	`#include <string.h>
#include "types.h"
#include "ops.h"
#include "progconsts.h"
#include "progtypes.h"
#include "progops.h"
#include "main.h"

{{.Instantiators}}`))

func render(t *template.Template, data any) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		panic(err) // template bodies are fixed literals; a failure here is a programmer error
	}
	return b.String()
}
