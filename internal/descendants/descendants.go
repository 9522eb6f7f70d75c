// Package descendants computes the transitive subclass closure of
// every class in the program and injects the reserved identity-marker
// attributes that let usage-based class testing piggyback on the
// ordinary attribute-intersection machinery.
//
// Grounded on deducer.py's init_descendants / get_descendants_for_class
// / init_special_attributes.
package descendants

import "github.com/lichen-lang/lichen/internal/importer"

// Closure memoises descendants(class) over the program's subclass
// graph, computed by depth-first search.
type Closure struct {
	imp  importer.Importer
	memo map[string][]string
}

// New returns a Closure backed by imp's Subclasses fact.
func New(imp importer.Importer) *Closure {
	return &Closure{imp: imp, memo: map[string][]string{}}
}

// Descendants returns every class transitively reachable from class
// via Subclasses, memoising the result. A class is never its own
// descendant unless reached through an (invalid) cycle, in which case
// the recursion stops at the first repeat rather than looping forever.
func (c *Closure) Descendants(class string) []string {
	if cached, ok := c.memo[class]; ok {
		return cached
	}
	seen := map[string]struct{}{}
	c.memo[class] = nil // placeholder until the result is stored; collect cuts cycles with seen
	c.collect(class, seen)
	result := make([]string, 0, len(seen))
	for d := range seen {
		result = append(result, d)
	}
	c.memo[class] = result
	return result
}

func (c *Closure) collect(class string, seen map[string]struct{}) {
	for _, sub := range c.imp.Subclasses(class) {
		if _, already := seen[sub]; already {
			continue
		}
		seen[sub] = struct{}{}
		c.collect(sub, seen)
	}
}

// InjectSpecialAttributes installs, for every class c in classNames and
// every ancestor b of c (including c itself), a synthetic attribute
// "#<b>" on c whose defining path is b. This lets a usage observation
// that merely tests "is this a B" reuse the ordinary
// attribute-intersection mechanism instead of a separate code path.
func (c *Closure) InjectSpecialAttributes(classNames []string) {
	for _, name := range classNames {
		bases := c.ancestorsAndSelf(name)
		for _, b := range bases {
			marker := "#" + b
			c.imp.AddClassAttr(name, marker, b)
		}
	}
}

// ancestorsAndSelf returns name plus every base class reachable by
// walking imp.Classes(name)'s declared bases transitively, guarding
// against cyclic base lists (which would not describe a valid program,
// but must not hang the pass).
func (c *Closure) ancestorsAndSelf(name string) []string {
	seen := map[string]struct{}{name: {}}
	result := []string{name}
	var walk func(class string)
	walk = func(class string) {
		for _, baseRef := range c.imp.Classes(class) {
			base := baseRef.Origin()
			if base == "" {
				continue
			}
			if _, already := seen[base]; already {
				continue
			}
			seen[base] = struct{}{}
			result = append(result, base)
			walk(base)
		}
	}
	walk(name)
	return result
}
