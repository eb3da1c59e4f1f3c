// registry.go maps directive names to the transforms that lower them.
package md

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Role identifies which transform lowers a directive.
type Role string

const (
	RoleVideo Role = "video"
	RoleComic Role = "comic"
	RoleAlert Role = "alert"
)

// DirectiveType describes a recognized directive.
type DirectiveType struct {
	Name          string // canonical lowercase name
	Shape         Shape  // leaf or container
	Role          Role   // transform responsible for the directive
	CaseSensitive bool   // name must match exactly
}

// DirectiveRegistry maps directive names to their type definitions.
var DirectiveRegistry = map[string]DirectiveType{
	"video": {
		Name:          "video",
		Shape:         ShapeLeaf,
		Role:          RoleVideo,
		CaseSensitive: true,
	},
	"comic": {
		Name:          "comic",
		Shape:         ShapeLeaf,
		Role:          RoleComic,
		CaseSensitive: true,
	},
	"note": {
		Name:  "note",
		Shape: ShapeContainer,
		Role:  RoleAlert,
	},
	"tip": {
		Name:  "tip",
		Shape: ShapeContainer,
		Role:  RoleAlert,
	},
	"important": {
		Name:  "important",
		Shape: ShapeContainer,
		Role:  RoleAlert,
	},
	"warning": {
		Name:  "warning",
		Shape: ShapeContainer,
		Role:  RoleAlert,
	},
	"caution": {
		Name:  "caution",
		Shape: ShapeContainer,
		Role:  RoleAlert,
	},
}

// LookupDirectiveName returns the DirectiveType registered for name.
// Case-sensitive entries only match their exact spelling; the others are
// matched after lowercasing.
func LookupDirectiveName(name string) (DirectiveType, bool) {
	if dt, ok := DirectiveRegistry[name]; ok {
		return dt, true
	}
	dt, ok := DirectiveRegistry[strings.ToLower(name)]
	if !ok || dt.CaseSensitive {
		return DirectiveType{}, false
	}
	return dt, true
}

// LookupDirective reports whether n is a directive recognized by the
// registry, checking both its name and its shape. Unmatched nodes are left
// for other passes; matching never consumes a node.
func LookupDirective(n ast.Node) (DirectiveType, *Directive, bool) {
	d, ok := n.(*Directive)
	if !ok {
		return DirectiveType{}, nil, false
	}
	dt, ok := LookupDirectiveName(d.Name)
	if !ok || dt.Shape != d.Shape() {
		return DirectiveType{}, nil, false
	}
	return dt, d, true
}

// matchRole returns the directive when n is a recognized directive with the given role.
func matchRole(n ast.Node, role Role) (*Directive, string, bool) {
	dt, d, ok := LookupDirective(n)
	if !ok || dt.Role != role {
		return nil, "", false
	}
	return d, dt.Name, true
}
