// parser.go collects the non-fatal diagnostics produced while lowering directives.
package md

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"go.uber.org/zap"
)

// Diagnostic describes a directive that was left untransformed, or an
// external resource that could not be used.
type Diagnostic struct {
	Directive string `json:"directive"`
	Line      int    `json:"line,omitempty"`
	Message   string `json:"message"`
	Err       error  `json:"-"`
}

// String formats the diagnostic as "line N: name: message".
func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", d.Line, d.Directive, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Directive, d.Message)
}

// Unwrap returns the underlying error, if any.
func (d Diagnostic) Unwrap() error {
	return d.Err
}

var diagnosticsKey = parser.NewContextKey()

// diagnostics accumulates warnings for a single document conversion.
type diagnostics struct {
	logger *zap.Logger
	items  []Diagnostic
}

// diagnosticsFrom returns the collector stored in pc, creating one if needed.
func diagnosticsFrom(pc parser.Context, logger *zap.Logger) *diagnostics {
	if v := pc.Get(diagnosticsKey); v != nil {
		if d, ok := v.(*diagnostics); ok {
			return d
		}
	}
	d := &diagnostics{logger: logger}
	pc.Set(diagnosticsKey, d)
	return d
}

// collectedDiagnostics returns the diagnostics gathered in pc.
func collectedDiagnostics(pc parser.Context) []Diagnostic {
	if v := pc.Get(diagnosticsKey); v != nil {
		if d, ok := v.(*diagnostics); ok {
			return d.items
		}
	}
	return nil
}

// AddWarning logs a warning for a directive that was left untransformed and
// stores it in the collector.
func (d *diagnostics) AddWarning(node ast.Node, source []byte, directive string, err error) {
	d.record("directive left untransformed", node, source, directive, err)
}

// AddFallback records a degraded-but-handled condition, such as an unreadable
// manifest, where the transform still produced output.
func (d *diagnostics) AddFallback(node ast.Node, source []byte, directive string, err error) {
	d.record("directive fallback", node, source, directive, err)
}

func (d *diagnostics) record(msg string, node ast.Node, source []byte, directive string, err error) {
	diag := Diagnostic{
		Directive: directive,
		Line:      lineOf(node, source),
		Message:   err.Error(),
		Err:       err,
	}
	d.items = append(d.items, diag)
	if d.logger != nil {
		d.logger.Warn(msg,
			zap.String("directive", directive),
			zap.Int("line", diag.Line),
			zap.String("reason", diag.Message),
		)
	}
}

// lineOf returns the 1-based source line of a directive node, or 0 when unknown.
func lineOf(node ast.Node, source []byte) int {
	d, ok := node.(*Directive)
	if !ok || d.offset < 0 || d.offset > len(source) {
		return 0
	}
	return bytes.Count(source[:d.offset], []byte{'\n'}) + 1
}
