package checker

import (
	"fmt"
	"sort"

	"tsdoc/internal/ast"
)

// DiagnosticCategory mirrors the compiler's severity levels.
type DiagnosticCategory int

const (
	CategoryError DiagnosticCategory = iota
	CategoryWarning
	CategoryMessage
)

func (c DiagnosticCategory) String() string {
	switch c {
	case CategoryWarning:
		return "warning"
	case CategoryMessage:
		return "message"
	}
	return "error"
}

// Diagnostic codes reported by the checker.
const (
	CodeExpected            = 1005
	CodeStatementExpected   = 1128
	CodeDuplicateIdentifier = 2300
	CodeCannotFindName      = 2304
	CodeCannotFindModule    = 2307
	CodeNoExportedMember    = 2694
	CodeFileNotFound        = 6053
	CodeDuplicateRootFile   = 6054
)

// Diagnostic is one compiler message. Line and Character are zero based.
type Diagnostic struct {
	File      string
	Line      int
	Character int
	Message   string
	Category  DiagnosticCategory
	Code      int
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("%s TS%d: %s", d.Category, d.Code, d.Message)
	}
	return fmt.Sprintf("%s(%d,%d): %s TS%d: %s", d.File, d.Line+1, d.Character+1, d.Category, d.Code, d.Message)
}

func diagnosticAt(node *ast.Node, code int, format string, args ...any) Diagnostic {
	d := Diagnostic{
		Line:      node.Line,
		Character: node.Character,
		Message:   fmt.Sprintf(format, args...),
		Category:  CategoryError,
		Code:      code,
	}
	if node.File != nil {
		d.File = node.File.FileName
	}
	return d
}

func sortDiagnostics(list []Diagnostic) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
}
