package checker

import (
	"math"
	"strconv"
	"strings"

	"tsdoc/internal/ast"
)

type constant struct {
	value any
	ok    bool
}

// evaluating marks enum members whose value is being computed.
var evaluating = constant{}

// GetConstantValue returns the compile time value of an enum member: a
// float64 or a string. Members without an initializer continue the
// numbering of the previous member.
func (c *Checker) GetConstantValue(member *ast.Node) (any, bool) {
	if member == nil || member.Kind != ast.KindEnumMember || member.Parent == nil {
		return nil, false
	}
	if cached, ok := c.constants[member]; ok {
		return cached.value, cached.ok
	}
	c.constants[member] = evaluating

	result := constant{}
	switch {
	case member.Initializer != nil:
		result.value, result.ok = c.evaluate(member.Initializer, member.Parent)
	default:
		result.value, result.ok = c.nextEnumValue(member)
	}
	c.constants[member] = result
	return result.value, result.ok
}

func (c *Checker) nextEnumValue(member *ast.Node) (any, bool) {
	var prev *ast.Node
	for _, m := range member.Parent.Members {
		if m == member {
			break
		}
		prev = m
	}
	if prev == nil {
		return float64(0), true
	}
	v, ok := c.GetConstantValue(prev)
	if n, isNumber := v.(float64); ok && isNumber {
		return n + 1, true
	}
	return nil, false
}

func (c *Checker) evaluate(e *ast.Node, enum *ast.Node) (any, bool) {
	if e == nil {
		return nil, false
	}
	switch e.Kind {
	case ast.KindNumericLiteral:
		return parseNumber(e.Text)
	case ast.KindStringLiteral:
		return e.Text, true
	case ast.KindTemplateExpression:
		if strings.Contains(e.Text, "${") {
			return nil, false
		}
		return strings.Trim(e.Text, "`"), true
	case ast.KindPrefixUnaryExpression:
		v, ok := c.evaluate(e.Expression, enum)
		n, isNumber := v.(float64)
		if !ok || !isNumber {
			return nil, false
		}
		switch e.Text {
		case "-":
			return -n, true
		case "+":
			return n, true
		case "~":
			return float64(^int32(n)), true
		}
	case ast.KindBinaryExpression:
		if len(e.Elements) != 2 {
			return nil, false
		}
		left, lok := c.evaluate(e.Elements[0], enum)
		right, rok := c.evaluate(e.Elements[1], enum)
		if !lok || !rok {
			return nil, false
		}
		return binaryConstant(e.Text, left, right)
	case ast.KindIdentifier:
		for _, m := range enum.Members {
			if m.NameText() == e.Text {
				return c.GetConstantValue(m)
			}
		}
	case ast.KindPropertyAccessExpression:
		sym := c.resolveEntityName(ast.EntityText(e), e, ast.SymbolValue)
		if sym.Has(ast.SymbolEnumMember) && len(sym.Declarations) > 0 {
			return c.GetConstantValue(sym.Declarations[0])
		}
	}
	return nil, false
}

func parseNumber(text string) (any, bool) {
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return float64(i), true
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64); err == nil {
		return f, true
	}
	return nil, false
}

func binaryConstant(op string, left, right any) (any, bool) {
	_, lString := left.(string)
	_, rString := right.(string)
	if op == "+" && (lString || rString) {
		return toString(left) + toString(right), true
	}
	if lString || rString {
		return nil, false
	}
	l, r := left.(float64), right.(float64)
	switch op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		return l / r, true
	case "%":
		return math.Mod(l, r), true
	case "**":
		return math.Pow(l, r), true
	case "<<":
		return float64(int32(l) << (uint32(r) & 31)), true
	case ">>":
		return float64(int32(l) >> (uint32(r) & 31)), true
	case ">>>":
		return float64(uint32(l) >> (uint32(r) & 31)), true
	case "&":
		return float64(int32(l) & int32(r)), true
	case "|":
		return float64(int32(l) | int32(r)), true
	case "^":
		return float64(int32(l) ^ int32(r)), true
	}
	return nil, false
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return FormatNumber(v.(float64))
}

// FormatNumber prints a constant the way the source language would.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
