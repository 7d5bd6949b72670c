package plugins

import (
	"regexp"
	"strings"

	"tsdoc/internal/ast"
	"tsdoc/internal/models"
)

var (
	tagLinePattern = regexp.MustCompile(`^@(\S+)\s*(.*)$`)
	lineStart      = regexp.MustCompile(`^\s*\*? ?`)
)

// tags whose first word names a parameter
var paramTags = map[string]bool{
	"param":     true,
	"arg":       true,
	"argument":  true,
	"typeparam": true,
	"template":  true,
}

// ParseComment parses the text of a /** */ comment. The first paragraph
// becomes the short text, the rest up to the first tag the text. Tags
// inside fenced code blocks are kept as text. @return and @returns end up
// in Returns rather than in the tag list.
func ParseComment(raw string) *models.Comment {
	comment := &models.Comment{}
	var short, text []string
	var current *models.CommentTag
	inShort, inCode := true, false

	for _, line := range commentLines(raw) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
		}
		if !inCode {
			if m := tagLinePattern.FindStringSubmatch(trimmed); m != nil {
				current = readTag(m[1], m[2])
				comment.Tags = append(comment.Tags, current)
				continue
			}
		}

		switch {
		case current != nil:
			current.Text += "\n" + line
		case inShort && trimmed == "" && len(short) > 0:
			inShort = false
		case inShort && trimmed == "":
		case inShort:
			short = append(short, line)
		default:
			text = append(text, line)
		}
	}

	comment.ShortText = strings.TrimSpace(strings.Join(short, "\n"))
	comment.Text = strings.TrimSpace(strings.Join(text, "\n"))
	var returns []string
	for _, tag := range comment.Tags {
		tag.Text = strings.TrimSpace(tag.Text)
		if tag.TagName == "returns" {
			returns = append(returns, tag.Text)
		}
	}
	if len(returns) > 0 {
		comment.Returns = strings.Join(returns, "\n")
		comment.RemoveTags("returns", "")
	}
	return comment
}

func readTag(name, line string) *models.CommentTag {
	name = strings.ToLower(name)
	switch name {
	case "return":
		name = "returns"
	case "arg", "argument":
		name = "param"
	}
	tag := &models.CommentTag{TagName: name}

	line = strings.TrimSpace(line)
	switch {
	case paramTags[name]:
		line = consumeTypeData(line)
		if fields := strings.Fields(line); len(fields) > 0 {
			tag.ParamName = paramName(fields[0])
			line = strings.TrimSpace(line[len(fields[0]):])
		}
		line = consumeTypeData(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "-"))
	case name == "returns":
		line = consumeTypeData(line)
	}
	tag.Text = line
	return tag
}

// paramName strips the optional-parameter brackets and default value: [name=1] -> name.
func paramName(word string) string {
	word = strings.TrimSuffix(strings.TrimPrefix(word, "["), "]")
	if i := strings.Index(word, "="); i >= 0 {
		word = word[:i]
	}
	return word
}

// consumeTypeData drops a leading {type} annotation.
func consumeTypeData(line string) string {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return line
	}
	depth := 0
	for i, r := range line {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(line[i+1:])
			}
		}
	}
	return line
}

// commentLines strips the comment delimiters and the leading " * " of
// every line. Plain text without delimiters is split as is.
func commentLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "/**") {
		raw = strings.TrimSuffix(strings.TrimPrefix(raw, "/**"), "*/")
	}
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(lineStart.ReplaceAllString(line, ""), " \t")
	}
	return lines
}

// rawComment returns the doc comment documenting node. Variable
// declarations, binding elements and function initializers take the
// comment of their statement; the inner segments of a dotted namespace
// take the comment of the outermost one.
func rawComment(node *ast.Node) string {
	for n := node; n != nil; n = n.Parent {
		if n.Comment != "" || n.Kind == ast.KindSourceFile {
			return n.Comment
		}
		switch n.Kind {
		case ast.KindVariableDeclaration, ast.KindBindingElement,
			ast.KindObjectBindingPattern, ast.KindArrayBindingPattern,
			ast.KindArrowFunction, ast.KindFunctionExpression:
			continue
		case ast.KindModuleDeclaration:
			if isDottedSegment(n) {
				n = n.Parent
				continue
			}
		}
		return ""
	}
	return ""
}

// isDottedSegment reports an inner declaration of namespace A.B: its
// block and its outer declaration share its source position.
func isDottedSegment(n *ast.Node) bool {
	block := n.Parent
	if block == nil || block.Kind != ast.KindModuleBlock || block.Parent == nil {
		return false
	}
	outer := block.Parent
	return outer.Kind == ast.KindModuleDeclaration && outer.Pos == n.Pos
}
