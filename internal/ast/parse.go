package ast

import (
	"context"
	"regexp"
	"strings"

	"tsdoc/internal/errors"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

var importTypePattern = regexp.MustCompile(`^import\(\s*["']([^"']+)["']\s*\)\.([A-Za-z_$][\w$.]*)`)

// Parse parses TypeScript (or TSX, by extension) source and lowers it.
// Syntax errors do not fail the parse; they are recorded on the file.
func Parse(ctx context.Context, fileName string, text []byte) (*SourceFile, error) {
	parser := sitter.NewParser()
	if strings.HasSuffix(fileName, ".tsx") {
		parser.SetLanguage(tsx.GetLanguage())
	} else {
		parser.SetLanguage(typescript.GetLanguage())
	}

	tree, err := parser.ParseCtx(ctx, nil, text)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", fileName)
	}

	file := &SourceFile{
		FileName:          fileName,
		Text:              text,
		IsDeclarationFile: strings.HasSuffix(fileName, ".d.ts"),
	}
	l := &lowerer{src: text, file: file}

	root := tree.RootNode()
	file.Root = l.node(KindSourceFile, root)
	file.Root.Statements = l.statements(root, true)
	file.Root.Comment = file.Comment
	l.collectErrors(root)

	SetParents(file.Root, file)
	return file, nil
}

type lowerer struct {
	src   []byte
	file  *SourceFile
	depth int
}

func (l *lowerer) node(kind Kind, c *sitter.Node) *Node {
	p := c.StartPoint()
	return &Node{
		Kind:      kind,
		Pos:       int(c.StartByte()),
		End:       int(c.EndByte()),
		Line:      int(p.Row),
		Character: int(p.Column),
	}
}

func (l *lowerer) text(c *sitter.Node) string {
	return c.Content(l.src)
}

func (l *lowerer) ident(c *sitter.Node) *Node {
	if c == nil {
		return nil
	}
	n := l.node(KindIdentifier, c)
	n.Text = strings.Join(strings.Fields(l.text(c)), "")
	return n
}

func firstNamed(c *sitter.Node) *sitter.Node {
	for i := 0; i < int(c.NamedChildCount()); i++ {
		if ch := c.NamedChild(i); ch.Type() != "comment" {
			return ch
		}
	}
	return nil
}

func namedChildren(c *sitter.Node) []*sitter.Node {
	if c == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, c.NamedChildCount())
	for i := 0; i < int(c.NamedChildCount()); i++ {
		out = append(out, c.NamedChild(i))
	}
	return out
}

func isDocComment(text string) bool {
	return strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/")
}

func isFileComment(text string) bool {
	for _, tag := range []string{"@packageDocumentation", "@module", "@preferred", "@file", "@fileoverview"} {
		if strings.Contains(text, tag) {
			return true
		}
	}
	return false
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// statements lowers the statement list of a program or statement block and
// attaches preceding doc comments.
func (l *lowerer) statements(container *sitter.Node, top bool) []*Node {
	var out []*Node
	pending := ""
	first := true

	for _, c := range namedChildren(container) {
		if c.Type() == "comment" {
			text := l.text(c)
			if !isDocComment(text) {
				continue
			}
			if top && first && pending != "" {
				l.file.Comment = pending
			}
			pending = text
			continue
		}
		if top && first && pending != "" && isFileComment(pending) {
			l.file.Comment = pending
			pending = ""
		}
		first = false

		for _, n := range l.statement(c) {
			if n.Comment == "" {
				n.Comment = pending
			}
			out = append(out, n)
		}
		pending = ""
	}
	return out
}

func (l *lowerer) statement(c *sitter.Node) []*Node {
	one := func(n *Node) []*Node {
		if n == nil {
			return nil
		}
		return []*Node{n}
	}

	switch c.Type() {
	case "export_statement":
		return l.exportStatement(c)
	case "import_statement":
		return one(l.importStatement(c))
	case "lexical_declaration", "variable_declaration":
		return one(l.variableStatement(c))
	case "function_declaration", "generator_function_declaration", "function_signature":
		return one(l.function(KindFunctionDeclaration, c))
	case "class_declaration", "abstract_class_declaration":
		return one(l.class(KindClassDeclaration, c))
	case "interface_declaration":
		return one(l.interfaceDeclaration(c))
	case "type_alias_declaration":
		return one(l.typeAlias(c))
	case "enum_declaration":
		return one(l.enum(c))
	case "module", "internal_module":
		return one(l.module(c))
	case "ambient_declaration":
		return l.ambient(c)
	case "expression_statement":
		if inner := firstNamed(c); inner != nil && inner.Type() == "internal_module" {
			return one(l.module(inner))
		}
	}
	return nil
}

func (l *lowerer) ambient(c *sitter.Node) []*Node {
	var out []*Node
	for _, d := range namedChildren(c) {
		var nodes []*Node
		if d.Type() == "statement_block" {
			nodes = l.statements(d, false)
		} else {
			nodes = l.statement(d)
		}
		for _, n := range nodes {
			n.Flags |= ModifierDeclare
			out = append(out, n)
		}
	}
	return out
}

func (l *lowerer) exportStatement(c *sitter.Node) []*Node {
	if l.depth == 0 {
		l.file.IsExternalModule = true
	}

	var decorators []*Node
	var clause, nsExport *sitter.Node
	isDefault, star, equals := false, false, false
	for i := 0; i < int(c.ChildCount()); i++ {
		ch := c.Child(i)
		switch ch.Type() {
		case "default":
			isDefault = !ch.IsNamed()
		case "*":
			star = true
		case "=":
			equals = true
		case "decorator":
			decorators = append(decorators, l.decorator(ch))
		case "export_clause":
			clause = ch
		case "namespace_export":
			nsExport = ch
		}
	}

	source := ""
	if s := c.ChildByFieldName("source"); s != nil {
		source = unquote(l.text(s))
		l.file.ModuleReferences = append(l.file.ModuleReferences, source)
	}

	if decl := c.ChildByFieldName("declaration"); decl != nil {
		nodes := l.statement(decl)
		for _, n := range nodes {
			n.Flags |= ModifierExport
			if isDefault {
				n.Flags |= ModifierDefault
			}
			n.Decorators = append(decorators, n.Decorators...)
		}
		return nodes
	}

	if value := c.ChildByFieldName("value"); value != nil {
		var n *Node
		switch value.Type() {
		case "class":
			n = l.class(KindClassDeclaration, value)
		case "function", "function_expression", "generator_function":
			n = l.function(KindFunctionDeclaration, value)
		default:
			n = l.node(KindExportAssignment, c)
			n.Expression = l.expression(value)
		}
		n.Flags |= ModifierExport | ModifierDefault
		return []*Node{n}
	}

	if equals {
		n := l.node(KindExportAssignment, c)
		n.Flags |= FlagExportEquals
		for _, ch := range namedChildren(c) {
			if ch.Type() != "comment" && ch.Type() != "decorator" {
				n.Expression = l.expression(ch)
				break
			}
		}
		return []*Node{n}
	}

	n := l.node(KindExportDeclaration, c)
	n.ModuleSpecifier = source
	switch {
	case clause != nil:
		for _, spec := range namedChildren(clause) {
			if spec.Type() != "export_specifier" {
				continue
			}
			s := l.node(KindExportSpecifier, spec)
			name := spec.ChildByFieldName("name")
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				s.Name = l.ident(alias)
				s.PropertyName = l.ident(name)
			} else {
				s.Name = l.ident(name)
			}
			if s.Name != nil {
				s.Name.Text = unquote(s.Name.Text)
			}
			n.Elements = append(n.Elements, s)
		}
	case nsExport != nil:
		s := l.node(KindExportSpecifier, nsExport)
		s.Flags |= FlagExportStar
		s.Name = l.ident(firstNamed(nsExport))
		n.Elements = append(n.Elements, s)
	case star:
		n.Flags |= FlagExportStar
		if source != "" {
			l.file.ExportStars = append(l.file.ExportStars, source)
		}
	}
	return []*Node{n}
}

func (l *lowerer) importStatement(c *sitter.Node) *Node {
	if l.depth == 0 {
		l.file.IsExternalModule = true
	}
	n := l.node(KindImportDeclaration, c)
	if s := c.ChildByFieldName("source"); s != nil {
		n.ModuleSpecifier = unquote(l.text(s))
		l.file.ModuleReferences = append(l.file.ModuleReferences, n.ModuleSpecifier)
	}

	for _, ch := range namedChildren(c) {
		if ch.Type() != "import_clause" {
			continue
		}
		for _, part := range namedChildren(ch) {
			switch part.Type() {
			case "identifier":
				s := l.node(KindImportSpecifier, part)
				s.Name = l.ident(part)
				s.PropertyName = &Node{Kind: KindIdentifier, Text: "default"}
				n.Elements = append(n.Elements, s)
			case "namespace_import":
				s := l.node(KindNamespaceImport, part)
				s.Name = l.ident(firstNamed(part))
				n.Elements = append(n.Elements, s)
			case "named_imports":
				for _, spec := range namedChildren(part) {
					if spec.Type() != "import_specifier" {
						continue
					}
					s := l.node(KindImportSpecifier, spec)
					name := spec.ChildByFieldName("name")
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						s.Name = l.ident(alias)
						s.PropertyName = l.ident(name)
					} else {
						s.Name = l.ident(name)
					}
					n.Elements = append(n.Elements, s)
				}
			}
		}
	}
	return n
}

func (l *lowerer) variableStatement(c *sitter.Node) *Node {
	n := l.node(KindVariableStatement, c)
	for i := 0; i < int(c.ChildCount()); i++ {
		ch := c.Child(i)
		switch ch.Type() {
		case "const":
			n.Flags |= ModifierConst
		case "let":
			n.Flags |= ModifierLet
		case "variable_declarator":
			d := l.node(KindVariableDeclaration, ch)
			d.Name = l.bindingName(ch.ChildByFieldName("name"))
			d.Type = l.typeAnnotation(ch.ChildByFieldName("type"))
			d.Initializer = l.expression(ch.ChildByFieldName("value"))
			n.Declarations = append(n.Declarations, d)
		}
	}
	return n
}

func (l *lowerer) bindingName(c *sitter.Node) *Node {
	if c == nil {
		return nil
	}
	switch c.Type() {
	case "object_pattern":
		return l.objectPattern(c)
	case "array_pattern":
		return l.arrayPattern(c)
	}
	return l.ident(c)
}

func (l *lowerer) objectPattern(c *sitter.Node) *Node {
	n := l.node(KindObjectBindingPattern, c)
	for _, e := range namedChildren(c) {
		el := l.node(KindBindingElement, e)
		switch e.Type() {
		case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
			el.Name = l.ident(e)
		case "pair_pattern":
			el.PropertyName = l.propertyName(e.ChildByFieldName("key"))
			value := e.ChildByFieldName("value")
			if value != nil && value.Type() == "assignment_pattern" {
				el.Name = l.bindingName(value.ChildByFieldName("left"))
				el.Initializer = l.expression(value.ChildByFieldName("right"))
			} else {
				el.Name = l.bindingName(value)
			}
		case "object_assignment_pattern":
			el.Name = l.bindingName(e.ChildByFieldName("left"))
			el.Initializer = l.expression(e.ChildByFieldName("right"))
		case "rest_pattern":
			el.Flags |= FlagRest
			el.Name = l.bindingName(firstNamed(e))
		default:
			continue
		}
		n.Elements = append(n.Elements, el)
	}
	return n
}

func (l *lowerer) arrayPattern(c *sitter.Node) *Node {
	n := l.node(KindArrayBindingPattern, c)
	for _, e := range namedChildren(c) {
		el := l.node(KindBindingElement, e)
		switch e.Type() {
		case "comment":
			continue
		case "assignment_pattern":
			el.Name = l.bindingName(e.ChildByFieldName("left"))
			el.Initializer = l.expression(e.ChildByFieldName("right"))
		case "rest_pattern":
			el.Flags |= FlagRest
			el.Name = l.bindingName(firstNamed(e))
		default:
			el.Name = l.bindingName(e)
		}
		n.Elements = append(n.Elements, el)
	}
	return n
}

func (l *lowerer) propertyName(c *sitter.Node) *Node {
	if c == nil {
		return nil
	}
	switch c.Type() {
	case "string":
		n := l.node(KindStringLiteral, c)
		n.Text = unquote(l.text(c))
		return n
	case "number":
		n := l.node(KindNumericLiteral, c)
		n.Text = l.text(c)
		return n
	}
	return l.ident(c)
}

// modifiers reads modifier keywords among the direct children of c.
func (l *lowerer) modifiers(c *sitter.Node, n *Node) {
	for i := 0; i < int(c.ChildCount()); i++ {
		ch := c.Child(i)
		switch ch.Type() {
		case "accessibility_modifier":
			switch strings.TrimSpace(l.text(ch)) {
			case "private":
				n.Flags |= ModifierPrivate
			case "protected":
				n.Flags |= ModifierProtected
			case "public":
				n.Flags |= ModifierPublic
			}
		case "static":
			n.Flags |= ModifierStatic
		case "readonly":
			n.Flags |= ModifierReadonly
		case "abstract":
			n.Flags |= ModifierAbstract
		case "async":
			n.Flags |= ModifierAsync
		case "declare":
			n.Flags |= ModifierDeclare
		case "?":
			n.Flags |= FlagOptional
		case "decorator":
			n.Decorators = append(n.Decorators, l.decorator(ch))
		}
	}
}

func (l *lowerer) decorator(c *sitter.Node) *Node {
	n := l.node(KindDecorator, c)
	if inner := firstNamed(c); inner != nil {
		n.Expression = l.expression(inner)
	}
	return n
}

// function lowers anything with a parameter list: declarations, methods,
// signatures, function expressions and function types.
func (l *lowerer) function(kind Kind, c *sitter.Node) *Node {
	n := l.node(kind, c)
	if name := c.ChildByFieldName("name"); name != nil {
		n.Name = l.propertyName(name)
	}
	n.TypeParameters = l.typeParameters(c.ChildByFieldName("type_parameters"))
	if params := c.ChildByFieldName("parameters"); params != nil {
		n.Parameters = l.parameters(params)
	} else if single := c.ChildByFieldName("parameter"); single != nil {
		p := l.node(KindParameter, single)
		p.Name = l.bindingName(single)
		n.Parameters = []*Node{p}
	}
	n.Type = l.typeAnnotation(c.ChildByFieldName("return_type"))
	if n.Type == nil && (kind == KindConstructSignature || kind == KindConstructorType) {
		n.Type = l.typeAnnotation(c.ChildByFieldName("type"))
	}
	if body := c.ChildByFieldName("body"); body != nil {
		n.Body = l.block(body)
	}
	l.modifiers(c, n)
	return n
}

// block keeps only the return expressions of a function body; they are all
// the checker needs to infer a return type.
func (l *lowerer) block(c *sitter.Node) *Node {
	n := l.node(KindBlock, c)
	if c.Type() != "statement_block" {
		if e := l.expression(c); e != nil {
			n.Elements = append(n.Elements, e)
		}
		return n
	}

	var visit func(s *sitter.Node)
	visit = func(s *sitter.Node) {
		for _, ch := range namedChildren(s) {
			switch ch.Type() {
			case "function_declaration", "function_expression", "function", "arrow_function",
				"generator_function_declaration", "method_definition", "class_declaration", "class":
				continue
			case "return_statement":
				if e := firstNamed(ch); e != nil {
					n.Elements = append(n.Elements, l.expression(e))
				}
				continue
			}
			visit(ch)
		}
	}
	visit(c)
	return n
}

func (l *lowerer) parameters(c *sitter.Node) []*Node {
	var out []*Node
	for _, p := range namedChildren(c) {
		if p.Type() != "required_parameter" && p.Type() != "optional_parameter" {
			continue
		}
		n := l.node(KindParameter, p)
		pattern := p.ChildByFieldName("pattern")
		if pattern == nil {
			pattern = p.ChildByFieldName("name")
		}
		if pattern == nil {
			for _, ch := range namedChildren(p) {
				switch ch.Type() {
				case "identifier", "object_pattern", "array_pattern", "rest_pattern", "this":
					pattern = ch
				}
				if pattern != nil {
					break
				}
			}
		}
		if pattern == nil || pattern.Type() == "this" {
			continue
		}
		if pattern.Type() == "rest_pattern" {
			n.Flags |= FlagRest
			pattern = firstNamed(pattern)
		}
		n.Name = l.bindingName(pattern)
		n.Type = l.typeAnnotation(p.ChildByFieldName("type"))
		n.Initializer = l.expression(p.ChildByFieldName("value"))
		if p.Type() == "optional_parameter" {
			n.Flags |= FlagOptional
		}
		l.modifiers(p, n)
		out = append(out, n)
	}
	return out
}

func (l *lowerer) typeParameters(c *sitter.Node) []*Node {
	if c == nil {
		return nil
	}
	var out []*Node
	for _, tp := range namedChildren(c) {
		if tp.Type() != "type_parameter" {
			continue
		}
		n := l.node(KindTypeParameter, tp)
		n.Name = l.ident(tp.ChildByFieldName("name"))
		if constraint := tp.ChildByFieldName("constraint"); constraint != nil {
			n.Type = l.typeNode(firstNamed(constraint))
		}
		if def := tp.ChildByFieldName("value"); def != nil {
			n.Initializer = l.typeNode(firstNamed(def))
		}
		out = append(out, n)
	}
	return out
}

func (l *lowerer) class(kind Kind, c *sitter.Node) *Node {
	n := l.node(kind, c)
	if name := c.ChildByFieldName("name"); name != nil {
		n.Name = l.ident(name)
	}
	n.TypeParameters = l.typeParameters(c.ChildByFieldName("type_parameters"))
	l.modifiers(c, n)

	for _, ch := range namedChildren(c) {
		switch ch.Type() {
		case "class_heritage":
			for _, clause := range namedChildren(ch) {
				if h := l.heritageClause(clause); h != nil {
					n.HeritageClauses = append(n.HeritageClauses, h)
				}
			}
		case "extends_clause", "implements_clause":
			if h := l.heritageClause(ch); h != nil {
				n.HeritageClauses = append(n.HeritageClauses, h)
			}
		}
	}

	if body := c.ChildByFieldName("body"); body != nil {
		n.Members = l.classMembers(body)
	}
	return n
}

func (l *lowerer) heritageClause(c *sitter.Node) *Node {
	h := l.node(KindHeritageClause, c)
	switch c.Type() {
	case "extends_clause":
		h.Token = HeritageExtends
		var last *Node
		for _, ch := range namedChildren(c) {
			if ch.Type() == "type_arguments" {
				if last != nil {
					last.TypeArguments = l.typeArguments(ch)
				}
				continue
			}
			if ch.Type() == "comment" {
				continue
			}
			last = l.node(KindExpressionWithTypeArguments, ch)
			last.Expression = l.expression(ch)
			h.Types = append(h.Types, last)
		}
	case "implements_clause", "extends_type_clause":
		h.Token = HeritageImplements
		if c.Type() == "extends_type_clause" {
			h.Token = HeritageExtends
		}
		h.Types = l.heritageTypes(c)
	default:
		return nil
	}
	return h
}

func (l *lowerer) heritageTypes(c *sitter.Node) []*Node {
	var out []*Node
	for _, t := range namedChildren(c) {
		var name, args *sitter.Node
		switch t.Type() {
		case "generic_type":
			name = t.ChildByFieldName("name")
			args = t.ChildByFieldName("type_arguments")
		case "type_identifier", "nested_type_identifier", "identifier", "member_expression":
			name = t
		default:
			continue
		}
		e := l.node(KindExpressionWithTypeArguments, t)
		e.Expression = l.ident(name)
		e.TypeArguments = l.typeArguments(args)
		out = append(out, e)
	}
	return out
}

func (l *lowerer) classMembers(body *sitter.Node) []*Node {
	var out []*Node
	pending := ""
	var decorators []*Node

	for _, m := range namedChildren(body) {
		var n *Node
		switch m.Type() {
		case "comment":
			if text := l.text(m); isDocComment(text) {
				pending = text
			}
			continue
		case "decorator":
			decorators = append(decorators, l.decorator(m))
			continue
		case "method_definition", "method_signature", "abstract_method_signature":
			n = l.method(m, KindMethodDeclaration)
		case "public_field_definition", "property_signature":
			n = l.property(KindPropertyDeclaration, m)
		case "index_signature":
			n = l.indexSignature(m)
		default:
			pending, decorators = "", nil
			continue
		}
		n.Comment = pending
		n.Decorators = append(decorators, n.Decorators...)
		out = append(out, n)
		pending, decorators = "", nil
	}
	return out
}

func (l *lowerer) typeMembers(body *sitter.Node) []*Node {
	var out []*Node
	pending := ""
	for _, m := range namedChildren(body) {
		var n *Node
		switch m.Type() {
		case "comment":
			if text := l.text(m); isDocComment(text) {
				pending = text
			}
			continue
		case "property_signature":
			n = l.property(KindPropertySignature, m)
		case "method_signature":
			n = l.method(m, KindMethodSignature)
		case "call_signature":
			n = l.function(KindCallSignature, m)
		case "construct_signature":
			n = l.function(KindConstructSignature, m)
		case "index_signature":
			n = l.indexSignature(m)
		default:
			pending = ""
			continue
		}
		n.Comment = pending
		out = append(out, n)
		pending = ""
	}
	return out
}

func (l *lowerer) method(c *sitter.Node, kind Kind) *Node {
	for i := 0; i < int(c.ChildCount()); i++ {
		ch := c.Child(i)
		if ch.IsNamed() {
			continue
		}
		switch ch.Type() {
		case "get":
			kind = KindGetAccessor
		case "set":
			kind = KindSetAccessor
		}
	}
	n := l.function(kind, c)
	if n.Kind != KindGetAccessor && n.Kind != KindSetAccessor && n.NameText() == "constructor" {
		n.Kind = KindConstructor
		n.Name = nil
	}
	return n
}

func (l *lowerer) property(kind Kind, c *sitter.Node) *Node {
	n := l.node(kind, c)
	n.Name = l.propertyName(c.ChildByFieldName("name"))
	n.Type = l.typeAnnotation(c.ChildByFieldName("type"))
	n.Initializer = l.expression(c.ChildByFieldName("value"))
	l.modifiers(c, n)
	return n
}

func (l *lowerer) indexSignature(c *sitter.Node) *Node {
	n := l.node(KindIndexSignature, c)
	if name := c.ChildByFieldName("name"); name != nil {
		p := l.node(KindParameter, name)
		p.Name = l.ident(name)
		p.Type = l.typeNode(c.ChildByFieldName("index_type"))
		n.Parameters = []*Node{p}
	}
	n.Type = l.typeAnnotation(c.ChildByFieldName("type"))
	l.modifiers(c, n)
	return n
}

func (l *lowerer) interfaceDeclaration(c *sitter.Node) *Node {
	n := l.node(KindInterfaceDeclaration, c)
	n.Name = l.ident(c.ChildByFieldName("name"))
	n.TypeParameters = l.typeParameters(c.ChildByFieldName("type_parameters"))
	for _, ch := range namedChildren(c) {
		if ch.Type() == "extends_type_clause" || ch.Type() == "extends_clause" {
			h := l.node(KindHeritageClause, ch)
			h.Token = HeritageExtends
			h.Types = l.heritageTypes(ch)
			n.HeritageClauses = append(n.HeritageClauses, h)
		}
	}
	if body := c.ChildByFieldName("body"); body != nil {
		n.Members = l.typeMembers(body)
	}
	return n
}

func (l *lowerer) typeAlias(c *sitter.Node) *Node {
	n := l.node(KindTypeAliasDeclaration, c)
	n.Name = l.ident(c.ChildByFieldName("name"))
	n.TypeParameters = l.typeParameters(c.ChildByFieldName("type_parameters"))
	n.Type = l.typeNode(c.ChildByFieldName("value"))
	return n
}

func (l *lowerer) enum(c *sitter.Node) *Node {
	n := l.node(KindEnumDeclaration, c)
	n.Name = l.ident(c.ChildByFieldName("name"))
	for i := 0; i < int(c.ChildCount()); i++ {
		if c.Child(i).Type() == "const" {
			n.Flags |= ModifierConst
		}
	}

	body := c.ChildByFieldName("body")
	if body == nil {
		return n
	}
	pending := ""
	for _, m := range namedChildren(body) {
		member := l.node(KindEnumMember, m)
		switch m.Type() {
		case "comment":
			if text := l.text(m); isDocComment(text) {
				pending = text
			}
			continue
		case "enum_assignment":
			member.Name = l.propertyName(m.ChildByFieldName("name"))
			member.Initializer = l.expression(m.ChildByFieldName("value"))
		default:
			member.Name = l.propertyName(m)
		}
		member.Comment = pending
		pending = ""
		n.Members = append(n.Members, member)
	}
	return n
}

func (l *lowerer) module(c *sitter.Node) *Node {
	name := c.ChildByFieldName("name")
	body := c.ChildByFieldName("body")
	if name == nil {
		return nil
	}

	if name.Type() == "string" {
		n := l.node(KindModuleDeclaration, c)
		n.Flags |= FlagStringName
		n.Name = l.propertyName(name)
		n.Body = l.moduleBlock(body)
		return n
	}

	// namespace A.B.C {} nests one declaration per segment
	parts := strings.Split(strings.Join(strings.Fields(l.text(name)), ""), ".")
	outer := l.node(KindModuleDeclaration, c)
	cur := outer
	for i, part := range parts {
		cur.Name = &Node{Kind: KindIdentifier, Text: part, Pos: cur.Pos, End: cur.Pos, Line: cur.Line, Character: cur.Character}
		if i == len(parts)-1 {
			cur.Body = l.moduleBlock(body)
			break
		}
		block := l.node(KindModuleBlock, c)
		inner := l.node(KindModuleDeclaration, c)
		inner.Flags |= ModifierExport
		block.Statements = []*Node{inner}
		cur.Body = block
		cur = inner
	}
	return outer
}

func (l *lowerer) moduleBlock(c *sitter.Node) *Node {
	if c == nil {
		return nil
	}
	l.depth++
	defer func() { l.depth-- }()
	n := l.node(KindModuleBlock, c)
	n.Statements = l.statements(c, false)
	return n
}

func (l *lowerer) expression(c *sitter.Node) *Node {
	if c == nil {
		return nil
	}
	switch c.Type() {
	case "identifier", "property_identifier", "shorthand_property_identifier", "this", "super":
		return l.ident(c)
	case "undefined":
		n := l.node(KindIdentifier, c)
		n.Text = "undefined"
		return n
	case "string":
		n := l.node(KindStringLiteral, c)
		n.Text = unquote(l.text(c))
		return n
	case "template_string":
		n := l.node(KindTemplateExpression, c)
		n.Text = l.text(c)
		return n
	case "number":
		n := l.node(KindNumericLiteral, c)
		n.Text = l.text(c)
		return n
	case "true":
		return l.node(KindTrueKeyword, c)
	case "false":
		return l.node(KindFalseKeyword, c)
	case "null":
		return l.node(KindNullKeyword, c)
	case "object":
		return l.objectLiteral(c)
	case "array":
		n := l.node(KindArrayLiteralExpression, c)
		for _, e := range namedChildren(c) {
			if e.Type() == "comment" {
				continue
			}
			n.Elements = append(n.Elements, l.expression(e))
		}
		return n
	case "arrow_function":
		return l.function(KindArrowFunction, c)
	case "function_expression", "function", "generator_function":
		return l.function(KindFunctionExpression, c)
	case "class":
		return l.class(KindClassExpression, c)
	case "new_expression":
		n := l.node(KindNewExpression, c)
		n.Expression = l.expression(c.ChildByFieldName("constructor"))
		return n
	case "call_expression":
		n := l.node(KindCallExpression, c)
		n.Expression = l.expression(c.ChildByFieldName("function"))
		if args := c.ChildByFieldName("arguments"); args != nil {
			for _, arg := range namedChildren(args) {
				if arg.Type() != "comment" {
					n.Elements = append(n.Elements, l.expression(arg))
				}
			}
		}
		return n
	case "member_expression":
		n := l.node(KindPropertyAccessExpression, c)
		n.Expression = l.expression(c.ChildByFieldName("object"))
		n.Name = l.ident(c.ChildByFieldName("property"))
		return n
	case "unary_expression":
		n := l.node(KindPrefixUnaryExpression, c)
		if op := c.ChildByFieldName("operator"); op != nil {
			n.Text = l.text(op)
		}
		n.Expression = l.expression(c.ChildByFieldName("argument"))
		return n
	case "binary_expression":
		n := l.node(KindBinaryExpression, c)
		if op := c.ChildByFieldName("operator"); op != nil {
			n.Text = l.text(op)
		}
		n.Elements = []*Node{
			l.expression(c.ChildByFieldName("left")),
			l.expression(c.ChildByFieldName("right")),
		}
		return n
	case "parenthesized_expression":
		if inner := firstNamed(c); inner != nil {
			return l.expression(inner)
		}
	case "as_expression", "satisfies_expression":
		children := namedChildren(c)
		n := l.node(KindAsExpression, c)
		if len(children) > 0 {
			n.Expression = l.expression(children[0])
		}
		if len(children) > 1 {
			n.Type = l.typeNode(children[1])
		}
		return n
	}
	n := l.node(KindExpression, c)
	n.Text = l.text(c)
	return n
}

func (l *lowerer) objectLiteral(c *sitter.Node) *Node {
	n := l.node(KindObjectLiteralExpression, c)
	pending := ""
	for _, p := range namedChildren(c) {
		var m *Node
		switch p.Type() {
		case "comment":
			if text := l.text(p); isDocComment(text) {
				pending = text
			}
			continue
		case "pair":
			m = l.node(KindPropertyAssignment, p)
			m.Name = l.propertyName(p.ChildByFieldName("key"))
			m.Initializer = l.expression(p.ChildByFieldName("value"))
		case "shorthand_property_identifier":
			m = l.node(KindShorthandPropertyAssignment, p)
			m.Name = l.ident(p)
		case "method_definition":
			m = l.method(p, KindMethodDeclaration)
		default:
			pending = ""
			continue
		}
		m.Comment = pending
		pending = ""
		n.Members = append(n.Members, m)
	}
	return n
}

func (l *lowerer) typeAnnotation(c *sitter.Node) *Node {
	if c == nil {
		return nil
	}
	switch c.Type() {
	case "type_annotation", "omitting_type_annotation", "opting_type_annotation", "adding_type_annotation":
		return l.typeNode(firstNamed(c))
	}
	return l.typeNode(c)
}

func (l *lowerer) typeArguments(c *sitter.Node) []*Node {
	if c == nil {
		return nil
	}
	var out []*Node
	for _, t := range namedChildren(c) {
		if t.Type() == "comment" {
			continue
		}
		out = append(out, l.typeNode(t))
	}
	return out
}

func (l *lowerer) typeNode(c *sitter.Node) *Node {
	if c == nil {
		return nil
	}
	text := l.text(c)
	if m := importTypePattern.FindStringSubmatch(text); m != nil {
		n := l.node(KindImportType, c)
		n.ModuleSpecifier = m[1]
		n.Name = &Node{Kind: KindIdentifier, Text: m[2], Pos: n.Pos, End: n.End, Line: n.Line, Character: n.Character}
		l.file.ModuleReferences = append(l.file.ModuleReferences, m[1])
		return n
	}

	switch c.Type() {
	case "type_annotation", "omitting_type_annotation", "opting_type_annotation", "adding_type_annotation",
		"optional_type", "rest_type", "readonly_type":
		return l.typeNode(firstNamed(c))
	case "predefined_type":
		n := l.node(KindKeywordType, c)
		n.Text = strings.TrimSpace(text)
		return n
	case "type_identifier", "identifier", "nested_type_identifier":
		n := l.node(KindTypeReference, c)
		n.Name = l.ident(c)
		return n
	case "generic_type":
		n := l.node(KindTypeReference, c)
		n.Name = l.ident(c.ChildByFieldName("name"))
		n.TypeArguments = l.typeArguments(c.ChildByFieldName("type_arguments"))
		return n
	case "array_type":
		n := l.node(KindArrayType, c)
		n.Type = l.typeNode(firstNamed(c))
		return n
	case "tuple_type":
		n := l.node(KindTupleType, c)
		for _, e := range namedChildren(c) {
			switch e.Type() {
			case "comment":
				continue
			case "required_parameter", "optional_parameter", "tuple_parameter", "optional_tuple_parameter":
				n.Elements = append(n.Elements, l.typeAnnotation(e.ChildByFieldName("type")))
			default:
				n.Elements = append(n.Elements, l.typeNode(e))
			}
		}
		return n
	case "union_type", "intersection_type":
		kind := KindUnionType
		if c.Type() == "intersection_type" {
			kind = KindIntersectionType
		}
		n := l.node(kind, c)
		for _, e := range namedChildren(c) {
			if e.Type() == "comment" {
				continue
			}
			member := l.typeNode(e)
			if member != nil && member.Kind == kind {
				n.Types = append(n.Types, member.Types...)
			} else if member != nil {
				n.Types = append(n.Types, member)
			}
		}
		return n
	case "parenthesized_type":
		n := l.node(KindParenthesizedType, c)
		n.Type = l.typeNode(firstNamed(c))
		return n
	case "object_type":
		n := l.node(KindTypeLiteral, c)
		n.Members = l.typeMembers(c)
		return n
	case "function_type":
		return l.function(KindFunctionType, c)
	case "constructor_type":
		return l.function(KindConstructorType, c)
	case "literal_type":
		n := l.node(KindLiteralType, c)
		if inner := firstNamed(c); inner != nil {
			n.Expression = l.expression(inner)
		}
		return n
	case "type_query":
		n := l.node(KindTypeQuery, c)
		if inner := firstNamed(c); inner != nil {
			n.Expression = l.expression(inner)
		}
		return n
	case "this_type":
		return l.node(KindThisType, c)
	}
	n := l.node(KindOtherType, c)
	n.Text = text
	return n
}

func (l *lowerer) collectErrors(root *sitter.Node) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		p := n.StartPoint()
		switch {
		case n.IsMissing():
			l.file.ParseErrors = append(l.file.ParseErrors, ParseError{
				Pos:       int(n.StartByte()),
				Line:      int(p.Row),
				Character: int(p.Column),
				Message:   "'" + n.Type() + "' expected.",
			})
			return
		case n.Type() == "ERROR":
			l.file.ParseErrors = append(l.file.ParseErrors, ParseError{
				Pos:       int(n.StartByte()),
				Line:      int(p.Row),
				Character: int(p.Column),
				Message:   "Declaration or statement expected.",
			})
			return
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
}
