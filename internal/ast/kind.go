package ast

// Kind is the syntax kind of a lowered node.
type Kind int

const (
	KindUnknown Kind = iota
	KindSourceFile

	// declarations and statements
	KindVariableStatement
	KindVariableDeclaration
	KindFunctionDeclaration
	KindClassDeclaration
	KindClassExpression
	KindInterfaceDeclaration
	KindTypeAliasDeclaration
	KindEnumDeclaration
	KindEnumMember
	KindModuleDeclaration
	KindModuleBlock
	KindImportDeclaration
	KindImportSpecifier
	KindNamespaceImport
	KindExportDeclaration
	KindExportSpecifier
	KindExportAssignment
	KindHeritageClause
	KindExpressionWithTypeArguments
	KindDecorator

	// class and interface members
	KindConstructor
	KindMethodDeclaration
	KindMethodSignature
	KindPropertyDeclaration
	KindPropertySignature
	KindGetAccessor
	KindSetAccessor
	KindCallSignature
	KindConstructSignature
	KindIndexSignature
	KindParameter
	KindTypeParameter

	// binding patterns
	KindObjectBindingPattern
	KindArrayBindingPattern
	KindBindingElement

	// expressions
	KindIdentifier
	KindStringLiteral
	KindNumericLiteral
	KindTemplateExpression
	KindTrueKeyword
	KindFalseKeyword
	KindNullKeyword
	KindObjectLiteralExpression
	KindPropertyAssignment
	KindShorthandPropertyAssignment
	KindArrayLiteralExpression
	KindArrowFunction
	KindFunctionExpression
	KindNewExpression
	KindCallExpression
	KindPropertyAccessExpression
	KindPrefixUnaryExpression
	KindBinaryExpression
	KindAsExpression
	KindBlock
	KindExpression

	// type nodes
	KindKeywordType
	KindTypeReference
	KindArrayType
	KindTupleType
	KindUnionType
	KindIntersectionType
	KindParenthesizedType
	KindTypeLiteral
	KindFunctionType
	KindConstructorType
	KindLiteralType
	KindTypeQuery
	KindImportType
	KindThisType
	KindOtherType
)

var kindNames = [...]string{
	KindUnknown:                     "Unknown",
	KindSourceFile:                  "SourceFile",
	KindVariableStatement:           "VariableStatement",
	KindVariableDeclaration:         "VariableDeclaration",
	KindFunctionDeclaration:         "FunctionDeclaration",
	KindClassDeclaration:            "ClassDeclaration",
	KindClassExpression:             "ClassExpression",
	KindInterfaceDeclaration:        "InterfaceDeclaration",
	KindTypeAliasDeclaration:        "TypeAliasDeclaration",
	KindEnumDeclaration:             "EnumDeclaration",
	KindEnumMember:                  "EnumMember",
	KindModuleDeclaration:           "ModuleDeclaration",
	KindModuleBlock:                 "ModuleBlock",
	KindImportDeclaration:           "ImportDeclaration",
	KindImportSpecifier:             "ImportSpecifier",
	KindNamespaceImport:             "NamespaceImport",
	KindExportDeclaration:           "ExportDeclaration",
	KindExportSpecifier:             "ExportSpecifier",
	KindExportAssignment:            "ExportAssignment",
	KindHeritageClause:              "HeritageClause",
	KindExpressionWithTypeArguments: "ExpressionWithTypeArguments",
	KindDecorator:                   "Decorator",
	KindConstructor:                 "Constructor",
	KindMethodDeclaration:           "MethodDeclaration",
	KindMethodSignature:             "MethodSignature",
	KindPropertyDeclaration:         "PropertyDeclaration",
	KindPropertySignature:           "PropertySignature",
	KindGetAccessor:                 "GetAccessor",
	KindSetAccessor:                 "SetAccessor",
	KindCallSignature:               "CallSignature",
	KindConstructSignature:          "ConstructSignature",
	KindIndexSignature:              "IndexSignature",
	KindParameter:                   "Parameter",
	KindTypeParameter:               "TypeParameter",
	KindObjectBindingPattern:        "ObjectBindingPattern",
	KindArrayBindingPattern:         "ArrayBindingPattern",
	KindBindingElement:              "BindingElement",
	KindIdentifier:                  "Identifier",
	KindStringLiteral:               "StringLiteral",
	KindNumericLiteral:              "NumericLiteral",
	KindTemplateExpression:          "TemplateExpression",
	KindTrueKeyword:                 "TrueKeyword",
	KindFalseKeyword:                "FalseKeyword",
	KindNullKeyword:                 "NullKeyword",
	KindObjectLiteralExpression:     "ObjectLiteralExpression",
	KindPropertyAssignment:          "PropertyAssignment",
	KindShorthandPropertyAssignment: "ShorthandPropertyAssignment",
	KindArrayLiteralExpression:      "ArrayLiteralExpression",
	KindArrowFunction:               "ArrowFunction",
	KindFunctionExpression:          "FunctionExpression",
	KindNewExpression:               "NewExpression",
	KindCallExpression:              "CallExpression",
	KindPropertyAccessExpression:    "PropertyAccessExpression",
	KindPrefixUnaryExpression:       "PrefixUnaryExpression",
	KindBinaryExpression:            "BinaryExpression",
	KindAsExpression:                "AsExpression",
	KindBlock:                       "Block",
	KindExpression:                  "Expression",
	KindKeywordType:                 "KeywordType",
	KindTypeReference:               "TypeReference",
	KindArrayType:                   "ArrayType",
	KindTupleType:                   "TupleType",
	KindUnionType:                   "UnionType",
	KindIntersectionType:            "IntersectionType",
	KindParenthesizedType:           "ParenthesizedType",
	KindTypeLiteral:                 "TypeLiteral",
	KindFunctionType:                "FunctionType",
	KindConstructorType:             "ConstructorType",
	KindLiteralType:                 "LiteralType",
	KindTypeQuery:                   "TypeQuery",
	KindImportType:                  "ImportType",
	KindThisType:                    "ThisType",
	KindOtherType:                   "OtherType",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsTypeNode reports whether k is a type node kind.
func (k Kind) IsTypeNode() bool {
	return k >= KindKeywordType && k <= KindOtherType
}

// IsFunctionLike reports kinds that carry parameters and a return type.
func (k Kind) IsFunctionLike() bool {
	switch k {
	case KindFunctionDeclaration, KindMethodDeclaration, KindMethodSignature, KindConstructor,
		KindGetAccessor, KindSetAccessor, KindCallSignature, KindConstructSignature,
		KindIndexSignature, KindArrowFunction, KindFunctionExpression, KindFunctionType,
		KindConstructorType:
		return true
	}
	return false
}

// ModifierFlags are the modifiers and syntactic markers on a node.
type ModifierFlags int

const (
	ModifierExport ModifierFlags = 1 << iota
	ModifierDefault
	ModifierDeclare
	ModifierPrivate
	ModifierProtected
	ModifierPublic
	ModifierStatic
	ModifierAbstract
	ModifierReadonly
	ModifierAsync
	ModifierConst
	ModifierLet
	// FlagOptional marks a question token.
	FlagOptional
	// FlagRest marks a ... token.
	FlagRest
	// FlagExportEquals marks export = x.
	FlagExportEquals
	// FlagExportStar marks export * from "x".
	FlagExportStar
	// FlagStringName marks module declarations named by a string literal.
	FlagStringName
)

// AccessibilityModifiers groups the visibility keywords.
const AccessibilityModifiers = ModifierPrivate | ModifierProtected | ModifierPublic

// HeritageToken distinguishes extends from implements clauses.
type HeritageToken int

const (
	HeritageExtends HeritageToken = iota + 1
	HeritageImplements
)
