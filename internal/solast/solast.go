// Package solast defines the Source abstract syntax tree: the read-only
// input contract the rest of this repository consumes. Nodes are produced
// by an external parser (see internal/external.SourceParser) and are never
// mutated once handed to the lifter.
package solast

import "fmt"

// Pos is a position in a Source file.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

// Node is the base interface every Source AST node implements.
type Node interface {
	Position() Pos
}

// ContractKind distinguishes contract, interface, and library declarations.
type ContractKind int

const (
	KindContract ContractKind = iota
	KindInterface
	KindLibrary
)

func (k ContractKind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindInterface:
		return "interface"
	case KindLibrary:
		return "library"
	default:
		return "unknown"
	}
}

// Mutability describes a function's state-mutability annotation.
type Mutability int

const (
	MutPure Mutability = iota
	MutView
	MutNonpayable
	MutPayable
)

// VarMutability describes a state variable's mutability.
type VarMutability int

const (
	VarMutable VarMutability = iota
	VarConstant
	VarImmutable
)

// Visibility is a Source declaration visibility.
type Visibility int

const (
	VisPublic Visibility = iota
	VisExternal
	VisInternal
	VisPrivate
)

// File is a single parsed Source compilation unit.
type File struct {
	Path      string
	Contracts []*Contract
	Pos       Pos
}

func (f *File) Position() Pos { return f.Pos }

// Contract is a Source contract, interface, or library declaration.
type Contract struct {
	Name    string
	Kind    ContractKind
	Bases   []string // names of directly-declared base contracts, in declaration order
	Members []Member
	Pos     Pos
}

func (c *Contract) Position() Pos { return c.Pos }

// Member is anything that can appear in a contract body.
type Member interface {
	Node
	memberNode()
}

// StateVar is a state variable declaration.
type StateVar struct {
	Name       string
	Type       TypeName
	Mutability VarMutability
	Visibility Visibility
	Initial    Expr // optional
	Pos        Pos
}

func (s *StateVar) Position() Pos { return s.Pos }
func (s *StateVar) memberNode()   {}

// Param is a function parameter or return value.
type Param struct {
	Name string
	Type TypeName
	Pos  Pos
}

// FuncDecl is a function, constructor, or fallback/receive declaration.
type FuncDecl struct {
	Name          string // empty for the constructor
	Visibility    Visibility
	Mutability    Mutability
	Modifiers     []ModifierInvocation
	Params        []*Param
	Returns       []*Param
	Body          []Stmt // nil for an interface/abstract function
	IsConstructor bool
	Pos           Pos
}

func (f *FuncDecl) Position() Pos { return f.Pos }
func (f *FuncDecl) memberNode()   {}

// ModifierInvocation is a reference to a modifier applied to a function,
// with the arguments (if any) passed at the call site.
type ModifierInvocation struct {
	Name string
	Args []Expr
	Pos  Pos
}

// ModifierDecl is a modifier declaration. The body contains exactly one
// Placeholder statement marking where the wrapped function's body is
// inlined.
type ModifierDecl struct {
	Name   string
	Params []*Param
	Body   []Stmt
	Pos    Pos
}

func (m *ModifierDecl) Position() Pos { return m.Pos }
func (m *ModifierDecl) memberNode()   {}

// EventDecl is an event declaration.
type EventDecl struct {
	Name   string
	Params []*Param
	Pos    Pos
}

func (e *EventDecl) Position() Pos { return e.Pos }
func (e *EventDecl) memberNode()   {}

// ErrorDecl is a custom-error declaration (Source `error Foo(uint x);`).
type ErrorDecl struct {
	Name   string
	Params []*Param
	Pos    Pos
}

func (e *ErrorDecl) Position() Pos { return e.Pos }
func (e *ErrorDecl) memberNode()   {}

// TypeName is the base interface for Source type expressions.
type TypeName interface {
	Node
	typeNameNode()
	String() string
}

// ElementaryType is a built-in scalar type: uintN, int, address, bool,
// bytesN, string.
type ElementaryType struct {
	Name string // e.g. "uint256", "address", "bool"
	Pos  Pos
}

func (e *ElementaryType) Position() Pos  { return e.Pos }
func (e *ElementaryType) typeNameNode()   {}
func (e *ElementaryType) String() string  { return e.Name }

// MappingType is `mapping(KeyType => ValueType)`.
type MappingType struct {
	Key   TypeName
	Value TypeName
	Pos   Pos
}

func (m *MappingType) Position() Pos  { return m.Pos }
func (m *MappingType) typeNameNode()   {}
func (m *MappingType) String() string { return fmt.Sprintf("mapping(%s => %s)", m.Key, m.Value) }

// ArrayType is `T[]` or `T[N]`.
type ArrayType struct {
	Element TypeName
	Length  Expr // nil for dynamic arrays
	Pos     Pos
}

func (a *ArrayType) Position() Pos { return a.Pos }
func (a *ArrayType) typeNameNode()  {}
func (a *ArrayType) String() string { return fmt.Sprintf("%s[]", a.Element) }

// UserType references a struct, enum, or contract/interface name.
type UserType struct {
	Name string
	Pos  Pos
}

func (u *UserType) Position() Pos  { return u.Pos }
func (u *UserType) typeNameNode()   {}
func (u *UserType) String() string { return u.Name }

// StructDecl is a struct type declaration.
type StructDecl struct {
	Name   string
	Fields []*Param
	Pos    Pos
}

func (s *StructDecl) Position() Pos { return s.Pos }
func (s *StructDecl) memberNode()   {}

// EnumDecl is an enum type declaration.
type EnumDecl struct {
	Name    string
	Members []string
	Pos     Pos
}

func (e *EnumDecl) Position() Pos { return e.Pos }
func (e *EnumDecl) memberNode()   {}

// Stmt is the base interface for Source statements.
type Stmt interface {
	Node
	stmtNode()
}

// ExprStmt wraps a bare expression statement.
type ExprStmt struct {
	Expr Expr
	Pos  Pos
}

func (s *ExprStmt) Position() Pos { return s.Pos }
func (s *ExprStmt) stmtNode()     {}

// VarDeclStmt declares one or more local variables, optionally with an
// initializer. Multi-target declarations (`(uint a, uint b) = f();`) use
// len(Names) > 1.
type VarDeclStmt struct {
	Names []string
	Types []TypeName // parallel to Names; an entry may be nil (inferred)
	Value Expr       // optional
	Pos   Pos
}

func (s *VarDeclStmt) Position() Pos { return s.Pos }
func (s *VarDeclStmt) stmtNode()     {}

// Assign is an assignment statement, including compound assignment
// operators (`+=`, `-=`, etc).
type Assign struct {
	Target Expr
	Op     string // "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^="
	Value  Expr
	Pos    Pos
}

func (s *Assign) Position() Pos { return s.Pos }
func (s *Assign) stmtNode()     {}

// If is a conditional statement.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // may be nil
	Pos  Pos
}

func (s *If) Position() Pos { return s.Pos }
func (s *If) stmtNode()     {}

// For is a C-style for loop.
type For struct {
	Init Stmt // optional
	Cond Expr // optional
	Post Stmt // optional
	Body []Stmt
	Pos  Pos
}

func (s *For) Position() Pos { return s.Pos }
func (s *For) stmtNode()     {}

// While is a while loop.
type While struct {
	Cond Expr
	Body []Stmt
	Pos  Pos
}

func (s *While) Position() Pos { return s.Pos }
func (s *While) stmtNode()     {}

// Return is a return statement, with zero, one, or multiple values.
type Return struct {
	Values []Expr
	Pos    Pos
}

func (s *Return) Position() Pos { return s.Pos }
func (s *Return) stmtNode()     {}

// Require is `require(cond, "message")` or `require(cond)`.
type Require struct {
	Cond    Expr
	Message string // empty if not provided
	Pos     Pos
}

func (s *Require) Position() Pos { return s.Pos }
func (s *Require) stmtNode()     {}

// Revert is `revert("message")` or `revert CustomError(args)`.
type Revert struct {
	Message     string // set when reverting with a plain string
	CustomError string // set when reverting with a custom error constructor
	Args        []Expr
	Pos         Pos
}

func (s *Revert) Position() Pos { return s.Pos }
func (s *Revert) stmtNode()     {}

// Emit is `emit EventName(args);`.
type Emit struct {
	Event string
	Args  []Expr
	Pos   Pos
}

func (s *Emit) Position() Pos { return s.Pos }
func (s *Emit) stmtNode()     {}

// Placeholder is the modifier-body `_;` marker.
type Placeholder struct {
	Pos Pos
}

func (s *Placeholder) Position() Pos { return s.Pos }
func (s *Placeholder) stmtNode()     {}

// Block groups a nested list of statements (e.g. an unlabeled `{ ... }`).
type Block struct {
	Body []Stmt
	Pos  Pos
}

func (s *Block) Position() Pos { return s.Pos }
func (s *Block) stmtNode()     {}

// InlineAssembly marks a Yul inline-assembly block. The core never
// interprets its contents; spec.md §1 requires only an unsupported marker.
type InlineAssembly struct {
	Raw string
	Pos Pos
}

func (s *InlineAssembly) Position() Pos { return s.Pos }
func (s *InlineAssembly) stmtNode()     {}

// Expr is the base interface for Source expressions.
type Expr interface {
	Node
	exprNode()
	// EvaluatedType is the type the external parser/checker assigned this
	// expression, if known. May be nil.
	EvaluatedType() TypeName
}

type exprBase struct {
	Pos  Pos
	Type TypeName
}

func (e exprBase) Position() Pos           { return e.Pos }
func (e exprBase) EvaluatedType() TypeName { return e.Type }

// Ident is an identifier reference (variable, state var, function, constant).
type Ident struct {
	exprBase
	Name string
}

func (i *Ident) exprNode() {}

// Literal is a literal value.
type Literal struct {
	exprBase
	Kind  LiteralKind
	Value string // textual form, as written (e.g. "1e3", "0xFF", "\"hi\"")
}

type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	StringLiteral
	BoolLiteral
	AddressLiteral
)

func (l *Literal) exprNode() {}

// BinaryExpr is a binary operator expression.
type BinaryExpr struct {
	exprBase
	Op    string
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) exprNode() {}

// UnaryExpr is a unary operator expression, including bitwise-not (`~`).
type UnaryExpr struct {
	exprBase
	Op      string
	Operand Expr
	Postfix bool // true for x++ / x--
}

func (u *UnaryExpr) exprNode() {}

// CastExpr is an explicit cast to a target type, `T(x)`.
type CastExpr struct {
	exprBase
	ToType TypeName
	Value  Expr
}

func (c *CastExpr) exprNode() {}

// IndexExpr is a mapping/array index: `base[key]`.
type IndexExpr struct {
	exprBase
	Base Expr
	Key  Expr
}

func (i *IndexExpr) exprNode() {}

// MemberExpr is field/member access: `base.field`.
type MemberExpr struct {
	exprBase
	Base  Expr
	Field string
}

func (m *MemberExpr) exprNode() {}

// CallExpr is a function call, `callee(args...)`.
type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
	// DynamicDispatch is true when the callee's concrete target cannot be
	// statically determined (e.g. a low-level call through an interface
	// variable whose concrete implementation is chosen at runtime).
	DynamicDispatch bool
}

func (c *CallExpr) exprNode() {}

// NewExpr is `new T(args...)`.
type NewExpr struct {
	exprBase
	Type TypeName
	Args []Expr
}

func (n *NewExpr) exprNode() {}

// TupleExpr is a parenthesized multi-value expression, used for
// destructuring multi-return calls.
type TupleExpr struct {
	exprBase
	Elements []Expr
}

func (t *TupleExpr) exprNode() {}

// Conditional is the ternary `cond ? a : b`.
type Conditional struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

func (c *Conditional) exprNode() {}
