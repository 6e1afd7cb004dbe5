// Package moveast defines the Target abstract syntax tree: modules,
// structs, functions, statements, and expressions in the resource-oriented
// module language produced by this compiler (spec.md §3 "Target AST").
// Expression nodes carry an InferredType field filled in by the expression
// transformer (internal/xform); the printer consults it only to place
// casts and lower bitwise-not (spec.md §3).
package moveast

// Ability is one of Target's four struct abilities.
type Ability int

const (
	AbilityCopy Ability = iota
	AbilityDrop
	AbilityStore
	AbilityKey
)

func (a Ability) String() string {
	switch a {
	case AbilityCopy:
		return "copy"
	case AbilityDrop:
		return "drop"
	case AbilityStore:
		return "store"
	case AbilityKey:
		return "key"
	default:
		return "?"
	}
}

// Type is the closed set of Target type variants.
type Type interface {
	moveType()
	String() string
}

type PrimType struct{ Name string } // "u8", "u16", ..., "u256", "bool", "address"

func (PrimType) moveType()       {}
func (p PrimType) String() string { return p.Name }

type VectorType struct{ Elem Type }

func (VectorType) moveType()        {}
func (v VectorType) String() string { return "vector<" + v.Elem.String() + ">" }

type TableType struct{ Key, Value Type }

func (TableType) moveType() {}
func (t TableType) String() string {
	return "table::Table<" + t.Key.String() + ", " + t.Value.String() + ">"
}

type StructType struct{ Name string }

func (StructType) moveType()       {}
func (s StructType) String() string { return s.Name }

type SignerType struct{}

func (SignerType) moveType()       {}
func (SignerType) String() string { return "signer" }

type RefType struct {
	Mutable bool
	Elem    Type
}

func (RefType) moveType() {}
func (r RefType) String() string {
	if r.Mutable {
		return "&mut " + r.Elem.String()
	}
	return "&" + r.Elem.String()
}

// StructField is one field of a struct declaration.
type StructField struct {
	Name string
	Type Type
}

// Struct is a Target struct declaration.
type Struct struct {
	Name      string
	Abilities []Ability
	Fields    []StructField
	// Key, when non-empty, names the map key space this struct is stored
	// under as a module-global resource; empty for per-user resources,
	// which are instead stored at the user's own address (spec.md §4.C
	// "high" optimization level).
	Key string
}

// Visibility is a Target function visibility.
type Visibility int

const (
	VisPublic Visibility = iota
	VisFriend
	VisPackage
	VisPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisFriend:
		return "public(friend)"
	case VisPackage:
		return "public(package)"
	default:
		return ""
	}
}

// Param is a function parameter.
type Param struct {
	Name string
	Type Type
}

// Function is a Target function declaration.
type Function struct {
	Name       string
	Visibility Visibility
	IsEntry    bool
	IsView     bool
	IsInline   bool
	Acquires   []string // resource group struct names
	Params     []Param
	Returns    []Type
	Body       []Stmt
}

// Const is a module-level constant.
type Const struct {
	Name  string
	Type  Type
	Value string
}

// Enum is a Target enum declaration (Move v2).
type Enum struct {
	Name     string
	Variants []string
}

// Use is a `use` declaration importing another module.
type Use struct {
	Address string
	Module  string
	Alias   string
}

// Module is a single emitted Target module.
type Module struct {
	Address   string
	Name      string
	Uses      []Use
	Consts    []Const
	Structs   []Struct
	Enums     []Enum
	Functions []Function
	// Specs holds optional specification blocks for this module (spec.md
	// §4.F), populated only when generate-specs is enabled.
	Specs []SpecBlock
}

// Stmt is the closed set of Target statement variants.
type Stmt interface {
	moveStmt()
}

type LetStmt struct {
	Name  string
	Type  Type // optional, nil when inferred
	Value Expr
}

func (LetStmt) moveStmt() {}

type AssignStmt struct {
	Target Expr
	Value  Expr
}

func (AssignStmt) moveStmt() {}

type ExprStmt struct{ Expr Expr }

func (ExprStmt) moveStmt() {}

type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (IfStmt) moveStmt() {}

type LoopStmt struct {
	Cond Expr // nil for an unconditional `loop`, paired with a Break inside Body
	Body []Stmt
}

func (LoopStmt) moveStmt() {}

type BreakStmt struct{}

func (BreakStmt) moveStmt() {}

type ContinueStmt struct{}

func (ContinueStmt) moveStmt() {}

type ReturnStmt struct{ Values []Expr }

func (ReturnStmt) moveStmt() {}

type AbortStmt struct {
	Code Expr
}

func (AbortStmt) moveStmt() {}

// Expr is the closed set of Target expression variants. Every variant
// embeds ExprHeader so the printer can read InferredType without a type
// switch on every call site.
type Expr interface {
	moveExpr()
	Header() *ExprHeader
}

// ExprHeader carries the inferred-type annotation described in spec.md
// §3 ("Target AST"): filled in by internal/xform as it constructs each
// node, consulted by internal/printer only for cast placement and
// bitwise-not lowering.
type ExprHeader struct {
	InferredType Type
}

func (h *ExprHeader) Header() *ExprHeader { return h }

type Ident struct {
	ExprHeader
	Name string
}

func (*Ident) moveExpr() {}

type IntLit struct {
	ExprHeader
	Value string // decimal digit string, already normalized (spec.md §4.G)
	Suffix string // "", "u8", "u64", ... — present when the literal carries an explicit type suffix
}

func (*IntLit) moveExpr() {}

type BoolLit struct {
	ExprHeader
	Value bool
}

func (*BoolLit) moveExpr() {}

type AddressLit struct {
	ExprHeader
	Value string
}

func (*AddressLit) moveExpr() {}

type BinExpr struct {
	ExprHeader
	Op          string
	Left, Right Expr
}

func (*BinExpr) moveExpr() {}

type UnaryExpr struct {
	ExprHeader
	Op      string
	Operand Expr
}

func (*UnaryExpr) moveExpr() {}

// CastExpr is `(Value as To)`. internal/xform collapses `(x as T) as T`
// to `(x as T)` per spec.md §4.D.3, but only when the two target types
// are textually identical; it never collapses across differing widths.
// The printer only drops a cast whose value is an integer literal that
// already carries the target suffix.
type CastExpr struct {
	ExprHeader
	Value Expr
	To    Type
}

func (*CastExpr) moveExpr() {}

// Call is either a module-qualified call (`Module::f(args)`) or — after
// the printer's receiver-style rewrite — a receiver call; the AST always
// holds the module-qualified form, and internal/printer performs the
// textual rewrite for call-style=receiver (spec.md §4.G).
type Call struct {
	ExprHeader
	Module string // empty for a call to a function in the same module
	Func   string
	Args   []Expr
}

func (*Call) moveExpr() {}

// Borrow is `borrow_global[_mut]<T>(addr)` or, for collections, the
// generic `table::borrow[_mut](&t, k)` / `vector::borrow[_mut](&v, i)`
// shape — all represented uniformly and distinguished by Kind.
type BorrowKind int

const (
	BorrowGlobal BorrowKind = iota
	BorrowTable
	BorrowVector
)

type Borrow struct {
	ExprHeader
	Kind    BorrowKind
	Mutable bool
	Type    string  // the `<T>` type argument, for BorrowGlobal
	Base    Expr    // the table/vector reference, for BorrowTable/BorrowVector; the address, for BorrowGlobal
	Key     Expr    // the key/index; nil for BorrowGlobal
}

func (*Borrow) moveExpr() {}

// Deref is `*e`.
type Deref struct {
	ExprHeader
	Value Expr
}

func (*Deref) moveExpr() {}

// Ref is an explicit `&e` / `&mut e` reference-of operator, used where a
// standard-library call argument needs a reference that printing the
// operand alone would not produce (e.g. `table::upsert(&mut t, k, v)`).
// Unlike Borrow, which represents the already-dereferencing result of a
// borrow_global/borrow/borrow_mut call, Ref just takes the address of an
// existing place.
type Ref struct {
	ExprHeader
	Mutable bool
	Value   Expr
}

func (*Ref) moveExpr() {}

// FieldAccess is `e.field`, parenthesizing the base when it is itself a
// Deref of a call result (spec.md §4.D.8).
type FieldAccess struct {
	ExprHeader
	Base  Expr
	Field string
}

func (*FieldAccess) moveExpr() {}

type StructLit struct {
	ExprHeader
	Struct string
	Fields []FieldInit
}

type FieldInit struct {
	Name  string
	Value Expr
}

func (*StructLit) moveExpr() {}

// Unsupported is an in-place `/* unsupported */` marker (spec.md §4.D.9).
type Unsupported struct {
	ExprHeader
	Pattern string
}

func (*Unsupported) moveExpr() {}

// SpecBlock is a pre/post/abort/invariant block (spec.md §3 "Specification
// Block").
type SpecBlock struct {
	Target string // module, function, or struct name this block targets
	Kind   SpecKind
	Pragmas      []string
	Preconditions  []string
	Postconditions []string
	AbortsIf       []AbortsIf
	Modifies       []string
	Invariants     []string
}

type SpecKind int

const (
	SpecModule SpecKind = iota
	SpecFunction
	SpecStruct
)

// AbortsIf is one `aborts_if <cond> [with <code>]` clause.
type AbortsIf struct {
	Cond string
	Code string // empty when no explicit code
}
