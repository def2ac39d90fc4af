// Package ir defines the module intermediate representation consumed by
// the generator backends.
//
// The IR is produced by the external annotation parser, delivered as
// JSON (see decode.go), validated once (see validate.go), and then read
// by every emitter without modification. Nothing in this package
// performs I/O and no value survives past a single generation or check
// pass.
//
// TypeNode and TypeRef are closed sum types: every consumer switches
// exhaustively over the fixed variant set. They are deliberately not an
// open extension point.
package ir

// Module is the unit of generation: one annotated source module.
//
// All sequences preserve producer order. Emitted output ordering must
// derive from these slices, never from map iteration.
type Module struct {
	// Name is the module name, used for artifact file naming.
	Name string

	// Types are the exported type declarations, in source order.
	Types []TypeNode

	// Functions are the exported functions, in source order.
	Functions []Function

	// Packages are the external package names the module source needs
	// at runtime. The list is installed verbatim: no deduplication, no
	// dependency resolution. That is the producer's responsibility.
	Packages []string
}

// TypeNode is a declared type: either a Record or a LiteralAlias.
// Both variants share one namespace; names must be unique module-wide.
type TypeNode interface {
	// TypeName returns the declared name of the type.
	TypeName() string

	typeNode()
}

// Record is a structural type with an ordered field list.
type Record struct {
	Name string

	// Total is the record-level default requiredness of its fields.
	// When false, every field renders optional regardless of its own
	// Required flag.
	Total bool

	Fields []Field
}

// LiteralAlias is a named type whose legal values are a fixed
// enumeration of constants.
type LiteralAlias struct {
	Name   string
	Values []LiteralValue
}

func (r Record) TypeName() string       { return r.Name }
func (a LiteralAlias) TypeName() string { return a.Name }

func (Record) typeNode()       {}
func (LiteralAlias) typeNode() {}

// Field is one named, typed member of a Record.
type Field struct {
	Name string
	Type TypeRef

	// Required is the field-level override. It only has effect inside
	// a total record: a partial record renders every field optional.
	Required bool
}

// Function is one exported function. Param order is call-signature
// order and is preserved verbatim in every artifact.
type Function struct {
	Name   string
	Params []Param
	Return TypeRef
}

// Param is one named function parameter.
type Param struct {
	Name string
	Type TypeRef
}

// TypeRef is a reference to a type: a closed sum over Primitive, List,
// Dict, Optional, Literal and Reference.
type TypeRef interface {
	typeRef()
}

// PrimitiveName enumerates the wire names of primitive types.
type PrimitiveName string

// Wire names of the primitive types.
const (
	PrimInt   PrimitiveName = "int"
	PrimFloat PrimitiveName = "float"
	PrimStr   PrimitiveName = "str"
	PrimBool  PrimitiveName = "bool"
	PrimNone  PrimitiveName = "none"
)

// Primitive is a builtin scalar type.
type Primitive struct {
	Name PrimitiveName
}

// List is an ordered sequence of one element type.
type List struct {
	Element TypeRef
}

// Dict is a key-value mapping.
type Dict struct {
	Key   TypeRef
	Value TypeRef
}

// Optional marks a type as possibly absent.
type Optional struct {
	Inner TypeRef
}

// Literal is an inline value-set type, distinct from a named
// LiteralAlias.
type Literal struct {
	Values []LiteralValue
}

// Reference is a bare name pointing at a TypeNode declared in the same
// module. Resolution is validated module-wide before emission; the
// emitters assume it is valid.
type Reference struct {
	Name string
}

func (Primitive) typeRef() {}
func (List) typeRef()      {}
func (Dict) typeRef()      {}
func (Optional) typeRef()  {}
func (Literal) typeRef()   {}
func (Reference) typeRef() {}

// LiteralValue is one constant in a literal value set: a string, a
// number or a boolean.
type LiteralValue interface {
	literalValue()
}

// StringValue is a string literal constant.
type StringValue string

// NumberValue is a numeric literal constant.
type NumberValue float64

// BoolValue is a boolean literal constant.
type BoolValue bool

func (StringValue) literalValue() {}
func (NumberValue) literalValue() {}
func (BoolValue) literalValue()   {}
