// Package symbols builds a searchable catalogue of Rust declarations
// extracted from a project's source tree.
package symbols

// Kind classifies an indexed declaration. The set is closed: extraction
// switches exhaustively over it, so adding a kind is a compile-time change.
type Kind int

const (
	KindFunction Kind = iota
	KindModule
	KindEnum
	KindTrait
	KindStruct
	KindUnion
	KindTypeAlias
	KindConst
	KindStatic
	KindMacro
	KindUse
	KindImpl
)

var kindNames = map[Kind]string{
	KindFunction:  "function",
	KindModule:    "module",
	KindEnum:      "enum",
	KindTrait:     "trait",
	KindStruct:    "struct",
	KindUnion:     "union",
	KindTypeAlias: "type",
	KindConst:     "const",
	KindStatic:    "static",
	KindMacro:     "macro",
	KindUse:       "use",
	KindImpl:      "impl",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Record is one indexed declaration. Line and Column are 1-based and point
// at the declaration's defining token: the signature start for functions,
// the identifier for named types, the item start for verbatim kinds.
// Signature is the one-line rendered label used both for matching and
// display; it is never empty (missing source text renders a placeholder).
type Record struct {
	File      string
	Line      int
	Column    int
	Signature string
	Kind      Kind
}

// Index is the complete ordered collection of records for a project:
// file discovery order, then pre-order declaration order within a file.
// It is built once per session and read-only afterwards.
type Index struct {
	records []Record
}

// NewIndex wraps the given records. The slice is owned by the index after
// the call.
func NewIndex(records []Record) *Index {
	return &Index{records: records}
}

// Len returns the number of records.
func (ix *Index) Len() int {
	return len(ix.records)
}

// At returns the record at position i in insertion order.
func (ix *Index) At(i int) Record {
	return ix.records[i]
}

// Records returns the underlying ordered records. Callers must not modify
// the returned slice.
func (ix *Index) Records() []Record {
	return ix.records
}
