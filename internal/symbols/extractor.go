package symbols

import (
	"errors"
	"fmt"
	"os"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// ErrParse marks a file whose syntax tree contains errors. The file is
// skipped as a whole; extraction of other files continues.
var ErrParse = errors.New("parse error")

// missingSource is rendered when an item has no recoverable source text,
// so a record's signature is never empty.
const missingSource = "MISSING SOURCE TEXT"

// Extractor parses Rust files and yields symbol records.
type Extractor struct {
	language *sitter.Language
}

// NewExtractor creates an extractor backed by the tree-sitter Rust grammar.
func NewExtractor() *Extractor {
	return &Extractor{language: sitter.NewLanguage(rust.Language())}
}

// ExtractFile reads and extracts one file. I/O errors and parse errors are
// returned; the caller decides whether they abort the whole build.
func (e *Extractor) ExtractFile(filePath string) ([]Record, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	return e.Extract(filePath, source)
}

// Extract parses source and returns its records in pre-order declaration
// order, parents before children for inline modules.
func (e *Extractor) Extract(filePath string, source []byte) ([]Record, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(e.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, filePath)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: %s", ErrParse, filePath)
	}

	var records []Record
	e.extractItems(root, source, filePath, &records)
	return records, nil
}

// extractItems walks the children of a container node (source file or
// inline module body) and appends a record per relevant declaration.
// Inline modules recurse; impl blocks are terminal, their member
// functions are not extracted.
func (e *Extractor) extractItems(container *sitter.Node, source []byte, filePath string, records *[]Record) {
	for i := uint(0); i < container.NamedChildCount(); i++ {
		node := container.NamedChild(i)

		switch node.Kind() {
		case "function_item":
			*records = append(*records, e.functionRecord(node, source, filePath))
		case "mod_item":
			*records = append(*records, e.namedItemRecord(node, source, filePath, KindModule, "mod"))
			if body := node.ChildByFieldName("body"); body != nil {
				e.extractItems(body, source, filePath, records)
			}
		case "enum_item":
			*records = append(*records, e.namedItemRecord(node, source, filePath, KindEnum, "enum"))
		case "trait_item":
			*records = append(*records, e.namedItemRecord(node, source, filePath, KindTrait, "trait"))
		case "struct_item":
			*records = append(*records, e.namedItemRecord(node, source, filePath, KindStruct, "struct"))
		case "union_item":
			*records = append(*records, e.namedItemRecord(node, source, filePath, KindUnion, "union"))
		case "type_item":
			*records = append(*records, e.verbatimRecord(node, source, filePath, KindTypeAlias))
		case "const_item":
			*records = append(*records, e.verbatimRecord(node, source, filePath, KindConst))
		case "static_item":
			*records = append(*records, e.verbatimRecord(node, source, filePath, KindStatic))
		case "macro_definition":
			*records = append(*records, e.macroRecord(node, source, filePath))
		case "use_declaration":
			*records = append(*records, e.verbatimRecord(node, source, filePath, KindUse))
		case "impl_item":
			*records = append(*records, e.implRecord(node, source, filePath))
		default:
			// foreign_mod_item, extern_crate_declaration, attributes and
			// anything else the grammar produces are not indexed.
		}
	}
}

// functionRecord renders visibility + signature (name, parameters, return
// type, where clause) and anchors the record at the signature start.
func (e *Extractor) functionRecord(node *sitter.Node, source []byte, filePath string) Record {
	start := findChildByKind(node, "fn")
	if vis := findChildByKind(node, "visibility_modifier"); vis != nil {
		start = vis
	}
	if start == nil {
		start = node
	}

	end := node.ChildByFieldName("parameters")
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		end = ret
	}
	if where := findChildByKind(node, "where_clause"); where != nil {
		end = where
	}

	sig := missingSource
	if end != nil && end.EndByte() >= start.StartByte() {
		sig = oneLine(string(source[start.StartByte():end.EndByte()]))
	}

	return Record{
		File:      filePath,
		Line:      int(start.StartPosition().Row) + 1,
		Column:    int(start.StartPosition().Column) + 1,
		Signature: sig,
		Kind:      KindFunction,
	}
}

// namedItemRecord covers mod/enum/trait/struct/union: visibility + keyword +
// identifier, anchored at the identifier.
func (e *Extractor) namedItemRecord(node *sitter.Node, source []byte, filePath string, kind Kind, keyword string) Record {
	nameNode := node.ChildByFieldName("name")

	var vis string
	if v := findChildByKind(node, "visibility_modifier"); v != nil {
		vis = nodeText(v, source) + " "
	}

	name := missingSource
	anchor := node
	if nameNode != nil {
		name = nodeText(nameNode, source)
		anchor = nameNode
	}

	return Record{
		File:      filePath,
		Line:      int(anchor.StartPosition().Row) + 1,
		Column:    int(anchor.StartPosition().Column) + 1,
		Signature: vis + keyword + " " + name,
		Kind:      kind,
	}
}

// verbatimRecord covers use/type-alias/const/static: the whole item's
// source span, anchored at the item start.
func (e *Extractor) verbatimRecord(node *sitter.Node, source []byte, filePath string, kind Kind) Record {
	sig := oneLine(nodeText(node, source))
	if sig == "" {
		sig = missingSource
	}
	return Record{
		File:      filePath,
		Line:      int(node.StartPosition().Row) + 1,
		Column:    int(node.StartPosition().Column) + 1,
		Signature: sig,
		Kind:      kind,
	}
}

// macroRecord renders a macro definition up to its rule block, anchored at
// the macro name.
func (e *Extractor) macroRecord(node *sitter.Node, source []byte, filePath string) Record {
	anchor := node
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		anchor = nameNode
	}

	sig := oneLine(nodeText(node, source))
	if i := strings.Index(sig, "{"); i >= 0 {
		sig = strings.TrimSpace(sig[:i]) + " { ... }"
	}
	if sig == "" {
		sig = missingSource
	}

	return Record{
		File:      filePath,
		Line:      int(anchor.StartPosition().Row) + 1,
		Column:    int(anchor.StartPosition().Column) + 1,
		Signature: sig,
		Kind:      KindMacro,
	}
}

// implRecord renders `impl Trait for Type` when a trait is implemented,
// else `impl Type`, anchored at the implemented type.
func (e *Extractor) implRecord(node *sitter.Node, source []byte, filePath string) Record {
	typeNode := node.ChildByFieldName("type")
	traitNode := node.ChildByFieldName("trait")

	typeName := missingSource
	anchor := node
	if typeNode != nil {
		typeName = oneLine(nodeText(typeNode, source))
		anchor = typeNode
	}

	sig := "impl " + typeName
	if traitNode != nil {
		sig = "impl " + oneLine(nodeText(traitNode, source)) + " for " + typeName
	}

	return Record{
		File:      filePath,
		Line:      int(anchor.StartPosition().Row) + 1,
		Column:    int(anchor.StartPosition().Column) + 1,
		Signature: sig,
		Kind:      KindImpl,
	}
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// findChildByKind finds the first direct child node with the given kind.
func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// oneLine collapses whitespace runs so multi-line spans render on one line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
