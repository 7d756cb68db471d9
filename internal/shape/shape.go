// Package shape declares structural contracts for JSON payloads and checks
// documents against them before any field is trusted.
//
// Shapes compile to JSON Schema (draft 2020-12). Objects are open: keys that
// are not declared are ignored, except keys that differ from a declared key
// only by case. Those are rejected, because encoding/json would bind them to
// the declared field. Declared keys are required unless wrapped in Optional
// or typed Unknown.
package shape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaURL = "https://gohome.local/shape.json"

// Error reports a mismatch found while checking a document.
type Error struct {
	Path string
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return e.Path + ": " + e.Msg
}

// Shape is a structural contract for a JSON value.
type Shape interface {
	// schema returns the JSON Schema fragment for the shape.
	schema() any
	// collide reports keys that only differ by case from a declared key.
	collide(path string, v any) error
}

// Schema is a compiled shape, safe for concurrent use.
type Schema struct {
	shape  Shape
	schema *jsonschema.Schema
}

// Compile turns s into a reusable validator.
func Compile(s Shape) (*Schema, error) {
	raw, err := json.Marshal(s.schema())
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{shape: s, schema: compiled}, nil
}

// MustCompile is Compile for package-level declarations.
func MustCompile(s Shape) *Schema {
	compiled, err := Compile(s)
	if err != nil {
		panic("shape: " + err.Error())
	}
	return compiled
}

// Validate decodes data and checks it against the schema.
func (s *Schema) Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return &Error{Msg: fmt.Sprintf("invalid json: %v", err)}
	}
	if _, err := dec.Token(); err != io.EOF {
		return &Error{Msg: "invalid json: trailing data"}
	}

	if err := s.schema.Validate(v); err != nil {
		return describeFailure(v, err)
	}
	return s.shape.collide("", v)
}

// Validate compiles s and checks data against it. Prefer a compiled Schema
// on hot paths.
func Validate(s Shape, data []byte) error {
	compiled, err := Compile(s)
	if err != nil {
		return err
	}
	return compiled.Validate(data)
}

var printer = message.NewPrinter(language.English)

// describeFailure reduces a validation error tree to its first leaf.
func describeFailure(doc any, err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &Error{Msg: err.Error()}
	}
	for len(ve.Causes) > 0 && keyword(ve) != "anyOf" {
		ve = ve.Causes[0]
	}

	path, value := locate(doc, ve.InstanceLocation)
	switch k := ve.ErrorKind.(type) {
	case *kind.Required:
		if len(k.Missing) > 0 {
			return &Error{Path: join(path, k.Missing[0]), Msg: "required"}
		}
	case *kind.Type:
		return &Error{Path: path, Msg: fmt.Sprintf("expected %s, got %s", strings.Join(k.Want, " or "), kindOf(value))}
	case *kind.Const, *kind.Enum:
		return &Error{Path: path, Msg: fmt.Sprintf("invalid value %s", describe(value))}
	case *kind.AnyOf:
		return &Error{Path: path, Msg: "no union member matched"}
	}
	return &Error{Path: path, Msg: ve.ErrorKind.LocalizedString(printer)}
}

func keyword(ve *jsonschema.ValidationError) string {
	if ve.ErrorKind == nil {
		return ""
	}
	kp := ve.ErrorKind.KeywordPath()
	if len(kp) == 0 {
		return ""
	}
	return kp[len(kp)-1]
}

// locate renders an instance location as a.b[1].c and returns the value found
// there.
func locate(doc any, loc []string) (string, any) {
	var b strings.Builder
	cur := doc
	for _, tok := range loc {
		switch node := cur.(type) {
		case []any:
			b.WriteString("[" + tok + "]")
			cur = nil
			if i, err := strconv.Atoi(tok); err == nil && i >= 0 && i < len(node) {
				cur = node[i]
			}
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(tok)
			cur = nil
			if m, ok := node.(map[string]any); ok {
				cur = m[tok]
			}
		}
	}
	return b.String(), cur
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(t)
	case bool, json.Number:
		return fmt.Sprint(t)
	default:
		return kindOf(v)
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// leaf shapes carry no object keys.
type leaf struct{}

func (leaf) collide(string, any) error { return nil }

type kindShape struct {
	leaf
	name string
}

func (k kindShape) schema() any { return map[string]any{"type": k.name} }

// String matches a JSON string.
func String() Shape { return kindShape{name: "string"} }

// Number matches a JSON number.
func Number() Shape { return kindShape{name: "number"} }

// Bool matches a JSON boolean.
func Bool() Shape { return kindShape{name: "boolean"} }

// Null matches only JSON null.
func Null() Shape { return kindShape{name: "null"} }

type unknownShape struct{ leaf }

func (unknownShape) schema() any { return true }

// Unknown matches anything, including an absent key.
func Unknown() Shape { return unknownShape{} }

type literalShape struct {
	leaf
	value any
}

func (l literalShape) schema() any { return map[string]any{"const": l.value} }

// Literal matches a single bool, string, or number value.
func Literal(value any) Shape { return literalShape{value: value} }

type nullableShape struct {
	inner Shape
}

func (n nullableShape) schema() any {
	inner := n.inner.schema()
	m, ok := inner.(map[string]any)
	if !ok {
		return inner
	}
	if t, ok := m["type"].(string); ok {
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		out["type"] = []string{t, "null"}
		return out
	}
	return map[string]any{"anyOf": []any{inner, map[string]any{"type": "null"}}}
}

func (n nullableShape) collide(path string, v any) error {
	if v == nil {
		return nil
	}
	return n.inner.collide(path, v)
}

// Nullable accepts null in addition to the inner shape.
func Nullable(inner Shape) Shape { return nullableShape{inner: inner} }

type optionalShape struct {
	inner Shape
}

func (o optionalShape) schema() any                      { return o.inner.schema() }
func (o optionalShape) collide(path string, v any) error { return o.inner.collide(path, v) }

// Optional accepts a missing object key in addition to the inner shape.
func Optional(inner Shape) Shape { return optionalShape{inner: inner} }

func required(s Shape) bool {
	switch t := s.(type) {
	case optionalShape, unknownShape:
		return false
	case nullableShape:
		return required(t.inner)
	}
	return true
}

type arrayShape struct {
	elem Shape
}

func (a arrayShape) schema() any {
	return map[string]any{"type": "array", "items": a.elem.schema()}
}

func (a arrayShape) collide(path string, v any) error {
	items, _ := v.([]any)
	for i, item := range items {
		if err := a.elem.collide(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
			return err
		}
	}
	return nil
}

// Array matches a JSON array whose elements all match elem.
func Array(elem Shape) Shape { return arrayShape{elem: elem} }

type recordShape struct {
	value Shape
}

func (r recordShape) schema() any {
	return map[string]any{"type": "object", "additionalProperties": r.value.schema()}
}

func (r recordShape) collide(path string, v any) error {
	obj, _ := v.(map[string]any)
	for _, key := range sortedKeys(obj) {
		if err := r.value.collide(join(path, key), obj[key]); err != nil {
			return err
		}
	}
	return nil
}

// Record matches a JSON object whose values all match value.
func Record(value Shape) Shape { return recordShape{value: value} }

// Field declares one key of an object shape.
type Field struct {
	Name  string
	Shape Shape
}

// F is shorthand for a Field literal.
func F(name string, s Shape) Field { return Field{Name: name, Shape: s} }

// ObjectShape matches a JSON object with declared keys.
type ObjectShape struct {
	fields []Field
}

// Object builds an object shape from fields, in declaration order.
func Object(fields ...Field) ObjectShape {
	return ObjectShape{fields: slices.Clone(fields)}
}

// Extend returns a copy of o with fields added; a field with an existing name
// replaces the earlier declaration.
func (o ObjectShape) Extend(fields ...Field) ObjectShape {
	out := slices.Clone(o.fields)
	for _, f := range fields {
		i := slices.IndexFunc(out, func(existing Field) bool { return existing.Name == f.Name })
		if i >= 0 {
			out[i] = f
			continue
		}
		out = append(out, f)
	}
	return ObjectShape{fields: out}
}

func (o ObjectShape) field(name string) (Shape, bool) {
	for _, f := range o.fields {
		if f.Name == name {
			return f.Shape, true
		}
	}
	return nil, false
}

func (o ObjectShape) schema() any {
	props := make(map[string]any, len(o.fields))
	req := []string{}
	for _, f := range o.fields {
		props[f.Name] = f.Shape.schema()
		if required(f.Shape) {
			req = append(req, f.Name)
		}
	}
	return map[string]any{"type": "object", "properties": props, "required": req}
}

func (o ObjectShape) collide(path string, v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range sortedKeys(obj) {
		if _, declared := o.field(key); declared {
			continue
		}
		for _, f := range o.fields {
			if strings.EqualFold(key, f.Name) {
				return &Error{Path: join(path, key), Msg: fmt.Sprintf("key differs from declared %q only by case", f.Name)}
			}
		}
	}
	for _, f := range o.fields {
		value, present := obj[f.Name]
		if !present {
			continue
		}
		if err := f.Shape.collide(join(path, f.Name), value); err != nil {
			return err
		}
	}
	return nil
}

type unionShape struct {
	options []Shape
}

func (u unionShape) schema() any {
	opts := make([]any, 0, len(u.options))
	for _, opt := range u.options {
		opts = append(opts, opt.schema())
	}
	return map[string]any{"anyOf": opts}
}

func (u unionShape) collide(path string, v any) error {
	for _, opt := range u.options {
		if err := opt.collide(path, v); err != nil {
			return err
		}
	}
	return nil
}

// Union matches a value accepted by any of the options.
func Union(options ...Shape) Shape { return unionShape{options: options} }

type discriminatedShape struct {
	key      string
	variants []ObjectShape
}

func (d discriminatedShape) schema() any {
	tags := make([]any, 0, len(d.variants))
	branches := make([]any, 0, len(d.variants))
	for _, variant := range d.variants {
		tag, _ := variant.field(d.key)
		value := tag.(literalShape).value
		tags = append(tags, value)
		branches = append(branches, map[string]any{
			"if": map[string]any{
				"required":   []string{d.key},
				"properties": map[string]any{d.key: map[string]any{"const": value}},
			},
			"then": variant.schema(),
		})
	}
	return map[string]any{
		"type":       "object",
		"required":   []string{d.key},
		"properties": map[string]any{d.key: map[string]any{"enum": tags}},
		"allOf":      branches,
	}
}

func (d discriminatedShape) collide(path string, v any) error {
	for _, variant := range d.variants {
		if err := variant.collide(path, v); err != nil {
			return err
		}
	}
	return nil
}

// Discriminated matches the variant whose literal field key equals the
// value's key. Every variant must declare key as a Literal.
func Discriminated(key string, variants ...ObjectShape) Shape {
	for _, variant := range variants {
		s, ok := variant.field(key)
		if !ok {
			panic("shape: discriminated variant missing key " + key)
		}
		if _, ok := s.(literalShape); !ok {
			panic("shape: discriminator " + key + " must be a literal")
		}
	}
	return discriminatedShape{key: key, variants: variants}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
