package validator

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/rulekit/internal/typecache"
	"github.com/dmitrymomot/rulekit/pkg/rules"
)

// Manifest is a YAML description of field rules, bound to a struct type with
// DeclareManifest.
//
//	fields:
//	  - name: Title
//	    rules:
//	      - required: "title is required"
//	      - length: {max: 200, message: "title is too long"}
//	  - name: Category.Name
//	    rules:
//	      - pattern: {expr: "^[A-Z]", message: "must start with a capital letter"}
type Manifest struct {
	Fields []ManifestField `yaml:"fields"`
}

// ManifestField lists the rules of one field. Dotted names address nested
// struct fields.
type ManifestField struct {
	Name  string         `yaml:"name"`
	Rules []ManifestRule `yaml:"rules"`
}

// ManifestRule holds exactly one rule kind.
type ManifestRule struct {
	Required *string         `yaml:"required,omitempty"`
	Length   *manifestLength `yaml:"length,omitempty"`
	Range    *manifestRange  `yaml:"range,omitempty"`
	Pattern  *rules.Pattern  `yaml:"pattern,omitempty"`
	Method   *string         `yaml:"method,omitempty"`
	Tag      *rules.Tag      `yaml:"tag,omitempty"`
	Expr     *rules.Expr     `yaml:"expr,omitempty"`
}

type manifestLength struct {
	Min     int    `yaml:"min"`
	Max     int    `yaml:"max"`
	Message string `yaml:"message"`
}

type manifestRange struct {
	Min     *float64 `yaml:"min"`
	Max     *float64 `yaml:"max"`
	Message string   `yaml:"message"`
}

// Rule converts the entry into a rules.Rule.
func (m ManifestRule) Rule() (rules.Rule, error) {
	switch {
	case m.Required != nil:
		return rules.Required{Message: *m.Required}, nil
	case m.Length != nil:
		return rules.Length{Min: m.Length.Min, Max: m.Length.Max, Message: m.Length.Message}, nil
	case m.Range != nil:
		r := rules.Range{Min: -math.MaxFloat64, Max: math.MaxFloat64, Message: m.Range.Message}
		if m.Range.Min != nil {
			r.Min = *m.Range.Min
		}
		if m.Range.Max != nil {
			r.Max = *m.Range.Max
		}
		return r, nil
	case m.Pattern != nil:
		return *m.Pattern, nil
	case m.Method != nil:
		return rules.Method{Name: *m.Method}, nil
	case m.Tag != nil:
		return *m.Tag, nil
	case m.Expr != nil:
		return *m.Expr, nil
	default:
		return nil, ErrUnknownRule
	}
}

// LoadManifest decodes a YAML rule manifest.
func LoadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Join(ErrInvalidManifest, err)
	}
	return &m, nil
}

// DeclareManifest declares the manifest's rules for struct type T.
func DeclareManifest[T any](r *Registry, m *Manifest) error {
	t := typecache.TypeOf[T]()
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s", ErrNotStruct, t)
	}

	decls := make([]fieldDecl, 0, len(m.Fields))
	for _, mf := range m.Fields {
		get, typ, err := fieldPath(t, mf.Name)
		if err != nil {
			return err
		}
		d := fieldDecl{name: mf.Name, typ: typ, get: get}
		for i, mr := range mf.Rules {
			rule, err := mr.Rule()
			if err != nil {
				return fmt.Errorf("%w: field %s, rule #%d", err, mf.Name, i+1)
			}
			d.rules = append(d.rules, rule)
		}
		decls = append(decls, d)
	}

	r.declare(t, decls)
	return nil
}

// fieldPath resolves a dotted field path on t. A nil pointer on the way
// yields the zero value of the leaf type.
func fieldPath(t reflect.Type, path string) (func(reflect.Value) reflect.Value, reflect.Type, error) {
	var index [][]int
	cur := t
	for _, part := range strings.Split(path, ".") {
		for cur.Kind() == reflect.Pointer {
			cur = cur.Elem()
		}
		if cur.Kind() != reflect.Struct {
			return nil, nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, t.Name(), path)
		}
		sf, ok := cur.FieldByName(part)
		if !ok || !sf.IsExported() {
			return nil, nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, t.Name(), path)
		}
		index = append(index, sf.Index)
		cur = sf.Type
	}

	leaf := cur
	get := func(owner reflect.Value) reflect.Value {
		v := owner
		for _, idx := range index {
			for v.Kind() == reflect.Pointer {
				if v.IsNil() {
					return reflect.Zero(leaf)
				}
				v = v.Elem()
			}
			v = v.FieldByIndex(idx)
		}
		return v
	}
	return get, leaf, nil
}
