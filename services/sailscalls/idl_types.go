// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package sailscalls

import (
	"fmt"
	"strings"
)

type TypeKind int

const (
	UNIT TypeKind = iota
	PRIMITIVE
	NAMED
	VEC
	OPT
	RESULT
	ARRAY
	TUPLE
	STRUCT
	ENUM
)

type TypeExpr struct {
	Kind     TypeKind
	Name     string
	Elem     *TypeExpr
	Err      *TypeExpr
	Len      int
	Fields   []*Field
	Variants []*Variant
}

// Field is a struct member; positional struct members have no name
type Field struct {
	Name string
	Type *TypeExpr
}

type Variant struct {
	Name string
	Type *TypeExpr
}

type TypeDef struct {
	Name string
	Type *TypeExpr
}

type Param struct {
	Name string
	Type *TypeExpr
}

type Function struct {
	Name    string
	Params  []*Param
	Returns *TypeExpr
	Query   bool
}

type Service struct {
	Name      string
	Functions []*Function
	Queries   []*Function
	Events    []*Variant
}

// Interface is a parsed IDL
type Interface struct {
	Types        []*TypeDef
	Constructors []*Function
	Services     []*Service
}

func (i *Interface) Service(name string) *Service {
	for _, s := range i.Services {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (i *Interface) Type(name string) *TypeDef {
	for _, t := range i.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (t *TypeExpr) String() string {
	if t == nil {
		return "null"
	}
	switch t.Kind {
	case UNIT:
		return "null"
	case PRIMITIVE, NAMED:
		return t.Name
	case VEC:
		return "vec " + t.Elem.String()
	case OPT:
		return "opt " + t.Elem.String()
	case RESULT:
		return fmt.Sprintf("result (%s, %s)", t.Elem, t.Err)
	case ARRAY:
		return fmt.Sprintf("[%s, %d]", t.Elem, t.Len)
	case TUPLE:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Type.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case STRUCT:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			if f.Name == "" {
				parts[i] = f.Type.String()
			} else {
				parts[i] = f.Name + ": " + f.Type.String()
			}
		}
		return "struct { " + strings.Join(parts, ", ") + " }"
	case ENUM:
		parts := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			if v.Type == nil {
				parts[i] = v.Name
			} else {
				parts[i] = v.Name + ": " + v.Type.String()
			}
		}
		return "enum { " + strings.Join(parts, ", ") + " }"
	}
	return "unknown"
}

func (f *Function) Signature() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name + ": " + p.Type.String()
	}
	signature := f.Name + " : (" + strings.Join(params, ", ") + ")"
	if f.Returns != nil {
		signature += " -> " + f.Returns.String()
	}
	if f.Query {
		signature = "query " + signature
	}
	return signature
}
