// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package sailscalls

import (
	"fmt"
	"github.com/pkg/errors"
	"strconv"
	"strings"
	"text/scanner"
)

var primitives = map[string]bool{
	"bool": true, "char": true, "str": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "u256": true,
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true,
	"actor_id": true, "code_id": true, "message_id": true,
	"h160": true, "h256": true,
}

type parseError struct {
	message string
}

type parser struct {
	scanner scanner.Scanner
	tok     rune
	text    string
}

// ParseIdl reads a sails interface description: type definitions, a constructor block and services.
// Blocks it does not know are skipped; type references must resolve to primitives or defined types.
func ParseIdl(source string) (idl *Interface, err error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.New("idl is empty")
	}

	p := &parser{}
	p.scanner.Init(strings.NewReader(source))
	p.scanner.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanComments | scanner.SkipComments
	p.scanner.Error = func(s *scanner.Scanner, msg string) {
		p.fail("%s", msg)
	}

	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*parseError)
			if !ok {
				panic(r)
			}
			idl, err = nil, errors.New(perr.message)
		}
	}()

	p.next()
	idl = &Interface{}
	for p.tok != scanner.EOF {
		switch p.text {
		case "type":
			idl.Types = append(idl.Types, p.parseTypeDef())
		case "constructor":
			idl.Constructors = append(idl.Constructors, p.parseConstructor()...)
		case "service":
			idl.Services = append(idl.Services, p.parseService())
		default:
			p.skipItem()
		}
	}

	if len(idl.Services) == 0 {
		return nil, errors.New("idl declares no services")
	}
	if err := idl.resolve(); err != nil {
		return nil, err
	}
	return idl, nil
}

func (p *parser) fail(format string, args ...interface{}) {
	pos := p.scanner.Position
	if !pos.IsValid() {
		pos = p.scanner.Pos()
	}
	panic(&parseError{message: fmt.Sprintf("idl %d:%d: %s", pos.Line, pos.Column, fmt.Sprintf(format, args...))})
}

func (p *parser) next() {
	p.tok = p.scanner.Scan()
	p.text = p.scanner.TokenText()
}

func (p *parser) expect(tok rune) {
	if p.tok != tok {
		p.fail("expected %s, found %q", scanner.TokenString(tok), p.text)
	}
	p.next()
}

func (p *parser) accept(tok rune) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

func (p *parser) ident() string {
	if p.tok != scanner.Ident {
		p.fail("expected identifier, found %q", p.text)
	}
	name := p.text
	p.next()
	return name
}

func (p *parser) keyword(word string) {
	if p.tok != scanner.Ident || p.text != word {
		p.fail("expected %s, found %q", word, p.text)
	}
	p.next()
}

// skipItem drops everything up to the ';' that ends the current top level item
func (p *parser) skipItem() {
	depth := 0
	for p.tok != scanner.EOF {
		switch p.tok {
		case '{':
			depth++
		case '}':
			depth--
		case ';':
			if depth <= 0 {
				p.next()
				return
			}
		}
		p.next()
	}
}

func (p *parser) parseTypeDef() *TypeDef {
	p.keyword("type")
	name := p.ident()
	p.expect('=')
	t := p.parseType()
	p.expect(';')
	return &TypeDef{Name: name, Type: t}
}

func (p *parser) parseType() *TypeExpr {
	switch p.tok {
	case '(':
		return p.parseTuple()
	case '[':
		p.next()
		elem := p.parseType()
		if !p.accept(';') {
			p.expect(',')
		}
		if p.tok != scanner.Int {
			p.fail("expected array length, found %q", p.text)
		}
		length, err := strconv.Atoi(p.text)
		if err != nil {
			p.fail("bad array length %q", p.text)
		}
		p.next()
		p.expect(']')
		return &TypeExpr{Kind: ARRAY, Elem: elem, Len: length}
	case scanner.Ident:
		return p.typeFromIdent(p.ident())
	}
	p.fail("expected type, found %q", p.text)
	return nil
}

func (p *parser) typeFromIdent(name string) *TypeExpr {
	switch name {
	case "null":
		return &TypeExpr{Kind: UNIT}
	case "struct":
		return &TypeExpr{Kind: STRUCT, Fields: p.parseFields()}
	case "enum":
		return &TypeExpr{Kind: ENUM, Variants: p.parseVariants()}
	case "vec":
		return &TypeExpr{Kind: VEC, Elem: p.parseType()}
	case "opt":
		return &TypeExpr{Kind: OPT, Elem: p.parseType()}
	case "result":
		p.expect('(')
		ok := p.parseType()
		p.expect(',')
		e := p.parseType()
		p.expect(')')
		return &TypeExpr{Kind: RESULT, Elem: ok, Err: e}
	}
	if primitives[name] {
		return &TypeExpr{Kind: PRIMITIVE, Name: name}
	}
	return &TypeExpr{Kind: NAMED, Name: name}
}

func (p *parser) parseTuple() *TypeExpr {
	p.expect('(')
	var fields []*Field
	for p.tok != ')' {
		fields = append(fields, &Field{Type: p.parseType()})
		if !p.accept(',') {
			break
		}
	}
	p.expect(')')
	if len(fields) == 0 {
		return &TypeExpr{Kind: UNIT}
	}
	return &TypeExpr{Kind: TUPLE, Fields: fields}
}

// struct members are either "name: type" or positional types
func (p *parser) parseFields() []*Field {
	p.expect('{')
	var fields []*Field
	for p.tok != '}' {
		var field *Field
		if p.tok == scanner.Ident {
			name := p.ident()
			if p.accept(':') {
				field = &Field{Name: name, Type: p.parseType()}
			} else {
				field = &Field{Type: p.typeFromIdent(name)}
			}
		} else {
			field = &Field{Type: p.parseType()}
		}
		fields = append(fields, field)
		if !p.accept(',') {
			break
		}
	}
	p.expect('}')
	return fields
}

func (p *parser) parseVariants() []*Variant {
	p.expect('{')
	var variants []*Variant
	for p.tok != '}' {
		variant := &Variant{Name: p.ident()}
		if p.accept(':') {
			variant.Type = p.parseType()
		} else if p.tok == '(' {
			variant.Type = p.parseTuple()
		} else if p.tok == '{' {
			variant.Type = &TypeExpr{Kind: STRUCT, Fields: p.parseFields()}
		}
		variants = append(variants, variant)
		if !p.accept(',') {
			break
		}
	}
	p.expect('}')
	return variants
}

func (p *parser) parseParams() []*Param {
	p.expect('(')
	var params []*Param
	for p.tok != ')' {
		name := p.ident()
		p.expect(':')
		params = append(params, &Param{Name: name, Type: p.parseType()})
		if !p.accept(',') {
			break
		}
	}
	p.expect(')')
	return params
}

func (p *parser) parseConstructor() []*Function {
	p.keyword("constructor")
	p.expect('{')
	var constructors []*Function
	for p.tok != '}' {
		name := p.ident()
		p.expect(':')
		constructors = append(constructors, &Function{Name: name, Params: p.parseParams()})
		p.expect(';')
	}
	p.expect('}')
	p.expect(';')
	return constructors
}

func (p *parser) parseService() *Service {
	p.keyword("service")
	service := &Service{Name: p.ident()}
	p.expect('{')
	for p.tok != '}' {
		if p.tok == scanner.Ident && p.text == "events" {
			p.next()
			service.Events = append(service.Events, p.parseVariants()...)
			p.expect(';')
			continue
		}

		query := false
		name := p.ident()
		if name == "query" && p.tok == scanner.Ident {
			query = true
			name = p.ident()
		}
		p.expect(':')
		function := &Function{Name: name, Params: p.parseParams(), Query: query}
		if p.accept('-') {
			p.expect('>')
			function.Returns = p.parseType()
		}
		p.expect(';')

		if query {
			service.Queries = append(service.Queries, function)
		} else {
			service.Functions = append(service.Functions, function)
		}
	}
	p.expect('}')
	p.expect(';')
	return service
}

// resolve checks that every named type reference is defined and names are unique
func (i *Interface) resolve() error {
	defined := make(map[string]bool)
	for _, t := range i.Types {
		if defined[t.Name] {
			return errors.Errorf("type %s is defined twice", t.Name)
		}
		defined[t.Name] = true
	}
	if err := i.checkAliasCycles(); err != nil {
		return err
	}

	var check func(t *TypeExpr) error
	check = func(t *TypeExpr) error {
		if t == nil {
			return nil
		}
		if t.Kind == NAMED && !defined[t.Name] {
			return errors.Errorf("unknown type %s", t.Name)
		}
		for _, nested := range []*TypeExpr{t.Elem, t.Err} {
			if err := check(nested); err != nil {
				return err
			}
		}
		for _, f := range t.Fields {
			if err := check(f.Type); err != nil {
				return err
			}
		}
		for _, v := range t.Variants {
			if err := check(v.Type); err != nil {
				return err
			}
		}
		return nil
	}

	checkFunction := func(f *Function) error {
		for _, param := range f.Params {
			if err := check(param.Type); err != nil {
				return errors.Wrapf(err, "%s", f.Name)
			}
		}
		return check(f.Returns)
	}

	for _, t := range i.Types {
		if err := check(t.Type); err != nil {
			return errors.Wrapf(err, "type %s", t.Name)
		}
	}
	for _, c := range i.Constructors {
		if err := checkFunction(c); err != nil {
			return errors.Wrapf(err, "constructor")
		}
	}

	services := make(map[string]bool)
	for _, s := range i.Services {
		if services[s.Name] {
			return errors.Errorf("service %s is defined twice", s.Name)
		}
		services[s.Name] = true

		names := make(map[string]bool)
		for _, f := range append(append([]*Function{}, s.Functions...), s.Queries...) {
			if names[f.Name] {
				return errors.Errorf("service %s defines %s twice", s.Name, f.Name)
			}
			names[f.Name] = true
			if err := checkFunction(f); err != nil {
				return errors.Wrapf(err, "service %s", s.Name)
			}
		}
		for _, e := range s.Events {
			if err := check(e.Type); err != nil {
				return errors.Wrapf(err, "service %s event %s", s.Name, e.Name)
			}
		}
	}
	return nil
}

// checkAliasCycles rejects types that reach themselves through plain aliases or options,
// the wrappers argument checking follows without consuming the value
func (i *Interface) checkAliasCycles() error {
	for _, def := range i.Types {
		visited := map[string]bool{def.Name: true}
		t := def.Type
		for t != nil {
			switch t.Kind {
			case OPT:
				t = t.Elem
			case NAMED:
				if visited[t.Name] {
					return errors.Errorf("type %s is defined in terms of itself", def.Name)
				}
				visited[t.Name] = true
				t = i.aliasTarget(t.Name)
			default:
				t = nil
			}
		}
	}
	return nil
}

// aliasTarget is the type a plain alias stands for; nil for structs, enums and unknown names
func (i *Interface) aliasTarget(name string) *TypeExpr {
	def := i.Type(name)
	if def == nil || def.Type.Kind == STRUCT || def.Type.Kind == ENUM {
		return nil
	}
	return def.Type
}
