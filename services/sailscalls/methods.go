// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package sailscalls

import (
	"encoding/json"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/crypto/address"
	"math/big"
	"reflect"
	"sort"
)

type MethodKind string

const (
	FUNCTION MethodKind = "function"
	QUERY    MethodKind = "query"
)

// encoder turns call arguments into the wire payload of one method
type encoder func(args []interface{}) (json.RawMessage, error)

type method struct {
	function *Function
	encode   encoder
}

type serviceMethods struct {
	functions map[string]*method
	queries   map[string]*method
}

// methodTable is built once per parsed IDL and never mutated afterwards
type methodTable struct {
	services map[string]*serviceMethods
}

func newMethodTable(idl *Interface) *methodTable {
	table := &methodTable{services: make(map[string]*serviceMethods)}
	for _, service := range idl.Services {
		entry := &serviceMethods{
			functions: make(map[string]*method),
			queries:   make(map[string]*method),
		}
		for _, f := range service.Functions {
			entry.functions[f.Name] = &method{function: f, encode: newEncoder(idl, f)}
		}
		for _, q := range service.Queries {
			entry.queries[q.Name] = &method{function: q, encode: newEncoder(idl, q)}
		}
		table.services[service.Name] = entry
	}
	return table
}

func (t *methodTable) serviceNames() []string {
	return sortedKeys(t.services)
}

func (t *methodTable) lookup(serviceName string, methodName string, kind MethodKind) (*method, error) {
	service, ok := t.services[serviceName]
	if !ok {
		return nil, &UnknownServiceError{Service: serviceName, Services: t.serviceNames()}
	}

	methods := service.functions
	if kind == QUERY {
		methods = service.queries
	}
	m, ok := methods[methodName]
	if !ok {
		return nil, &UnknownMethodError{Service: serviceName, Method: methodName, Kind: kind, Methods: sortedKeys(methods)}
	}
	return m, nil
}

func (t *methodTable) names(serviceName string, kind MethodKind) ([]string, error) {
	service, ok := t.services[serviceName]
	if !ok {
		return nil, &UnknownServiceError{Service: serviceName, Services: t.serviceNames()}
	}
	if kind == QUERY {
		return sortedKeys(service.queries), nil
	}
	return sortedKeys(service.functions), nil
}

func sortedKeys(m interface{}) []string {
	keys := reflect.ValueOf(m).MapKeys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.String())
	}
	sort.Strings(names)
	return names
}

func newEncoder(idl *Interface, f *Function) encoder {
	params := f.Params
	return func(args []interface{}) (json.RawMessage, error) {
		if len(args) != len(params) {
			return nil, errors.Wrapf(ErrInvalidArguments, "%s takes %d arguments, got %d", f.Name, len(params), len(args))
		}
		for i, param := range params {
			if err := checkArgument(idl, param.Type, args[i]); err != nil {
				return nil, errors.Wrapf(ErrInvalidArguments, "argument %s of %s: %s", param.Name, f.Name, err)
			}
		}
		if args == nil {
			args = []interface{}{}
		}
		payload, err := json.Marshal(args)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidArguments, "cannot encode arguments of %s: %s", f.Name, err)
		}
		return payload, nil
	}
}

// checkArgument validates what can be checked without a codec: primitives, sequences and options.
// Composite named types are left to the program.
func checkArgument(idl *Interface, t *TypeExpr, value interface{}) error {
	switch t.Kind {
	case NAMED:
		if def := idl.Type(t.Name); def != nil && def.Type.Kind != STRUCT && def.Type.Kind != ENUM {
			return checkArgument(idl, def.Type, value)
		}
		return nil
	case UNIT:
		if value != nil {
			return errors.New("expected null")
		}
		return nil
	case OPT:
		if value == nil {
			return nil
		}
		return checkArgument(idl, t.Elem, value)
	case VEC, ARRAY:
		v := reflect.ValueOf(value)
		if v.Kind() == reflect.String && t.Elem.Kind == PRIMITIVE && t.Elem.Name == "u8" {
			return nil
		}
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return errors.Errorf("expected a sequence for %s", t)
		}
		if t.Kind == ARRAY && v.Len() != t.Len {
			return errors.Errorf("expected %d elements, got %d", t.Len, v.Len())
		}
		for i := 0; i < v.Len(); i++ {
			if err := checkArgument(idl, t.Elem, v.Index(i).Interface()); err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
		}
		return nil
	case PRIMITIVE:
		return checkPrimitive(t.Name, value)
	}
	return nil
}

func checkPrimitive(name string, value interface{}) error {
	switch name {
	case "bool":
		if _, ok := value.(bool); !ok {
			return errors.Errorf("expected bool, got %T", value)
		}
	case "str", "char":
		if _, ok := value.(string); !ok {
			return errors.Errorf("expected string, got %T", value)
		}
	case "actor_id", "code_id", "message_id", "h256":
		s, ok := value.(string)
		if !ok {
			return errors.Errorf("expected %s string, got %T", name, value)
		}
		if _, err := address.ToAccountIdHex(s); err != nil {
			return errors.Wrapf(err, "invalid %s", name)
		}
	case "h160":
		if _, ok := value.(string); !ok {
			return errors.Errorf("expected h160 string, got %T", value)
		}
	default:
		n, ok := toInteger(value)
		if !ok {
			return errors.Errorf("expected %s, got %T", name, value)
		}
		if name[0] == 'u' && n.Sign() < 0 {
			return errors.Errorf("expected unsigned %s, got %s", name, n)
		}
	}
	return nil
}

func toInteger(value interface{}) (*big.Int, bool) {
	switch v := value.(type) {
	case *big.Int:
		return v, v != nil
	case json.Number:
		return new(big.Int).SetString(v.String(), 10)
	case string:
		return new(big.Int).SetString(v, 10)
	case float64:
		if v != float64(int64(v)) {
			return nil, false
		}
		return big.NewInt(int64(v)), true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), true
	}
	return nil, false
}
