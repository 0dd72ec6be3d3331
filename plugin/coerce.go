// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package plugin

import (
	"fmt"
	"strconv"
)

// parameter types
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeBool   = "bool"
)

// CoercionError - a parameter did not match its declared type
type CoercionError struct {
	Position int // 1-based
	Type     string
}

func (e *CoercionError) Error() string {
	switch e.Type {
	case TypeInt:
		return fmt.Sprintf("Parameter #%d can not be converted to integer", e.Position)
	case TypeBool:
		return fmt.Sprintf("Parameter #%d can not be converted to bool", e.Position)
	default:
		return fmt.Sprintf("Parameter #%d has unknown type", e.Position)
	}
}

// Coerce - convert the first count params to JSON values
//
// empty strings are skipped, a missing type is treated as string
func Coerce(types []string, params []string, count int) ([]interface{}, error) {
	args := make([]interface{}, 0, count)
	for i := 0; i < count && i < len(params); i += 1 {
		p := params[i]
		if "" == p {
			continue
		}

		t := TypeString
		if i < len(types) && "" != types[i] {
			t = types[i]
		}

		switch t {
		case TypeString:
			args = append(args, p)
		case TypeInt:
			n, err := strconv.ParseInt(p, 10, 64)
			if nil != err {
				return nil, &CoercionError{Position: i + 1, Type: t}
			}
			args = append(args, n)
		case TypeBool:
			switch p {
			case "true":
				args = append(args, true)
			case "false":
				args = append(args, false)
			default:
				return nil, &CoercionError{Position: i + 1, Type: t}
			}
		default:
			return nil, &CoercionError{Position: i + 1, Type: t}
		}
	}
	return args, nil
}
