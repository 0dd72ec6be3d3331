// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/xrouterd/plugin"
)

func TestCoerce(t *testing.T) {
	args, err := plugin.Coerce([]string{"string", "int", "bool", "bool"}, []string{"abc", "123", "true", "false"}, 4)
	assert.Nil(t, err, "coerce")
	assert.Equal(t, []interface{}{"abc", int64(123), true, false}, args, "wrong args")
}

func TestCoerceCountLimits(t *testing.T) {
	args, err := plugin.Coerce([]string{"int", "int"}, []string{"1", "2", "3"}, 2)
	assert.Nil(t, err, "coerce")
	assert.Equal(t, []interface{}{int64(1), int64(2)}, args, "extra parameter used")

	args, err = plugin.Coerce([]string{"int"}, []string{"1", "x"}, 2)
	assert.Nil(t, err, "missing type")
	assert.Equal(t, []interface{}{int64(1), "x"}, args, "missing type not string")
}

func TestCoerceErrors(t *testing.T) {
	tests := []struct {
		types    []string
		params   []string
		expected string
	}{
		{[]string{"int"}, []string{"abc"}, "Parameter #1 can not be converted to integer"},
		{[]string{"string", "int"}, []string{"a", "12x"}, "Parameter #2 can not be converted to integer"},
		{[]string{"int"}, []string{" 1"}, "Parameter #1 can not be converted to integer"},
		{[]string{"bool"}, []string{"TRUE"}, "Parameter #1 can not be converted to bool"},
		{[]string{"string", "float"}, []string{"a", "1.5"}, "Parameter #2 has unknown type"},
	}
	for _, test := range tests {
		_, err := plugin.Coerce(test.types, test.params, len(test.params))
		assert.NotNil(t, err, test.expected)
		if nil != err {
			assert.Equal(t, test.expected, err.Error(), "wrong message")
		}
	}
}
