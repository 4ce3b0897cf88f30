package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const order = `{"id": 7, "customer": {"name": "Ada"}, "items": [{"sku": "a1"}, {"sku": "b2"}], "paid": true}`

func TestJSONPathRead(t *testing.T) {
	j := NewJSONPath()

	v, err := j.Read(order, "$.customer.name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)

	v, err = j.Read(order, "$.id")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	v, err = j.Read(order, "$.missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	all, err := j.ReadAll(order, "$.items[*].sku")
	require.NoError(t, err)
	assert.Equal(t, []any{"a1", "b2"}, all)
}

func TestJSONPathErrors(t *testing.T) {
	j := NewJSONPath()

	_, err := j.Read("{not json", "$.a")
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = j.Read(order, "$.items[")
	assert.ErrorContains(t, err, "invalid expression")

	_, err = j.Invoke("write", order, "$.a")
	assert.True(t, errors.Is(err, ErrNoSuchMethod))

	_, err = j.Invoke("read", order)
	assert.Error(t, err)
}

func TestJSONPathInTemplate(t *testing.T) {
	ctx := NewContextBuilder().
		Put("requestBody", order).
		Put("jsonPath", NewJSONPath()).
		Build()

	src := `$jsonPath.read($requestBody, "$.customer.name") ` +
		`#foreach($sku in $jsonPath.readAll($requestBody, "$.items[*].sku"))$sku;#end ` +
		`#if($jsonPath.read($requestBody, "$.paid"))paid#end`
	tmpl, err := Parse("order.vm", src)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, tmpl.Execute(&b, ctx, Strict))
	assert.Equal(t, "Ada a1;b2; paid", b.String())
}
