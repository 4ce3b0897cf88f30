package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workspace creates a files directory and fixture, returning their paths.
func workspace(t *testing.T, templates map[string]string, fixture string) (filesDir, fixturePath string) {
	t.Helper()
	dir := t.TempDir()
	filesDir = filepath.Join(dir, "__files")
	for name, src := range templates {
		p := filepath.Join(filesDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(src), 0644))
	}
	fixturePath = filepath.Join(dir, "fixture.yaml")
	require.NoError(t, os.WriteFile(fixturePath, []byte(fixture), 0644))
	return filesDir, fixturePath
}

func run(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Run(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

const userFixture = `
request:
  method: POST
  url: /users/42?active=true
  headers:
    X-Request-Id: abc
  body: '{"name":"ada"}'
response:
  status: 201
  bodyFileName: user.vm
  transformerParameters:
    query: active
`

func TestRender(t *testing.T) {
	files, fixture := workspace(t, map[string]string{
		"user.vm": `$requestMethod $requestPath[2] $requestHeaderXRequestId $query-active`,
	}, userFixture)

	stdout, stderr, code := run(t, "render", "--files", files, fixture)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "POST 42 [abc] [true]", stdout)
}

func TestRenderParamOverride(t *testing.T) {
	files, fixture := workspace(t, map[string]string{
		"user.vm": `[$!query-active][$!query-missing]`,
	}, userFixture)

	stdout, _, code := run(t, "render", "--files", files, "--param", "query=missing", fixture)
	require.Equal(t, 0, code)
	assert.Equal(t, "[][]", stdout)
}

func TestRenderJSON(t *testing.T) {
	files, fixture := workspace(t, map[string]string{"user.vm": "hi"}, userFixture)

	stdout, _, code := run(t, "render", "--json", "--files", files, fixture)
	require.Equal(t, 0, code)

	var got struct {
		Rendered bool `json:"rendered"`
		Response struct {
			Status int    `json:"status"`
			Body   string `json:"body"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.True(t, got.Rendered)
	assert.Equal(t, 201, got.Response.Status)
	assert.Equal(t, "hi", got.Response.Body)
}

func TestRenderPassthrough(t *testing.T) {
	_, fixture := workspace(t, nil, `
response:
  body: static
`)
	stdout, _, code := run(t, "render", fixture)
	require.Equal(t, 0, code)
	assert.Equal(t, "static", stdout)
}

func TestRenderErrors(t *testing.T) {
	files, fixture := workspace(t, map[string]string{"user.vm": "$nope"}, userFixture)

	_, stderr, code := run(t, "render", "--files", files, "--strict", fixture)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "undefined reference")

	_, stderr, code = run(t, "render", "--files", t.TempDir(), fixture)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "template not found")

	_, _, code = run(t, "render")
	assert.Equal(t, 1, code)
}

func TestRenderEnvAndConfigFile(t *testing.T) {
	files, fixture := workspace(t, map[string]string{"user.vm": "$nope"}, userFixture)

	cfgPath := filepath.Join(t.TempDir(), "vmtransform.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("strict: true\n"), 0644))
	t.Setenv("VMTRANSFORM_FILES", files)

	_, _, code := run(t, "render", "--config", cfgPath, fixture)
	assert.Equal(t, 1, code, "strict from the config file")

	stdout, _, code := run(t, "render", "--config", cfgPath, "--strict=false", fixture)
	require.Equal(t, 0, code, "flags override the config file")
	assert.Equal(t, "$nope", stdout)
}

func TestContext(t *testing.T) {
	_, fixture := workspace(t, nil, userFixture)

	stdout, _, code := run(t, "context", fixture)
	require.Equal(t, 0, code)
	assert.Equal(t, `requestBody: '{"name":"ada"}'
requestHeaderXRequestId: '[abc]'
requestAbsoluteUrl: http://localhost/users/42?active=true
requestUrl: /users/42?active=true
requestMethod: POST
requestPath:
  - ""
  - users
  - "42"
  - active=true
dateRange: dateRange
query-active:
  - "true"
date: date
number: number
math: math
esc: esc
`, stdout)
}

func TestContextJSON(t *testing.T) {
	_, fixture := workspace(t, nil, userFixture)

	stdout, _, code := run(t, "--json", "context", fixture)
	require.Equal(t, 0, code)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "POST", got["requestMethod"])
	assert.Equal(t, []any{"true"}, got["query-active"])
}

func TestCheck(t *testing.T) {
	files, _ := workspace(t, map[string]string{
		"ok.vm":          "$requestMethod",
		"nested/bad.vm":  "line\n#if($x)",
		"plain.json":     "{",
		"nested/also.vm": "#foreach($x in [1..2])$x#end",
	}, "")

	stdout, _, code := run(t, "check", files)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "FAIL")
	assert.Contains(t, stdout, "nested/bad.vm:2:1: #if without matching #end")
	assert.NotContains(t, stdout, "plain.json")

	stdout, _, code = run(t, "check", files, "--pattern", "nested/also.vm")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "ok")
}

func TestCheckTemplates(t *testing.T) {
	fsys := fstest.MapFS{
		"a.vm":        {Data: []byte("ok")},
		"b/c.vm":      {Data: []byte("#end")},
		"b/c.vm.bak":  {Data: []byte("#end")},
		"d/e/f.txt":   {Data: []byte("x")},
		"d/e/g.vtl":   {Data: []byte("#if(")},
		"d/e/deep.vm": {Data: []byte("${x}")},
	}

	results, err := checkTemplates(fsys, "**", ".vm")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, checkResult{Path: "a.vm", OK: true}, results[0])
	assert.Equal(t, "b/c.vm", results[1].Path)
	assert.False(t, results[1].OK)
	assert.Equal(t, "d/e/deep.vm", results[2].Path)

	results, err = checkTemplates(fsys, "d/**", ".vtl")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].OK)

	_, err = checkTemplates(fsys, "[", ".vm")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	stdout, _, code := run(t, "version")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "vmtransform ")

	stdout, _, code = run(t, "version", "--json")
	require.Equal(t, 0, code)
	var v VersionOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &v))
	assert.NotEmpty(t, v.Go)
}
