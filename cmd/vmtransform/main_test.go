package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/getmockd/vmtransform/pkg/cli"
)

// TestMain lets scripts run vmtransform as a command without building it.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"vmtransform": func() int {
			return cli.Run(os.Args[1:], os.Stdout, os.Stderr)
		},
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			for _, name := range []string{
				"VMTRANSFORM_FILES",
				"VMTRANSFORM_TEMPLATE_SUFFIX",
				"VMTRANSFORM_STRICT",
				"VMTRANSFORM_CACHE",
				"VMTRANSFORM_JSONPATH",
				"VMTRANSFORM_LOG_LEVEL",
				"VMTRANSFORM_LOG_FORMAT",
			} {
				env.Setenv(name, "")
			}
			return nil
		},
	})
}
