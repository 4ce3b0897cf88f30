package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/getmockd/vmtransform/pkg/cli/internal/output"
	"github.com/getmockd/vmtransform/pkg/template"
)

// ErrCheckFailed is returned when at least one template does not parse.
var ErrCheckFailed = errors.New("template check failed")

// checkResult is one row of check output.
type checkResult struct {
	Path  string `json:"path"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func newCheckCmd(g *globalFlags) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Parse every template under a directory",
		Long: `Check finds every file under dir (default: the configured files directory)
whose name ends with the template suffix and reports syntax errors with their
line and column. Files matching --pattern are considered; ** matches any
number of directories.`,
		Example: `  vmtransform check
  vmtransform check ./__files --pattern 'users/**'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			dir := cfg.Files
			if len(args) == 1 {
				dir = args[0]
			}

			results, err := checkTemplates(os.DirFS(dir), pattern, cfg.TemplateSuffix)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", dir, err)
			}

			failed := slices.ContainsFunc(results, func(r checkResult) bool { return !r.OK })
			if g.jsonOutput {
				if err := output.JSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			} else {
				w := output.Table(cmd.OutOrStdout())
				for _, r := range results {
					status := "ok"
					if !r.OK {
						status = "FAIL"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", status, path.Join(dir, r.Path), r.Error)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				if len(results) == 0 {
					output.Warn(cmd.ErrOrStderr(), "no templates ending in %q under %s", cfg.TemplateSuffix, dir)
				}
			}

			if failed {
				return ErrCheckFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "**", "Glob selecting files to check, relative to dir")
	return cmd
}

// checkTemplates parses each file in fsys that matches pattern and ends with
// suffix. Results are sorted by path.
func checkTemplates(fsys fs.FS, pattern, suffix string) ([]checkResult, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	slices.Sort(matches)

	results := make([]checkResult, 0, len(matches))
	for _, name := range matches {
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		r := checkResult{Path: name, OK: true}
		src, err := fs.ReadFile(fsys, name)
		if err == nil {
			_, err = template.Parse(name, string(src))
		}
		if err != nil {
			r.OK = false
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	return results, nil
}
