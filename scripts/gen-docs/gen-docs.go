// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package main

//go:generate go run gen-docs.go gen-docs --path ../../docs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/spf13/pflag"
	cdntracecmd "github.com/telekom/cdntrace/cmd"
)

// referenceFile is the name of the generated configuration reference.
const referenceFile = "configuration.md"

func main() {
	rootCmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generates docs for cdntrace",
	}
	rootCmd.AddCommand(NewCmdGenDocs())

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewCmdGenDocs creates the gen-docs command
func NewCmdGenDocs() *cobra.Command {
	var docPath string

	cmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generate markdown documentation",
		Long:  "Generate the markdown documentation of the cdntrace commands and a reference of every setting",
		RunE: func(_ *cobra.Command, _ []string) error {
			return genDocs(cdntracecmd.BuildCmd(""), docPath)
		},
	}

	cmd.PersistentFlags().StringVar(&docPath, "path", "docs", "directory path where the markdown files will be created")

	return cmd
}

// genDocs writes one markdown file per command and the configuration reference into dir.
func genDocs(root *cobra.Command, dir string) error {
	root.DisableAutoGenTag = true
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 // docs are public
		return fmt.Errorf("failed to create docs directory: %w", err)
	}
	if err := doc.GenMarkdownTree(root, dir); err != nil {
		return fmt.Errorf("failed to generate docs: %w", err)
	}

	ref := configReference(root)
	if err := os.WriteFile(filepath.Join(dir, referenceFile), ref, 0o644); err != nil { // #nosec G306 // docs are public
		return fmt.Errorf("failed to write configuration reference: %w", err)
	}
	return nil
}

// configReference renders a table of every flag bound to a config key,
// grouped by command.
func configReference(root *cobra.Command) []byte {
	var buf bytes.Buffer
	buf.WriteString("# Configuration\n\n")
	buf.WriteString("Every setting can be given as flag, environment variable or key of the config file ")
	buf.WriteString("(`--config`, default `$HOME/.cdntrace.yaml`). Flags take precedence over the environment, ")
	buf.WriteString("the environment over the file.\n")

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		var rows bytes.Buffer
		c.LocalFlags().VisitAll(func(f *pflag.Flag) {
			key, env := annotation(f, cdntracecmd.AnnotationConfigKey), annotation(f, cdntracecmd.AnnotationEnv)
			if key == "" {
				return
			}
			def := f.DefValue
			if def == "" {
				def = "-"
			}
			fmt.Fprintf(&rows, "| `--%s` | `%s` | `%s` | `%s` | %s |\n", f.Name, env, key, def, f.Usage)
		})
		if rows.Len() > 0 {
			fmt.Fprintf(&buf, "\n## %s\n\n", c.CommandPath())
			buf.WriteString("| Flag | Environment | Config key | Default | Description |\n")
			buf.WriteString("|---|---|---|---|---|\n")
			buf.Write(rows.Bytes())
		}
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(root)
	return buf.Bytes()
}

func annotation(f *pflag.Flag, name string) string {
	if v := f.Annotations[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}
