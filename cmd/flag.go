// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// AnnotationConfigKey is the flag annotation holding the config key.
	AnnotationConfigKey = "cdntrace_config_key"
	// AnnotationEnv is the flag annotation holding the environment variable.
	AnnotationEnv = "cdntrace_env"
)

// Flag binds a command line flag to a config key.
type Flag struct {
	// name is the flag name
	name string
	// key is the viper key the flag is bound to
	key string
}

// NewFlag returns a flag with the given name bound to the config key.
func NewFlag(name, key string) *Flag {
	return &Flag{name: name, key: key}
}

// env returns the environment variable of the flag: CDNTRACE_<FLAG>,
// with dots and dashes replaced by underscores.
func (f *Flag) env() string {
	r := strings.NewReplacer(".", "_", "-", "_")
	return strings.ToUpper(envPrefix + "_" + r.Replace(f.name))
}

// bind binds the flag and its environment variable to the config key
// and records both on the flag for the generated docs.
// All calls use static names, so their errors are ignored.
func (f *Flag) bind(cmd *cobra.Command) {
	_ = viper.BindPFlag(f.key, cmd.Flags().Lookup(f.name))
	_ = viper.BindEnv(f.key, f.env())
	_ = cmd.Flags().SetAnnotation(f.name, AnnotationConfigKey, []string{f.key})
	_ = cmd.Flags().SetAnnotation(f.name, AnnotationEnv, []string{f.env()})
}

// String registers a string flag.
func (f *Flag) String(cmd *cobra.Command, value, usage string) {
	cmd.Flags().String(f.name, value, usage)
	f.bind(cmd)
}

// Duration registers a duration flag.
func (f *Flag) Duration(cmd *cobra.Command, value time.Duration, usage string) {
	cmd.Flags().Duration(f.name, value, usage)
	f.bind(cmd)
}

// Bool registers a bool flag.
func (f *Flag) Bool(cmd *cobra.Command, value bool, usage string) {
	cmd.Flags().Bool(f.name, value, usage)
	f.bind(cmd)
}
