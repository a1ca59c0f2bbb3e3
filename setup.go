// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// envPrefix namespaces environment overrides, e.g. SKYWAY_SEARCH_TIMEOUT.
const envPrefix = "SKYWAY"

// errVersionPrinted stops startup once the version has been printed.
var errVersionPrinted = errors.New("version printed")

func setupFlagSet(fs *pflag.FlagSet) {
	fs.StringP("file", "f", "", "the configuration file to use.  Overrides the search path.")
	fs.BoolP("debug", "d", false, "enables debug logging.  Overrides configuration.")
	fs.StringP("listen", "l", "", "the primary server address.  Overrides configuration.")
	fs.BoolP("version", "v", false, "print version and exit")
}

func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file, _ := fs.GetString("file"); len(file) > 0 {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(applicationName)
		v.AddConfigPath(fmt.Sprintf("/etc/%s", applicationName))
		v.AddConfigPath(fmt.Sprintf("$HOME/.%s", applicationName))
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		return v, fmt.Errorf("failed to read config file: %w", err)
	}

	if debug, _ := fs.GetBool("debug"); debug {
		v.Set("logging.level", "DEBUG")
	}
	if listen, _ := fs.GetString("listen"); len(listen) > 0 {
		v.Set("servers.primary.address", listen)
	}
	return v, nil
}

func setup(args []string, out io.Writer) (*viper.Viper, *zap.Logger, error) {
	l, err := zap.NewDevelopment() // until the configured logger is built
	if err != nil {
		return nil, l, fmt.Errorf("failed to create zap logger: %w", err)
	}

	fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	setupFlagSet(fs)
	if err = fs.Parse(args); err != nil {
		return nil, l, fmt.Errorf("failed to parse args: %w", err)
	}
	if printVersion, _ := fs.GetBool("version"); printVersion {
		printVersionInfo(out)
		return nil, l, errVersionPrinted
	}

	v, err := newViper(fs)
	if err != nil {
		return v, l, err
	}

	var c sallust.Config
	err = v.UnmarshalKey("logging", &c, arrange.ComposeDecodeHooks(sallust.DecodeHook))
	if err != nil {
		return v, l, err
	}

	l, err = c.Build()
	if err == nil {
		l = l.With(zap.String("application", applicationName), zap.String("version", Version))
	}
	return v, l, err
}

func printVersionInfo(out io.Writer) {
	fmt.Fprintf(out, "%s:\n", applicationName)
	fmt.Fprintf(out, "  version: \t%s\n", Version)
	fmt.Fprintf(out, "  go version: \t%s\n", runtime.Version())
	fmt.Fprintf(out, "  built time: \t%s\n", BuildTime)
	fmt.Fprintf(out, "  git commit: \t%s\n", GitCommit)
	fmt.Fprintf(out, "  os/arch: \t%s/%s\n", runtime.GOOS, runtime.GOARCH)
}
