package main

import (
	"github.com/Orange-OpenSource/angular-css-shrink/internal/config"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/log"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/shrink"
	"github.com/spf13/cobra"
)

// optionFlags are the shrink options shared by every command
type optionFlags struct {
	config         string
	delimiter      string
	minClassLength int
	minify         bool
}

func (o *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.config, "config", "c", "", "Path to a YAML or JSON config file (default: package.json cssShrink field or .config/css-shrink.*)")
	cmd.Flags().StringVar(&o.delimiter, "delimiter", "", "Regular expression matching characters that cannot appear in a class name")
	cmd.Flags().IntVar(&o.minClassLength, "min-class-length", shrink.DefaultMinClassLength, "Ignore words of at most this many characters")
	cmd.Flags().BoolVar(&o.minify, "minify", false, "Minify the filtered stylesheets")
}

// load reads the config file and applies the flags the user set on top of it
func (o *optionFlags) load(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg    *config.Config
		source string
		err    error
	)
	if o.config != "" {
		cfg, err = config.LoadFile(o.config)
		source = o.config
	} else {
		cfg, source, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &config.Config{}
	} else {
		log.Debug("Loaded config from %s", source)
	}

	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		cfg.DelimiterPattern = o.delimiter
	}
	if flags.Changed("min-class-length") {
		n := o.minClassLength
		cfg.MinClassLength = &n
	}
	if flags.Changed("minify") {
		cfg.Minify = o.minify
	}
	return cfg, nil
}
