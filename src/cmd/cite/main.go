package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cite/src/internal/config"
	"cite/src/internal/runner"
)

func newRootCmd() *cobra.Command {
	var opts config.Options
	cmd := &cobra.Command{
		Use:   "cite [flags] <style-file> [record-file]",
		Short: "Render a CSL citation or bibliography entry as HTML and RTF",
		Long: `Render one bibliographic record through a CSL style, producing an HTML
and an RTF fragment in one pass. The record is CSL-JSON, read from the
record file or from stdin when no record file is given. The result is a
JSON object {"html": ..., "rtf": ...} on stdout.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 2 {
				cmd.Print(cmd.UsageString())
				return fmt.Errorf("expected at most two arguments, got %d", len(args))
			}
			if len(args) == 0 {
				cmd.Print(cmd.UsageString())
				return errors.New("a style file is required")
			}
			opts.Positionals = args
			cfg, err := config.Resolve(opts)
			if err != nil {
				return err
			}
			r := runner.Runner{Stdin: cmd.InOrStdin(), Stdout: cmd.OutOrStdout()}
			return r.Run(cfg)
		},
	}
	cmd.Flags().BoolVarP(&opts.Bibliography, "bibliography", "b", false, "render a bibliography entry instead of an in-text citation")
	cmd.Flags().StringVarP(&opts.Locale, "locale", "l", "", "force this locale over the style's preference")
	cmd.Flags().StringVarP(&opts.LocaleDir, "locale-dir", "L", "", `directory holding locales-<lang>.xml files (default "./locales")`)
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log diagnostics to stderr")
	cmd.Flags().StringVarP(&opts.Processor, "processor", "P", "", "path to the citeproc script (default: citeproc.js beside the executable)")
	cmd.Flags().BoolVar(&opts.RTFFromHTML, "rtf-from-html", false, "derive RTF by converting the HTML pass instead of rendering twice")
	cmd.Flags().StringVar(&opts.DefaultsPath, "config", "", "YAML defaults file for locale, locale_dir, and processor")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.Print(c.UsageString())
		return err
	})
	return cmd
}

// wantsHelp reports whether argv asks for usage: a help flag anywhere
// wins regardless of the other arguments, and an empty argv means help
// too.
func wantsHelp(args []string) bool {
	if len(args) == 0 {
		return true
	}
	for _, a := range args {
		if a == "-h" || a == "--help" {
			return true
		}
	}
	return false
}

func execute(cmd *cobra.Command, args []string) error {
	if wantsHelp(args) {
		return cmd.Help()
	}
	cmd.SetArgs(args)
	return cmd.Execute()
}

func main() {
	if err := execute(newRootCmd(), os.Args[1:]); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
