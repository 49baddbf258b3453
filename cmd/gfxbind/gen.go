package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gfxprim/gfxbind/cheader"
	"github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/gen"
)

type genOptions struct {
	headers    []string
	out        string
	prefix     string
	bindImport string
	watch      bool
	debounce   time.Duration
}

func newGenCmd(a *app) *cobra.Command {
	var o genOptions
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Go bindings from the C headers",
		Long: `Scan the C headers, compose every configured unit and write one Go
package per unit under --out, named <package-prefix><unit>.

With --watch the bindings are regenerated whenever a header changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(o.headers) == 0 {
				o.headers = a.cfg.Headers
			}
			if len(o.headers) == 0 {
				return errors.InvalidInput(errors.PhaseConfig, "no headers given")
			}
			if !cmd.Flags().Changed("package-prefix") && a.cfg.PackagePrefix != "" {
				o.prefix = a.cfg.PackagePrefix
			}

			ctx := cmd.Context()
			if err := a.generate(ctx, cmd, o); err != nil {
				return err
			}
			if !o.watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			w, err := newWatcher(o.headers, o.debounce, func(ctx context.Context) error {
				return a.generate(ctx, cmd, o)
			}, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("watching headers", zap.Strings("headers", o.headers))
			return w.Run(ctx)
		},
	}
	cmd.Flags().StringSliceVar(&o.headers, "header", nil, "C headers to scan (default: headers from the config)")
	cmd.Flags().StringVarP(&o.out, "out", "o", ".", "Output directory")
	cmd.Flags().StringVar(&o.prefix, "package-prefix", "gfx", "Prefix of the generated package names")
	cmd.Flags().StringVar(&o.bindImport, "bind-import", gen.DefaultBindImport, "Import path of the bind runtime package")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "Regenerate when a header changes")
	cmd.Flags().DurationVar(&o.debounce, "debounce", 200*time.Millisecond, "Quiet period before regenerating")
	return cmd
}

func (a *app) generate(ctx context.Context, cmd *cobra.Command, o genOptions) error {
	tab, err := cheader.ScanFiles(ctx, o.headers...)
	if err != nil {
		return err
	}
	lib, err := a.compose(tab)
	if err != nil {
		return err
	}

	bases := make([]string, len(o.headers))
	for i, h := range o.headers {
		bases[i] = filepath.Base(h)
	}
	source := strings.Join(bases, ", ")

	for _, mod := range lib.Modules() {
		pkg := gen.PackageName(o.prefix, mod.Name())
		src, err := gen.Generate(mod, gen.Options{Package: pkg, Source: source, BindImport: o.bindImport})
		if err != nil {
			return err
		}
		dir := filepath.Join(o.out, pkg)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create package directory: %w", err)
		}
		path := filepath.Join(dir, mod.Name()+".go")
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		a.logger.Info("wrote unit", zap.String("unit", mod.Name()), zap.String("path", path))
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
