package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gfxprim/gfxbind/bind"
	"github.com/gfxprim/gfxbind/cheader"
	"github.com/gfxprim/gfxbind/config"
	"github.com/gfxprim/gfxbind/gen"
	"github.com/gfxprim/gfxbind/nativelib"
	"github.com/gfxprim/gfxbind/symtab"
)

// app carries the state shared by all subcommands.
type app struct {
	logger     *zap.Logger
	cfg        *config.Config
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "gfxbind",
		Short: "Compose and bind the gfxprim native library",
		Long: `gfxbind carves the flat gfxprim symbol table into units.

Constants selected by a unit go into its C namespace, the remaining
functions into the unit itself, and every pixmap gets the unit's
submodules. Units are read from --config; the core and text units are
used when the file does not exist.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "gfxbind.yaml", "Unit configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newGenCmd(a))
	root.AddCommand(newInspectCmd(a))
	return root
}

func (a *app) init() error {
	zcfg := zap.NewProductionConfig()
	if a.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return err
	}
	a.logger = logger
	bind.SetLogger(logger.Named("bind"))
	cheader.SetLogger(logger.Named("cheader"))
	gen.SetLogger(logger.Named("gen"))
	nativelib.SetLogger(logger.Named("nativelib"))

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger.Debug("configuration loaded",
		zap.String("path", a.configPath),
		zap.Int("units", len(cfg.Units)))
	return nil
}

// compose builds every configured unit against tab.
func (a *app) compose(tab *symtab.Table) (*bind.Library, error) {
	units, err := a.cfg.BindUnits()
	if err != nil {
		return nil, err
	}
	lib, err := bind.ComposeAll(tab, units...)
	if err != nil {
		return nil, err
	}
	a.logger.Info("composed library", zap.Int("symbols", tab.Len()), zap.Int("units", len(units)))
	return lib, nil
}
