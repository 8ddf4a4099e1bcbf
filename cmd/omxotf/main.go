package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"omxotf/internal/logger"
	"omxotf/pkg/config"
	"omxotf/pkg/otf"
	"omxotf/pkg/projection"
	"omxotf/pkg/spectrum"
	"omxotf/pkg/visualization"
)

var (
	configPath  string
	framesDir   string
	projectPath string
	save3D      bool
	emission    int
	noMirror    bool
	linear      bool
	noCenter    bool
	showRaw     bool
	showPhase   bool
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "omxotf [file.otf]",
		Short: "Decode OMX OTF files",
		Long: `omxotf reads an OMX optical transfer function file, writes its
power spectra as images and stores the axial projection for reconstruction.`,
		Args:          cobra.ExactArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "omxotf.yaml", "YAML configuration file")
	flags.StringVar(&framesDir, "frames-dir", "", "Directory for spectrum images (default: from config, skipped if empty)")
	flags.StringVarP(&projectPath, "project", "p", "", "Write the OTF projection to this file")
	flags.BoolVar(&save3D, "save-3d", false, "Also store the full 3D OTF (implies --project)")
	flags.IntVar(&emission, "emission", 0, "Emission wavelength in nm (default: from config)")
	flags.BoolVar(&noMirror, "no-mirror", false, "Do not mirror the spectrum to the negative axis")
	flags.BoolVar(&linear, "linear", false, "Show linear instead of logarithmic magnitudes")
	flags.BoolVar(&noCenter, "no-center", false, "Do not center the axial DC term")
	flags.BoolVar(&showRaw, "raw", false, "Also write the raw real/imaginary planes")
	flags.BoolVar(&showPhase, "phase", false, "Also write phase frames")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print header details")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// applyFlags overrides configuration values with explicitly set flags
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("frames-dir") {
		cfg.Output.FramesDir = framesDir
	}
	if f.Changed("emission") {
		cfg.Export.Emission = emission
	}
	if f.Changed("save-3d") {
		cfg.Export.Save3D = save3D
	}
	if f.Changed("no-mirror") {
		cfg.Spectrum.MirrorNegativeAxis = !noMirror
	}
	if f.Changed("linear") {
		cfg.Spectrum.LogMagnitude = !linear
	}
	if f.Changed("no-center") {
		cfg.Spectrum.CenterDcOnZAxis = !noCenter
	}
	if f.Changed("raw") {
		cfg.Spectrum.IncludeRawBands = showRaw
	}
	if f.Changed("phase") {
		cfg.Spectrum.IncludePhase = showPhase
	}
	if f.Changed("verbose") {
		cfg.Output.Verbose = verbose
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	if cfg.Processing.NumCores > 0 {
		runtime.GOMAXPROCS(cfg.Processing.NumCores)
	}

	level := logger.LogInfo
	if cfg.Output.Verbose {
		level = logger.LogDebug
	}
	log := logger.NewStderrLogger(level)

	if cfg.Export.Save3D && projectPath == "" {
		return fmt.Errorf("--save-3d needs an output file, set --project")
	}
	if cfg.Export.Emission <= 0 {
		return fmt.Errorf("invalid emission wavelength %d", cfg.Export.Emission)
	}

	startTime := time.Now()
	store, err := otf.ReadFile(args[0], log)
	if err != nil {
		return err
	}
	log.Infof("read OTF: %d axial x %d lateral samples, %d bands",
		store.SamplesAxial(), store.SamplesLateral(), store.NumBands())

	if projectPath != "" {
		artifact, err := projection.Project(store, cfg.ProjectionOptions())
		if err != nil {
			return err
		}
		if err := projection.WriteFile(projectPath, artifact, log); err != nil {
			return err
		}
	}

	if cfg.Output.FramesDir != "" {
		res, err := spectrum.Render(store, cfg.SpectrumOptions())
		if err != nil {
			return err
		}

		sink := visualization.NewFileSink(cfg.Output.FramesDir, log)
		if len(res.Raw) > 0 {
			if err := sink.Show("raw OTF", res.Raw); err != nil {
				return err
			}
		}
		if err := sink.Show("OTF power spec.", res.Spectra); err != nil {
			return err
		}
	}

	log.Debugf("done in %.3f seconds", time.Since(startTime).Seconds())
	return nil
}
