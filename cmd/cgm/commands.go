package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/cgm/cg"
	"github.com/katalvlaran/cgm/config"
	"github.com/katalvlaran/cgm/core"
	"github.com/katalvlaran/cgm/dataset"
	"github.com/katalvlaran/cgm/metrics"
	"github.com/katalvlaran/cgm/rng"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	verbose    bool

	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "cgm",
		Short:        "Simulate, estimate and score Conditional Gaussian models",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "engine settings (YAML); defaults when empty")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(a.simulateCmd(), a.estimateCmd(), a.dofCmd())

	return root
}

func (a *app) setup(stderr io.Writer) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	a.metrics = metrics.DefaultRegistry()

	a.cfg = config.Default()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	return nil
}

func (a *app) common() []cg.Option {
	return []cg.Option{cg.WithLogger(a.logger), cg.WithMetrics(a.metrics)}
}

func (a *app) simulateCmd() *cobra.Command {
	var (
		modelPath string
		outPath   string
		rows      int
		seed      uint64
		imSeed    uint64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Draw a random model for the graph and sample a CSV dataset from it",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := LoadModel(modelPath)
			if err != nil {
				return err
			}
			pm, err := cg.NewPm(g, a.cfg.PmOptions()...)
			if err != nil {
				return err
			}
			opts := append(a.cfg.ImOptions(), cg.WithInitMode(cg.Random), cg.WithRand(rng.New(imSeed)))
			im, err := cg.NewIm(pm, append(opts, a.common()...)...)
			if err != nil {
				return err
			}

			simOpts := append(a.cfg.SimOptions(), a.common()...)
			if cmd.Flags().Changed("seed") {
				simOpts = append(simOpts, cg.WithSeed(seed))
			}
			data, err := cg.Simulate(cmd.Context(), im, rows, simOpts...)
			if err != nil {
				return err
			}

			return writeOut(cmd.OutOrStdout(), outPath, data.WriteCSV)
		},
	}
	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "model file (YAML)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output CSV; stdout when empty")
	cmd.Flags().IntVarP(&rows, "rows", "n", 1000, "number of records")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "simulation seed; overrides the configured seed")
	cmd.Flags().Uint64Var(&imSeed, "model-seed", rng.DefaultSeed, "seed of the random parameters")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

// Report is the YAML output of the estimate command.
type Report struct {
	Records       int               `yaml:"records"`
	DoF           int               `yaml:"dof"`
	LogLikelihood float64           `yaml:"log_likelihood"`
	BIC           float64           `yaml:"bic"`
	AIC           float64           `yaml:"aic"`
	Undetermined  int               `yaml:"undetermined"`
	Parameters    []ParameterReport `yaml:"parameters"`
}

// ParameterReport is one estimated mixed-group parameter.
type ParameterReport struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

func (a *app) estimateCmd() *cobra.Command {
	var modelPath, dataPath, outPath string
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Fit the graph to a CSV dataset and report parameters and scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := LoadModel(modelPath)
			if err != nil {
				return err
			}
			pm, err := cg.NewPm(g, a.cfg.PmOptions()...)
			if err != nil {
				return err
			}
			data, err := readData(dataPath, pm.Graph())
			if err != nil {
				return err
			}
			im, err := cg.Estimate(cmd.Context(), pm, data, append(a.cfg.ImOptions(), a.common()...)...)
			if err != nil {
				return err
			}
			rep, err := report(im, data)
			if err != nil {
				return err
			}

			return writeOut(cmd.OutOrStdout(), outPath, func(w io.Writer) error {
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(rep); err != nil {
					return err
				}
				return enc.Close()
			})
		},
	}
	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "model file (YAML)")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "input CSV")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output report; stdout when empty")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func report(im *cg.Im, data *dataset.Dataset) (*Report, error) {
	props, err := cg.NewProperties(data, im.Pm().Graph())
	if err != nil {
		return nil, err
	}
	ll, err := cg.LogLikelihood(im, data)
	if err != nil {
		return nil, err
	}
	rep := &Report{
		Records:       props.SampleSize,
		DoF:           props.DoF,
		LogLikelihood: ll,
		BIC:           props.BIC(ll),
		AIC:           props.AIC(ll),
	}
	for _, p := range im.Pm().Parameters() {
		v, err := im.Value(p)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) {
			rep.Undetermined++
		}
		rep.Parameters = append(rep.Parameters, ParameterReport{Name: p.Name(), Value: v})
	}

	return rep, nil
}

func (a *app) dofCmd() *cobra.Command {
	var modelPath, dataPath string
	cmd := &cobra.Command{
		Use:   "dof",
		Short: "Print the degrees of freedom of the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := LoadModel(modelPath)
			if err != nil {
				return err
			}
			var data *dataset.Dataset
			if dataPath != "" {
				if data, err = readData(dataPath, g); err != nil {
					return err
				}
			}
			dof, err := cg.DegreesOfFreedom(data, g)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dof)

			return err
		},
	}
	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "model file (YAML)")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "CSV whose discrete columns override category counts")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func readData(path string, g *core.Graph) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cgm: open %s: %w", path, err)
	}
	defer f.Close()

	return dataset.ReadCSV(f, g.Variables())
}

// writeOut runs write against path, or against stdout when path is empty.
func writeOut(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cgm: create %s: %w", path, err)
	}
	if err = write(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
