package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/rulekit/pkg/config"
	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/messages"
	"github.com/dmitrymomot/rulekit/pkg/metrics"
	"github.com/dmitrymomot/rulekit/pkg/validator"
)

var (
	errValidationFailed = errors.New("validation failed")
	errShapeRequired    = errors.New("--shape is required when the document declares several shapes")
)

// app carries what every subcommand needs after configuration is loaded.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	engine *validator.Engine
	reg    *prometheus.Registry
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:   "rulecheck",
		Short: "Validate documents against declarative rule shapes",
		Long: `rulecheck resolves shapes declared in a YAML document into per-field rule
chains and runs them against JSON or YAML data.

Examples:
  rulecheck check --shapes shapes.yaml --shape signup --data form.json
  rulecheck check --shapes shapes.yaml --data - < form.yaml
  rulecheck shapes --shapes shapes.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files loaded before reading the environment")

	root.AddCommand(newCheckCmd(&envFiles), newShapesCmd())
	return root
}

func newCheckCmd(envFiles *[]string) *cobra.Command {
	var opts struct {
		shapes   string
		shape    string
		data     string
		messages string
		lang     string
		metrics  string
	}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a data document against a shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeLog, err := setup(*envFiles, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			shapes, err := readShapes(opts.shapes)
			if err != nil {
				return err
			}
			name, shape, err := pickShape(shapes, opts.shape)
			if err != nil {
				return err
			}
			data, err := readData(opts.data, cmd.InOrStdin())
			if err != nil {
				return err
			}

			failures := a.engine.Validate(shape, data)

			if path := cmp.Or(opts.messages, a.cfg.MessagesPath); path != "" && len(failures) > 0 {
				catalog, err := messages.Load(cmd.Context(), path, messages.WithLogger(a.log))
				if err != nil {
					return err
				}
				failures = failures.Localize(catalog, cmp.Or(opts.lang, a.cfg.Lang))
			}

			a.log.Info("document checked", logger.Shape(name), logger.Failures(len(failures)))
			if opts.metrics != "" {
				if err := prometheus.WriteToTextfile(opts.metrics, a.reg); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if failures.IsEmpty() {
				fmt.Fprintln(out, "ok")
				return nil
			}
			for _, f := range failures {
				fmt.Fprintf(out, "%s: %s\n", f.Field, f.Message)
			}
			return errValidationFailed
		},
	}

	cmd.Flags().StringVar(&opts.shapes, "shapes", "", "YAML document declaring the shapes")
	cmd.Flags().StringVar(&opts.shape, "shape", "", "shape to validate against (optional when the document declares one)")
	cmd.Flags().StringVar(&opts.data, "data", "-", "JSON or YAML data document, - reads stdin")
	cmd.Flags().StringVar(&opts.messages, "messages", "", "message catalog used to localize failures (default $VALIDATION_MESSAGES_PATH)")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "language of localized failures (default $VALIDATION_LANG)")
	cmd.Flags().StringVar(&opts.metrics, "metrics-file", "", "write validation metrics in Prometheus text format to this file")
	_ = cmd.MarkFlagRequired("shapes")
	return cmd
}

func newShapesCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "Print the resolved rule chains of every shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shapes, err := readShapes(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range slices.Sorted(maps.Keys(shapes)) {
				policy, rules := validator.ResolveShape(shapes[name])
				switch {
				case policy == nil:
					fmt.Fprintf(out, "%s (not validated)\n", name)
					continue
				case policy.Exhaustive:
					fmt.Fprintf(out, "%s (exhaustive)\n", name)
				default:
					fmt.Fprintf(out, "%s\n", name)
				}
				for _, field := range rules.Fields() {
					chain := make([]string, 0, len(rules[field]))
					for _, r := range rules[field] {
						chain = append(chain, r.String())
					}
					fmt.Fprintf(out, "  %s: %s\n", field, strings.Join(chain, "; "))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "shapes", "", "YAML document declaring the shapes")
	_ = cmd.MarkFlagRequired("shapes")
	return cmd
}

// setup loads configuration and builds the logger, metrics and engine. Logs
// go to stderr unless LOG_FILE is set.
func setup(envFiles []string, stderr io.Writer) (*app, func() error, error) {
	if len(envFiles) > 0 {
		if err := config.LoadEnv(envFiles...); err != nil {
			return nil, nil, err
		}
	}

	var cfg config.Config
	if err := config.Load(&cfg); err != nil {
		return nil, nil, err
	}

	var extra []logger.Option
	if cfg.LogFile == "" {
		extra = append(extra, logger.WithOutput(stderr))
	}
	log, closeLog, err := logger.FromConfig(cfg, "rulecheck", extra...)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(cfg.MetricsNamespace, reg)
	if err != nil {
		_ = closeLog()
		return nil, nil, err
	}

	engine := validator.NewEngine(
		validator.WithLogger(log),
		validator.WithObserver(collector),
		validator.WithResolver(validator.NewResolver(validator.WithCacheSize(cfg.CacheSize))),
	)
	return &app{cfg: cfg, log: log, engine: engine, reg: reg}, closeLog, nil
}

func readShapes(path string) (map[string]validator.Shape, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapes: %w", err)
	}
	defer f.Close()

	return validator.LoadShapes(f)
}

func pickShape(shapes map[string]validator.Shape, name string) (string, validator.Shape, error) {
	if name == "" {
		if len(shapes) != 1 {
			return "", nil, errShapeRequired
		}
		for n, s := range shapes {
			return n, s, nil
		}
	}
	s, ok := shapes[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", validator.ErrUnknownShape, name)
	}
	return name, s, nil
}

// readData decodes a JSON or YAML object. YAML is a superset of JSON, so one
// decoder covers both.
func readData(path string, stdin io.Reader) (map[string]any, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}

	data := map[string]any{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return data, nil
}
