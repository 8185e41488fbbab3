package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/refundcast/internal/calculation"
	"github.com/rgehrsitz/refundcast/internal/config"
	"github.com/rgehrsitz/refundcast/internal/domain"
	"github.com/rgehrsitz/refundcast/internal/logging"
	"github.com/rgehrsitz/refundcast/internal/output"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "refundcast %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "refundcast",
	Short: "Prorated refund reserve forecaster",
	Long: "Forecasts how much of a subscription portfolio's value to hold in reserve for " +
		"prorated refunds, assuming exponentially distributed membership lifetimes.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var forecastCmd = &cobra.Command{
	Use:   "forecast [config-file] [output-file]",
	Short: "Forecast the refund reserve and write the percentage series",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, outputFile := args[0], args[1]

		formatName, _ := cmd.Flags().GetString("format")
		f := output.GetFormatterByName(formatName)
		if f == nil {
			return fmt.Errorf("unknown format %q (available: %v)", formatName, output.AvailableFormatterNames())
		}

		result, err := runForecast(cmd, configFile)
		if err != nil {
			return err
		}

		if err := output.WriteFormatted(f, result, outputFile); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if noChart, _ := cmd.Flags().GetBool("no-chart"); !noChart {
			maxRows, _ := cmd.Flags().GetInt("chart-rows")
			fmt.Fprintln(out, output.ReserveCharts(result, maxRows, 50))
		}
		fmt.Fprintf(out, "%s forecast for %d clients written to %s\n", result.Mode, result.Clients, outputFile)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate a configuration file and its client dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		cfg, portfolio, err := parser.LoadPortfolio(args[0])
		if err != nil {
			return err
		}
		avg, err := portfolio.AverageLifetimeDays()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration file %s is valid\n", args[0])
		fmt.Fprintf(out, "Dataset:          %s\n", cfg.FilePath)
		fmt.Fprintf(out, "Granularity:      %s\n", cfg.Granularity())
		fmt.Fprintf(out, "Clients:          %d\n", portfolio.Len())
		fmt.Fprintf(out, "Total value:      %s\n", output.FormatCurrency(portfolio.TotalValue()))
		fmt.Fprintf(out, "Average lifetime: %.2f days\n", avg)
		return nil
	},
}

var clientsCmd = &cobra.Command{
	Use:   "clients [config-file]",
	Short: "Show the expected yearly refund for each client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := runForecast(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "table", "console":
			_, err = out.Write(output.ClientsTable(result))
		case "csv":
			var data []byte
			if data, err = output.ClientsCSV(result); err == nil {
				_, err = out.Write(data)
			}
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			err = enc.Encode(result.ClientRefunds)
		default:
			return fmt.Errorf("unknown format %q (available: table, csv, json)", format)
		}
		return err
	},
}

// runForecast loads the config named on the command line and runs the engine
// with the command's mode and granularity flags
func runForecast(cmd *cobra.Command, configFile string) (*domain.ForecastResult, error) {
	parser := config.NewInputParser()
	cfg, portfolio, err := parser.LoadPortfolio(configFile)
	if err != nil {
		return nil, err
	}

	granularity := cfg.Granularity()
	if g, _ := cmd.Flags().GetString("granularity"); g != "" {
		if granularity, err = domain.ParseGranularity(g); err != nil {
			return nil, err
		}
	}

	mode := domain.Cumulative
	if cmd.Flags().Lookup("mode") != nil {
		m, _ := cmd.Flags().GetString("mode")
		if mode, err = domain.ParseMode(m); err != nil {
			return nil, err
		}
	}

	engine := calculation.NewForecastEngine()
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		pretty, _ := cmd.Flags().GetBool("log-pretty")
		logger := logging.New(logging.Config{Level: "debug", Pretty: pretty, Out: cmd.ErrOrStderr()})
		engine.SetLogger(logging.NewAdapter(logger, "engine"))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := engine.Run(ctx, portfolio, granularity, mode)
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", configFile, err)
	}
	return result, nil
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging for the forecast engine")
	rootCmd.PersistentFlags().Bool("log-pretty", false, "Human-readable log output instead of JSON lines")

	forecastCmd.Flags().StringP("mode", "m", "cumulative", "Refund series to write (cumulative, per_period)")
	forecastCmd.Flags().StringP("format", "f", "json", "Output file format (json, report, csv, console)")
	forecastCmd.Flags().String("granularity", "", "Override the configured granularity (monthly, daily)")
	forecastCmd.Flags().Bool("no-chart", false, "Do not print the reserve charts")
	forecastCmd.Flags().Int("chart-rows", 12, "Maximum bars per chart; 0 shows every period")

	clientsCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	clientsCmd.Flags().String("granularity", "", "Override the configured granularity (monthly, daily)")

	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	logging.Init()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
