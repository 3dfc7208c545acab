// locate resolves depot numbers from the command line and prints the
// results as JSON.
//
//	locate [--file path] [--token T] [--compact] 6268 1234,5678
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"park-locator-service/internal/adapters/ump"
	"park-locator-service/internal/api/dto"
	"park-locator-service/internal/app"
	"park-locator-service/internal/config"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/logger"
	"park-locator-service/internal/ports"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		filePath string
		token    string
		compact  bool
	)

	flagSet := pflag.NewFlagSet("locate", pflag.ContinueOnError)
	flagSet.StringVar(&filePath, "file", "", "read depot numbers from this file as well")
	flagSet.StringVar(&token, "token", "", "use this bearer token instead of the token file (no re-login)")
	flagSet.BoolVar(&compact, "compact", false, "print the JSON array on a single line")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	_ = godotenv.Load()
	logger.Setup()
	cfg := config.Load()

	depots, failures := collectDepots(flagSet.Args(), filePath)
	if len(depots) == 0 && len(failures) == 0 {
		printHelp(flagSet)
		return fmt.Errorf("no depot numbers given")
	}

	var auth ports.AuthProvider
	if token != "" {
		auth = ump.StaticToken(token)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pipeline, err := app.Build(ctx, cfg, auth)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	results := append(failures, pipeline.Batch.ResolveAll(ctx, depots)...)
	return writeResults(os.Stdout, results, compact)
}

// collectDepots parses depot numbers from args and, when filePath is set,
// from the file. Tokens that are not depot numbers and an unreadable file
// come back as failed resolutions.
func collectDepots(args []string, filePath string) ([]string, []domain.VehicleResolution) {
	text := strings.Join(args, " ")

	var failures []domain.VehicleResolution
	if filePath != "" {
		b, err := os.ReadFile(filePath)
		if err != nil {
			failures = append(failures, domain.Failed("", domain.ErrKindFileRead, err.Error()))
		} else {
			text += "\n" + string(b)
		}
	}

	depots, invalid := domain.ParseDepotNumbers(text)
	return depots, append(failures, invalid...)
}

// writeResults prints all results as a single JSON array.
func writeResults(w io.Writer, results []domain.VehicleResolution, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(dto.FromResolutions(results))
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "usage: locate [flags] DEPOT_NUMBER...\n\n")
	fmt.Fprintf(os.Stderr, "Depot numbers are 3 to 6 digits, separated by spaces, commas or semicolons.\n\n")
	flagSet.PrintDefaults()
}
