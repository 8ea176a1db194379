// Command scf is a thin host binary over the scalable cuckoo filter: it
// creates filter files, inserts keys into them, answers membership queries,
// and removes keys. Keys are treated as text; "-" reads one key per line
// from stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"scalablecuckoo/internal/logging"
	"scalablecuckoo/pkg/config"
	"scalablecuckoo/pkg/scf"
	"scalablecuckoo/pkg/value"
)

var (
	configPath = flag.String("config", "", "Path to configuration file")
	filterPath = flag.String("file", "", "Path to the serialized filter (overrides config)")
	create     = flag.Bool("create", false, "Create a new empty filter file")
	capacity   = flag.Uint64("capacity", 0, "Initial capacity for -create (overrides config)")
	fpp        = flag.Float64("fpp", 0, "Initial false-positive probability for -create (overrides config)")
	insertKey  = flag.String("insert", "", "Insert a key (\"-\" reads keys from stdin)")
	checkKey   = flag.String("check", "", "Query a key; prints true or false")
	removeKey  = flag.String("remove", "", "Remove a previously inserted key")
	stats      = flag.Bool("stats", false, "Print filter statistics")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Early error before logging is initialized
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *filterPath != "" {
		cfg.Filter.DataFile = *filterPath
	}
	if *capacity != 0 {
		cfg.Filter.InitialCapacity = *capacity
	}
	if *fpp != 0 {
		cfg.Filter.FalsePositiveRate = *fpp
	}

	logger := logging.InitializeFromConfig(logging.LogConfig{
		Level:         cfg.Logging.Level,
		EnableConsole: cfg.Logging.EnableConsole,
		EnableFile:    cfg.Logging.EnableFile,
		LogFile:       cfg.Logging.LogFile,
	})
	ctx := logging.WithCorrelationID(context.Background(), logging.NewCorrelationID())

	if *create {
		filter, err := scf.NewWithConfig(scf.Config{
			InitialCapacity: cfg.Filter.InitialCapacity,
			InitialFPP:      cfg.Filter.FalsePositiveRate,
			ScaleFactor:     cfg.Filter.ScaleFactor,
			Tightening:      cfg.Filter.Tightening,
			SlotsPerBucket:  cfg.Filter.SlotsPerBucket,
			Seed:            cfg.Filter.Seed,
		})
		if err != nil {
			logger.Fatal(ctx, logging.ComponentFilter, logging.ActionStart, "Failed to create filter", err)
			os.Exit(1)
		}
		if err := filter.WriteToFile(cfg.Filter.DataFile); err != nil {
			logger.Fatal(ctx, logging.ComponentCodec, logging.ActionSerialize, "Failed to write filter file", err)
			os.Exit(1)
		}
		logger.Info(ctx, logging.ComponentFilter, logging.ActionStart, "Created filter", map[string]interface{}{
			"file":     cfg.Filter.DataFile,
			"capacity": cfg.Filter.InitialCapacity,
			"fpp":      cfg.Filter.FalsePositiveRate,
		})
		return
	}

	filter, err := scf.ReadFromFile(cfg.Filter.DataFile)
	if err != nil {
		logger.Fatal(ctx, logging.ComponentCodec, logging.ActionRestore, "Failed to load filter file", err, map[string]interface{}{
			"file": cfg.Filter.DataFile,
		})
		os.Exit(1)
	}

	switch {
	case *insertKey != "":
		inserted, err := insert(filter, *insertKey)
		if err != nil {
			logger.Fatal(ctx, logging.ComponentFilter, logging.ActionInsert, "Insert failed", err)
			os.Exit(1)
		}
		if err := filter.WriteToFile(cfg.Filter.DataFile); err != nil {
			logger.Fatal(ctx, logging.ComponentCodec, logging.ActionSerialize, "Failed to write filter file", err)
			os.Exit(1)
		}
		logger.Info(ctx, logging.ComponentFilter, logging.ActionInsert, "Inserted keys", map[string]interface{}{
			"count":       inserted,
			"sub_filters": filter.FilterCount(),
		})

	case *checkKey != "":
		fmt.Println(filter.MightContain(value.Text(*checkKey)))

	case *removeKey != "":
		removed := filter.Remove(value.Text(*removeKey))
		if removed {
			if err := filter.WriteToFile(cfg.Filter.DataFile); err != nil {
				logger.Fatal(ctx, logging.ComponentCodec, logging.ActionSerialize, "Failed to write filter file", err)
				os.Exit(1)
			}
		}
		fmt.Println(removed)

	case *stats:
		fmt.Printf("file: %s\n", cfg.Filter.DataFile)
		fmt.Printf("items: %d\n", filter.Len())
		fmt.Printf("capacity: %d\n", filter.Capacity())
		fmt.Printf("sub-filters: %d\n", filter.FilterCount())
		fmt.Printf("target fpp: %g\n", filter.FalsePositiveProbability())
		fmt.Printf("empty: %v\n", filter.IsEmpty())

	default:
		flag.Usage()
		os.Exit(2)
	}
}

// insert adds one key, or every stdin line when key is "-". It returns the
// number of keys inserted.
func insert(filter *scf.ScalableCuckooFilter, key string) (int, error) {
	if key != "-" {
		return 1, filter.Insert(value.Text(key))
	}
	count := 0
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := filter.Insert(value.Text(scanner.Text())); err != nil {
			return count, err
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("reading stdin: %w", err)
	}
	return count, nil
}
