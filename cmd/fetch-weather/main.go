package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"pv-plant-model/internal/data"
)

func main() {
	var (
		lat        = flag.Float64("lat", 35.05, "Site latitude, decimal degrees")
		lon        = flag.Float64("lon", -106.54, "Site longitude, decimal degrees")
		names      = flag.String("names", "tmy", "PSM3 names parameter: tmy or a year 1998-2020")
		interval   = flag.Int("interval", 60, "Sample interval in minutes (30 or 60)")
		bias       = flag.Float64("bias", 1.0, "Bias correction multiplier applied to irradiance")
		name       = flag.String("name", "", "Dataset name (default: derived from names and coordinates)")
		outDir     = flag.String("out", "examples/datasets", "Directory to write the dataset JSON into")
		cachePath  = flag.String("cache", "", "Optional SQLite weather cache path")
		clearCache = flag.Bool("clear-cache", false, "Clear the weather cache and exit")
		cacheStats = flag.Bool("cache-stats", false, "Print weather cache statistics and exit")
	)
	flag.Parse()

	var cache *data.WeatherCache
	if *cachePath != "" {
		var err error
		cache, err = data.OpenWeatherCache(*cachePath)
		if err != nil {
			log.Fatalf("Failed to open weather cache: %v", err)
		}
		defer cache.Close()
	}

	if *clearCache {
		if cache == nil {
			log.Fatal("--clear-cache requires --cache")
		}
		if err := cache.Clear(); err != nil {
			log.Fatalf("Failed to clear weather cache: %v", err)
		}
		fmt.Println("Weather cache cleared")
		return
	}

	if *cacheStats {
		if cache == nil {
			log.Fatal("--cache-stats requires --cache")
		}
		stats, err := cache.Stats()
		if err != nil {
			log.Fatalf("Failed to read weather cache stats: %v", err)
		}
		fmt.Printf("Entries: %d\n", stats.Entries)
		fmt.Printf("Total size: %.1f KiB\n", float64(stats.TotalSizeBytes)/1024)
		if stats.Entries > 0 {
			fmt.Printf("Oldest fetch: %s\n", stats.OldestFetchedAt.Format("2006-01-02 15:04"))
			fmt.Printf("Newest fetch: %s\n", stats.NewestFetchedAt.Format("2006-01-02 15:04"))
		}
		return
	}

	apiKey := os.Getenv("NREL_API_KEY")
	if apiKey == "" {
		log.Fatal("NREL_API_KEY environment variable is required")
	}
	email := os.Getenv("NREL_EMAIL")
	if email == "" {
		log.Fatal("NREL_EMAIL environment variable is required")
	}

	client := data.NewPSM3Client(apiKey, email, "")
	client.Cache = cache

	params := data.FetchParams{
		Latitude:   *lat,
		Longitude:  *lon,
		Names:      *names,
		Interval:   *interval,
		BiasFactor: *bias,
	}

	fmt.Printf("Fetching PSM3 %s for (%.4f, %.4f) at %d min resolution...\n", *names, *lat, *lon, *interval)

	ds, err := client.Fetch(context.Background(), params)
	if err != nil {
		log.Fatalf("Failed to fetch weather: %v", err)
	}

	if *name == "" {
		*name = fmt.Sprintf("psm3_%s_%.2f_%.2f", *names, *lat, *lon)
	}
	ds.Site.Name = *name

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	path := filepath.Join(*outDir, *name+".json")
	if err := data.SaveDataset(ds, path); err != nil {
		log.Fatalf("Failed to save dataset: %v", err)
	}

	fmt.Printf("Saved %d samples to %s\n", len(ds.Data), path)
	fmt.Println("The dataset carries raw weather only. Add plane-of-array columns with")
	fmt.Println("a transposition tool before simulating against it.")
}
