// Command zone-report scores a zone dataset offline and logs the tier
// breakdown and the highest scoring zones.
package main

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"github.com/mr1hm/go-seaglass-map/internal/config"
	"github.com/mr1hm/go-seaglass-map/internal/dataset"
	"github.com/mr1hm/go-seaglass-map/internal/locale"
	"github.com/mr1hm/go-seaglass-map/internal/logging"
	"github.com/mr1hm/go-seaglass-map/internal/scoring"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}

	source := flag.String("source", cfg.Dataset.ZonesSource, "zone dataset path or URL")
	top := flag.Int("top", 10, "number of top zones to list")
	lang := flag.String("locale", string(cfg.Locale.Default), "display locale")
	flag.Parse()

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	model, err := scoring.NewModel(cfg.Scoring.Weights)
	if err != nil {
		logging.Fatalf("Invalid scoring weights: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	data, err := dataset.NewReader().Read(ctx, *source)
	if err != nil {
		logging.Fatalf("Failed to read zones: %v", err)
	}
	records, err := dataset.DecodeZones(data)
	if err != nil {
		logging.Fatalf("Failed to decode zones: %v", err)
	}

	zones := model.Zones(records)
	summary := scoring.Summarize(zones)

	slog.Info("zone report", "source", *source, "zones", len(zones))
	for _, c := range scoring.Classifications {
		slog.Info("tier", "classification", c, "rank", c.Rank(), "count", summary[c])
	}

	l, ok := locale.Parse(*lang)
	if !ok {
		l = locale.Default
	}

	ranked := scoring.SortByScore(zones)
	if *top >= 0 && *top < len(ranked) {
		ranked = ranked[:*top]
	}
	for i, z := range locale.ProjectZones(ranked, l, cfg.Locale.Default) {
		slog.Info("top zone",
			"position", i+1,
			"id", z.ID,
			"name", z.Name,
			"category", z.Category,
			"score", z.Score,
			"classification", z.Classification,
		)
	}
}
