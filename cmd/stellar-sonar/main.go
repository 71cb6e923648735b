package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/RyanBlaney/stellar-sonar/catalog"
	"github.com/RyanBlaney/stellar-sonar/classify"
	"github.com/RyanBlaney/stellar-sonar/config"
	"github.com/RyanBlaney/stellar-sonar/features"
	"github.com/RyanBlaney/stellar-sonar/lightcurve"
	"github.com/RyanBlaney/stellar-sonar/logging"
)

var (
	configPath = flag.String("config", "", "Path to configuration file")
	mode       = flag.String("mode", "", "Run mode: train, evaluate or predict")
	logPath    = flag.String("log", "", "Log file (stdout/stderr when empty)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *logPath != "" {
		logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		logging.SetGlobalLogger(logging.NewWriterLogger(logFile))
	}
	logging.SetLevel(logging.ParseLevel(cfg.Logging.Level))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logging.Info("shutdown signal received, stopping")
		cancel()
	}()

	if err := ensureOutputDirs(cfg); err != nil {
		logging.Fatal(err, "failed to prepare output directories")
	}

	logging.Info("starting run", logging.Fields{"mode": *mode})

	switch *mode {
	case "train":
		err = runTrain(ctx, cfg)
	case "evaluate":
		err = runEvaluate(ctx, cfg)
	case "predict":
		err = runPredict(ctx, cfg)
	default:
		log.Fatalf("Unknown mode %q: use train, evaluate or predict", *mode)
	}
	if err != nil {
		logging.Fatal(err, "run failed", logging.Fields{"mode": *mode})
	}

	logging.Info("run finished", logging.Fields{"mode": *mode})
}

func ensureOutputDirs(cfg *config.Config) error {
	dirs := []string{
		cfg.Output.Dir,
		filepath.Dir(cfg.Output.FeaturesBase),
		filepath.Dir(cfg.Output.ModelBase),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// loadCatalog reads star identifiers and classes from the stars CSV
// when present, falling back to the photometry database.
func loadCatalog(ctx context.Context, cfg *config.Config, store *lightcurve.Store) (*catalog.Catalog, error) {
	if _, err := os.Stat(cfg.Data.StarsPath); err == nil {
		logging.Info("loading star catalog", logging.Fields{"path": cfg.Data.StarsPath})
		return catalog.Load(cfg.Data.StarsPath)
	}
	logging.Info("loading star catalog from database", logging.Fields{"path": cfg.Data.DBPath})
	ids, classes, err := store.Stars(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.New(ids, classes)
}

// retrieveFeatures returns the catalog with one feature matrix per
// filter. Persisted feature files short-circuit extraction; otherwise
// features are computed from the light curves and persisted for the
// next run.
func retrieveFeatures(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	if cat, _, err := catalog.ReadFeatures(cfg.Output.FeaturesBase); err == nil {
		logging.Info("loaded features from file", logging.Fields{
			"base":    cfg.Output.FeaturesBase,
			"stars":   cat.Len(),
			"filters": len(cat.Filters()),
		})
		return cat, nil
	}

	store, err := lightcurve.Open(cfg.Data.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open photometry database: %w", err)
	}
	defer store.Close()

	cat, err := loadCatalog(ctx, cfg, store)
	if err != nil {
		return nil, err
	}

	filters, err := store.Filters(ctx)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return nil, fmt.Errorf("photometry database has no filters")
	}

	extractor := features.NewExtractor(cfg.Periodogram.Properties())
	for _, filterName := range filters {
		cat.AddFilter(filterName)
		vectors, err := extractor.ExtractAll(ctx, store, cat, filterName)
		if err != nil {
			return nil, err
		}
		rows := make([][]float64, len(vectors))
		for i, vec := range vectors {
			rows[i] = vec.Values()
		}
		if err := cat.SetFilterFeatures(filterName, rows); err != nil {
			return nil, err
		}
	}

	if err := catalog.WriteFeatures(cfg.Output.FeaturesBase, cat, features.Names()); err != nil {
		return nil, err
	}
	logging.Info("wrote feature files", logging.Fields{
		"base":     cfg.Output.FeaturesBase,
		"stars":    cat.EnabledCount(),
		"disabled": cat.Len() - cat.EnabledCount(),
	})
	return cat, nil
}

// trainFilter fits one per-filter forest on the split's training rows.
func trainFilter(cat *catalog.Catalog, split *classify.Split, filterName string, cfg *config.Config) (*classify.Model, error) {
	rows, err := cat.FilterFeatures(filterName)
	if err != nil {
		return nil, err
	}
	trainRows := make([][]float64, 0, len(split.TrainIndexes))
	for _, idx := range split.TrainIndexes {
		trainRows = append(trainRows, rows[idx])
	}

	forest, err := classify.TrainForest(trainRows, split.TrainLabels, len(split.Classes), classify.ForestConfig{
		Trees: cfg.Training.Trees,
		Seed:  cfg.Training.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to train forest for filter %s: %w", filterName, err)
	}
	logging.Info("trained random forest", logging.Fields{
		"filter":  filterName,
		"trees":   cfg.Training.Trees,
		"samples": len(trainRows),
		"classes": len(split.Classes),
	})
	return classify.NewModel(filterName, split.Classes, forest), nil
}

// runTrain fits a model per filter on every enabled star and persists
// the models.
func runTrain(ctx context.Context, cfg *config.Config) error {
	cat, err := retrieveFeatures(ctx, cfg)
	if err != nil {
		return err
	}

	split, err := classify.NewSplit(cat, classify.SplitConfig{
		MinCardinal:  cfg.Training.MinCardinal,
		TrainPercent: 100,
		Seed:         cfg.Training.Seed,
	})
	if err != nil {
		return err
	}

	for _, filterName := range cat.Filters() {
		model, err := trainFilter(cat, split, filterName, cfg)
		if err != nil {
			return err
		}
		path := classify.ModelFileName(cfg.Output.ModelBase, filterName)
		if err := classify.SaveModel(path, model); err != nil {
			return err
		}
		logging.Info("saved model", logging.Fields{
			"filter": filterName,
			"path":   path,
			"id":     model.ID.String(),
		})
	}
	return nil
}

// runEvaluate trains on a per-class subset of the stars, predicts the
// held-out remainder and writes one confusion matrix per filter. The
// trained models are persisted as well.
func runEvaluate(ctx context.Context, cfg *config.Config) error {
	cat, err := retrieveFeatures(ctx, cfg)
	if err != nil {
		return err
	}

	split, err := classify.NewSplit(cat, classify.SplitConfig{
		MinCardinal:  cfg.Training.MinCardinal,
		TrainPercent: cfg.Training.TrainPercent,
		Seed:         cfg.Training.Seed,
	})
	if err != nil {
		return err
	}
	logging.Info("split stars for evaluation", logging.Fields{
		"classes":    len(split.Classes),
		"training":   len(split.TrainIndexes),
		"evaluation": len(split.EvalIndexes),
	})

	for _, filterName := range cat.Filters() {
		model, err := trainFilter(cat, split, filterName, cfg)
		if err != nil {
			return err
		}

		rows, err := cat.FilterFeatures(filterName)
		if err != nil {
			return err
		}

		// The matrix spans the full catalog class list by name, so it
		// stays comparable across filters even when the cardinality cut
		// dropped classes from training.
		matrix := classify.NewConfusionMatrix(cat.UniqueClasses())
		for i, idx := range split.EvalIndexes {
			predicted, _, err := model.PredictClass(rows[idx])
			if err != nil {
				logging.Error(err, "prediction failed", logging.Fields{
					"filter": filterName,
					"star":   cat.ID(idx),
				})
				continue
			}
			actual, err := split.ClassName(split.EvalLabels[i])
			if err != nil {
				return err
			}
			if err := matrix.Add(predicted, actual); err != nil {
				return err
			}
		}

		path := classify.MatrixFileName(cfg.Output.Dir, filterName)
		if err := matrix.WriteCSV(path); err != nil {
			return err
		}
		logging.Info("wrote confusion matrix", logging.Fields{"filter": filterName, "path": path})

		if err := classify.SaveModel(classify.ModelFileName(cfg.Output.ModelBase, filterName), model); err != nil {
			return err
		}
	}
	return nil
}

// runPredict loads the persisted models and classifies the configured
// stars, writing one prediction CSV per filter.
func runPredict(ctx context.Context, cfg *config.Config) error {
	models, err := classify.LoadModels(cfg.Output.ModelBase)
	if err != nil {
		return err
	}

	cat, err := retrieveFeatures(ctx, cfg)
	if err != nil {
		return err
	}

	for _, filterName := range cat.Filters() {
		model, ok := models[filterName]
		if !ok {
			logging.Warn("no model for filter, skipping", logging.Fields{"filter": filterName})
			continue
		}

		rows, err := cat.FilterFeatures(filterName)
		if err != nil {
			return err
		}

		var predictions []classify.Prediction
		for i := 0; i < cat.Len(); i++ {
			if !cat.IsEnabled(i) {
				continue
			}
			class, confidence, err := model.PredictClass(rows[i])
			if err != nil {
				logging.Error(err, "prediction failed", logging.Fields{
					"filter": filterName,
					"star":   cat.ID(i),
				})
				continue
			}
			predictions = append(predictions, classify.Prediction{
				StarID:     cat.ID(i),
				Class:      class,
				Confidence: confidence,
			})
		}

		path := classify.PredictionsFileName(cfg.Output.Dir, filterName)
		if err := classify.WritePredictions(path, predictions); err != nil {
			return err
		}
		logging.Info("wrote predictions", logging.Fields{
			"filter": filterName,
			"path":   path,
			"stars":  len(predictions),
		})
	}
	return nil
}
