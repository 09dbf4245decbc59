package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/JonMunkholm/csv2sql/internal/config"
	"github.com/JonMunkholm/csv2sql/internal/csvsource"
	"github.com/JonMunkholm/csv2sql/internal/importer"
	"github.com/JonMunkholm/csv2sql/internal/logging"
	"github.com/JonMunkholm/csv2sql/internal/schema"
	"github.com/JonMunkholm/csv2sql/internal/specfile"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"input_dir", cfg.Input.Dir,
		"output", cfg.Output.Path,
		"encoding", cfg.Input.Encoding,
		"spec_file", cfg.Spec.File,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	if err := run(cfg); err != nil {
		slog.Error("import failed, no statements written", "error", err)
		os.Exit(1)
	}
}

// run executes either the spec file or the built-in sample migration
// and writes the statement file. Nothing is written unless every pass
// succeeded.
func run(cfg *config.Config) error {
	opts := csvsource.Options{
		Comma:            cfg.Input.Comma(),
		TrimLeadingSpace: cfg.Input.TrimLeadingSpace,
		Encoding:         cfg.Input.Encoding,
	}

	var records importer.RecordSet
	var err error
	if cfg.Spec.File != "" {
		records, err = runSpecFile(cfg, opts)
	} else {
		records, err = runSample(cfg, opts)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(cfg.Output.Path, []byte(records.SQL(cfg.SQL.QuoteIdentifiers)), 0o644); err != nil {
		return err
	}

	slog.Info("statement file written",
		"path", cfg.Output.Path,
		"statements", len(records),
	)
	return nil
}

func runSpecFile(cfg *config.Config, opts csvsource.Options) (importer.RecordSet, error) {
	f, err := specfile.Load(cfg.Spec.File)
	if err != nil {
		return nil, err
	}
	slog.Info("running spec file", "path", cfg.Spec.File, "passes", len(f.Passes))
	return f.Run(context.Background(), specfile.DirOpener(cfg.Input.Dir), opts)
}

// runSample runs the built-in two-pass migration: departments first,
// then employees resolving department names against the retained
// department records. One oid sequence spans both passes.
func runSample(cfg *config.Config, opts csvsource.Options) (importer.RecordSet, error) {
	oids := importer.Sequence()

	departments, err := importFile(cfg, opts, cfg.Input.Departments, schema.Departments(oids), "Department")
	if err != nil {
		return nil, err
	}

	employees, err := importFile(cfg, opts, cfg.Input.Employees,
		schema.Employees(oids, departments.Table("departments")), "")
	if err != nil {
		return nil, err
	}

	return append(departments, employees...), nil
}

func importFile(cfg *config.Config, opts csvsource.Options, name string, spec importer.ImportSpec, idColumn string) (importer.RecordSet, error) {
	open := specfile.DirOpener(cfg.Input.Dir)
	rc, err := open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	src, err := csvsource.New(rc, opts)
	if err != nil {
		return nil, err
	}

	imp := importer.Importer{
		Spec:     spec,
		IDColumn: idColumn,
		Logger:   logging.WithFields(context.Background(), "source", name),
	}
	records, err := imp.Import(src)
	if err != nil {
		return nil, err
	}

	slog.Info("pass complete", "source", name, "records", len(records))
	return records, nil
}
