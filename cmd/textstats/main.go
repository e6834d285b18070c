package main

import (
	"fmt"
	"os"

	"github.com/abiiranathan/goflag"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/textstats/internal/api"
	"github.com/knowledge-engine/textstats/internal/config"
	"github.com/knowledge-engine/textstats/internal/engine"
	"github.com/knowledge-engine/textstats/internal/report"
	"github.com/knowledge-engine/textstats/internal/storage"
)

func main() {
	// Setup Logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "textstats")

	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		entry.Warnf("Unknown log level %q, using info", cfg.Log.Level)
	}

	var text, corpusName string

	ctx := goflag.NewContext()
	ctx.AddFlag(goflag.FlagString, "data", "d", &cfg.Storage.DataDir,
		"Directory where corpora are stored", false)

	ctx.AddSubCommand("serve", "Start the HTTP API", func() {
		serve(cfg, entry)
	}).AddFlag(goflag.FlagString, "addr", "a", &cfg.Server.Addr, "Address to listen on", false)

	ctx.AddSubCommand("tf", "Term frequency of every word in one sentence", func() {
		runOnce(cfg, entry, engine.ModeTF, text, "")
	}).AddFlag(goflag.FlagString, "text", "t", &text, "The sentence", true)

	ctx.AddSubCommand("idf", "Inverse document frequency over comma separated documents", func() {
		runOnce(cfg, entry, engine.ModeIDF, text, corpusName)
	}).AddFlag(goflag.FlagString, "text", "t", &text, "Documents separated by commas", false).
		AddFlag(goflag.FlagString, "corpus", "c", &corpusName, "Name of a stored corpus", false)

	ctx.AddSubCommand("tfidf", "TF-IDF matrix over comma separated documents", func() {
		runOnce(cfg, entry, engine.ModeTFIDF, text, corpusName)
	}).AddFlag(goflag.FlagString, "text", "t", &text, "Documents separated by commas", false).
		AddFlag(goflag.FlagString, "corpus", "c", &corpusName, "Name of a stored corpus", false)

	subcmd, err := ctx.Parse(os.Args)
	if err != nil {
		entry.Fatal(err)
	}
	if subcmd == nil {
		ctx.PrintUsage(os.Stdout)
		os.Exit(1)
	}
	subcmd.Handler()
}

func newEngine(cfg *config.Config, entry *logrus.Entry) *engine.Engine {
	store, err := storage.NewFileStorage(cfg.Storage.DataDir)
	if err != nil {
		entry.Fatalf("Failed to initialize storage: %v", err)
	}

	eng, err := engine.NewEngine(cfg, entry.WithField("component", "engine"), store)
	if err != nil {
		entry.Fatalf("Failed to initialize engine: %v", err)
	}
	return eng
}

func serve(cfg *config.Config, entry *logrus.Entry) {
	entry.Info("Starting Text Statistics API Service")

	eng := newEngine(cfg, entry)
	defer eng.Storage.Close()

	if names, err := eng.ListCorpora(); err == nil && len(names) > 0 {
		entry.Infof("Found %d stored corpora", len(names))
	}

	server := api.NewServer(eng, entry.WithField("component", "api"))
	if err := server.Start(cfg.Server.Addr); err != nil {
		entry.Fatal(err)
	}
}

func runOnce(cfg *config.Config, entry *logrus.Entry, mode engine.Mode, text, corpusName string) {
	eng := newEngine(cfg, entry)
	defer eng.Storage.Close()

	var res *engine.Result
	if corpusName != "" {
		corpus, err := eng.LoadCorpus(corpusName)
		if err != nil {
			entry.Fatalf("Failed to load corpus: %v", err)
		}
		if mode == engine.ModeIDF {
			res = &engine.Result{Mode: mode, Report: eng.InverseDocumentFrequencies(corpus.Documents)}
		} else {
			res = &engine.Result{Mode: mode, Matrix: eng.TFIDF(corpus.Documents)}
		}
	} else {
		var err error
		res, err = eng.Compute(mode, text)
		if err != nil {
			entry.Fatal(err)
		}
	}

	if err := report.Write(os.Stdout, res); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
