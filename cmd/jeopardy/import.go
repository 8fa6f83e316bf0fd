package main

import (
	"context"
	"fmt"

	"github.com/abrezinsky/jeopardy/internal/cluestore"
	"github.com/abrezinsky/jeopardy/internal/config"
	"github.com/abrezinsky/jeopardy/internal/logger"
	"github.com/abrezinsky/jeopardy/internal/repository"
	"github.com/abrezinsky/jeopardy/internal/services"
)

// runImport replaces the clue bank at cfg.DBPath with the corpus at path
func runImport(log logger.Logger, cfg config.Config, path string) error {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	corpus := services.NewCorpusService(log, cluestore.New(log, repo))
	stats, err := corpus.ImportFile(context.Background(), path)
	if err != nil {
		return err
	}

	fmt.Printf("%sImported %d clues, %d playable categories into %s%s\n",
		green, stats.Records, stats.QuestionSets, cfg.DBPath, reset)
	return nil
}
