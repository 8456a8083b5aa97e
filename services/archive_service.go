package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/storage"
)

// ResultArchiver publishes a finished tournament and returns where it can be read.
type ResultArchiver interface {
	Archive(ctx context.Context, result *models.TournamentResult) (string, error)
	// Discard removes the archives written by this process for a tournament.
	Discard(ctx context.Context, tournamentID int) error
}

type resultArchiver struct {
	uploader storage.FileUploader
	mu       sync.Mutex
	keys     map[int][]string
}

func NewResultArchiver(uploader storage.FileUploader) ResultArchiver {
	return &resultArchiver{uploader: uploader, keys: make(map[int][]string)}
}

func (a *resultArchiver) Archive(ctx context.Context, result *models.TournamentResult) (string, error) {
	body, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		return "", fmt.Errorf("failed to encode result of tournament %d: %w", result.TournamentID, err)
	}

	key := fmt.Sprintf("tournaments/%d/%s.json", result.TournamentID, uuid.NewString())
	uploaded, err := a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	a.keys[result.TournamentID] = append(a.keys[result.TournamentID], uploaded.Key)
	a.mu.Unlock()
	return uploaded.Location, nil
}

func (a *resultArchiver) Discard(ctx context.Context, tournamentID int) error {
	a.mu.Lock()
	keys := a.keys[tournamentID]
	delete(a.keys, tournamentID)
	a.mu.Unlock()

	var errs []error
	for _, key := range keys {
		if err := a.uploader.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
