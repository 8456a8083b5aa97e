package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/storage"
)

type memoryUploader struct {
	objects   map[string][]byte
	deleteErr error
}

func (u *memoryUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) Delete(ctx context.Context, key string) error {
	if u.deleteErr != nil {
		return u.deleteErr
	}
	delete(u.objects, key)
	return nil
}

func (u *memoryUploader) GetPublicURL(key string) string {
	return "https://cdn.example/" + key
}

func TestResultArchiver(t *testing.T) {
	ctx := context.Background()
	uploader := &memoryUploader{objects: map[string][]byte{}}
	archiver := NewResultArchiver(uploader)

	result := &models.TournamentResult{
		TournamentID: 4,
		TotalRounds:  1,
		Winner:       &models.Winner{TournamentID: 4, PlayerID: 9, Name: "Emma"},
	}

	location, err := archiver.Archive(ctx, result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(location, "https://cdn.example/tournaments/4/"))
	assert.True(t, strings.HasSuffix(location, ".json"))
	require.Len(t, uploader.objects, 1)

	for _, body := range uploader.objects {
		var stored models.TournamentResult
		require.NoError(t, json.Unmarshal(body, &stored))
		assert.Equal(t, "Emma", stored.Winner.Name)
	}

	require.NoError(t, archiver.Discard(ctx, 4))
	assert.Empty(t, uploader.objects)
	// nothing left to discard
	require.NoError(t, archiver.Discard(ctx, 4))
}

func TestResultArchiver_DiscardReportsFailures(t *testing.T) {
	ctx := context.Background()
	uploader := &memoryUploader{objects: map[string][]byte{}, deleteErr: errors.New("denied")}
	archiver := NewResultArchiver(uploader)

	_, err := archiver.Archive(ctx, &models.TournamentResult{TournamentID: 1})
	require.NoError(t, err)

	assert.Error(t, archiver.Discard(ctx, 1))
}
