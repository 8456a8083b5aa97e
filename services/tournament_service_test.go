package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

type fakeArchiver struct {
	archived  []int
	discarded []int
	err       error
}

func (a *fakeArchiver) Archive(ctx context.Context, result *models.TournamentResult) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.archived = append(a.archived, result.TournamentID)
	return "https://cdn.example/result.json", nil
}

func (a *fakeArchiver) Discard(ctx context.Context, tournamentID int) error {
	a.discarded = append(a.discarded, tournamentID)
	return nil
}

type roundCounter struct {
	rounds    int
	completed int
}

func (o *roundCounter) RoundResolved(ctx context.Context, summary *models.RoundSummary) {
	o.rounds++
}

func (o *roundCounter) TournamentCompleted(ctx context.Context, result *models.TournamentResult) {
	o.completed++
}

func seed(v int64) *int64 { return &v }

func TestRun_PlaysWholeTournament(t *testing.T) {
	ctx := context.Background()
	archiver := &fakeArchiver{}
	observer := &roundCounter{}
	svc := NewTournamentService(TournamentServiceConfig{
		Ledger:   repositories.NewMemoryLedger(),
		Archiver: archiver,
		Observer: observer,
	})

	result, err := svc.Run(ctx, RunTournamentInput{
		Entrants: []string{"Max", "Emma", "Harry", " Olivia ", "Noah"},
		Seed:     seed(11),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TournamentID)
	assert.Equal(t, 2, result.TotalRounds)
	assert.Len(t, result.Rounds, 2)
	require.NotNil(t, result.Winner)
	assert.Equal(t, result.Standings[0].ID, result.Winner.PlayerID)
	assert.Contains(t, []string{"Max", "Emma", "Harry", "Olivia", "Noah"}, result.Winner.Name)
	require.NotNil(t, result.ArchiveURL)
	assert.Equal(t, "https://cdn.example/result.json", *result.ArchiveURL)
	assert.Equal(t, []int{1}, archiver.archived)
	assert.Equal(t, 2, observer.rounds)
	assert.Equal(t, 1, observer.completed)

	second, err := svc.Run(ctx, RunTournamentInput{Entrants: []string{"Ada", "Alan"}, Seed: seed(11)})
	require.NoError(t, err)
	assert.Equal(t, 2, second.TournamentID)
	assert.Equal(t, 1, second.TotalRounds)
}

func TestRun_SameSeedSameTournament(t *testing.T) {
	ctx := context.Background()
	entrants := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}

	run := func() *models.TournamentResult {
		svc := NewTournamentService(TournamentServiceConfig{Ledger: repositories.NewMemoryLedger()})
		result, err := svc.Run(ctx, RunTournamentInput{Entrants: entrants, Seed: seed(77)})
		require.NoError(t, err)
		return result
	}

	first, second := run(), run()
	assert.Equal(t, first.Winner, second.Winner)
	assert.Equal(t, first.Rounds, second.Rounds)
}

func TestRun_DefaultSeedAndDeterministicOracle(t *testing.T) {
	svc := NewTournamentService(TournamentServiceConfig{
		Ledger:      repositories.NewMemoryLedger(),
		DefaultSeed: seed(5),
	})

	result, err := svc.Run(context.Background(), RunTournamentInput{
		Entrants:      []string{"A", "B", "C", "D"},
		Deterministic: true,
	})
	require.NoError(t, err)

	for _, m := range result.Rounds[0].Matches {
		assert.Less(t, m.WinnerID, m.LoserID)
	}
}

func TestRun_ArchiveFailureDoesNotFailTheRun(t *testing.T) {
	svc := NewTournamentService(TournamentServiceConfig{
		Ledger:   repositories.NewMemoryLedger(),
		Archiver: &fakeArchiver{err: errors.New("bucket unavailable")},
	})

	result, err := svc.Run(context.Background(), RunTournamentInput{Entrants: []string{"A", "B"}, Seed: seed(1)})
	require.NoError(t, err)
	assert.Nil(t, result.ArchiveURL)
}

func TestRun_RejectsInvalidEntrants(t *testing.T) {
	tests := []struct {
		name     string
		entrants []string
		wantErr  error
	}{
		{name: "no entrants", entrants: nil, wantErr: models.ErrInvalidTournamentState},
		{name: "single entrant", entrants: []string{"Solo"}, wantErr: models.ErrInvalidTournamentState},
		{name: "blank name", entrants: []string{"Max", "  "}, wantErr: ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := repositories.NewMemoryLedger()
			svc := NewTournamentService(TournamentServiceConfig{Ledger: ledger})

			_, err := svc.Run(context.Background(), RunTournamentInput{Entrants: tt.entrants})
			assert.ErrorIs(t, err, tt.wantErr)

			next, err := ledger.NextTournamentID(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, next, "nothing may be registered")
		})
	}
}

func TestReportAndPurge(t *testing.T) {
	ctx := context.Background()
	archiver := &fakeArchiver{}
	svc := NewTournamentService(TournamentServiceConfig{Ledger: repositories.NewMemoryLedger(), Archiver: archiver})

	result, err := svc.Run(ctx, RunTournamentInput{Entrants: []string{"A", "B", "C"}, Seed: seed(3)})
	require.NoError(t, err)
	id := result.TournamentID

	report, err := svc.GetReport(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, report.TournamentID)
	assert.Len(t, report.Standings, 3)
	// one real match and one bye
	assert.Len(t, report.Matches, 2)
	require.Len(t, report.ByedPlayers, 1)
	assert.Equal(t, *result.Rounds[0].ByePlayerID, report.ByedPlayers[0])

	standings, err := svc.GetStandings(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, report.Standings, standings)

	matches, err := svc.ListMatches(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, report.Matches, matches)

	require.NoError(t, svc.Purge(ctx, id))
	assert.Equal(t, []int{id}, archiver.discarded)

	_, err = svc.GetReport(ctx, id)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	assert.ErrorIs(t, svc.Purge(ctx, id), ErrTournamentNotFound)
	_, err = svc.GetStandings(ctx, 42)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
