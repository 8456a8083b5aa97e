package brackets

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
)

// stubLedger serves fixed, already ranked standings. Opponent win writes are
// remembered but do not change the ranking.
type stubLedger struct {
	standings    []*models.Standing
	opponents    map[int][]int
	byed         map[int]bool
	opponentWins map[int]int
	matches      []models.Match
}

func newStubLedger(standings ...*models.Standing) *stubLedger {
	return &stubLedger{
		standings:    standings,
		opponents:    map[int][]int{},
		byed:         map[int]bool{},
		opponentWins: map[int]int{},
	}
}

func (s *stubLedger) CountPlayers(ctx context.Context, tournamentID int) (int, error) {
	return len(s.standings), nil
}

func (s *stubLedger) PlayerIDs(ctx context.Context, tournamentID int) ([]int, error) {
	ids := make([]int, 0, len(s.standings))
	for _, st := range s.standings {
		ids = append(ids, st.ID)
	}
	return ids, nil
}

func (s *stubLedger) Standings(ctx context.Context, tournamentID int, excludePlayerID *int) ([]*models.Standing, error) {
	rows := make([]*models.Standing, 0, len(s.standings))
	for _, st := range s.standings {
		if excludePlayerID != nil && st.ID == *excludePlayerID {
			continue
		}
		rows = append(rows, st)
	}
	return rows, nil
}

func (s *stubLedger) Opponents(ctx context.Context, playerID, tournamentID int) ([]int, error) {
	return s.opponents[playerID], nil
}

func (s *stubLedger) SetOpponentWins(ctx context.Context, playerID, tournamentID, opponentWins int) error {
	s.opponentWins[playerID] = opponentWins
	return nil
}

func (s *stubLedger) RecordMatch(ctx context.Context, round, winnerID, loserID, tournamentID int) error {
	s.matches = append(s.matches, models.Match{Round: round, WinnerID: winnerID, LoserID: loserID, TournamentID: tournamentID})
	return nil
}

func (s *stubLedger) RecordBye(ctx context.Context, playerID, tournamentID int) error {
	if s.byed[playerID] {
		return models.ErrConstraintViolation
	}
	s.byed[playerID] = true
	return nil
}

func (s *stubLedger) HasBye(ctx context.Context, playerID, tournamentID int) (bool, error) {
	return s.byed[playerID], nil
}

func (s *stubLedger) ByedPlayers(ctx context.Context, tournamentID int) ([]int, error) {
	ids := make([]int, 0, len(s.byed))
	for id := range s.byed {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *stubLedger) CurrentRound(ctx context.Context, tournamentID int) (int, error) {
	last := 0
	for _, m := range s.matches {
		if !m.IsBye() && m.Round > last {
			last = m.Round
		}
	}
	return last + 1, nil
}

func (s *stubLedger) Matches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0, len(s.matches))
	for i := range s.matches {
		out = append(out, &s.matches[i])
	}
	return out, nil
}

func standing(id int, name string, wins, opponentWins int) *models.Standing {
	return &models.Standing{ID: id, Name: name, Wins: wins, OpponentWins: opponentWins}
}

func newTestPlanner(l *stubLedger, seed int64) *Planner {
	return NewPlanner(l, l, rand.New(rand.NewSource(seed)), nil)
}

func TestPlanNextRound_PairsAdjacentRanks(t *testing.T) {
	l := newStubLedger(
		standing(1, "A", 2, 3),
		standing(2, "B", 2, 1),
		standing(3, "C", 1, 4),
		standing(4, "D", 0, 0),
	)

	plan, err := newTestPlanner(l, 1).PlanNextRound(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Nil(t, plan.ByePlayerID)
	assert.Equal(t, 2, plan.Round)
	assert.Equal(t, [][2]int{{1, 2}, {3, 4}}, plan.Pairing.Pairs())
}

func TestPlanNextRound_ByeSkipsPlayersWhoHadOne(t *testing.T) {
	l := newStubLedger(
		standing(5, "P5", 2, 2),
		standing(4, "P4", 1, 3),
		standing(3, "P3", 1, 1),
		standing(2, "P2", 1, 0),
		standing(1, "P1", 0, 2),
	)
	l.byed[1] = true

	plan, err := newTestPlanner(l, 1).PlanNextRound(context.Background(), 1, 2)
	require.NoError(t, err)

	require.NotNil(t, plan.ByePlayerID)
	assert.Equal(t, 2, *plan.ByePlayerID)
	assert.True(t, l.byed[2])
	assert.Equal(t, Pairing{5, 4, 3, 1}, plan.Pairing)
}

func TestPlanNextRound_NoEligibleByeRecipient(t *testing.T) {
	l := newStubLedger(
		standing(1, "A", 1, 0),
		standing(2, "B", 1, 0),
		standing(3, "C", 0, 0),
	)
	l.byed[1], l.byed[2], l.byed[3] = true, true, true

	_, err := newTestPlanner(l, 1).PlanNextRound(context.Background(), 1, 3)
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
}

func TestPlanner_RejectsSinglePlayer(t *testing.T) {
	l := newStubLedger(standing(1, "Solo", 0, 0))
	planner := newTestPlanner(l, 1)

	_, err := planner.PlanFirstRound(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrInvalidTournamentState)

	_, err = planner.PlanNextRound(context.Background(), 1, 2)
	assert.ErrorIs(t, err, models.ErrInvalidTournamentState)
}

func TestPlanFirstRound_ByeIsNeverGrantedTwice(t *testing.T) {
	l := newStubLedger(standing(1, "A", 0, 0), standing(2, "B", 0, 0), standing(3, "C", 0, 0))
	l.byed[1], l.byed[2], l.byed[3] = true, true, true

	_, err := newTestPlanner(l, 3).PlanFirstRound(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
}

func TestRecomputeOpponentWins(t *testing.T) {
	l := newStubLedger(
		standing(1, "A", 2, 0),
		standing(2, "B", 1, 0),
		standing(3, "C", 1, 0),
		standing(4, "D", 0, 0),
	)
	l.opponents[1] = []int{2, 3}
	l.opponents[2] = []int{1, 4}
	l.opponents[3] = []int{4, 1}
	l.opponents[4] = []int{3, 2}

	require.NoError(t, newTestPlanner(l, 1).RecomputeOpponentWins(context.Background(), 1))

	assert.Equal(t, map[int]int{1: 2, 2: 2, 3: 2, 4: 2}, l.opponentWins)
}

func TestRecomputeOpponentWins_MissingOpponent(t *testing.T) {
	l := newStubLedger(standing(1, "A", 1, 0), standing(2, "B", 0, 0))
	l.opponents[1] = []int{99}

	err := newTestPlanner(l, 1).RecomputeOpponentWins(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrDataIntegrity)
}
