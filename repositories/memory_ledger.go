package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Dosada05/swiss-tournament/models"
)

type byeKey struct {
	playerID     int
	tournamentID int
}

// MemoryLedger keeps a ledger in process memory. Ids are assigned from a single
// sequence shared by all tournaments, like a database serial column.
type MemoryLedger struct {
	mu      sync.RWMutex
	nextID  int
	players map[int]*models.Player
	matches []models.Match
	byes    map[byeKey]bool
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		nextID:  1,
		players: make(map[int]*models.Player),
		byes:    make(map[byeKey]bool),
	}
}

func (l *MemoryLedger) RegisterPlayers(ctx context.Context, tournamentID int, names []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, name := range names {
		l.players[l.nextID] = &models.Player{ID: l.nextID, Name: name, TournamentID: tournamentID}
		l.nextID++
	}
	return nil
}

func (l *MemoryLedger) NextTournamentID(ctx context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	maxID := 0
	for _, p := range l.players {
		if p.TournamentID > maxID {
			maxID = p.TournamentID
		}
	}
	return maxID + 1, nil
}

func (l *MemoryLedger) PurgeTournament(ctx context.Context, tournamentID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, p := range l.players {
		if p.TournamentID == tournamentID {
			delete(l.players, id)
		}
	}
	kept := l.matches[:0]
	for _, m := range l.matches {
		if m.TournamentID != tournamentID {
			kept = append(kept, m)
		}
	}
	l.matches = kept
	for key := range l.byes {
		if key.tournamentID == tournamentID {
			delete(l.byes, key)
		}
	}
	return nil
}

func (l *MemoryLedger) CountPlayers(ctx context.Context, tournamentID int) (int, error) {
	ids, err := l.PlayerIDs(ctx, tournamentID)
	return len(ids), err
}

func (l *MemoryLedger) PlayerIDs(ctx context.Context, tournamentID int) ([]int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]int, 0)
	for id, p := range l.players {
		if p.TournamentID == tournamentID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (l *MemoryLedger) Standings(ctx context.Context, tournamentID int, excludePlayerID *int) ([]*models.Standing, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows := make(map[int]*models.Standing)
	for id, p := range l.players {
		if p.TournamentID != tournamentID {
			continue
		}
		if excludePlayerID != nil && id == *excludePlayerID {
			continue
		}
		rows[id] = &models.Standing{ID: id, Name: p.Name, OpponentWins: p.OpponentWins}
	}
	for _, m := range l.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if s, ok := rows[m.WinnerID]; ok {
			s.Wins++
			s.MatchesPlayed++
		}
		if s, ok := rows[m.LoserID]; ok && !m.IsBye() {
			s.MatchesPlayed++
		}
	}

	standings := make([]*models.Standing, 0, len(rows))
	for _, s := range rows {
		standings = append(standings, s)
	}
	sort.Slice(standings, func(i, j int) bool {
		return standings[i].Less(standings[j])
	})
	return standings, nil
}

func (l *MemoryLedger) Opponents(ctx context.Context, playerID, tournamentID int) ([]int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if err := l.requirePlayer(playerID, tournamentID); err != nil {
		return nil, err
	}
	opponents := make([]int, 0)
	for _, m := range l.matches {
		if m.TournamentID != tournamentID || m.IsBye() {
			continue
		}
		switch playerID {
		case m.WinnerID:
			opponents = append(opponents, m.LoserID)
		case m.LoserID:
			opponents = append(opponents, m.WinnerID)
		}
	}
	return opponents, nil
}

func (l *MemoryLedger) SetOpponentWins(ctx context.Context, playerID, tournamentID, opponentWins int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.requirePlayer(playerID, tournamentID); err != nil {
		return err
	}
	l.players[playerID].OpponentWins = opponentWins
	return nil
}

func (l *MemoryLedger) RecordMatch(ctx context.Context, round, winnerID, loserID, tournamentID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if round < 1 {
		return fmt.Errorf("%w: round must be at least 1, got %d", models.ErrInvalidTournamentState, round)
	}
	if err := l.requirePlayer(winnerID, tournamentID); err != nil {
		return err
	}
	if loserID != models.ByeOpponentID {
		if err := l.requirePlayer(loserID, tournamentID); err != nil {
			return err
		}
	}
	l.matches = append(l.matches, models.Match{Round: round, WinnerID: winnerID, LoserID: loserID, TournamentID: tournamentID})
	return nil
}

func (l *MemoryLedger) RecordBye(ctx context.Context, playerID, tournamentID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.requirePlayer(playerID, tournamentID); err != nil {
		return err
	}
	key := byeKey{playerID: playerID, tournamentID: tournamentID}
	if l.byes[key] {
		return fmt.Errorf("%w: player %d in tournament %d", ErrByeAlreadyRecorded, playerID, tournamentID)
	}
	l.byes[key] = true
	return nil
}

func (l *MemoryLedger) HasBye(ctx context.Context, playerID, tournamentID int) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.byes[byeKey{playerID: playerID, tournamentID: tournamentID}], nil
}

func (l *MemoryLedger) ByedPlayers(ctx context.Context, tournamentID int) ([]int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]int, 0)
	for key := range l.byes {
		if key.tournamentID == tournamentID {
			ids = append(ids, key.playerID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (l *MemoryLedger) CurrentRound(ctx context.Context, tournamentID int) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	last := 0
	for _, m := range l.matches {
		if m.TournamentID == tournamentID && !m.IsBye() && m.Round > last {
			last = m.Round
		}
	}
	return last + 1, nil
}

func (l *MemoryLedger) Matches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	matches := make([]*models.Match, 0)
	for i := range l.matches {
		if l.matches[i].TournamentID == tournamentID {
			m := l.matches[i]
			matches = append(matches, &m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Round < matches[j].Round
	})
	return matches, nil
}

func (l *MemoryLedger) requirePlayer(playerID, tournamentID int) error {
	p, ok := l.players[playerID]
	if !ok || p.TournamentID != tournamentID {
		return fmt.Errorf("%w: id %d in tournament %d", ErrPlayerNotFound, playerID, tournamentID)
	}
	return nil
}
