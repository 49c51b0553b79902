package services

import (
	"context"
	"sort"

	"github.com/Dosada05/event-companion/models"
	"github.com/Dosada05/event-companion/repositories"
)

// In-memory repositories for service tests. They implement only the behavior
// the services under test exercise.

type fakeEventRepo struct {
	events map[int]*models.Event
}

func newFakeEventRepo(events ...*models.Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: map[int]*models.Event{}}
	for _, event := range events {
		repo.events[event.ID] = event
	}
	return repo
}

func (r *fakeEventRepo) Create(_ context.Context, _ repositories.SQLExecutor, event *models.Event) error {
	event.ID = len(r.events) + 1
	event.Status = models.EventStatusActive
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int) (*models.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) List(_ context.Context, status *models.EventStatus) ([]*models.Event, error) {
	out := make([]*models.Event, 0, len(r.events))
	for _, event := range r.events {
		if status == nil || event.Status == *status {
			out = append(out, event)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) SetRoundState(_ context.Context, _ repositories.SQLExecutor, id, currentRound int, roundStartTS int64) error {
	event, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	event.CurrentRound = currentRound
	event.RoundStartTS = &roundStartTS
	return nil
}

func (r *fakeEventRepo) SetStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.EventStatus) error {
	event, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	event.Status = status
	return nil
}

func (r *fakeEventRepo) SetCurrentRound(_ context.Context, _ repositories.SQLExecutor, id, round int) error {
	event, ok := r.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	event.CurrentRound = round
	return nil
}

func (r *fakeEventRepo) ListClosedIDsInWindow(_ context.Context, startTS int64, endTS *int64) ([]int, error) {
	ids := make([]int, 0)
	for _, event := range r.events {
		if event.Status != models.EventStatusClosed || event.RoundStartTS == nil {
			continue
		}
		ts := *event.RoundStartTS
		if ts < startTS || (endTS != nil && ts > *endTS) {
			continue
		}
		ids = append(ids, event.ID)
	}
	sort.Ints(ids)
	return ids, nil
}

type fakeParticipantRepo struct {
	byEvent map[int][]*models.EventParticipant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{byEvent: map[int][]*models.EventParticipant{}}
}

func (r *fakeParticipantRepo) add(participants ...*models.EventParticipant) {
	for _, participant := range participants {
		r.byEvent[participant.EventID] = append(r.byEvent[participant.EventID], participant)
	}
}

func (r *fakeParticipantRepo) Create(_ context.Context, _ repositories.SQLExecutor, participant *models.EventParticipant) error {
	participant.ID = len(r.byEvent[participant.EventID]) + 1
	r.add(participant)
	return nil
}

func (r *fakeParticipantRepo) ListByEvent(_ context.Context, eventID int) ([]*models.EventParticipant, error) {
	out := append([]*models.EventParticipant(nil), r.byEvent[eventID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].SeatingPos < out[j].SeatingPos })
	return out, nil
}

func (r *fakeParticipantRepo) DetachPlayer(_ context.Context, _ repositories.SQLExecutor, playerID int, guestName string) error {
	for _, participants := range r.byEvent {
		for _, participant := range participants {
			if participant.PlayerID != nil && *participant.PlayerID == playerID {
				name := guestName
				participant.PlayerID = nil
				participant.GuestName = &name
			}
		}
	}
	return nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{matches: map[int]*models.Match{}, nextID: 1}
	for _, match := range matches {
		if match.ID == 0 {
			match.ID = repo.nextID
		}
		repo.matches[match.ID] = match
		if match.ID >= repo.nextID {
			repo.nextID = match.ID + 1
		}
	}
	return repo
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	match.ID = r.nextID
	r.nextID++
	r.matches[match.ID] = match
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (r *fakeMatchRepo) ListByEvent(_ context.Context, eventID int, round *int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, match := range r.matches {
		if match.EventID != eventID {
			continue
		}
		if round != nil && match.Round != *round {
			continue
		}
		out = append(out, match)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeMatchRepo) UpdateScores(_ context.Context, _ repositories.SQLExecutor, id, score1, score2 int) error {
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.Score1 = score1
	match.Score2 = score2
	return nil
}

func (r *fakeMatchRepo) DeleteRound(_ context.Context, _ repositories.SQLExecutor, eventID, round int) error {
	for id, match := range r.matches {
		if match.EventID == eventID && match.Round == round {
			delete(r.matches, id)
		}
	}
	return nil
}

func (r *fakeMatchRepo) DeleteRoundsAfter(_ context.Context, _ repositories.SQLExecutor, eventID, round int) error {
	for id, match := range r.matches {
		if match.EventID == eventID && match.Round > round {
			delete(r.matches, id)
		}
	}
	return nil
}

type fakeLeagueRepo struct {
	leagues map[int]*models.League
}

func newFakeLeagueRepo(leagues ...*models.League) *fakeLeagueRepo {
	repo := &fakeLeagueRepo{leagues: map[int]*models.League{}}
	for _, league := range leagues {
		repo.leagues[league.ID] = league
	}
	return repo
}

func (r *fakeLeagueRepo) Create(_ context.Context, league *models.League) error {
	for _, existing := range r.leagues {
		if existing.IsOpen() {
			return repositories.ErrLeagueAlreadyOpen
		}
	}
	league.ID = len(r.leagues) + 1
	r.leagues[league.ID] = league
	return nil
}

func (r *fakeLeagueRepo) GetByID(_ context.Context, id int) (*models.League, error) {
	league, ok := r.leagues[id]
	if !ok {
		return nil, repositories.ErrLeagueNotFound
	}
	copied := *league
	return &copied, nil
}

func (r *fakeLeagueRepo) List(_ context.Context) ([]*models.League, error) {
	out := make([]*models.League, 0, len(r.leagues))
	for _, league := range r.leagues {
		out = append(out, league)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeLeagueRepo) FindOpen(_ context.Context) (*models.League, error) {
	for _, league := range r.leagues {
		if league.IsOpen() {
			copied := *league
			return &copied, nil
		}
	}
	return nil, repositories.ErrLeagueNotFound
}

func (r *fakeLeagueRepo) Close(_ context.Context, _ repositories.SQLExecutor, id int, endTS int64) error {
	league, ok := r.leagues[id]
	if !ok || !league.IsOpen() {
		return repositories.ErrLeagueNotFound
	}
	league.EndTS = &endTS
	return nil
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func int64Ptr(v int64) *int64 { return &v }
