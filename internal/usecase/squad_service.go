package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/riskibarqy/fpl-mcp/internal/domain/player"
	"github.com/riskibarqy/fpl-mcp/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-mcp/internal/domain/squad"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
)

// SquadReader is the part of RefreshService the squad path needs.
type SquadReader interface {
	Bootstrap(ctx context.Context) (*snapshot.Bootstrap, Freshness, error)
	ManagerSquad(ctx context.Context, managerID int, authenticated bool, gameweek int) (squad.Squad, Freshness, error)
	ResolveManagerID(ctx context.Context) (int, error)
	HasToken() bool
}

// PickView is one squad slot joined with its player and team.
type PickView struct {
	Pick   squad.Pick
	Player PlayerView
}

type SquadView struct {
	Squad     squad.Squad
	Starters  []PickView
	Bench     []PickView
	Freshness Freshness
}

type SquadService struct {
	reader           SquadReader
	defaultManagerID int
	// tokenOwnerID caches the /me lookup.
	tokenOwnerID atomic.Int64
	logger       *logging.Logger
}

func NewSquadService(reader SquadReader, defaultManagerID int, logger *logging.Logger) *SquadService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SquadService{
		reader:           reader,
		defaultManagerID: defaultManagerID,
		logger:           logger,
	}
}

// MyTeam returns a manager's squad. The manager is managerID when given,
// else the configured default, else the owner of the configured token. The
// authenticated view is used for the token owner's own team; anyone else is
// read from the public picks of the current gameweek.
func (s *SquadService) MyTeam(ctx context.Context, managerID *int) (SquadView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.MyTeam")
	defer span.End()

	id, own, err := s.resolveManager(ctx, managerID)
	if err != nil {
		recordSpanError(span, err)
		return SquadView{}, err
	}

	b, _, err := s.reader.Bootstrap(ctx)
	if err != nil {
		return SquadView{}, err
	}

	authenticated := own && s.reader.HasToken()
	gw := 0
	if current, ok := b.CurrentGameweek(); ok {
		gw = current.ID
	} else if !authenticated {
		return SquadView{}, fmt.Errorf("%w: season has not started, no picks for manager=%d yet", ErrNotFound, id)
	}

	sq, freshness, err := s.reader.ManagerSquad(ctx, id, authenticated, gw)
	if err != nil {
		recordSpanError(span, err)
		return SquadView{}, err
	}

	view := SquadView{Squad: sq, Freshness: freshness}
	picks := append([]squad.Pick(nil), sq.Picks...)
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].Position < picks[j].Position })
	for _, pick := range picks {
		p, ok := b.Player(pick.PlayerID)
		if !ok {
			// squad and bootstrap come from different fetches
			s.logger.WarnContext(ctx, "squad pick references unknown player", "manager_id", id, "player_id", pick.PlayerID)
			p = player.Player{ID: pick.PlayerID}
		}
		pv := PickView{Pick: pick, Player: viewOf(b, p)}
		if pick.IsBench() {
			view.Bench = append(view.Bench, pv)
		} else {
			view.Starters = append(view.Starters, pv)
		}
	}
	return view, nil
}

func (s *SquadService) resolveManager(ctx context.Context, managerID *int) (id int, own bool, err error) {
	if managerID != nil {
		if *managerID <= 0 {
			return 0, false, fmt.Errorf("%w: manager id must be > 0", ErrInvalidInput)
		}
		own := *managerID == s.defaultManagerID || int64(*managerID) == s.tokenOwnerID.Load()
		return *managerID, own, nil
	}
	if s.defaultManagerID > 0 {
		return s.defaultManagerID, true, nil
	}
	if !s.reader.HasToken() {
		return 0, false, fmt.Errorf("%w: no manager id given and no api token configured", ErrUnauthorized)
	}

	if cached := s.tokenOwnerID.Load(); cached > 0 {
		return int(cached), true, nil
	}
	id, err = s.reader.ResolveManagerID(ctx)
	if err != nil {
		return 0, false, err
	}
	s.tokenOwnerID.Store(int64(id))
	return id, true, nil
}
