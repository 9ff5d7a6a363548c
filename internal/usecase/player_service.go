package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fpl-mcp/internal/domain/player"
	"github.com/riskibarqy/fpl-mcp/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-mcp/internal/domain/team"
)

const maxCompareIDs = 10

// SnapshotReader is the read side of RefreshService used by query services.
type SnapshotReader interface {
	Bootstrap(ctx context.Context) (*snapshot.Bootstrap, Freshness, error)
	Fixtures(ctx context.Context) (*snapshot.Fixtures, Freshness, error)
}

// PlayerView is a player joined with its team from the same generation.
type PlayerView struct {
	Player player.Player
	Team   team.Team
}

// RankedPlayer is a player with the metric value it was ranked by.
type RankedPlayer struct {
	PlayerView
	Metric player.Metric
	Score  float64
}

type PlayerService struct {
	reader SnapshotReader
}

func NewPlayerService(reader SnapshotReader) *PlayerService {
	return &PlayerService{reader: reader}
}

func (s *PlayerService) GetByID(ctx context.Context, id int) (PlayerView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetByID", attribute.Int("fpl.player_id", id))
	defer span.End()

	if id <= 0 {
		return PlayerView{}, fmt.Errorf("%w: player id must be > 0", ErrInvalidInput)
	}
	b, _, err := s.reader.Bootstrap(ctx)
	if err != nil {
		return PlayerView{}, err
	}
	p, ok := b.Player(id)
	if !ok {
		return PlayerView{}, fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}
	return viewOf(b, p), nil
}

// Search matches fragment against web and full names, ignoring case and
// accents. Results are ordered by total points, then id.
func (s *PlayerService) Search(ctx context.Context, fragment string) ([]PlayerView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Search")
	defer span.End()

	needle := foldName(fragment)
	if needle == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	b, _, err := s.reader.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]player.Player, 0)
	for _, p := range b.Players() {
		if containsFolded(p.WebName, needle) || containsFolded(p.FullName(), needle) {
			matches = append(matches, p)
		}
	}
	sortByPoints(matches)
	return viewsOf(b, matches), nil
}

// Suggest returns up to limit near-miss names for fragment, closest first.
// It is meant for searches that found nothing.
func (s *PlayerService) Suggest(ctx context.Context, fragment string, limit int) ([]PlayerView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Suggest")
	defer span.End()

	needle := foldName(fragment)
	if needle == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be > 0", ErrInvalidInput)
	}
	b, _, err := s.reader.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	maxDistance := len(needle) / 3
	if maxDistance < 2 {
		maxDistance = 2
	}

	type candidate struct {
		p        player.Player
		distance int
	}
	candidates := make([]candidate, 0)
	for _, p := range b.Players() {
		best := -1
		for _, name := range []string{p.WebName, p.SecondName, p.FullName()} {
			folded := foldName(name)
			if folded == "" {
				continue
			}
			d := fuzzy.LevenshteinDistance(needle, folded)
			if fuzzy.MatchNormalizedFold(needle, folded) {
				d = fuzzy.RankMatchNormalizedFold(needle, folded) / 4
			}
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 && best <= maxDistance {
			candidates = append(candidates, candidate{p: p, distance: best})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		if candidates[i].p.TotalPoints != candidates[j].p.TotalPoints {
			return candidates[i].p.TotalPoints > candidates[j].p.TotalPoints
		}
		return candidates[i].p.ID < candidates[j].p.ID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]PlayerView, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, viewOf(b, c.p))
	}
	return out, nil
}

// Filter returns players matching every supplied criterion, ordered by total
// points, then id.
func (s *PlayerService) Filter(ctx context.Context, criteria PlayerFilter) ([]PlayerView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Filter")
	defer span.End()

	compiled, err := criteria.compile()
	if err != nil {
		return nil, err
	}
	b, _, err := s.reader.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	if compiled.team != nil {
		if _, ok := b.Team(*compiled.team); !ok {
			return nil, fmt.Errorf("%w: team=%d", ErrNotFound, *compiled.team)
		}
	}

	matches := make([]player.Player, 0)
	for _, p := range b.Players() {
		if compiled.match(p) {
			matches = append(matches, p)
		}
	}
	sortByPoints(matches)
	return viewsOf(b, matches), nil
}

// Top ranks players by metric, descending, ties by id. Players for whom the
// metric is undefined are left out rather than scored as zero.
func (s *PlayerService) Top(ctx context.Context, metric player.Metric, limit int, position *player.Position) ([]RankedPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Top",
		attribute.String("fpl.metric", string(metric)),
		attribute.Int("fpl.limit", limit),
	)
	defer span.End()

	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be > 0", ErrInvalidInput)
	}
	metric, err := player.ParseMetric(string(metric))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	b, _, err := s.reader.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedPlayer, 0)
	for _, p := range b.Players() {
		if position != nil && p.Position != *position {
			continue
		}
		score, ok := metric.Score(p)
		if !ok {
			continue
		}
		ranked = append(ranked, RankedPlayer{PlayerView: viewOf(b, p), Metric: metric, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Player.ID < ranked[j].Player.ID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Differentials returns players owned by fewer than maxOwnership percent of
// managers with form of at least minForm, ordered by form desc, ownership
// asc, then id.
func (s *PlayerService) Differentials(ctx context.Context, maxOwnership, minForm float64, limit int, position *player.Position) ([]PlayerView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Differentials")
	defer span.End()

	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be > 0", ErrInvalidInput)
	}
	if maxOwnership <= 0 || maxOwnership > 100 {
		return nil, fmt.Errorf("%w: max_ownership must be in (0, 100]", ErrInvalidInput)
	}
	if minForm < 0 {
		return nil, fmt.Errorf("%w: min_form must be >= 0", ErrInvalidInput)
	}
	b, _, err := s.reader.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]player.Player, 0)
	for _, p := range b.Players() {
		if position != nil && p.Position != *position {
			continue
		}
		if p.SelectedByPercent < maxOwnership && p.Form >= minForm {
			matches = append(matches, p)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Form != matches[j].Form {
			return matches[i].Form > matches[j].Form
		}
		if matches[i].SelectedByPercent != matches[j].SelectedByPercent {
			return matches[i].SelectedByPercent < matches[j].SelectedByPercent
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return viewsOf(b, matches), nil
}

// Compare returns the requested players side by side in request order. Every
// id must resolve; nothing is returned otherwise.
func (s *PlayerService) Compare(ctx context.Context, ids []int) ([]PlayerView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Compare")
	defer span.End()

	distinct := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("%w: player id must be > 0, got %d", ErrInvalidInput, id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	if len(distinct) < 2 {
		return nil, fmt.Errorf("%w: compare needs at least 2 distinct player ids", ErrInvalidInput)
	}
	if len(distinct) > maxCompareIDs {
		return nil, fmt.Errorf("%w: compare accepts at most %d player ids", ErrInvalidInput, maxCompareIDs)
	}

	b, _, err := s.reader.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PlayerView, 0, len(distinct))
	for _, id := range distinct {
		p, ok := b.Player(id)
		if !ok {
			return nil, fmt.Errorf("%w: player=%d", ErrNotFound, id)
		}
		out = append(out, viewOf(b, p))
	}
	return out, nil
}

func sortByPoints(items []player.Player) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].TotalPoints != items[j].TotalPoints {
			return items[i].TotalPoints > items[j].TotalPoints
		}
		return items[i].ID < items[j].ID
	})
}

func viewOf(b *snapshot.Bootstrap, p player.Player) PlayerView {
	t, _ := b.Team(p.TeamID)
	return PlayerView{Player: p, Team: t}
}

func viewsOf(b *snapshot.Bootstrap, items []player.Player) []PlayerView {
	out := make([]PlayerView, 0, len(items))
	for _, p := range items {
		out = append(out, viewOf(b, p))
	}
	return out
}

// ParsePositionArg parses an optional position argument; blank means none.
func ParsePositionArg(value string) (*player.Position, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	position, err := player.ParsePosition(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &position, nil
}
