package mcptool

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fpl-mcp/internal/domain/player"
	"github.com/riskibarqy/fpl-mcp/internal/platform/cache"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
	"github.com/riskibarqy/fpl-mcp/internal/usecase"
)

const defaultSuggestLimit = 5

var tracer = otel.Tracer("fpl-mcp/internal/interfaces/mcptool")

// CacheController is the part of RefreshService the cache tools drive.
type CacheController interface {
	ForceRefresh(ctx context.Context, category cache.Category) (usecase.CategoryResult, error)
	RefreshAll(ctx context.Context) ([]usecase.CategoryResult, error)
	Status() []usecase.EntryStatus
}

// CallObserver receives one event per tool call, typically for metrics.
type CallObserver interface {
	ToolCall(tool string, result string, elapsed time.Duration)
}

type nopCallObserver struct{}

func (nopCallObserver) ToolCall(string, string, time.Duration) {}

type Dependencies struct {
	Players  *usecase.PlayerService
	Teams    *usecase.TeamService
	Fixtures *usecase.FixtureService
	Squads   *usecase.SquadService
	Cache    CacheController
	Logger   *logging.Logger
	Observer CallObserver
}

// Handler implements every tool on top of the query services.
type Handler struct {
	players  *usecase.PlayerService
	teams    *usecase.TeamService
	fixtures *usecase.FixtureService
	squads   *usecase.SquadService
	cache    CacheController
	logger   *logging.Logger
	observer CallObserver
	validate *validator.Validate
}

func NewHandler(deps Dependencies) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	observer := deps.Observer
	if observer == nil {
		observer = nopCallObserver{}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		players:  deps.Players,
		teams:    deps.Teams,
		fixtures: deps.Fixtures,
		squads:   deps.Squads,
		cache:    deps.Cache,
		logger:   logger,
		observer: observer,
		validate: validate,
	}
}

// NewServer builds an MCP server exposing every tool.
func NewServer(h *Handler, name, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)

	addTool(server, h, "get_player", "Get one player's full record by id.", h.getPlayer)
	addTool(server, h, "search_player", "Search players by name. Suggests close matches when nothing matches.", h.searchPlayer)
	addTool(server, h, "filter_players", "Filter players by position, team, price, form, points and availability.", h.filterPlayers)
	addTool(server, h, "get_top_players", "Rank players by points, form, points_per_game, expected_goals, expected_assists or value.", h.topPlayers)
	addTool(server, h, "get_differentials", "Low-ownership players in good form.", h.differentials)
	addTool(server, h, "compare_players", "Compare 2 to 10 players side by side.", h.comparePlayers)
	addTool(server, h, "get_team", "Get one team by id.", h.getTeam)
	addTool(server, h, "search_team", "Search teams by name or short name.", h.searchTeam)
	addTool(server, h, "get_all_teams", "List every team, strongest first.", h.allTeams)
	addTool(server, h, "get_gameweek_fixtures", "List one gameweek's fixtures in kickoff order.", h.gameweekFixtures)
	addTool(server, h, "get_team_fixtures", "List a team's fixtures, optionally for one gameweek.", h.teamFixtures)
	addTool(server, h, "get_team_upcoming", "A team's next unfinished fixtures with difficulty from its own side.", h.teamUpcoming)
	addTool(server, h, "get_next_gameweeks", "Upcoming gameweeks with deadlines and fixtures.", h.nextGameweeks)
	addTool(server, h, "get_my_team", "A manager's squad with starters, bench, captaincy and bank.", h.myTeam)
	addTool(server, h, "refresh_cache", "Force a refetch of cached FPL data.", h.refreshCache)
	addTool(server, h, "cache_status", "Cache entries with age, TTL and freshness.", h.cacheStatus)

	return server
}

func addTool[T any](server *mcp.Server, h *Handler, name, description string, fn func(context.Context, T) (any, error)) {
	mcp.AddTool(server, &mcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *mcp.CallToolRequest, args T) (*mcp.CallToolResult, any, error) {
			return dispatch(ctx, h, name, args, fn), nil, nil
		})
}

// dispatch validates args, runs fn and renders the envelope. Errors never
// escape as protocol errors; they are reported in the result body.
func dispatch[T any](ctx context.Context, h *Handler, tool string, args T, fn func(context.Context, T) (any, error)) *mcp.CallToolResult {
	callID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "mcptool."+tool)
	defer span.End()
	span.SetAttributes(attribute.String("mcp.tool", tool), attribute.String("mcp.call_id", callID))

	started := time.Now()
	logger := h.logger.With("tool", tool, "call_id", callID)

	data, err := run(ctx, h, args, fn)
	elapsed := time.Since(started)
	if err != nil {
		kind := usecase.KindOf(err)
		span.SetAttributes(attribute.String("mcp.error_kind", string(kind)))
		h.observer.ToolCall(tool, string(kind), elapsed)
		if kind == usecase.KindInternal {
			logger.ErrorContext(ctx, "tool call failed", "error", err, "duration_ms", elapsed.Milliseconds())
		} else {
			logger.WarnContext(ctx, "tool call rejected", "kind", string(kind), "error", err, "duration_ms", elapsed.Milliseconds())
		}
		return errorResult(err)
	}

	h.observer.ToolCall(tool, "ok", elapsed)
	logger.InfoContext(ctx, "tool call", "duration_ms", elapsed.Milliseconds())
	return successResult(data)
}

// run validates args and calls fn. A panicking handler is reported as an
// internal error instead of taking the session down.
func run[T any](ctx context.Context, h *Handler, args T, fn func(context.Context, T) (any, error)) (data any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in tool handler: %v", rec)
		}
	}()
	if err := h.validate.Struct(args); err != nil {
		return nil, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, validationMessage(err))
	}
	return fn(ctx, args)
}

func (h *Handler) getPlayer(ctx context.Context, args PlayerIDArgs) (any, error) {
	view, err := h.players.GetByID(ctx, args.PlayerID)
	if err != nil {
		return nil, err
	}
	return toPlayerDTO(view), nil
}

type searchPlayerResult struct {
	Matches     []playerDTO `json:"matches"`
	Suggestions []playerDTO `json:"suggestions,omitempty"`
}

func (h *Handler) searchPlayer(ctx context.Context, args SearchArgs) (any, error) {
	matches, err := h.players.Search(ctx, args.Query)
	if err != nil {
		return nil, err
	}
	out := searchPlayerResult{Matches: toPlayerDTOs(matches)}
	if len(matches) == 0 {
		suggestions, err := h.players.Suggest(ctx, args.Query, defaultSuggestLimit)
		if err != nil {
			return nil, err
		}
		out.Suggestions = toPlayerDTOs(suggestions)
	}
	return out, nil
}

func (h *Handler) filterPlayers(ctx context.Context, args FilterPlayersArgs) (any, error) {
	raw, err := sonic.Marshal(args.Criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: criteria: %v", usecase.ErrInvalidInput, err)
	}
	if args.Criteria == nil {
		raw = []byte("{}")
	}
	criteria, err := usecase.DecodePlayerFilter(raw)
	if err != nil {
		return nil, err
	}
	items, err := h.players.Filter(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return toPlayerDTOs(items), nil
}

func (h *Handler) topPlayers(ctx context.Context, args TopPlayersArgs) (any, error) {
	position, err := usecase.ParsePositionArg(stringOr(args.Position))
	if err != nil {
		return nil, err
	}
	items, err := h.players.Top(ctx, player.Metric(args.Metric), args.Limit, position)
	if err != nil {
		return nil, err
	}
	return toRankedDTOs(items), nil
}

func (h *Handler) differentials(ctx context.Context, args DifferentialsArgs) (any, error) {
	position, err := usecase.ParsePositionArg(stringOr(args.Position))
	if err != nil {
		return nil, err
	}
	items, err := h.players.Differentials(ctx,
		*args.MaxOwnership,
		*args.MinForm,
		args.Limit,
		position,
	)
	if err != nil {
		return nil, err
	}
	return toPlayerDTOs(items), nil
}

func (h *Handler) comparePlayers(ctx context.Context, args CompareArgs) (any, error) {
	items, err := h.players.Compare(ctx, args.PlayerIDs)
	if err != nil {
		return nil, err
	}
	return toPlayerDTOs(items), nil
}

func (h *Handler) getTeam(ctx context.Context, args TeamIDArgs) (any, error) {
	t, err := h.teams.GetByID(ctx, args.TeamID)
	if err != nil {
		return nil, err
	}
	return toTeamDTO(t), nil
}

func (h *Handler) searchTeam(ctx context.Context, args SearchArgs) (any, error) {
	items, err := h.teams.Search(ctx, args.Query)
	if err != nil {
		return nil, err
	}
	return toTeamDTOs(items), nil
}

func (h *Handler) allTeams(ctx context.Context, _ NoArgs) (any, error) {
	items, err := h.teams.List(ctx)
	if err != nil {
		return nil, err
	}
	return toTeamDTOs(items), nil
}

func (h *Handler) gameweekFixtures(ctx context.Context, args GameweekArgs) (any, error) {
	items, err := h.fixtures.ListByGameweek(ctx, args.Gameweek)
	if err != nil {
		return nil, err
	}
	return toFixtureDTOs(items), nil
}

func (h *Handler) teamFixtures(ctx context.Context, args TeamFixturesArgs) (any, error) {
	items, err := h.fixtures.ListByTeam(ctx, args.TeamID, args.Gameweek)
	if err != nil {
		return nil, err
	}
	return toFixtureDTOs(items), nil
}

func (h *Handler) teamUpcoming(ctx context.Context, args TeamUpcomingArgs) (any, error) {
	items, err := h.fixtures.Upcoming(ctx, args.TeamID, args.Count)
	if err != nil {
		return nil, err
	}
	return toUpcomingDTOs(items), nil
}

func (h *Handler) nextGameweeks(ctx context.Context, args NextGameweeksArgs) (any, error) {
	items, err := h.fixtures.NextGameweeks(ctx, args.Count)
	if err != nil {
		return nil, err
	}
	return toGameweekDTOs(items), nil
}

func (h *Handler) myTeam(ctx context.Context, args MyTeamArgs) (any, error) {
	view, err := h.squads.MyTeam(ctx, args.ManagerID)
	if err != nil {
		return nil, err
	}
	return toSquadDTO(view), nil
}

func (h *Handler) refreshCache(ctx context.Context, args RefreshCacheArgs) (any, error) {
	if args.Category == "" || args.Category == "all" {
		results, err := h.cache.RefreshAll(ctx)
		if err != nil && len(results) == 0 {
			return nil, err
		}
		// per-category failures are reported inline
		return toRefreshDTOs(results), nil
	}

	result, err := h.cache.ForceRefresh(ctx, cache.Category(args.Category))
	if err != nil {
		return nil, err
	}
	return toRefreshDTOs([]usecase.CategoryResult{result}), nil
}

func (h *Handler) cacheStatus(_ context.Context, _ NoArgs) (any, error) {
	return toCacheEntryDTOs(h.cache.Status()), nil
}

func stringOr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
