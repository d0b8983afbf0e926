package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// PlaybookService serves the sales playbook: WhatsApp scripts with the
// agent's favorites, objection handlers, SOP rules and cheat codes.
type PlaybookService struct {
	catalog   CatalogReader
	favorites ports.FavoriteScripts
	logger    *slog.Logger
}

// PlaybookServiceConfig contains configuration for the playbook service.
type PlaybookServiceConfig struct {
	Catalog CatalogReader

	// Favorites may be nil, in which case nothing is ever favorited.
	Favorites ports.FavoriteScripts
	Logger    *slog.Logger
}

// ScriptView is a script as one agent sees it.
type ScriptView struct {
	domain.WhatsAppScript
	Favorite bool
}

// NewPlaybookService creates a playbook service.
func NewPlaybookService(cfg PlaybookServiceConfig) *PlaybookService {
	if cfg.Catalog == nil {
		panic("playbook service requires a catalog")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PlaybookService{
		catalog:   cfg.Catalog,
		favorites: cfg.Favorites,
		logger:    logger.With(slog.String("component", "app.PlaybookService")),
	}
}

// Scripts lists the scripts matching filter, flagged with owner's favorites.
func (s *PlaybookService) Scripts(ctx context.Context, owner string, filter domain.ScriptFilter) []ScriptView {
	favs := s.favoriteSet(ctx, owner)
	scripts := domain.FilterScripts(s.catalog.Catalog().Scripts, filter)

	out := make([]ScriptView, len(scripts))
	for i, sc := range scripts {
		_, fav := favs[sc.ID]
		out[i] = ScriptView{WhatsAppScript: sc, Favorite: fav}
	}

	return out
}

// Script finds one script.
func (s *PlaybookService) Script(ctx context.Context, owner, id string) (ScriptView, error) {
	sc, err := s.findScript(id)
	if err != nil {
		return ScriptView{}, err
	}

	_, fav := s.favoriteSet(ctx, owner)[id]

	return ScriptView{WhatsAppScript: sc, Favorite: fav}, nil
}

// FavoriteScripts lists owner's favorites in the order they were added.
// Favorited ids that are no longer in the catalog are skipped.
func (s *PlaybookService) FavoriteScripts(ctx context.Context, owner string) []ScriptView {
	ids := s.favoriteIDs(ctx, owner)
	out := make([]ScriptView, 0, len(ids))

	for _, id := range ids {
		sc, err := s.findScript(id)
		if err != nil {
			continue
		}

		out = append(out, ScriptView{WhatsAppScript: sc, Favorite: true})
	}

	return out
}

// ToggleFavorite flips the favorite state of a script and returns the new
// state.
func (s *PlaybookService) ToggleFavorite(ctx context.Context, owner, id string) (bool, error) {
	if _, err := s.findScript(id); err != nil {
		return false, err
	}

	if s.favorites == nil {
		return false, domain.NewUnavailableError("favorites", "no favorites store configured")
	}

	on, err := s.favorites.Toggle(ctx, owner, id)
	if err != nil {
		s.persistenceFailed(ctx, "toggle", err)

		return false, fmt.Errorf("toggling favorite: %w", err)
	}

	return on, nil
}

// AddFavorite marks a script as favorite. Adding twice is a no-op.
func (s *PlaybookService) AddFavorite(ctx context.Context, owner, id string) error {
	if _, err := s.findScript(id); err != nil {
		return err
	}

	if s.favorites == nil {
		return domain.NewUnavailableError("favorites", "no favorites store configured")
	}

	err := s.favorites.Add(ctx, owner, id)
	if err != nil {
		s.persistenceFailed(ctx, "add", err)

		return fmt.Errorf("adding favorite: %w", err)
	}

	return nil
}

// RemoveFavorite unmarks a script. Removing an id that is not a favorite is
// a no-op.
func (s *PlaybookService) RemoveFavorite(ctx context.Context, owner, id string) error {
	if s.favorites == nil {
		return nil
	}

	err := s.favorites.Remove(ctx, owner, id)
	if err != nil {
		s.persistenceFailed(ctx, "remove", err)

		return fmt.Errorf("removing favorite: %w", err)
	}

	return nil
}

// ClearFavorites removes all of owner's favorites.
func (s *PlaybookService) ClearFavorites(ctx context.Context, owner string) error {
	if s.favorites == nil {
		return nil
	}

	err := s.favorites.Clear(ctx, owner)
	if err != nil {
		s.persistenceFailed(ctx, "clear", err)

		return fmt.Errorf("clearing favorites: %w", err)
	}

	return nil
}

// Objections lists the handlers matching filter.
func (s *PlaybookService) Objections(_ context.Context, filter domain.ObjectionFilter) []domain.ObjectionHandler {
	return domain.FilterObjections(s.catalog.Catalog().Objections, filter)
}

// Objection finds one handler.
func (s *PlaybookService) Objection(_ context.Context, id string) (domain.ObjectionHandler, error) {
	for _, h := range s.catalog.Catalog().Objections {
		if h.ID == id {
			return h, nil
		}
	}

	return domain.ObjectionHandler{}, domain.NewNotFoundError("objection", id)
}

// SOPRules lists the rules, optionally narrowed to one importance.
func (s *PlaybookService) SOPRules(_ context.Context, importance string) []domain.SOPRule {
	rules := domain.FilterSOPRules(s.catalog.Catalog().SOPRules, importance)
	if rules == nil {
		return []domain.SOPRule{}
	}

	return rules
}

// CheatCodes lists the quick-reference codes.
func (s *PlaybookService) CheatCodes(_ context.Context) []domain.CheatCode {
	codes := s.catalog.Catalog().CheatCodes
	if codes == nil {
		return []domain.CheatCode{}
	}

	return codes
}

func (s *PlaybookService) findScript(id string) (domain.WhatsAppScript, error) {
	for _, sc := range s.catalog.Catalog().Scripts {
		if sc.ID == id {
			return sc, nil
		}
	}

	return domain.WhatsAppScript{}, domain.NewNotFoundError("script", id)
}

// favoriteIDs reads owner's favorites; a store failure reads as none.
func (s *PlaybookService) favoriteIDs(ctx context.Context, owner string) []string {
	if s.favorites == nil {
		return nil
	}

	ids, err := s.favorites.List(ctx, owner)
	if err != nil {
		s.persistenceFailed(ctx, "list", err)

		return nil
	}

	return ids
}

func (s *PlaybookService) favoriteSet(ctx context.Context, owner string) map[string]struct{} {
	ids := s.favoriteIDs(ctx, owner)

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return set
}

func (s *PlaybookService) persistenceFailed(ctx context.Context, op string, err error) {
	persistenceFailures.WithLabelValues("favorites", op).Inc()
	requestLogger(ctx, s.logger).WarnContext(ctx, "favorites store failed",
		slog.String("operation", op),
		slog.Any("error", err),
	)
}
