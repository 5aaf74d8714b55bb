package registry

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

// Service is the registry facade: the single entry point the HTTP layer and
// the CLI use to run a calculator and to browse the catalog.
type Service struct {
	source  ports.CalculatorSource
	cache   *Cache
	invoker *Invoker
	logger  ports.Logger
	events  ports.EventPublisher

	// unresolvable holds ids already reported by List since the last reload.
	unresolvable sync.Map // score.ID -> struct{}
}

// NewService wires a Locator, Cache and Invoker over source.
func NewService(source ports.CalculatorSource, logger ports.Logger) *Service {
	logger = logging.OrNop(logger)
	return &Service{
		source:  source,
		cache:   NewCache(NewLocator(source, logger)),
		invoker: NewInvoker(),
		logger:  logger.With("component", "registry"),
	}
}

// WithEvents makes the service publish calculation and reload events to
// publisher. Publish errors are logged and never fail the operation.
func (s *Service) WithEvents(publisher ports.EventPublisher) *Service {
	s.events = publisher
	return s
}

func (s *Service) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, scoreEvent{eventType: eventType, payload: payload}); err != nil {
		s.logger.Warn(ctx, "event publish failed", "event_type", eventType, "error", err)
	}
}

// CalculateScore resolves the calculator for id and applies it to params.
// On success the calculator's result is returned unmodified; otherwise the
// error is always a *score.Failure. Results are never cached.
func (s *Service) CalculateScore(ctx context.Context, id score.ID, params score.Parameters) (score.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	calc, err := s.cache.GetOrResolve(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, id, err, start)
	}
	if err := ctx.Err(); err != nil {
		return nil, s.fail(ctx, id, err, start)
	}

	result, err := s.invoker.Invoke(ctx, id, calc, params)
	if err != nil {
		return nil, s.fail(ctx, id, err, start)
	}

	s.logger.Debug(ctx, "score calculated",
		"score_id", string(id),
		"stage", result[score.KeyStage],
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.publish(ctx, ports.EventScoreCalculated, map[string]interface{}{
		"score_id":    string(id),
		"stage":       result[score.KeyStage],
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return result, nil
}

func (s *Service) fail(ctx context.Context, id score.ID, err error, start time.Time) error {
	failure := NewFailure(id, err)
	fields := []interface{}{
		"score_id", string(id),
		"category", failure.Category.String(),
		"error", err,
		"duration_ms", time.Since(start).Milliseconds(),
	}

	switch failure.Category {
	case score.CategoryCalculationError:
		var panicErr *PanicError
		if errors.As(err, &panicErr) {
			fields = append(fields, "stack", string(panicErr.Stack))
		}
		s.logger.Error(ctx, "score calculation failed", fields...)
	case score.CategoryNotFound:
		s.logger.Warn(ctx, "score calculator unavailable", fields...)
	default:
		s.logger.Debug(ctx, "score parameters rejected", fields...)
	}
	s.publish(ctx, ports.EventScoreFailed, map[string]interface{}{
		"score_id": string(id),
		"category": failure.Category.String(),
	})
	return failure
}

// IDs returns every registered identifier, resolvable or not, sorted.
func (s *Service) IDs(context.Context) []score.ID {
	return s.source.IDs()
}

// List returns the metadata of every resolvable calculator, sorted by id.
// Calculators that fail to resolve are left out; each is logged as a warning
// once per reload and at debug level afterwards.
func (s *Service) List(ctx context.Context) []score.Metadata {
	ids := s.source.IDs()
	out := make([]score.Metadata, 0, len(ids))
	for _, id := range ids {
		calc, err := s.cache.GetOrResolve(ctx, id)
		if err != nil {
			if _, reported := s.unresolvable.LoadOrStore(id, struct{}{}); reported {
				s.logger.Debug(ctx, "skipping unresolvable calculator", "score_id", string(id), "error", err)
			} else {
				s.logger.Warn(ctx, "skipping unresolvable calculator", "score_id", string(id), "error", err)
			}
			continue
		}
		s.unresolvable.Delete(id)
		out = append(out, calc.Metadata())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Metadata returns the metadata for id, or a NotFound *score.Failure.
func (s *Service) Metadata(ctx context.Context, id score.ID) (score.Metadata, error) {
	calc, err := s.cache.GetOrResolve(ctx, id)
	if err != nil {
		return score.Metadata{}, NewFailure(id, err)
	}
	return calc.Metadata(), nil
}

// Categories returns the distinct categories in the catalog, sorted.
func (s *Service) Categories(ctx context.Context) []string {
	seen := make(map[string]struct{})
	for _, meta := range s.List(ctx) {
		seen[meta.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for category := range seen {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

// Search filters the catalog by category (case-insensitive, exact) and by a
// free-text term matched against id, title, description and category. Empty
// arguments do not filter.
func (s *Service) Search(ctx context.Context, category, term string) []score.Metadata {
	category = strings.TrimSpace(category)
	all := s.List(ctx)
	out := all[:0]
	for _, meta := range all {
		if category != "" && !strings.EqualFold(meta.Category, category) {
			continue
		}
		if !meta.Matches(term) {
			continue
		}
		out = append(out, meta)
	}
	return out
}

// Available reports whether id resolves to a usable calculator.
func (s *Service) Available(ctx context.Context, id score.ID) bool {
	_, err := s.cache.GetOrResolve(ctx, id)
	return err == nil
}

// Reload drops every cached calculator and resolves the catalog again,
// returning how many calculators loaded.
func (s *Service) Reload(ctx context.Context) int {
	s.cache.Reset()
	s.unresolvable.Clear()
	loaded := len(s.List(ctx))
	s.logger.Info(ctx, "calculator catalog reloaded", "loaded", loaded, "registered", len(s.source.IDs()))
	s.publish(ctx, ports.EventCatalogReloaded, map[string]interface{}{
		"loaded":     loaded,
		"registered": len(s.source.IDs()),
	})
	return loaded
}

type scoreEvent struct {
	eventType string
	payload   map[string]interface{}
}

func (e scoreEvent) EventType() string    { return e.eventType }
func (e scoreEvent) Payload() interface{} { return e.payload }

var _ ports.ScoreService = (*Service)(nil)
