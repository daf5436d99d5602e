package dashboard

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/santelink/provider-portal/internal/session"
	"github.com/santelink/provider-portal/internal/upstream"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/logger"
)

const (
	defaultTrendMonths    = 6
	defaultTopLimit       = 5
	defaultSpendingMonths = 6
)

type platformAPI interface {
	ProviderStats(ctx context.Context, ts upstream.TokenSource) (*upstream.ProviderStats, error)
	OrderTrends(ctx context.Context, ts upstream.TokenSource, params upstream.TrendParams) ([]upstream.OrderTrendPoint, error)
	TopOrderedMedicines(ctx context.Context, ts upstream.TokenSource, limit, months int) ([]upstream.TopOrderedMedicine, error)
	SpendingAnalysis(ctx context.Context, ts upstream.TokenSource, months int) ([]upstream.SpendingByCategory, error)
	FrequencyMetrics(ctx context.Context, ts upstream.TokenSource) (*upstream.OrderFrequencyMetrics, error)
	ListOrderTemplates(ctx context.Context, ts upstream.TokenSource) ([]upstream.OrderTemplate, error)
}

type tokenSources interface {
	TokenSource(sessionID string) upstream.TokenSource
}

// Stats is the composed dashboard view model. Everything outside Primary is
// best effort and may hold its zero value when the platform misbehaves.
type Stats struct {
	Primary          upstream.ProviderStats          `json:"primary"`
	OrderTrends      []upstream.OrderTrendPoint      `json:"orderTrends"`
	TopMedicines     []upstream.TopOrderedMedicine   `json:"topMedicines"`
	SpendingAnalysis []upstream.SpendingByCategory   `json:"spendingAnalysis"`
	Frequency        *upstream.OrderFrequencyMetrics `json:"frequency,omitempty"`
	Templates        []upstream.OrderTemplate        `json:"templates"`
	Degraded         []string                        `json:"degraded,omitempty"`
}

// Aggregator assembles the provider dashboard from six platform calls.
type Aggregator struct {
	api      platformAPI
	sessions tokenSources
	logg     *logger.Logger
}

func NewAggregator(api platformAPI, sessions tokenSources, logg *logger.Logger) (*Aggregator, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "dashboard aggregator requires a platform client")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "dashboard aggregator requires a token source provider")
	}
	return &Aggregator{api: api, sessions: sessions, logg: logg}, nil
}

// Load rebuilds the dashboard from scratch. The provider stats call is load
// bearing: if it fails the whole load fails. The other five calls fan out
// concurrently and degrade to their zero values on failure, so one flaky
// analytics endpoint never blanks the page.
func (a *Aggregator) Load(ctx context.Context, sess *session.Session) (*Stats, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	ts := a.sessions.TokenSource(sess.ID)

	primary, err := a.api.ProviderStats(ctx, ts)
	if err != nil {
		if a.logg != nil {
			a.logg.Error(a.logg.WithSessionID(ctx, sess.ID), "dashboard primary load failed", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load dashboard data")
	}

	stats := &Stats{Primary: *primary}

	var (
		mu       sync.Mutex
		degraded []error
		group    errgroup.Group
	)
	collect := func(name string, run func() error) func() error {
		return func() error {
			if err := run(); err != nil {
				mu.Lock()
				stats.Degraded = append(stats.Degraded, name)
				degraded = append(degraded, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name))
				mu.Unlock()
			}
			return nil
		}
	}

	group.Go(collect("order trends", func() error {
		trends, err := a.api.OrderTrends(ctx, ts, upstream.TrendParams{Months: defaultTrendMonths})
		if err != nil {
			return err
		}
		stats.OrderTrends = trends
		return nil
	}))
	group.Go(collect("top medicines", func() error {
		top, err := a.api.TopOrderedMedicines(ctx, ts, defaultTopLimit, defaultSpendingMonths)
		if err != nil {
			return err
		}
		stats.TopMedicines = top
		return nil
	}))
	group.Go(collect("spending analysis", func() error {
		spending, err := a.api.SpendingAnalysis(ctx, ts, defaultSpendingMonths)
		if err != nil {
			return err
		}
		stats.SpendingAnalysis = spending
		return nil
	}))
	group.Go(collect("frequency metrics", func() error {
		frequency, err := a.api.FrequencyMetrics(ctx, ts)
		if err != nil {
			return err
		}
		stats.Frequency = frequency
		return nil
	}))
	group.Go(collect("order templates", func() error {
		templates, err := a.api.ListOrderTemplates(ctx, ts)
		if err != nil {
			return err
		}
		stats.Templates = templates
		return nil
	}))

	// Goroutines only write disjoint fields and collect never returns an
	// error, so Wait is a pure barrier here.
	_ = group.Wait()

	if len(degraded) > 0 && a.logg != nil {
		a.logg.Error(
			a.logg.WithFields(ctx, map[string]any{"session_id": sess.ID, "degraded": len(degraded)}),
			"dashboard loaded with degraded sections",
			multierr.Combine(degraded...),
		)
	}
	return stats, nil
}
