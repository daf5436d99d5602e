package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ProviderStats fetches the primary dashboard payload. Its failure is
// load-bearing for the whole dashboard.
func (c *Client) ProviderStats(ctx context.Context, ts TokenSource) (*ProviderStats, error) {
	var stats ProviderStats
	err := c.do(ctx, ts, call{
		endpoint: "dashboard.provider",
		method:   http.MethodGet,
		path:     "/dashboard/provider",
		out:      &stats,
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// TrendParams selects the bucket size and horizon of the trend series.
type TrendParams struct {
	Period string
	Months int
}

// OrderTrends returns the order trend series.
func (c *Client) OrderTrends(ctx context.Context, ts TokenSource, params TrendParams) ([]OrderTrendPoint, error) {
	query := url.Values{}
	if params.Period != "" {
		query.Set("period", params.Period)
	}
	if params.Months > 0 {
		query.Set("months", strconv.Itoa(params.Months))
	}

	var points []OrderTrendPoint
	err := c.do(ctx, ts, call{
		endpoint: "analytics.order_trends",
		method:   http.MethodGet,
		path:     "/analytics/order-trends",
		query:    query,
		out:      &points,
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// TopOrderedMedicines returns the most frequently ordered medicines.
func (c *Client) TopOrderedMedicines(ctx context.Context, ts TokenSource, limit, months int) ([]TopOrderedMedicine, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if months > 0 {
		query.Set("months", strconv.Itoa(months))
	}

	var top []TopOrderedMedicine
	err := c.do(ctx, ts, call{
		endpoint: "analytics.top_medicines",
		method:   http.MethodGet,
		path:     "/analytics/top-ordered-medicines",
		query:    query,
		out:      &top,
	})
	if err != nil {
		return nil, err
	}
	return top, nil
}

// SpendingAnalysis returns the per-category spending breakdown.
func (c *Client) SpendingAnalysis(ctx context.Context, ts TokenSource, months int) ([]SpendingByCategory, error) {
	query := url.Values{}
	if months > 0 {
		query.Set("months", strconv.Itoa(months))
	}

	var breakdown []SpendingByCategory
	err := c.do(ctx, ts, call{
		endpoint: "analytics.spending",
		method:   http.MethodGet,
		path:     "/analytics/spending-analysis",
		query:    query,
		out:      &breakdown,
	})
	if err != nil {
		return nil, err
	}
	return breakdown, nil
}

// FrequencyMetrics returns ordering cadence metrics.
func (c *Client) FrequencyMetrics(ctx context.Context, ts TokenSource) (*OrderFrequencyMetrics, error) {
	var freq OrderFrequencyMetrics
	err := c.do(ctx, ts, call{
		endpoint: "analytics.frequency",
		method:   http.MethodGet,
		path:     "/analytics/order-frequency-metrics",
		out:      &freq,
	})
	if err != nil {
		return nil, err
	}
	return &freq, nil
}
