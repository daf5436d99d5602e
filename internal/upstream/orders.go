package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/santelink/provider-portal/pkg/pagination"
)

const idempotencyKeyHeader = "Idempotency-Key"

// CreateOrder submits a new order. The idempotency key guards against
// double-submission when the portal retries on flaky links.
func (c *Client) CreateOrder(ctx context.Context, ts TokenSource, input CreateOrderInput, idempotencyKey string) (*Order, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers[idempotencyKeyHeader] = idempotencyKey
	}

	var order Order
	err := c.do(ctx, ts, call{
		endpoint: "orders.create",
		method:   http.MethodPost,
		path:     "/orders",
		headers:  headers,
		body:     input,
		out:      &order,
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListMyOrders pages through the provider's order history.
func (c *Client) ListMyOrders(ctx context.Context, ts TokenSource, params pagination.Params) (*OrderPage, error) {
	query := url.Values{}
	params.Apply(query)

	var page OrderPage
	err := c.do(ctx, ts, call{
		endpoint: "orders.list",
		method:   http.MethodGet,
		path:     "/orders/me",
		query:    query,
		out:      &page,
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ListOrderTemplates returns all saved templates for the provider.
func (c *Client) ListOrderTemplates(ctx context.Context, ts TokenSource) ([]OrderTemplate, error) {
	var templates []OrderTemplate
	err := c.do(ctx, ts, call{
		endpoint: "templates.list",
		method:   http.MethodGet,
		path:     "/order-templates",
		out:      &templates,
	})
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// GetOrderTemplate fetches a single template.
func (c *Client) GetOrderTemplate(ctx context.Context, ts TokenSource, templateID string) (*OrderTemplate, error) {
	var template OrderTemplate
	err := c.do(ctx, ts, call{
		endpoint: "templates.get",
		method:   http.MethodGet,
		path:     "/order-templates/" + url.PathEscape(templateID),
		out:      &template,
	})
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// CreateOrderTemplate saves a new template.
func (c *Client) CreateOrderTemplate(ctx context.Context, ts TokenSource, input OrderTemplateInput) (*OrderTemplate, error) {
	var template OrderTemplate
	err := c.do(ctx, ts, call{
		endpoint: "templates.create",
		method:   http.MethodPost,
		path:     "/order-templates",
		body:     input,
		out:      &template,
	})
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// UpdateOrderTemplate replaces an existing template.
func (c *Client) UpdateOrderTemplate(ctx context.Context, ts TokenSource, templateID string, input OrderTemplateInput) (*OrderTemplate, error) {
	var template OrderTemplate
	err := c.do(ctx, ts, call{
		endpoint: "templates.update",
		method:   http.MethodPut,
		path:     "/order-templates/" + url.PathEscape(templateID),
		body:     input,
		out:      &template,
	})
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// DeleteOrderTemplate removes a template.
func (c *Client) DeleteOrderTemplate(ctx context.Context, ts TokenSource, templateID string) error {
	return c.do(ctx, ts, call{
		endpoint: "templates.delete",
		method:   http.MethodDelete,
		path:     "/order-templates/" + url.PathEscape(templateID),
	})
}
