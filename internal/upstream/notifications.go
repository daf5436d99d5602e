package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/santelink/provider-portal/pkg/enums"
	"github.com/santelink/provider-portal/pkg/pagination"
)

// ListNotificationsParams filters the notification listing.
type ListNotificationsParams struct {
	Pagination pagination.Params
	UnreadOnly bool
	Type       enums.NotificationType
}

// ListNotifications pages through the provider's notifications.
func (c *Client) ListNotifications(ctx context.Context, ts TokenSource, params ListNotificationsParams) (*NotificationPage, error) {
	query := url.Values{}
	params.Pagination.Apply(query)
	if params.UnreadOnly {
		query.Set("unread", "true")
	}
	if params.Type != "" {
		query.Set("type", string(params.Type))
	}

	var page NotificationPage
	err := c.do(ctx, ts, call{
		endpoint: "notifications.list",
		method:   http.MethodGet,
		path:     "/notifications",
		query:    query,
		out:      &page,
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetNotificationStats returns the unread/total counters.
func (c *Client) GetNotificationStats(ctx context.Context, ts TokenSource) (*NotificationStats, error) {
	var stats NotificationStats
	err := c.do(ctx, ts, call{
		endpoint: "notifications.stats",
		method:   http.MethodGet,
		path:     "/notifications/stats",
		out:      &stats,
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// MarkNotificationRead flags one notification and returns the updated entity,
// so callers never need a follow-up refetch.
func (c *Client) MarkNotificationRead(ctx context.Context, ts TokenSource, notificationID string) (*Notification, error) {
	var notification Notification
	err := c.do(ctx, ts, call{
		endpoint: "notifications.mark_read",
		method:   http.MethodPatch,
		path:     "/notifications/" + url.PathEscape(notificationID) + "/read",
		out:      &notification,
	})
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkAllNotificationsRead flags everything and reports how many rows changed.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, ts TokenSource) (int, error) {
	var result struct {
		Updated int `json:"updated"`
	}
	err := c.do(ctx, ts, call{
		endpoint: "notifications.mark_all_read",
		method:   http.MethodPatch,
		path:     "/notifications/read-all",
		out:      &result,
	})
	if err != nil {
		return 0, err
	}
	return result.Updated, nil
}

// DeleteNotification removes one notification.
func (c *Client) DeleteNotification(ctx context.Context, ts TokenSource, notificationID string) error {
	return c.do(ctx, ts, call{
		endpoint: "notifications.delete",
		method:   http.MethodDelete,
		path:     "/notifications/" + url.PathEscape(notificationID),
	})
}
