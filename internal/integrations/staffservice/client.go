package staffservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client клиент справочника сотрудников
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника сотрудников
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

// GetStaffMember получает сотрудника по ID
func (c *Client) GetStaffMember(ctx context.Context, staffID string) (*StaffMember, error) {
	endpoint := fmt.Sprintf("%s/internal/staff/%s", c.baseURL, url.PathEscape(staffID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrStaffNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var member StaffMember
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return &member, nil
}

// GetStaffMemberWithGracefulDegradation получает сотрудника с graceful degradation.
// ErrStaffNotFound пробрасывается как есть, любая другая ошибка превращается в ErrServiceDegraded.
func (c *Client) GetStaffMemberWithGracefulDegradation(ctx context.Context, staffID string) (*StaffMember, error) {
	member, err := c.GetStaffMember(ctx, staffID)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			c.log.Info("Staff member not found: staff_id=%s", staffID)
			return nil, err
		}

		c.log.Error("StaffService unavailable, applying graceful degradation for staff_id=%s: %v", staffID, err)
		return nil, fmt.Errorf("%w: staff_id=%s, error=%v", ErrServiceDegraded, staffID, err)
	}

	return member, nil
}
