package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iudanet/gophtask/internal/client/taskdb"
	"github.com/iudanet/gophtask/pkg/api"
)

// StatusError is returned for non-2xx responses
type StatusError struct {
	Message string
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Code, e.Message)
}

// Client представляет HTTP клиент сервера версий и реализует taskdb.Server
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

var _ taskdb.Server = (*Client)(nil)

// NewClient создает новый API клиент
func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) error {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", "", nil, &resp); err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	return nil
}

// GetVersions получает версии с номером больше after
func (c *Client) GetVersions(ctx context.Context, identity string, after uint64) ([][]byte, error) {
	var resp api.VersionsResponse
	path := "/api/v1/versions?after=" + url.QueryEscape(strconv.FormatUint(after, 10))
	if err := c.doRequest(ctx, http.MethodGet, path, identity, nil, &resp); err != nil {
		return nil, fmt.Errorf("get versions request failed: %w", err)
	}
	return resp.Versions, nil
}

// AddVersion отправляет версию на сервер. Ответ 409 означает, что номер уже занят.
func (c *Client) AddVersion(ctx context.Context, identity string, version uint64, data []byte) (taskdb.AddVersionResult, error) {
	var resp api.AddVersionResponse
	path := fmt.Sprintf("/api/v1/versions/%d", version)

	err := c.doRequest(ctx, http.MethodPost, path, identity, data, &resp)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusConflict {
		return taskdb.VersionConflict, nil
	}
	if err != nil {
		return taskdb.VersionConflict, fmt.Errorf("add version request failed: %w", err)
	}

	return taskdb.VersionAccepted, nil
}

// doRequest выполняет HTTP запрос. body отправляется как есть, версии непрозрачны для сервера.
func (c *Client) doRequest(ctx context.Context, method, path, identity string, body []byte, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	if identity != "" {
		req.Header.Set(api.IdentityHeader, identity)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Code: resp.StatusCode, Message: string(respBody)}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			statusErr.Message = errResp.Error
			if errResp.Message != "" {
				statusErr.Message += ": " + errResp.Message
			}
		}
		return statusErr
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
