package earthengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/plastinin/srtmexport/internal/config"
	"github.com/plastinin/srtmexport/internal/domain"
	"github.com/plastinin/srtmexport/internal/usecase"
	"go.uber.org/zap"
)

// Client клиент REST API Earth Engine.
// Сессия явная: каждый экземпляр несёт свой проект и токен.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	project     string
	accessToken string
	logger      *zap.Logger
}

// NewClient создаёт новый экземпляр Client
func NewClient(cfg config.EarthEngineConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		project:     cfg.Project,
		accessToken: cfg.AccessToken,
		logger:      logger,
	}
}

// ExportImage запускает экспорт изображения и возвращает идентификатор задачи
func (c *Client) ExportImage(ctx context.Context, export usecase.ImageExport) (string, error) {
	body, err := newExportImageRequest(export)
	if err != nil {
		return "", err
	}

	c.logger.Debug("Submitting image export",
		zap.String("description", export.Description),
		zap.String("request_id", export.RequestID.String()),
		zap.String("destination", export.Destination.Kind),
	)

	var op operation
	url := fmt.Sprintf("%s/v1/projects/%s/image:export", c.baseURL, c.project)
	if err := c.do(ctx, http.MethodPost, url, body, &op); err != nil {
		return "", fmt.Errorf("failed to submit export: %w", err)
	}

	if op.Name == "" {
		return "", fmt.Errorf("export response has no operation name")
	}

	return path.Base(op.Name), nil
}

// TaskStatus возвращает состояние задачи по идентификатору
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*domain.Task, error) {
	var op operation
	if err := c.do(ctx, http.MethodGet, c.operationURL(taskID), nil, &op); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
		}
		return nil, fmt.Errorf("failed to get task status: %w", err)
	}

	return op.toTask(taskID), nil
}

// CheckAccess проверяет доступность API и права на проект
func (c *Client) CheckAccess(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/projects/%s/operations?pageSize=1", c.baseURL, c.project)
	var resp struct {
		Operations []operation `json:"operations"`
	}
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return fmt.Errorf("earth engine access check failed: %w", err)
	}
	return nil
}

// operationURL строит адрес операции; принимает как короткий id, так и полное имя
func (c *Client) operationURL(taskID string) string {
	if strings.HasPrefix(taskID, "projects/") {
		return fmt.Sprintf("%s/v1/%s", c.baseURL, taskID)
	}
	return fmt.Sprintf("%s/v1/projects/%s/operations/%s", c.baseURL, c.project, taskID)
}

// do выполняет запрос и декодирует JSON ответ в out
func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Earth Engine: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Earth Engine request completed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("status_code", resp.StatusCode),
	)

	if resp.StatusCode != http.StatusOK {
		return newAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
