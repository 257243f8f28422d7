package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"
)

// Modes accepted by the webhook.
const (
	ModeGenerate = "generate"
	ModeEdit     = "edit"
)

// Result is the webhook's response envelope. A response without an imageUrl is a
// failure regardless of HTTP status.
type Result struct {
	Status   string `json:"status"`
	ImageURL string `json:"imageUrl"`
	Message  string `json:"message"`
}

// Client is an HTTP client for the generation/editing webhook.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// NewClient creates a webhook client from config.
func NewClient(cfg Config) *Client {
	return &Client{
		webhookURL: cfg.WebhookURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Generate asks the webhook for a new image from a text idea and a style key.
func (c *Client) Generate(ctx context.Context, idea, style string) (Result, error) {
	payload, err := json.Marshal(map[string]string{
		"mode":  ModeGenerate,
		"idea":  idea,
		"style": style,
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logRequest(ModeGenerate, map[string]interface{}{"style": style})
	return c.do(req, ModeGenerate)
}

// Edit sends an uploaded image plus a modification instruction as a multipart
// body and returns the modified image.
func (c *Client) Edit(ctx context.Context, instruction, filename string, image io.Reader) (Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("mode", ModeEdit); err != nil {
		return Result{}, fmt.Errorf("write mode field: %w", err)
	}
	if err := writer.WriteField("instruction", instruction); err != nil {
		return Result{}, fmt.Errorf("write instruction field: %w", err)
	}
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return Result{}, fmt.Errorf("create image part: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return Result{}, fmt.Errorf("copy image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Result{}, fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, &body)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	logRequest(ModeEdit, map[string]interface{}{"filename": filename})
	return c.do(req, ModeEdit)
}

func (c *Client) do(req *http.Request, mode string) (Result, error) {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logError(mode, err)
		return Result{}, fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("webhook status %d", resp.StatusCode)
		logError(mode, err)
		return Result{}, err
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logError(mode, err)
		return Result{}, fmt.Errorf("decode webhook response: %w", err)
	}

	if result.ImageURL == "" {
		err := fmt.Errorf("webhook response missing imageUrl (status=%q message=%q)", result.Status, result.Message)
		logError(mode, err)
		return Result{}, err
	}

	logResponse(mode, resp.StatusCode, time.Since(start))
	return result, nil
}

func logRequest(mode string, params map[string]interface{}) {
	log.Printf("[forge] POST webhook mode=%s params=%v", mode, params)
}

func logResponse(mode string, statusCode int, duration time.Duration) {
	log.Printf("[forge] response mode=%s status=%d duration=%dms",
		mode, statusCode, duration.Milliseconds())
}

func logError(mode string, err error) {
	log.Printf("[forge] %s error: %v", mode, err)
}
