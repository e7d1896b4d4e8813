package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// Sentinel errors for voice platform failures.
var (
	ErrUnauthorized = errors.New("voice platform rejected the service credential")
	ErrNotFound     = errors.New("voice platform resource not found")
	ErrUnavailable  = errors.New("voice platform unavailable")
)

// Client is the interface for the voice platform API. The platform owns
// the actual assistant, phone number, and file resources; local records
// only point at them.
type Client interface {
	CreateAssistant(ctx context.Context, req AssistantRequest) (*Assistant, error)
	GetAssistant(ctx context.Context, assistantID string) (*Assistant, error)
	UpdateAssistantPrompt(ctx context.Context, assistantID, prompt string) error
	UpdateKnowledgeBase(ctx context.Context, assistantID string, fileIDs []string) error
	DeleteAssistant(ctx context.Context, assistantID string) error

	CreatePhoneNumber(ctx context.Context, areaCode string) (*PhoneNumber, error)
	AssignPhoneNumber(ctx context.Context, phoneID, assistantID string) error
	DeletePhoneNumber(ctx context.Context, phoneID string) error

	UploadFile(ctx context.Context, filename string, content io.Reader) (*File, error)
	DeleteFile(ctx context.Context, fileID string) error

	ListCalls(ctx context.Context, assistantID string) ([]Call, error)
}

// HTTPClient implements Client against the platform's REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient creates a new voice platform HTTP client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) CreateAssistant(ctx context.Context, req AssistantRequest) (*Assistant, error) {
	var assistant Assistant
	if err := c.doJSON(ctx, http.MethodPost, "/assistant", req, &assistant); err != nil {
		return nil, err
	}
	return &assistant, nil
}

func (c *HTTPClient) GetAssistant(ctx context.Context, assistantID string) (*Assistant, error) {
	var assistant Assistant
	if err := c.doJSON(ctx, http.MethodGet, "/assistant/"+url.PathEscape(assistantID), nil, &assistant); err != nil {
		return nil, err
	}
	return &assistant, nil
}

func (c *HTTPClient) UpdateAssistantPrompt(ctx context.Context, assistantID, prompt string) error {
	body := map[string]any{
		"model": ModelConfig{
			Provider:     defaultModelProvider,
			Model:        defaultModelName,
			SystemPrompt: prompt,
		},
	}
	return c.doJSON(ctx, http.MethodPatch, "/assistant/"+url.PathEscape(assistantID), body, nil)
}

func (c *HTTPClient) UpdateKnowledgeBase(ctx context.Context, assistantID string, fileIDs []string) error {
	body := map[string]any{
		"model": ModelConfig{
			Provider: defaultModelProvider,
			Model:    defaultModelName,
			KnowledgeBase: &KnowledgeBase{
				Provider: knowledgeBaseProvider,
				FileIDs:  fileIDs,
			},
		},
	}
	return c.doJSON(ctx, http.MethodPatch, "/assistant/"+url.PathEscape(assistantID), body, nil)
}

func (c *HTTPClient) DeleteAssistant(ctx context.Context, assistantID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/assistant/"+url.PathEscape(assistantID), nil, nil)
}

func (c *HTTPClient) CreatePhoneNumber(ctx context.Context, areaCode string) (*PhoneNumber, error) {
	body := map[string]any{
		"provider":              "vapi",
		"numberDesiredAreaCode": areaCode,
	}
	var phone PhoneNumber
	if err := c.doJSON(ctx, http.MethodPost, "/phone-number", body, &phone); err != nil {
		return nil, err
	}
	return &phone, nil
}

func (c *HTTPClient) AssignPhoneNumber(ctx context.Context, phoneID, assistantID string) error {
	body := map[string]any{"assistantId": assistantID}
	return c.doJSON(ctx, http.MethodPatch, "/phone-number/"+url.PathEscape(phoneID), body, nil)
}

func (c *HTTPClient) DeletePhoneNumber(ctx context.Context, phoneID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/phone-number/"+url.PathEscape(phoneID), nil, nil)
}

func (c *HTTPClient) UploadFile(ctx context.Context, filename string, content io.Reader) (*File, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copying file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/file", &buf)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var file File
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding file response: %w", err)
	}
	return &file, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, fileID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/file/"+url.PathEscape(fileID), nil, nil)
}

func (c *HTTPClient) ListCalls(ctx context.Context, assistantID string) ([]Call, error) {
	params := url.Values{"assistantId": {assistantID}}
	var calls []Call
	if err := c.doJSON(ctx, http.MethodGet, "/call?"+params.Encode(), nil, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}

// doJSON issues a request with an optional JSON body and decodes the
// response into out when out is non-nil.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return err
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("voice platform error: status %d: %s", resp.StatusCode, string(detail))
	}
}
