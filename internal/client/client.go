// Package client is a Go client for the listing endpoints used by the composer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/estatehub/backend-go/internal/database/models"
)

const (
	uploadPath     = "/api/v1/properties/upload"
	propertiesPath = "/api/v1/properties"
)

// APIError is a non-2xx response decoded from the {"error": ...} body
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Photo is one file staged for upload
type Photo struct {
	Name        string
	ContentType string
	Data        []byte
}

// CreatePropertyRequest mirrors the create endpoint payload
type CreatePropertyRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    float64   `json:"bathrooms"`
	PropertyType string    `json:"propertyType"`
	Status       string    `json:"status"`
	Location     string    `json:"location,omitempty"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zipCode"`
	Area         float64   `json:"area"`
	YearBuilt    *int      `json:"yearBuilt"`
	LotSize      string    `json:"lotSize,omitempty"`
	Garage       int       `json:"garage"`
	Amenities    []string  `json:"amenities"`
	Images       []string  `json:"images"`
	Coordinates  []float64 `json:"coordinates"`
}

// ProgressFunc receives bytes sent so far and the total request body size
type ProgressFunc func(done, total int64)

// Client talks to the API with an access token
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UploadPhotos sends every photo in one multipart request and returns the stored URLs in order
func (c *Client) UploadPhotos(ctx context.Context, photos []Photo, progress ProgressFunc) ([]string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, photo := range photos {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="%s"`, escapeQuotes(photo.Name)))
		if photo.ContentType != "" {
			header.Set("Content-Type", photo.ContentType)
		}
		part, err := mw.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("create form part: %w", err)
		}
		if _, err := part.Write(photo.Data); err != nil {
			return nil, fmt.Errorf("write form part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	total := int64(body.Len())
	var reader io.Reader = &body
	if progress != nil {
		reader = &progressReader{r: &body, total: total, cb: progress}
		progress(0, total)
	}

	req, err := c.newRequest(ctx, http.MethodPost, uploadPath, reader)
	if err != nil {
		return nil, err
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		URLs []string `json:"urls"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.URLs, nil
}

// CreateProperty creates a listing owned by the token's user
func (c *Client) CreateProperty(ctx context.Context, in CreatePropertyRequest) (*models.Property, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode property: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, propertiesPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var property models.Property
	if err := c.do(req, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// ListProperties returns the caller's listings, newest first
func (c *Client) ListProperties(ctx context.Context) ([]models.Property, error) {
	req, err := c.newRequest(ctx, http.MethodGet, propertiesPath, nil)
	if err != nil {
		return nil, err
	}

	properties := []models.Property{}
	if err := c.do(req, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	req, err := c.newRequest(ctx, http.MethodDelete, propertiesPath+"/"+id.String(), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			apiErr.Message = body.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
