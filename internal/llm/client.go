// Package llm wraps the Gemini API: document upload, generation with a
// flash-then-pro model ladder, and the JSON plumbing around model output.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/WatcharananPha/quotegrid/internal/domain"
)

const (
	// DefaultFlashModel answers first; DefaultProModel is the retry rung.
	DefaultFlashModel = "gemini-2.0-flash"
	DefaultProModel   = "gemini-2.5-pro"

	DefaultPollTimeout  = 180 * time.Second
	DefaultPollInterval = time.Second

	generationTemperature = 0.1
	generationTopP        = 0.95
)

// Config carries the client's tunables. Zero values fall back to defaults.
type Config struct {
	APIKey       string
	FlashModel   string
	ProModel     string
	PollTimeout  time.Duration
	PollInterval time.Duration
}

// Client handles communication with the Gemini API.
type Client struct {
	genai        *genai.Client
	flashModel   string
	proModel     string
	pollTimeout  time.Duration
	pollInterval time.Duration
	log          zerolog.Logger
}

// NewClient creates a Gemini client.
func NewClient(ctx context.Context, cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.ConfigError("missing Gemini API key", nil)
	}
	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, domain.APIError("create Gemini client", err)
	}

	c := &Client{
		genai:        gc,
		flashModel:   cfg.FlashModel,
		proModel:     cfg.ProModel,
		pollTimeout:  cfg.PollTimeout,
		pollInterval: cfg.PollInterval,
		log:          log,
	}
	if c.flashModel == "" {
		c.flashModel = DefaultFlashModel
	}
	if c.proModel == "" {
		c.proModel = DefaultProModel
	}
	if c.pollTimeout <= 0 {
		c.pollTimeout = DefaultPollTimeout
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	return c, nil
}

// Close releases the underlying API connection.
func (c *Client) Close() error {
	return c.genai.Close()
}

// UploadDocument pushes a local file to the Files API and waits until it is
// ready for generation. The caller owns deletion.
func (c *Client) UploadDocument(ctx context.Context, path, displayName string) (*genai.File, error) {
	if displayName == "" {
		displayName = filepath.Base(path)
	}
	opts := &genai.UploadFileOptions{
		DisplayName: displayName,
		MIMEType:    mimeFor(path),
	}
	// upload names must be unique and lowercase alphanumeric
	f, err := c.genai.UploadFileFromPath(ctx, path, opts)
	if err != nil {
		return nil, domain.APIError(fmt.Sprintf("upload %s", displayName), err)
	}
	c.log.Debug().Str("file", f.Name).Str("display", displayName).Msg("uploaded document")
	return c.waitForActive(ctx, f)
}

// waitForActive polls until the file leaves the processing state or the poll
// window closes. On timeout the last observed file is returned rather than an
// error; generation against a stuck file produces the real failure.
func (c *Client) waitForActive(ctx context.Context, f *genai.File) (*genai.File, error) {
	deadline := time.Now().Add(c.pollTimeout)
	for f.State == genai.FileStateProcessing {
		if time.Now().After(deadline) {
			c.log.Warn().Str("file", f.Name).Msg("file still processing after poll window")
			return f, nil
		}
		select {
		case <-ctx.Done():
			return nil, domain.APIError("wait for file processing", ctx.Err())
		case <-time.After(c.pollInterval):
		}
		cur, err := c.genai.GetFile(ctx, f.Name)
		if err != nil {
			return nil, domain.APIError(fmt.Sprintf("poll file %s", f.Name), err)
		}
		f = cur
	}
	if f.State == genai.FileStateFailed {
		return nil, domain.APIError(fmt.Sprintf("file %s failed processing", f.Name), nil)
	}
	return f, nil
}

// DeleteDocument removes an uploaded file. Errors are logged, not returned;
// orphaned uploads expire on their own.
func (c *Client) DeleteDocument(ctx context.Context, f *genai.File) {
	if f == nil {
		return
	}
	if err := c.genai.DeleteFile(ctx, f.Name); err != nil {
		c.log.Warn().Err(err).Str("file", f.Name).Msg("failed to delete uploaded file")
	}
}

// Generate runs the prompt through the flash model and climbs to the pro
// model when flash errors or returns nothing usable.
func (c *Client) Generate(ctx context.Context, parts ...genai.Part) (string, error) {
	text, flashErr := c.generateWith(ctx, c.flashModel, parts...)
	if flashErr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if flashErr != nil {
		c.log.Warn().Err(flashErr).Str("model", c.flashModel).Msg("flash generation failed, retrying with pro")
	} else {
		c.log.Warn().Str("model", c.flashModel).Msg("flash returned empty output, retrying with pro")
	}

	text, proErr := c.generateWith(ctx, c.proModel, parts...)
	if proErr != nil {
		return "", domain.APIError("generation failed on both models", proErr)
	}
	return text, nil
}

func (c *Client) generateWith(ctx context.Context, model string, parts ...genai.Part) (string, error) {
	m := c.genai.GenerativeModel(model)
	m.SetTemperature(generationTemperature)
	m.SetTopP(generationTopP)

	var resp *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		if attempt > 0 {
			c.log.Debug().Str("model", model).Int("attempt", attempt+1).Msg("retrying generation")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(1<<attempt) * time.Second):
			}
		}
		resp, err = m.GenerateContent(ctx, parts...)
		if err == nil {
			return collectText(resp), nil
		}
		if !isTransient(err) {
			return "", err
		}
	}
	return "", err
}

const maxGenerateAttempts = 3

// isTransient reports whether an API error is worth retrying on the same
// model: rate limits and server-side failures.
func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return false
}

// collectText concatenates the text parts of the first candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// UniqueDisplayName derives an upload display name that is safe and unique
// even when several documents share a base filename.
func UniqueDisplayName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = "document"
	}
	return base + "-" + uuid.NewString()[:8]
}

func mimeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
