// Package remote recognizes boards by delegating to a hosted vision-language
// model through the Messages API. The model is asked for raw SGF, which is
// then cleaned up and parsed locally.
package remote

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/ironsheep/stone2sgf/internal/imaging"
	"github.com/ironsheep/stone2sgf/internal/pipeline"
	"github.com/ironsheep/stone2sgf/internal/sgf"
)

const (
	// DefaultEndpoint is the base URL of the Messages API.
	DefaultEndpoint = "https://api.anthropic.com"
	// DefaultModel is the model asked to read the board.
	DefaultModel = "claude-sonnet-4-20250514"
	// DefaultMaxTokens bounds the length of the reply.
	DefaultMaxTokens = 4096

	userPrompt = "Analyze this Go board and output the SGF."
)

const systemPrompt = `You are an expert Go (baduk/weiqi) board reader. Given an image of a Go board, output ONLY a valid SGF file. No explanations, no markdown fences, no preamble, just raw SGF starting with (;FF[4].

Rules:
- FF[4]GM[1]SZ[N] where N is 9, 13, or 19, detect from the image
- Coordinates: columns left-to-right as a,b,c...s; rows top-to-bottom as a,b,c...s. Top-left = [aa]
- All black stones in AB[..][..]...
- All white stones in AW[..][..]...
- Start with (;FF[4] and end with )

Example:
(;FF[4]GM[1]SZ[19]CA[UTF-8]
;AB[dd][pd][dp][pp]AW[de][pe][ep][pe])`

// ErrMissingKey is returned by NewClient when no API key is configured.
var ErrMissingKey = errors.New("remote recognizer needs an API key")

// Options configures a Client.
type Options struct {
	Endpoint  string
	Model     string
	APIKey    string
	MaxTokens int
}

// Client is a pipeline.Recognizer backed by the Messages API.
type Client struct {
	api       anthropic.Client
	model     string
	maxTokens int
	logger    zerolog.Logger
}

var _ pipeline.Recognizer = (*Client)(nil)

// NewClient returns a client for opts. Empty fields take the package
// defaults; a nil client means http.DefaultClient. Failed calls are not
// retried.
func NewClient(opts Options, client *http.Client, logger zerolog.Logger) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingKey
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}

	c := &Client{
		api: anthropic.NewClient(
			option.WithAPIKey(opts.APIKey),
			option.WithBaseURL(endpoint),
			option.WithHTTPClient(client),
			option.WithMaxRetries(0),
		),
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		logger:    logger.With().Str("recognizer", string(pipeline.StrategyRemote)).Logger(),
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	return c, nil
}

// Recognize sends the image to the model and parses the SGF it answers with.
// The board size comes from the reply's SZ property.
//
// # Errors
//
//   - *imaging.DecodeError if data is not a supported image
//   - *APIError if the service answers with an error status
//   - an error wrapping sgf.ErrInvalid if the reply holds no usable SGF
//   - *sgf.DetectionEmptyError if the reply lists no stones
func (c *Client) Recognize(ctx context.Context, data []byte) (*pipeline.Result, error) {
	info, err := imaging.DecodeInfo(data)
	if err != nil {
		return nil, err
	}

	msg, err := c.api.Messages.New(ctx, c.params("image/"+info.Format, data))
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, newAPIError(apiErr.StatusCode, []byte(apiErr.RawJSON()))
		}
		return nil, fmt.Errorf("send request: %w", err)
	}

	text := sgf.Extract(replyText(msg))
	c.logger.Debug().
		Str("stop_reason", string(msg.StopReason)).
		Int("length", len(text)).
		Msg("model replied")

	if !strings.HasPrefix(text, "(;") {
		return nil, fmt.Errorf("%w: reply contains no record", sgf.ErrInvalid)
	}
	rec, err := sgf.Parse(text)
	if err != nil {
		return nil, err
	}
	if rec.DarkCount == 0 && rec.LightCount == 0 {
		return nil, &sgf.DetectionEmptyError{}
	}

	return &pipeline.Result{Record: rec, Strategy: pipeline.StrategyRemote}, nil
}

func (c *Client) params(mediaType string, data []byte) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(data)),
				anthropic.NewTextBlock(userPrompt),
			),
		},
	}
}

// replyText joins every text block of the reply.
func replyText(msg *anthropic.Message) string {
	var sb strings.Builder
	for _, b := range msg.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
