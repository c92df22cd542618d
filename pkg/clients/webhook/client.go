package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Notifier posts short farm messages to an external endpoint.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Message is the JSON payload delivered to the webhook.
type Message struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Farm  string `json:"farm,omitempty"`
	Day   int    `json:"day,omitempty"`
}

// Client is a resty-backed implementation of Notifier.
type Client struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client posting to url.
func NewClient(url string) (*Client, error) {
	if url == "" {
		return nil, errors.New("webhook url must not be empty")
	}

	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{httpClient: restyClient, url: url}, nil
}

// apiError is the optional error body returned by the receiver.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) Notify(ctx context.Context, msg Message) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(msg).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send webhook notification: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
		return fmt.Errorf("webhook error: status=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
