package emotion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultHFBaseURL = "https://api-inference.huggingface.co"
	DefaultModel     = "j-hartmann/emotion-english-distilroberta-base"
	topK             = 3
)

// HuggingFace calls a hosted text-classification model.
type HuggingFace struct {
	client *resty.Client
	model  string
}

func NewHuggingFace(baseURL, token, model string, timeout time.Duration) (*HuggingFace, error) {
	if token == "" {
		return nil, errors.New("huggingface: missing API token")
	}
	if baseURL == "" {
		baseURL = DefaultHFBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetAuthToken(token)
	client.SetHeader("Content-Type", "application/json")

	return &HuggingFace{client: client, model: model}, nil
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	TopK int `json:"top_k"`
}

func (h *HuggingFace) Predict(ctx context.Context, text string) ([]Prediction, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(hfRequest{Inputs: text, Parameters: hfParameters{TopK: topK}}).
		Post("/models/" + h.model)
	if err != nil {
		return nil, fmt.Errorf("huggingface request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("huggingface status %d: %s", resp.StatusCode(), resp.String())
	}
	return decodePredictions(resp.Body())
}

// decodePredictions accepts both the batched [[...]] and the flat [...] shape.
func decodePredictions(body []byte) ([]Prediction, error) {
	var nested [][]Prediction
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}
	var flat []Prediction
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("huggingface decode: %w", err)
	}
	return flat, nil
}
