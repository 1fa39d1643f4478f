package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/classpulse/classpulse/classroom"
)

// adviceFallback is returned whenever the assistant cannot answer. The
// feature degrades, it never blocks the classroom.
const adviceFallback = "Try a quick check-in: ask who is stuck, pair finished students with those who need help, and reset the buzzer for a fresh round."

type AdviceService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewAdviceService(baseURL, apiKey, model string) *AdviceService {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &AdviceService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// Advise answers a teacher's question grounded in the live room snapshot.
// Any failure — missing key, network, quota, empty answer — yields the
// fallback text instead of an error.
func (s *AdviceService) Advise(state classroom.RoomState, question string) string {
	if s.apiKey == "" || strings.TrimSpace(question) == "" {
		return adviceFallback
	}

	total, finished, needingHelp := state.Counts()
	system := fmt.Sprintf(
		"You are an assistant for a teacher running a live classroom session. "+
			"Right now %d students are connected, %d have marked themselves finished and %d are asking for help. "+
			"Give concrete, actionable classroom advice in at most three short sentences.",
		total, finished, needingHelp,
	)

	body, err := json.Marshal(generateRequest{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: system}}},
		Contents:          []generateContent{{Parts: []generatePart{{Text: question}}}},
	})
	if err != nil {
		return adviceFallback
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return adviceFallback
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return adviceFallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return adviceFallback
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return adviceFallback
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return adviceFallback
	}

	answer := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if answer == "" {
		return adviceFallback
	}
	return answer
}
