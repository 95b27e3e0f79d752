package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// FeedbackService forwards a nutrient summary plus free-text clinical context
// to the Gemini API and hands the prose back untouched. No interpretation
// happens here; the advice is advisory output for the clinician.
type FeedbackService struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

func NewFeedbackService() *FeedbackService {
	return &FeedbackService{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent",
	}
}

type FeedbackRequest struct {
	NutritionalSummary map[string]any `json:"nutritional_summary" binding:"required"`
	CoMorbidities      string         `json:"co_morbidities"`
	DietPreference     string         `json:"diet_preference"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (s *FeedbackService) GetFeedback(req FeedbackRequest) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	summaryJSON, err := json.Marshal(req.NutritionalSummary)
	if err != nil {
		return "", fmt.Errorf("encode nutritional summary: %w", err)
	}

	prompt := fmt.Sprintf(`**Task:** You are a clinical nutritionist. Provide a two-part dietary analysis based on the data below.

**Part 1: Nutritional Analysis**

Compare the totals in the "Nutritional Summary" against its RDA targets. In a section titled "Nutritional Analysis", give a numbered list of findings: for each nutrient, state whether it is within, above, or below target, and note the clinical significance of major deviations.

**Part 2: Personalized Recommendations**

Considering the patient's co-morbidities and diet preferences, give a numbered list of specific, prioritized dietary suggestions with concrete food choices and meal adjustments, in a section titled "Personalized Recommendations".

**Input Data:**

*   Nutritional Summary: %s
*   Patient Co-morbidities: %s
*   Diet Preferences: %s`,
		summaryJSON, req.CoMorbidities, req.DietPreference)

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequest(http.MethodPost, s.baseURL+"?key="+s.apiKey, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// surface the API's own message when it has one
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBytes, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("gemini api error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini api error (%d): %s", resp.StatusCode, string(respBytes))
	}

	var out geminiResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
