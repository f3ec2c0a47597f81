package translation

import (
	apperrors "chat-bridge/errors"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultMyMemoryURL is the public endpoint of the MyMemory translation API.
const DefaultMyMemoryURL = "https://api.mymemory.translated.net"

// MyMemoryTranslator translates through the MyMemory REST API:
// GET {base}/get?q={text}&langpair={source}|{target}
type MyMemoryTranslator struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

func NewMyMemoryTranslator(baseURL string, timeout time.Duration, log *slog.Logger) *MyMemoryTranslator {
	if baseURL == "" {
		baseURL = DefaultMyMemoryURL
	}
	return &MyMemoryTranslator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

func (t *MyMemoryTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", fmt.Sprintf("%s|%s", sourceLang, targetLang))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/get?%s", t.baseURL, query.Encode()), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrTranslationFailed, err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrTranslationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", apperrors.ErrTranslationFailed, resp.StatusCode)
	}

	var parsed myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrTranslationFailed, err)
	}
	if parsed.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("%w: empty translation", apperrors.ErrTranslationFailed)
	}
	return parsed.ResponseData.TranslatedText, nil
}
