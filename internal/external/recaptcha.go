// Package external содержит конкретные реализации коллабораторов
// конвейеров: recaptcha, почта, Slack, метрики, проверка владения командой.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultRecaptchaVerifyURL это боевой endpoint проверки Google reCAPTCHA
const DefaultRecaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Recaptcha проверяет токены через HTTP endpoint сервиса reCAPTCHA
type Recaptcha struct {
	client    *http.Client
	verifyURL string
	secret    string
}

// NewRecaptcha создает новый валидатор recaptcha.
// Пустой verifyURL заменяется боевым endpoint'ом Google.
func NewRecaptcha(verifyURL, secret string) *Recaptcha {
	if verifyURL == "" {
		verifyURL = DefaultRecaptchaVerifyURL
	}
	return &Recaptcha{
		client:    &http.Client{Timeout: 10 * time.Second},
		verifyURL: verifyURL,
		secret:    secret,
	}
}

// Validate отправляет токен на проверку; nil означает что токен валиден
func (r *Recaptcha) Validate(ctx context.Context, token string) error {
	form := url.Values{
		"secret":   {r.secret},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build recaptcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("call recaptcha service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("recaptcha service returned status %d", resp.StatusCode)
	}

	var body struct {
		Success    bool     `json:"success"`
		ErrorCodes []string `json:"error-codes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode recaptcha response: %w", err)
	}

	if !body.Success {
		return fmt.Errorf("recaptcha rejected token: %s", strings.Join(body.ErrorCodes, ", "))
	}

	return nil
}
