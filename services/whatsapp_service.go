package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

// WhatsAppProvider delivers an order card to a customer's WhatsApp number
type WhatsAppProvider interface {
	SendOrderCard(phone, caption string, cardPDF []byte) error
	GetName() string
}

// ShareResult reports how an order card was (or can be) delivered. When no
// provider is available the share degrades to a wa.me link the caller can
// open manually; delivery trouble is a fallback, never a hard failure.
type ShareResult struct {
	Delivered    bool   `json:"delivered"`
	Provider     string `json:"provider,omitempty"`
	FallbackLink string `json:"fallback_link,omitempty"`
}

var whatsappProviderInstance WhatsAppProvider

// InitWhatsAppProvider initializes the global WhatsApp provider. A blank API
// key leaves the provider unset and every share falls back to a wa.me link.
func InitWhatsAppProvider(apiKey, templateName string) WhatsAppProvider {
	if apiKey == "" {
		whatsappProviderInstance = nil
		return nil
	}
	whatsappProviderInstance = NewAiSensyProvider(apiKey, templateName)
	return whatsappProviderInstance
}

// GetWhatsAppProvider returns the configured provider, or nil when sharing
// runs in fallback mode
func GetWhatsAppProvider() WhatsAppProvider {
	return whatsappProviderInstance
}

// SetWhatsAppProvider sets the provider instance (primarily for testing)
func SetWhatsAppProvider(p WhatsAppProvider) {
	whatsappProviderInstance = p
}

// ShareOrderCard sends the card through the configured provider, or returns
// the wa.me fallback link when no provider is configured or delivery fails.
func ShareOrderCard(phone, caption string, cardPDF []byte) *ShareResult {
	provider := GetWhatsAppProvider()
	if provider != nil {
		if err := provider.SendOrderCard(phone, caption, cardPDF); err == nil {
			return &ShareResult{Delivered: true, Provider: provider.GetName()}
		}
	}
	return &ShareResult{
		Delivered:    false,
		FallbackLink: WhatsAppShareLink(phone, caption),
	}
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// WhatsAppShareLink builds a wa.me link carrying the caption text. Numbers
// too short to carry a country code produce a bare share link without a
// destination.
func WhatsAppShareLink(phone, text string) string {
	number := nonDigits.ReplaceAllString(phone, "")
	if len(number) < 8 {
		return fmt.Sprintf("https://wa.me/?text=%s", url.QueryEscape(text))
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(text))
}

// AiSensyProvider sends template messages through the AiSensy campaign API
type AiSensyProvider struct {
	apiKey       string
	templateName string
	baseURL      string
	client       *http.Client
}

// NewAiSensyProvider creates an AiSensy-backed WhatsApp provider
func NewAiSensyProvider(apiKey, templateName string) *AiSensyProvider {
	return &AiSensyProvider{
		apiKey:       apiKey,
		templateName: templateName,
		baseURL:      "https://backend.aisensy.com/campaign/t1/api/v2",
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// GetName returns the provider name
func (p *AiSensyProvider) GetName() string {
	return "aisensy"
}

// SendOrderCard sends the caption as a template message. AiSensy campaigns
// attach media server-side, so the PDF itself rides on the template.
func (p *AiSensyProvider) SendOrderCard(phone, caption string, cardPDF []byte) error {
	payload := map[string]interface{}{
		"apiKey":         p.apiKey,
		"campaignName":   p.templateName,
		"destination":    formatPhoneNumber(phone),
		"userName":       "Customer",
		"templateParams": []string{caption},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp API returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// formatPhoneNumber strips formatting and defaults bare 10-digit numbers to
// the Indian country code, the shop's home market
func formatPhoneNumber(phone string) string {
	number := nonDigits.ReplaceAllString(phone, "")
	if len(number) == 10 {
		return "91" + number
	}
	return number
}
