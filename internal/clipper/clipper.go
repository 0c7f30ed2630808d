// Package clipper imports vendor listings from web pages: fetch, strip the
// page down to text, extract a structured vendor profile with an LLM, and
// register the result as a manual vendor.
package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"event-orchestrator/internal/llm"
	"event-orchestrator/internal/vendor"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// Clipper handles fetching and extracting vendor profiles from URLs.
type Clipper struct {
	registry   *vendor.ManualVendors
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// extractedVendor is the structure the LLM is asked to return.
type extractedVendor struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	City        string   `json:"city"`
	PriceMin    float64  `json:"price_min"`
	PriceMax    float64  `json:"price_max"`
	Keywords    []string `json:"keywords"`
}

// NewClipper creates a new Clipper instance.
func NewClipper(registry *vendor.ManualVendors, textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		registry:   registry,
		textGen:    textGen,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ClipURL fetches the URL, extracts the vendor profile using the LLM, and
// registers it as a manual vendor.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*vendor.VendorProfile, error) {
	content, err := c.fetchAndCleanHTML(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a vendor data extraction expert. Extract the event vendor's details
from the following web page content. Return the result strictly as a JSON
object with this structure:
{
  "name": "Business name",
  "category": "venue | catering | photography | decoration | music | other",
  "description": "One or two sentence summary of what they offer",
  "city": "City served, empty if unclear",
  "price_min": 0,
  "price_max": 0,
  "keywords": ["relevant", "search", "terms"]
}
Prices are in PKR; use 0 when the page lists none.

Page content:
%s
`, content)

	resp, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted extractedVendor
	if err := json.Unmarshal([]byte(resp.Content), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}
	if extracted.Name == "" {
		return nil, fmt.Errorf("no vendor found on page %s", url)
	}

	profile := c.toProfile(extracted, url)
	c.registry.Register(profile)
	return &profile, nil
}

func (c *Clipper) toProfile(e extractedVendor, sourceURL string) vendor.VendorProfile {
	category := strings.ToLower(strings.TrimSpace(e.Category))
	if category == "" {
		category = "other"
	}
	areas := []string{"all"}
	if e.City != "" {
		areas = []string{e.City}
	}
	description := e.Description
	if description != "" {
		description += " "
	}
	description += fmt.Sprintf("(Imported from %s)", sourceURL)

	return vendor.VendorProfile{
		VendorID:     fmt.Sprintf("clipped_%s", uuid.NewString()),
		Name:         e.Name,
		Category:     category,
		Description:  description,
		ServiceAreas: areas,
		PriceMin:     e.PriceMin,
		PriceMax:     e.PriceMax,
		Rating:       3.0,
		Available:    true,
		Keywords:     e.Keywords,
	}
}

func (c *Clipper) fetchAndCleanHTML(url string) (string, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
