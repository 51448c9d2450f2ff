package bureau

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

// Debt is one reported obligation of the applicant.
type Debt struct {
	Entidad   string  `json:"entidad"`
	Monto     float64 `json:"monto"`
	Situacion int     `json:"situacion"`
}

// Report is the bureau answer. A 404 from the service means "no records",
// which is a successful empty report, not an error.
type Report struct {
	CUIT   string `json:"cuit"`
	Deudas []Debt `json:"deudas"`
}

func (r *Report) PeorSituacion() int {
	worst := 0
	for _, d := range r.Deudas {
		if d.Situacion > worst {
			worst = d.Situacion
		}
	}
	return worst
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeCUIT strips separators; the service is keyed by the bare 11 digits.
func NormalizeCUIT(raw string) (string, error) {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) != 11 {
		return "", fmt.Errorf("cuit must have 11 digits, got %d", len(digits))
	}
	return digits, nil
}

// Client queries the credit-bureau debt registry. Lookups are advisory: the
// caller surfaces failures as reviewer warnings, never as blocking errors.
type Client struct {
	baseURL    string
	production bool
	http       *http.Client
	// lax skips TLS verification; only ever used outside production, where
	// the registry sandbox runs with self-signed certificates.
	lax *http.Client
}

func NewClient(baseURL string, timeout time.Duration, production bool) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		production: production,
		http:       &http.Client{Timeout: timeout},
		lax: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

func (c *Client) Lookup(ctx context.Context, cuit string) (*Report, error) {
	key, err := NormalizeCUIT(cuit)
	if err != nil {
		return nil, err
	}

	report, err := c.fetch(ctx, c.http, key)
	if err != nil && !c.production {
		report, err = c.fetch(ctx, c.lax, key)
	}
	return report, err
}

func (c *Client) fetch(ctx context.Context, hc *http.Client, cuit string) (*Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/debts/"+cuit, nil)
	if err != nil {
		return nil, err
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &Report{CUIT: cuit}, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("bureau status %d: %s", resp.StatusCode, body)
	}

	var out Report
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.CUIT == "" {
		out.CUIT = cuit
	}
	return &out, nil
}
