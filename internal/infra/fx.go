package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// fxResponse is the payload returned by the exchange-rate service.
type fxResponse struct {
	TipoCambio decimal.Decimal `json:"tipo_cambio"`
	Fecha      string          `json:"fecha"`
}

// FXClient fetches the official exchange rate used to price settlements.
// All calls go through a circuit breaker: when the rate service is down,
// callers fail fast and must receive the rate explicitly in the request.
type FXClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewFXClient(baseURL string, cb *CircuitBreaker) *FXClient {
	return &FXClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cb:         cb,
	}
}

// TipoCambio returns the current exchange rate.
func (c *FXClient) TipoCambio(ctx context.Context) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tipo-cambio", nil)
		if err != nil {
			return fmt.Errorf("fx: create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fx: servicio no disponible: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fx: servicio respondió %d", resp.StatusCode)
		}
		var body fxResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("fx: decode response: %w", err)
		}
		rate = body.TipoCambio
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}

// BreakerState exposes the circuit state for the health endpoint.
func (c *FXClient) BreakerState() string {
	return c.cb.State().String()
}
