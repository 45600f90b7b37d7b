package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mt_console/internal/domain"
	"mt_console/internal/infra"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is the REST command client for the trading backend (Boundary Layer).
// It implements domain.CommandBackend: one request per command, one response,
// no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new backend command client.
func NewClient(cfg *infra.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Backend.RestURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Backend.RequestTimeoutSec) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		logger: slog.Default().With("module", "backend_client"),
	}
}

// SetTradingMode toggles automated trading for an instrument.
func (c *Client) SetTradingMode(ctx context.Context, instrument string, enabled bool) (string, error) {
	return c.post(ctx, pathTradingMode, tradingModeRequest{Instrument: instrument, Enabled: enabled})
}

// SetLotSize updates the default order volume for an instrument.
func (c *Client) SetLotSize(ctx context.Context, instrument string, volume decimal.Decimal) (string, error) {
	return c.post(ctx, pathLotSize, lotSizeRequest{Instrument: instrument, Volume: volume.InexactFloat64()})
}

// SetRiskDistances updates stop-loss and take-profit distances in one request.
// The two fields always travel together so they cannot diverge on the backend.
func (c *Client) SetRiskDistances(ctx context.Context, instrument string, slPips, tpPips int) (string, error) {
	return c.post(ctx, pathRiskDistances, riskDistancesRequest{Instrument: instrument, SlPips: slPips, TpPips: tpPips})
}

// ManualTrade submits a one-shot market order.
func (c *Client) ManualTrade(ctx context.Context, instrument string, side domain.Side, volume decimal.Decimal) (string, error) {
	return c.post(ctx, pathManualTrade, manualTradeRequest{Instrument: instrument, Side: string(side), Volume: volume.InexactFloat64()})
}

// Flatten closes all open positions for an instrument.
func (c *Client) Flatten(ctx context.Context, instrument string) (string, error) {
	return c.post(ctx, pathFlatten, instrumentRequest{Instrument: instrument})
}

// Breakeven moves the open position's stop to entry plus extraPips.
func (c *Client) Breakeven(ctx context.Context, instrument string, extraPips int) (string, error) {
	return c.post(ctx, pathBreakeven, breakevenRequest{Instrument: instrument, ExtraPips: extraPips})
}

// TrailStop tightens the open position's stop by pipsToAdd.
func (c *Client) TrailStop(ctx context.Context, instrument string, pipsToAdd int) (string, error) {
	return c.post(ctx, pathTrailStop, trailStopRequest{Instrument: instrument, PipsToAdd: pipsToAdd})
}

// AddInstrument asks the backend to start streaming a new symbol.
func (c *Client) AddInstrument(ctx context.Context, instrument string) (string, error) {
	return c.post(ctx, pathAddInstrument, instrumentRequest{Instrument: instrument})
}

// RemoveInstrument asks the backend to stop streaming a symbol.
func (c *Client) RemoveInstrument(ctx context.Context, instrument string) (string, error) {
	return c.post(ctx, pathRemoveInstrument, instrumentRequest{Instrument: instrument})
}

// post sends one JSON command and parses the {message}/{detail} envelope.
// Transport failures become domain.NetworkError, non-2xx responses become
// domain.RejectionError with the backend-supplied detail.
func (c *Client) post(ctx context.Context, path string, payload interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.NetworkError{Op: "post " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.NetworkError{Op: "read " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rej rejectionResponse
		if err := json.Unmarshal(respBody, &rej); err != nil || rej.Detail == "" {
			rej.Detail = strings.TrimSpace(string(respBody))
		}
		c.logger.Warn("Command rejected", slog.String("path", path), slog.Int("status", resp.StatusCode), slog.String("detail", rej.Detail))
		return "", &domain.RejectionError{Status: resp.StatusCode, Detail: rej.Detail}
	}

	var ok successResponse
	if err := json.Unmarshal(respBody, &ok); err != nil {
		return "", fmt.Errorf("parse %s response: %w", path, err)
	}

	c.logger.Debug("Command accepted", slog.String("path", path), slog.String("message", ok.Message))
	return ok.Message, nil
}
