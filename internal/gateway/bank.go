// Package gateway holds HTTP clients for the external collaborators the core
// consumes: the bank transaction feed, the movie catalog, and the token
// validator. None of them are implemented here, only queried.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/pkg/utils"

	"go.uber.org/zap"
)

// Transaction is one entry of the gateway's recent-transactions feed.
type Transaction struct {
	Reference   string    `json:"reference"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	When        time.Time `json:"transaction_date"`
}

// BankClient queries the payment gateway's transaction feed. A transfer
// matches when its memo carries the order code and the amount is exact.
type BankClient interface {
	QueryTransactions(ctx context.Context, orderCode string, amount int64, since time.Time) ([]Transaction, error)
}

type bankClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

func NewBankClient(config utils.GatewayConfig, log *zap.Logger) BankClient {
	return &bankClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		client: &http.Client{
			// Hard bound: a slow gateway resolves to an error, never a hang.
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		log: log.With(zap.String("gateway", "bank")),
	}
}

func (c *bankClient) QueryTransactions(ctx context.Context, orderCode string, amount int64, since time.Time) ([]Transaction, error) {
	endpoint := fmt.Sprintf("%s/transactions?since=%s", c.baseURL, url.QueryEscape(since.UTC().Format(time.RFC3339)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build transactions request: %w", err)
	}
	req.Header.Set("Authorization", "Apikey "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("Transaction feed unreachable",
			zap.Error(err),
			zap.String("order_code", orderCode),
		)
		return nil, fmt.Errorf("query transaction feed: %v: %w", err, entity.ErrGatewayUnknown)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("Transaction feed returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("order_code", orderCode),
		)
		return nil, fmt.Errorf("transaction feed status %d: %w", resp.StatusCode, entity.ErrGatewayUnknown)
	}

	var payload struct {
		Data []Transaction `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Warn("Transaction feed returned malformed body",
			zap.Error(err),
			zap.String("order_code", orderCode),
		)
		return nil, fmt.Errorf("decode transaction feed: %v: %w", err, entity.ErrGatewayUnknown)
	}

	code := strings.ToUpper(orderCode)
	var matches []Transaction
	for _, tx := range payload.Data {
		if tx.Amount == amount && strings.Contains(strings.ToUpper(tx.Description), code) {
			matches = append(matches, tx)
		}
	}

	return matches, nil
}
