package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"ClaimSentinel/internal/abi"
	"ClaimSentinel/internal/model"
)

type tableRowsRequest struct {
	JSON          bool   `json:"json"`
	Code          string `json:"code"`
	Table         string `json:"table"`
	Scope         string `json:"scope"`
	LowerBound    string `json:"lower_bound"`
	UpperBound    string `json:"upper_bound"`
	IndexPosition int    `json:"index_position"`
	KeyType       string `json:"key_type"`
	Limit         int    `json:"limit"`
}

type tableRowsResponse struct {
	Rows []model.LimitRow `json:"rows"`
	More bool             `json:"more"`
}

// LimitRows fetches the claim-limit table rows for an account, trying each
// endpoint in order. Returns nil once every endpoint has failed; an account
// with no table row legitimately yields an empty (non-nil) result.
func (c *Client) LimitRows(ctx context.Context, order []string, account string) []model.LimitRow {
	payload := tableRowsRequest{
		JSON:          true,
		Code:          c.table.Code,
		Table:         c.table.Table,
		Scope:         c.table.Scope,
		LowerBound:    account,
		UpperBound:    account,
		IndexPosition: c.table.IndexPosition,
		KeyType:       c.table.KeyType,
		Limit:         100,
	}
	rows, ok := failover(ctx, c, order, "get_table_rows", func(ctx context.Context, baseURL string) ([]model.LimitRow, error) {
		var resp tableRowsResponse
		if err := c.post(ctx, baseURL, "/v1/chain/get_table_rows", payload, &resp); err != nil {
			return nil, err
		}
		if resp.Rows == nil {
			resp.Rows = []model.LimitRow{}
		}
		return resp.Rows, nil
	})
	if !ok {
		return nil
	}
	return rows
}

// Balance fetches the account's currency balance, trying each endpoint in
// order. Returns NaN once every endpoint has failed; an account with no
// balance row reads as zero.
func (c *Client) Balance(ctx context.Context, order []string, account string) float64 {
	payload := map[string]string{
		"code":    c.tokenContract,
		"account": account,
		"symbol":  c.symbolCode,
	}
	bal, ok := failover(ctx, c, order, "get_currency_balance", func(ctx context.Context, baseURL string) (float64, error) {
		var resp []string
		if err := c.post(ctx, baseURL, "/v1/chain/get_currency_balance", payload, &resp); err != nil {
			return 0, err
		}
		if len(resp) == 0 {
			return 0, nil
		}
		return abi.ParseBalance(resp[0])
	})
	if !ok {
		return math.NaN()
	}
	return bal
}

type infoResponse struct {
	ChainID       string `json:"chain_id"`
	HeadBlockID   string `json:"head_block_id"`
	HeadBlockNum  uint32 `json:"head_block_num"`
	HeadBlockTime string `json:"head_block_time"`
}

// Info fetches head-of-chain info from a single node. No failover: a
// submission that cannot read head info simply fails and is reported.
func (c *Client) Info(ctx context.Context, baseURL string) (model.ChainInfo, error) {
	metricAttempt("get_info")
	var resp infoResponse
	if err := c.post(ctx, baseURL, "/v1/chain/get_info", struct{}{}, &resp); err != nil {
		return model.ChainInfo{}, err
	}
	headTime, err := parseBlockTime(resp.HeadBlockTime)
	if err != nil {
		return model.ChainInfo{}, fmt.Errorf("parse head_block_time: %w", err)
	}
	return model.ChainInfo{
		ChainID:       resp.ChainID,
		HeadBlockID:   resp.HeadBlockID,
		HeadBlockNum:  resp.HeadBlockNum,
		HeadBlockTime: headTime,
	}, nil
}

// PushTransaction submits a signed transaction to a single node and returns
// the transaction id.
func (c *Client) PushTransaction(ctx context.Context, baseURL string, signedTx any) (string, error) {
	var resp struct {
		TransactionID string          `json:"transaction_id"`
		Processed     json.RawMessage `json:"processed"`
	}
	if err := c.post(ctx, baseURL, "/v1/chain/push_transaction", signedTx, &resp); err != nil {
		return "", err
	}
	if resp.TransactionID == "" {
		return "", fmt.Errorf("push_transaction: node returned no transaction id")
	}
	return resp.TransactionID, nil
}

// Block timestamps come without a zone suffix and are UTC.
func parseBlockTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05.000", "2006-01-02T15:04:05"} {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized block time %q", s)
}
