package p2p

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const onlineItemsPath = "/fiat/otc/item/online"

type Client struct {
	host       string
	httpClient *http.Client
}

// TransportError covers network-level failures (dial, timeout, non-200).
// Retryable by the caller.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream unavailable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is an application-level rejection: HTTP 200 with a non-zero
// embedded status code. Not retryable without changing parameters.
type APIError struct {
	RetCode int
	RetMsg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream rejected request (%d): %s", e.RetCode, e.RetMsg)
}

// DecodeError means the payload could not be parsed into the expected
// shape (schema drift).
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("upstream payload malformed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func NewClient(httpClient *http.Client, host string) *Client {
	if host == "" {
		host = "https://api2.bybit.com"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		httpClient: httpClient,
	}
}

// OfferQuery describes one paginated fetch of online offers.
type OfferQuery struct {
	TokenID          string
	CurrencyID       string
	Side             int
	PaymentMethodIDs []string
	Size             int
	Page             int
	Amount           string
	SortType         string
}

type OfferPage struct {
	Count int
	Items []RawOffer
}

// The upstream expects most numeric fields stringified.
type onlineRequest struct {
	UserID             string   `json:"userId"`
	TokenID            string   `json:"tokenId"`
	CurrencyID         string   `json:"currencyId"`
	Payment            []string `json:"payment"`
	Side               string   `json:"side"`
	Size               string   `json:"size"`
	Page               string   `json:"page"`
	Amount             string   `json:"amount"`
	VaMaker            bool     `json:"vaMaker"`
	BulkMaker          bool     `json:"bulkMaker"`
	CanTrade           bool     `json:"canTrade"`
	VerificationFilter int      `json:"verificationFilter"`
	SortType           string   `json:"sortType"`
	PaymentPeriod      []string `json:"paymentPeriod"`
	ItemRegion         int      `json:"itemRegion"`
}

type onlineResponse struct {
	RetCode int    `json:"ret_code"`
	RetMsg  string `json:"ret_msg"`
	Result  struct {
		Count int        `json:"count"`
		Items []RawOffer `json:"items"`
	} `json:"result"`
	ExtCode string          `json:"ext_code"`
	ExtInfo json.RawMessage `json:"ext_info"`
	TimeNow string          `json:"time_now"`
}

// FetchOffers issues a single paginated fetch against the online-offers
// endpoint. No retry logic lives here; retries are the scheduler's concern.
func (c *Client) FetchOffers(ctx context.Context, query OfferQuery) (*OfferPage, error) {
	payment := query.PaymentMethodIDs
	if payment == nil {
		payment = []string{}
	}
	reqBody := onlineRequest{
		TokenID:    query.TokenID,
		CurrencyID: query.CurrencyID,
		Payment:    payment,
		Side:       strconv.Itoa(query.Side),
		Size:       strconv.Itoa(query.Size),
		Page:       strconv.Itoa(query.Page),
		Amount:     query.Amount,
		CanTrade:   true,
		SortType:   query.SortType,
		ItemRegion: 1,
	}
	if reqBody.SortType == "" {
		reqBody.SortType = "TRADE_PRICE"
	}
	if reqBody.PaymentPeriod == nil {
		reqBody.PaymentPeriod = []string{}
	}

	body, err := c.doRequest(ctx, onlineItemsPath, reqBody)
	if err != nil {
		return nil, err
	}

	var resp onlineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if resp.RetCode != 0 {
		return nil, &APIError{RetCode: resp.RetCode, RetMsg: resp.RetMsg}
	}
	return &OfferPage{Count: resp.Result.Count, Items: resp.Result.Items}, nil
}

func (c *Client) doRequest(ctx context.Context, path string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))}
	}
	return body, nil
}
