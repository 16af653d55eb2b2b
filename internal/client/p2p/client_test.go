package p2p

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchOffersOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/fiat/otc/item/online" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		// Side, size and page travel as strings.
		if req["side"] != "0" || req["size"] != "100" || req["page"] != "2" {
			t.Errorf("stringified fields wrong: %v", req)
		}
		if req["canTrade"] != true {
			t.Errorf("canTrade = %v", req["canTrade"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"ret_code": 0,
			"ret_msg": "SUCCESS",
			"result": {
				"count": 42,
				"items": [
					{"id": "offer-1", "userId": "u1", "tokenId": "USDT", "currencyId": "EUR", "side": 0, "price": "1.05", "blocked": "N", "payments": ["14"]}
				]
			},
			"ext_code": "",
			"ext_info": null,
			"time_now": "1756555200.000000"
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL)
	page, err := client.FetchOffers(context.Background(), OfferQuery{
		TokenID:    "USDT",
		CurrencyID: "EUR",
		Side:       0,
		Size:       100,
		Page:       2,
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.Count != 42 || len(page.Items) != 1 {
		t.Fatalf("page = %+v", page)
	}
	if page.Items[0].ID != "offer-1" || page.Items[0].Price != "1.05" {
		t.Fatalf("item = %+v", page.Items[0])
	}
}

func TestFetchOffersRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ret_code": 10001, "ret_msg": "params error", "result": null}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL)
	_, err := client.FetchOffers(context.Background(), OfferQuery{Side: 0, Size: 100, Page: 1})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.RetCode != 10001 || apiErr.RetMsg != "params error" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestFetchOffersMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL)
	_, err := client.FetchOffers(context.Background(), OfferQuery{Side: 0, Size: 100, Page: 1})
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("err = %v, want DecodeError", err)
	}
}

func TestFetchOffersHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL)
	_, err := client.FetchOffers(context.Background(), OfferQuery{Side: 0, Size: 100, Page: 1})
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestFetchOffersConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(&http.Client{Timeout: time.Second}, srv.URL)
	_, err := client.FetchOffers(context.Background(), OfferQuery{Side: 0, Size: 100, Page: 1})
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}
