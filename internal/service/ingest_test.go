package service

import (
	"context"
	"errors"
	"testing"

	"p2pmonitor/internal/client/p2p"
)

// stubFetcher serves canned pages keyed by side.
type stubFetcher struct {
	pagesBySide map[int][]p2p.RawOffer
	queries     []p2p.OfferQuery
	err         error
}

func (f *stubFetcher) FetchOffers(ctx context.Context, query p2p.OfferQuery) (*p2p.OfferPage, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	items := f.pagesBySide[query.Side]
	if query.Page > 1 {
		items = nil
	}
	return &p2p.OfferPage{Count: len(items), Items: items}, nil
}

func rawOfferForSide(id string, side int) p2p.RawOffer {
	raw := testRawOffer()
	raw.ID = id
	raw.UserID = "user-" + id
	raw.Side = side
	raw.TradingPreferenceSet = &p2p.RawTradingPreferences{IsKyc: 1}
	raw.SymbolInfo = &p2p.RawSymbolInfo{ID: "16", TokenID: raw.TokenID, CurrencyID: raw.CurrencyID}
	return raw
}

func newIngestService(store *stubRepo, fetcher *stubFetcher) *IngestService {
	return &IngestService{
		Store:      store,
		Client:     fetcher,
		Normalizer: &Normalizer{},
		PageSize:   100,
		MaxPages:   3,
	}
}

func TestIngestPairBothSides(t *testing.T) {
	store := newStubRepo()
	fetcher := &stubFetcher{pagesBySide: map[int][]p2p.RawOffer{
		0: {rawOfferForSide("s1", 0), rawOfferForSide("s2", 0)},
		1: {rawOfferForSide("b1", 1)},
	}}
	svc := newIngestService(store, fetcher)

	result, err := svc.IngestPair(context.Background(), "USDT", "EUR")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Sides != 2 || result.Fetched != 3 || result.Inserted != 3 {
		t.Fatalf("result = %+v", result)
	}
	if len(store.snapshots) != 3 {
		t.Fatalf("snapshots = %d", len(store.snapshots))
	}
	// SELL cycles before BUY.
	if fetcher.queries[0].Side != 0 {
		t.Fatalf("first query side = %d, want sell", fetcher.queries[0].Side)
	}
	if _, ok := store.states["USDT/EUR:sell"]; !ok {
		t.Fatalf("sell ingest state missing: %v", store.states)
	}
	if _, ok := store.states["USDT/EUR:buy"]; !ok {
		t.Fatalf("buy ingest state missing: %v", store.states)
	}
}

func TestIngestWriteOrderDimensionsFirst(t *testing.T) {
	store := newStubRepo()
	fetcher := &stubFetcher{pagesBySide: map[int][]p2p.RawOffer{
		0: {rawOfferForSide("s1", 0)},
	}}
	svc := newIngestService(store, fetcher)

	if _, err := svc.IngestPair(context.Background(), "USDT", "EUR"); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	want := []string{"symbol", "user", "methods", "assets", "snapshot", "payments", "preferences"}
	if len(store.writeOrder) != len(want) {
		t.Fatalf("write order = %v", store.writeOrder)
	}
	for i, step := range want {
		if store.writeOrder[i] != step {
			t.Fatalf("write order[%d] = %s, want %s (%v)", i, store.writeOrder[i], step, store.writeOrder)
		}
	}
}

func TestIngestDropsBrokenRecordKeepsSiblings(t *testing.T) {
	broken := rawOfferForSide("bad", 0)
	broken.Price = "n/a"
	store := newStubRepo()
	fetcher := &stubFetcher{pagesBySide: map[int][]p2p.RawOffer{
		0: {rawOfferForSide("s1", 0), broken, rawOfferForSide("s3", 0)},
	}}
	svc := newIngestService(store, fetcher)

	result, err := svc.IngestPair(context.Background(), "USDT", "EUR")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Dropped != 1 || result.Inserted != 2 {
		t.Fatalf("result = %+v", result)
	}
	for _, snap := range store.snapshots {
		if snap.OfferID == "bad" {
			t.Fatalf("broken record landed")
		}
	}
}

func TestIngestDuplicateIsNotFatal(t *testing.T) {
	store := newStubRepo()
	store.duplicateOffers["s2"] = true
	fetcher := &stubFetcher{pagesBySide: map[int][]p2p.RawOffer{
		0: {rawOfferForSide("s1", 0), rawOfferForSide("s2", 0), rawOfferForSide("s3", 0)},
	}}
	svc := newIngestService(store, fetcher)

	result, err := svc.IngestPair(context.Background(), "USDT", "EUR")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Duplicates != 1 || result.Inserted != 2 {
		t.Fatalf("result = %+v", result)
	}
}

func TestIngestStoreFailureAborts(t *testing.T) {
	boom := errors.New("connection reset")
	store := newStubRepo()
	store.failOffers["s2"] = boom
	fetcher := &stubFetcher{pagesBySide: map[int][]p2p.RawOffer{
		0: {rawOfferForSide("s1", 0), rawOfferForSide("s2", 0), rawOfferForSide("s3", 0)},
	}}
	svc := newIngestService(store, fetcher)

	result, err := svc.IngestPair(context.Background(), "USDT", "EUR")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want store failure", err)
	}
	if result.Inserted != 1 {
		t.Fatalf("inserted = %d, want 1 before abort", result.Inserted)
	}
	st, ok := store.states["USDT/EUR:sell"]
	if !ok || st.LastError == nil {
		t.Fatalf("failed cycle should record an error state: %+v", st)
	}
	if st.LastSuccessAt != nil {
		t.Fatalf("failed cycle must not record success")
	}
}

func TestIngestUpstreamFailureAborts(t *testing.T) {
	store := newStubRepo()
	fetcher := &stubFetcher{err: &p2p.TransportError{Err: errors.New("refused")}}
	svc := newIngestService(store, fetcher)

	_, err := svc.IngestPair(context.Background(), "USDT", "EUR")
	var terr *p2p.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want transport error", err)
	}
}
