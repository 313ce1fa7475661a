package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"auction-house/internal/auction"
	"auction-house/internal/bidding"
	"auction-house/internal/events"
	"auction-house/internal/lifecycle"
	"auction-house/internal/locks"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/internal/settlement"
	"auction-house/internal/wallet"
)

// TestStack is the full service wired on the in-memory store, the way main
// assembles it, minus NATS and metrics.
type TestStack struct {
	Router    *gin.Engine
	Store     *repository.MemoryStore
	Publisher *events.MemoryPublisher
	Scheduler *lifecycle.Scheduler
}

// SetupTestStack initializes the router with the in-memory store for
// integration testing. The rate limit is set high enough to stay out of the
// way; use SetupTestStackWithOptions to test it.
func SetupTestStack(t *testing.T) *TestStack {
	return SetupTestStackWithOptions(t, server.Options{RatePerSecond: 1000, RateBurst: 1000})
}

// SetupTestStackWithOptions is SetupTestStack with explicit router options.
func SetupTestStackWithOptions(t *testing.T, opts server.Options) *TestStack {
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	publisher := events.NewMemoryPublisher()
	notifier := events.NewPublisherNotifier(publisher)
	auctionLocks := locks.NewKeyedMutex()

	walletSvc := wallet.NewService(store, publisher, nil)
	settlementSvc := settlement.NewService(store, walletSvc, publisher, notifier, nil, auctionLocks)
	biddingSvc := bidding.NewService(store, walletSvc, publisher, notifier, nil, auctionLocks)
	scheduler := lifecycle.NewScheduler(store, settlementSvc, biddingSvc, publisher, notifier)
	auctionSvc := auction.NewService(store, scheduler, settlementSvc, publisher, notifier, auctionLocks)
	t.Cleanup(scheduler.Stop)

	router := server.SetupRouter(server.Services{
		Auction:    auctionSvc,
		Settlement: settlementSvc,
		Bidding:    biddingSvc,
		Wallet:     walletSvc,
	}, opts)

	return &TestStack{Router: router, Store: store, Publisher: publisher, Scheduler: scheduler}
}

// ExecuteRequest executes an HTTP request as the given user and returns the
// response recorder. Role may be empty for regular users.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url, userID, role string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(server.HeaderUserID, userID)
	}
	if role != "" {
		req.Header.Set(server.HeaderUserRole, role)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request and parses the response
// envelope. For successful responses it returns the unwrapped data object.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, userID, role string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := ExecuteRequest(t, router, method, url, userID, role, reqBody)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if w.Code < 300 {
			if data, ok := resp["data"].(map[string]any); ok {
				resp = data
			}
		}
	}

	return resp, w
}

// ExecuteRequestAndParseList is ExecuteRequestAndParse for endpoints whose
// data payload is an array.
func ExecuteRequestAndParseList(t *testing.T, router *gin.Engine, method, url, userID, role string) ([]any, *httptest.ResponseRecorder) {
	t.Helper()

	w := ExecuteRequest(t, router, method, url, userID, role, nil)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	list, _ := resp["data"].([]any)
	return list, w
}
