package webhook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/node"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sealedBlockFixture builds a representative notification payload.
func sealedBlockFixture() node.SealedBlock {
	return node.SealedBlock{
		Height: 7,
		Hash:   "00c422bd873de502e1ba633943b645a9a606fc59ee5c4de6bc85321a40ea8ffa",
		Header: ledger.BlockHeader{
			PreviousHash: "b34a0d8d49bbbd0278b42bb5f05e8851b83d7fb6b3b1a263a60ec6a618713b8e",
			Merkle:       "9d8b42f37f0f1bb933dc7af1de5cd43e7e0530c7af6c47210ab4ede918fdbaa2",
			Difficulty:   2,
			Nonce:        1234,
			Timestamp:    1700000000000000000,
		},
		Transactions: []ledger.Transaction{
			{
				Hash:      "5b14e5051bac66e54fae1eae0108a1ac5f95de9b9fa23289e4f0e55b2a84c010",
				From:      ledger.RootAddress,
				To:        "chain-reward-address",
				Fee:       0.01,
				Amount:    50,
				Timestamp: 1700000000000000001,
			},
		},
	}
}

func TestNewNotifier(t *testing.T) {
	t.Run("default configuration", func(t *testing.T) {
		n := NewNotifier("http://localhost:9095/blocks")

		assert.Equal(t, "http://localhost:9095/blocks", n.endpoint)
		require.NotNil(t, n.httpClient)
		assert.Equal(t, 5*time.Second, n.httpClient.HTTPClient.Timeout)
		assert.Equal(t, 1*time.Second, n.httpClient.RetryWaitMin)
		assert.Equal(t, 5*time.Second, n.httpClient.RetryWaitMax)
		assert.Equal(t, 2, n.httpClient.RetryMax)
	})

	t.Run("applies options", func(t *testing.T) {
		n := NewNotifier("http://localhost:9095/blocks",
			WithTimeout(10*time.Second),
			WithRetryWaitMin(100*time.Millisecond),
			WithRetryWaitMax(2*time.Second),
			WithRetryMax(5),
		)

		assert.Equal(t, 10*time.Second, n.httpClient.HTTPClient.Timeout)
		assert.Equal(t, 100*time.Millisecond, n.httpClient.RetryWaitMin)
		assert.Equal(t, 2*time.Second, n.httpClient.RetryWaitMax)
		assert.Equal(t, 5, n.httpClient.RetryMax)
	})
}

func TestNotifier_NotifySealedBlock(t *testing.T) {
	t.Run("posts the sealed block as JSON", func(t *testing.T) {
		type delivery struct {
			contentType string
			userAgent   string
			block       node.SealedBlock
			decodeErr   error
		}
		deliveries := make(chan delivery, 1)

		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var block node.SealedBlock
			err := json.NewDecoder(r.Body).Decode(&block)

			deliveries <- delivery{
				contentType: r.Header.Get("Content-Type"),
				userAgent:   r.Header.Get("User-Agent"),
				block:       block,
				decodeErr:   err,
			}

			w.WriteHeader(http.StatusNoContent)
		}))
		defer mockServer.Close()

		n := NewNotifier(mockServer.URL)
		block := sealedBlockFixture()

		err := n.NotifySealedBlock(t.Context(), block)
		require.NoError(t, err)

		received := <-deliveries
		require.NoError(t, received.decodeErr)
		assert.Equal(t, "application/json", received.contentType)
		assert.Equal(t, "chainledger-webhook", received.userAgent)
		assert.Equal(t, block, received.block)
	})

	t.Run("reports client-error answers", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer mockServer.Close()

		n := NewNotifier(mockServer.URL)

		err := n.NotifySealedBlock(t.Context(), sealedBlockFixture())
		assert.ErrorIs(t, err, ErrUnexpectedStatusCode)
		assert.Contains(t, err.Error(), "400")
	})

	t.Run("retries server errors before giving up", func(t *testing.T) {
		var attempts atomic.Int32
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer mockServer.Close()

		n := NewNotifier(mockServer.URL,
			WithRetryMax(2),
			WithRetryWaitMin(time.Millisecond),
			WithRetryWaitMax(time.Millisecond),
		)

		err := n.NotifySealedBlock(t.Context(), sealedBlockFixture())
		assert.Error(t, err)
		assert.Equal(t, int32(3), attempts.Load(), "one initial attempt plus two retries")
	})

	t.Run("recovers when the endpoint comes back", func(t *testing.T) {
		var attempts atomic.Int32
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer mockServer.Close()

		n := NewNotifier(mockServer.URL,
			WithRetryMax(2),
			WithRetryWaitMin(time.Millisecond),
			WithRetryWaitMax(time.Millisecond),
		)

		err := n.NotifySealedBlock(t.Context(), sealedBlockFixture())
		assert.NoError(t, err)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("fails when the endpoint is unreachable", func(t *testing.T) {
		mockServer := httptest.NewServer(nil)
		mockServer.Close() // Immediately close

		n := NewNotifier(mockServer.URL,
			WithTimeout(1*time.Second),
			WithRetryMax(0),
		)

		err := n.NotifySealedBlock(t.Context(), sealedBlockFixture())
		assert.Error(t, err)
	})
}
