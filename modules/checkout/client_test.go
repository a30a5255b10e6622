package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbolivercreates/ridecanvas/modules/common/config"
)

func setupConfig(t *testing.T, apiBaseURL string) {
	t.Helper()

	t.Setenv("SUPABASE_URL", "https://test.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "test-service-key")
	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_API_BASE_URL", apiBaseURL)
	t.Setenv("POSTER_PRICE_CENTS", "999")
	t.Setenv("POSTER_CURRENCY", "usd")

	_, err := config.LoadConfig()
	require.NoError(t, err)
}

func TestCreateSessionSendsFormEncodedRequest(t *testing.T) {
	var gotForm map[string]string
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":  "cs_test_abc",
			"url": "https://checkout.example.com/pay/cs_test_abc",
		})
	}))
	defer server.Close()

	setupConfig(t, server.URL)

	session, err := NewClient().CreateSession(context.Background(), "token-1", "2020 Jeep Wrangler")
	require.NoError(t, err)

	assert.Equal(t, "cs_test_abc", session.ID)
	assert.Equal(t, "https://checkout.example.com/pay/cs_test_abc", session.URL)

	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	assert.Equal(t, "payment", gotForm["mode"])
	assert.Equal(t, "token-1", gotForm["client_reference_id"])
	assert.Equal(t, "usd", gotForm["line_items[0][price_data][currency]"])
	assert.Equal(t, "999", gotForm["line_items[0][price_data][unit_amount]"])
	assert.Contains(t, gotForm["line_items[0][price_data][product_data][description]"], "2020 Jeep Wrangler")
}

func TestGetSessionParsesPaymentState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "GET", r.Method)
		require.Equal(t, "/v1/checkout/sessions/cs_test_abc", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":                  "cs_test_abc",
			"payment_status":      "paid",
			"status":              "complete",
			"client_reference_id": "token-1",
			"amount_total":        999,
			"currency":            "usd",
			"customer_details":    map[string]string{"email": "buyer@example.com"},
		})
	}))
	defer server.Close()

	setupConfig(t, server.URL)

	session, err := NewClient().GetSession(context.Background(), "cs_test_abc")
	require.NoError(t, err)

	assert.True(t, session.Paid())
	assert.Equal(t, "token-1", session.ClientReferenceID)
	assert.Equal(t, 999, session.AmountTotal)
	require.NotNil(t, session.CustomerDetails)
	assert.Equal(t, "buyer@example.com", session.CustomerDetails.Email)
}

func TestGetSessionUnpaid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":             "cs_test_abc",
			"payment_status": "unpaid",
			"status":         "open",
		})
	}))
	defer server.Close()

	setupConfig(t, server.URL)

	session, err := NewClient().GetSession(context.Background(), "cs_test_abc")
	require.NoError(t, err)
	assert.False(t, session.Paid())
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"message": "card declined"}}`))
	}))
	defer server.Close()

	setupConfig(t, server.URL)

	_, err := NewClient().GetSession(context.Background(), "cs_test_abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}
