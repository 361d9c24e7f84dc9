package notification

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRequest_JSONShape verifies the body carries exactly authorId, padId and apiKey.
func TestRequest_JSONShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewRequest("s3cret"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Equal(t, map[string]any{
		"authorId": "2",
		"padId":    "7",
		"apiKey":   "s3cret",
	}, decoded)
}

// TestAPIKey_Redacted ensures formatting never prints the secret.
func TestAPIKey_Redacted(t *testing.T) {
	t.Parallel()

	key := APIKey("s3cret")

	require.NotContains(t, fmt.Sprintf("%v %s %#v", key, key, key), "s3cret")
	require.NotContains(t, fmt.Sprintf("%v", NewRequest(key)), "s3cret")
	require.Empty(t, APIKey("").String())
}

// TestResult_OK checks that only delivered results count as success.
func TestResult_OK(t *testing.T) {
	t.Parallel()

	require.True(t, Result{Status: StatusDelivered}.OK())

	for _, s := range []Status{StatusPending, StatusTransportFailed, StatusTimedOut, StatusMalformedResponse} {
		require.False(t, Result{Status: s, Err: errors.New("x")}.OK(), s.String())
	}
}

// TestStatus_String covers every named status and the fallback.
func TestStatus_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "delivered", StatusDelivered.String())
	require.Equal(t, "timed_out", StatusTimedOut.String())
	require.Equal(t, "unknown", Status(42).String())
}
