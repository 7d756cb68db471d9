package daichi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// acceptStatus reports whether a status is handed to the envelope validator.
// 4xx replies still carry an envelope; 5xx are transport failures.
func acceptStatus(code int) bool {
	return code < http.StatusInternalServerError
}

// doJSON sends payload (if any) as JSON and returns the raw reply body.
// endpoint is a low-cardinality label for metrics and errors.
func doJSON(ctx context.Context, client *http.Client, method, target, endpoint string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("daichi %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", endpoint, err)
	}

	if !acceptStatus(resp.StatusCode) {
		return nil, &HTTPStatusError{Endpoint: endpoint, Status: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
