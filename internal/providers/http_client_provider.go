package providers

import (
	"net/http"
	"time"

	"kudosd/internal/structures"
)

// HTTPClientInterface is the outbound transport used by the notification
// dispatcher and the endorsement callback. Transport failures surface as a
// non-nil error, distinguishable from a non-2xx response.
type HTTPClientInterface interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClientProvider(conf *structures.Config) HTTPClientInterface {
	timeout := conf.Dispatch.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
