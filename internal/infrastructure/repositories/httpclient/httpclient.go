// Package httpclient builds the HTTP client shared by the provider REST clients.
// Retries and backoff are delegated to go-retryablehttp.
package httpclient

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"
)

const (
	requestTimeout = 30 * time.Second
	retryWaitMin   = 500 * time.Millisecond
	retryWaitMax   = 5 * time.Second
)

// New returns a standard *http.Client that retries connection errors, 429 and
// 5xx responses up to retries times.
func New(retries int) *http.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.HTTPClient.Timeout = requestTimeout
	client.Logger = leveledLogger{entry: logger.WithField("component", "http")}

	client.ErrorHandler = lastResponse

	return client.StandardClient()
}

// lastResponse hands the final response back once retries are exhausted, so
// providers surface the API status and body instead of a generic "giving up".
// Transport errors are still returned as errors.
func lastResponse(resp *http.Response, err error, attempts int) (*http.Response, error) {
	if resp != nil {
		logger.Debugf("Giving up on %s after %d attempts: %v", resp.Request.URL.Redacted(), attempts, err)
		return resp, nil
	}
	return nil, err
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger.
type leveledLogger struct {
	entry *logger.Entry
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Error(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Warn(msg)
}

// Info is demoted to debug: retryablehttp logs every request at info level.
func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l leveledLogger) with(keysAndValues []interface{}) *logger.Entry {
	fields := make(logger.Fields, len(keysAndValues)/2) //nolint:mnd // key/value pairs
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return l.entry.WithFields(fields)
}
