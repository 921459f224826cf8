// Package fetch retrieves documents over HTTP for the scrapers.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

var ErrStatus = errors.New("fetch: unexpected status")

// Fetcher gets one document. err reports transport failures only; callers
// decide what a status means.
type Fetcher interface {
	Get(ctx context.Context, url string) (status int, body []byte, err error)
}

// Options configure an HTTPFetcher.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	// Attempts is the total number of tries per request, including the first.
	Attempts  int
	RetryWait time.Duration
	Cookies   []*http.Cookie
}

// HTTPFetcher is a Fetcher on a resty client. Requests answered with 403,
// 406, 429 or a 5xx status are retried with a fixed wait.
type HTTPFetcher struct {
	client *resty.Client
}

func NewHTTP(opts Options) *HTTPFetcher {
	client := resty.New()
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.Attempts > 1 {
		client.SetRetryCount(opts.Attempts - 1)
		client.SetRetryWaitTime(opts.RetryWait)
		client.SetRetryMaxWaitTime(opts.RetryWait)
		client.AddRetryCondition(func(res *resty.Response, err error) bool {
			return err == nil && Retryable(res.StatusCode())
		})
	}
	if len(opts.Cookies) > 0 {
		client.SetCookies(opts.Cookies)
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Get(ctx context.Context, url string) (int, []byte, error) {
	res, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return 0, nil, fmt.Errorf("fetch: get %s: %w", url, err)
	}
	return res.StatusCode(), res.Body(), nil
}

// Retryable reports whether a status is worth asking for again.
func Retryable(status int) bool {
	switch status {
	case http.StatusForbidden, http.StatusNotAcceptable, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}

const cognitoPool = "CognitoIdentityServiceProvider.3fii107m4bmtggnm21pud2es21"

// SessionCookies are the subscriber cookies the site accepts in place of a
// browser login.
func SessionCookies(email, authState, accessToken string) []*http.Cookie {
	return []*http.Cookie{
		{Name: cognitoPool + "." + url.QueryEscape(email) + ".accessToken", Value: accessToken},
		{Name: "auth_state", Value: authState},
	}
}

// Body fetches url and fails on any status other than 200.
func Body(ctx context.Context, f Fetcher, url string) ([]byte, error) {
	status, body, err := f.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %d from %s", ErrStatus, status, url)
	}
	return body, nil
}

// Document fetches url and parses it as HTML.
func Document(ctx context.Context, f Fetcher, url string) (*goquery.Document, error) {
	body, err := Body(ctx, f, url)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}
