// internal/dict/krdict.go
//
// HTTP adapter for the 한국어기초사전 Open API search endpoint.
//
// Requests:
//   GET {base}?key=..&q=..&start=1&num=..&advanced=y&target=1&pos=1&method=exact|start&sort=dict
//
// Responses are XML. A successful search is a <channel> with <item><word>
// children; a failed one is an <error> document with <error_code>/<message>.
// Homograph markers ("^", "-") are stripped from headwords.

package dict

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://krdict.korean.go.kr/api/search"

	// the API only accepts num in [10, 100]
	minPageSize = 10
	maxPageSize = 100

	maxBodyBytes = 2 << 20
)

// KRDict queries krdict.korean.go.kr.
type KRDict struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// KROption customises a KRDict.
type KROption func(*KRDict)

// WithHTTPClient replaces the default client (timeout from NewKRDict).
func WithHTTPClient(c *http.Client) KROption {
	return func(k *KRDict) { k.http = c }
}

// WithBaseURL points the adapter at another search endpoint.
func WithBaseURL(u string) KROption {
	return func(k *KRDict) { k.baseURL = u }
}

// NewKRDict builds an adapter using apiKey; timeout bounds each request.
func NewKRDict(apiKey string, timeout time.Duration, opts ...KROption) *KRDict {
	k := &KRDict{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
	for _, o := range opts {
		o(k)
	}
	return k
}

type searchItem struct {
	Word string `xml:"word"`
	Pos  string `xml:"pos"`
}

type searchResponse struct {
	XMLName   xml.Name
	Total     int          `xml:"total"`
	Items     []searchItem `xml:"item"`
	ErrorCode string       `xml:"error_code"`
	Message   string       `xml:"message"`
}

// WordExists runs an exact-match noun search for word.
func (k *KRDict) WordExists(ctx context.Context, word string) (bool, error) {
	word = strings.TrimSpace(word)
	res, err := k.search(ctx, opExists, word, "exact", minPageSize)
	if err != nil {
		return false, err
	}
	for _, it := range res.Items {
		if cleanHeadword(it.Word) == word {
			return true, nil
		}
	}
	return false, nil
}

// WordsStartingWith runs a prefix noun search sorted in dictionary order.
// Headwords are de-duplicated (homographs share a spelling) and the result
// is truncated to limit.
func (k *KRDict) WordsStartingWith(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	res, err := k.search(ctx, opStart, strings.TrimSpace(prefix), "start", limit)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(res.Items))
	seen := make(map[string]struct{}, len(res.Items))
	for _, it := range res.Items {
		w := cleanHeadword(it.Word)
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// search performs one API call and decodes the XML body.
func (k *KRDict) search(ctx context.Context, op, q, method string, num int) (res *searchResponse, err error) {
	start := time.Now()
	defer func() {
		lookupDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = "error"
		}
		lookupsTotal.WithLabelValues(op, result).Inc()
	}()

	if k.apiKey == "" {
		return nil, fmt.Errorf("%w: missing api key", ErrLookupUnavailable)
	}

	params := url.Values{}
	params.Set("key", k.apiKey)
	params.Set("q", q)
	params.Set("start", "1")
	params.Set("num", strconv.Itoa(clampPageSize(num)))
	params.Set("advanced", "y")
	params.Set("target", "1")
	params.Set("pos", "1")
	params.Set("method", method)
	if method == "start" {
		params.Set("sort", "dict")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrLookupUnavailable, err)
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := k.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("op", op).Str("q", q).Msg("dictionary request failed")
		return nil, fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Int("status", resp.StatusCode).Str("op", op).Str("q", q).Msg("dictionary non-2xx")
		return nil, fmt.Errorf("%w: status %d", ErrLookupUnavailable, resp.StatusCode)
	}

	var body searchResponse
	if err := xml.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		log.Warn().Err(err).Str("op", op).Str("q", q).Msg("dictionary decode failed")
		return nil, fmt.Errorf("%w: decode: %v", ErrLookupUnavailable, err)
	}
	switch body.XMLName.Local {
	case "channel":
		return &body, nil
	case "error":
		log.Warn().Str("code", body.ErrorCode).Str("message", body.Message).Msg("dictionary api error")
		return nil, fmt.Errorf("%w: api error %s: %s", ErrLookupUnavailable, body.ErrorCode, body.Message)
	default:
		return nil, fmt.Errorf("%w: unexpected root <%s>", ErrLookupUnavailable, body.XMLName.Local)
	}
}

func clampPageSize(n int) int {
	switch {
	case n < minPageSize:
		return minPageSize
	case n > maxPageSize:
		return maxPageSize
	}
	return n
}

// cleanHeadword removes homograph/compound markers and surrounding space.
func cleanHeadword(w string) string {
	w = strings.NewReplacer("^", "", "-", "").Replace(w)
	return strings.TrimSpace(w)
}
