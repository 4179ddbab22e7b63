package metadata

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/corduroy/collector/internal/adapter"
	"github.com/corduroy/collector/internal/domain"
	"github.com/corduroy/collector/internal/logger"
)

var (
	// ErrUnsupportedURI is returned for URI schemes the fetcher cannot dereference
	ErrUnsupportedURI = errors.New("unsupported metadata uri")

	// ErrNotJSON is returned when the fetched document is not a JSON object
	ErrNotJSON = errors.New("metadata is not a JSON object")
)

// UpstreamError wraps a failure to dereference a metadata URI.
// Callers treat it as soft and omit the metadata.
type UpstreamError struct {
	URI string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("failed to fetch metadata from %s: %v", e.URI, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Config holds configuration for the metadata fetcher
type Config struct {
	// GatewayURL is the IPFS gateway base used for ipfs:// URIs
	GatewayURL string
	// Timeout bounds a single fetch, zero means no extra bound
	Timeout time.Duration
}

// Fetcher dereferences edition metadata URIs
//
//go:generate mockgen -source=fetcher.go -destination=../mocks/metadata_fetcher.go -package=mocks -mock_names=Fetcher=MockMetadataFetcher
type Fetcher interface {
	// Fetch resolves uri for the given edition and returns the decoded JSON object
	Fetch(ctx context.Context, uri string, id domain.EditionID) (map[string]interface{}, error)
}

type fetcher struct {
	httpClient adapter.HTTPClient
	gateway    string
	timeout    time.Duration
}

func NewFetcher(httpClient adapter.HTTPClient, cfg Config) Fetcher {
	gateway := cfg.GatewayURL
	if gateway == "" {
		gateway = domain.DEFAULT_IPFS_GATEWAY
	}

	return &fetcher{
		httpClient: httpClient,
		gateway:    NormalizeGateway(gateway),
		timeout:    cfg.Timeout,
	}
}

// Supported reports whether uri has a scheme the fetcher handles
func Supported(uri string) bool {
	return strings.HasPrefix(uri, "ipfs://") ||
		strings.HasPrefix(uri, "http://") ||
		strings.HasPrefix(uri, "https://") ||
		strings.HasPrefix(uri, "data:")
}

// NormalizeGateway strips a trailing slash and a trailing /ipfs segment from a gateway base
func NormalizeGateway(gateway string) string {
	gateway = strings.TrimRight(gateway, "/")
	gateway = strings.TrimSuffix(gateway, "/ipfs")
	return strings.TrimRight(gateway, "/")
}

// GatewayURL returns the HTTP URL of a CID path on the gateway
func GatewayURL(gateway, cidPath string) string {
	return fmt.Sprintf("%s/ipfs/%s", NormalizeGateway(gateway), strings.TrimLeft(cidPath, "/"))
}

// ExpandURI substitutes the ERC-1155 {id} placeholder and maps ipfs:// onto the gateway
func ExpandURI(uri, gateway string, id domain.EditionID) (string, error) {
	uri = strings.ReplaceAll(uri, "{id}", id.Hex())

	switch {
	case strings.HasPrefix(uri, "ipfs://"):
		cidPath := strings.TrimPrefix(uri, "ipfs://")
		// ipfs://ipfs/CID is a common malformed variant
		cidPath = strings.TrimPrefix(cidPath, "ipfs/")
		if cidPath == "" {
			return "", fmt.Errorf("%w: empty ipfs path", ErrUnsupportedURI)
		}
		return GatewayURL(gateway, cidPath), nil
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		if _, err := url.ParseRequestURI(uri); err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedURI, err)
		}
		return uri, nil
	case strings.HasPrefix(uri, "data:"):
		return uri, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedURI, uri)
	}
}

// Fetch resolves uri for the given edition and returns the decoded JSON object
func (f *fetcher) Fetch(ctx context.Context, uri string, id domain.EditionID) (map[string]interface{}, error) {
	resolved, err := ExpandURI(uri, f.gateway, id)
	if err != nil {
		return nil, err
	}

	var body []byte
	if strings.HasPrefix(resolved, "data:") {
		body, err = decodeDataURI(resolved)
		if err != nil {
			return nil, &UpstreamError{URI: uri, Err: err}
		}
	} else {
		if f.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, f.timeout)
			defer cancel()
		}

		body, err = f.httpClient.Get(ctx, resolved)
		if err != nil {
			logger.WarnCtx(ctx, "Failed to fetch metadata", zap.String("uri", uri), zap.String("url", resolved), zap.Error(err))
			return nil, &UpstreamError{URI: uri, Err: err}
		}
	}

	metadata, err := decodeJSONObject(body)
	if err != nil {
		return nil, &UpstreamError{URI: uri, Err: err}
	}

	return metadata, nil
}

// decodeJSONObject checks the document sniffs as JSON and decodes it into an object
func decodeJSONObject(body []byte) (map[string]interface{}, error) {
	if !isJSON(body) {
		return nil, fmt.Errorf("%w: detected %s", ErrNotJSON, mimetype.Detect(body).String())
	}

	var metadata map[string]interface{}
	if err := json.Unmarshal(body, &metadata); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	if metadata == nil {
		return nil, ErrNotJSON
	}

	return metadata, nil
}

// isJSON walks the detected mime type up to its root, GeoJSON and friends count as JSON
func isJSON(body []byte) bool {
	for m := mimetype.Detect(body); m != nil; m = m.Parent() {
		if m.Is("application/json") {
			return true
		}
	}
	return false
}

// decodeDataURI returns the payload of data:[<mediatype>][;base64],<data>
func decodeDataURI(uri string) ([]byte, error) {
	header, data, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URI format")
	}

	if strings.HasSuffix(header, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64: %w", err)
		}
		return decoded, nil
	}

	unescaped, err := url.PathUnescape(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unescape data URI: %w", err)
	}
	return []byte(unescaped), nil
}
