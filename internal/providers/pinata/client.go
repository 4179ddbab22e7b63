package pinata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gowebpki/jcs"
	"go.uber.org/zap"

	"github.com/corduroy/collector/internal/adapter"
	"github.com/corduroy/collector/internal/logger"
	"github.com/corduroy/collector/internal/metadata"
)

const PROVIDER_NAME = "pinata"

var (
	// ErrPinningDisabled is returned when no Pinata JWT is configured
	ErrPinningDisabled = errors.New("pinning disabled: no pinata jwt configured")

	// ErrMissingCID is returned when Pinata answers without an IpfsHash
	ErrMissingCID = errors.New("pinata response missing IpfsHash")
)

// Attribute is one OpenSea style trait of an edition
type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// Metadata is the JSON document pinned for an edition
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// Pin is the location of a pinned document
type Pin struct {
	CID        string `json:"cid"`
	IPFSURI    string `json:"ipfsUri"`
	GatewayURL string `json:"gatewayUrl"`
}

type pinRequest struct {
	PinataContent json.RawMessage `json:"pinataContent"`
	PinataOptions pinOptions      `json:"pinataOptions"`
}

type pinOptions struct {
	CIDVersion int `json:"cidVersion"`
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// Config holds Pinata API settings
type Config struct {
	JWT        string
	APIURL     string
	GatewayURL string
}

// Client defines the interface for Pinata operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/pinata_client.go -package=mocks -mock_names=Client=MockPinataClient
type Client interface {
	// Enabled reports whether a JWT is configured
	Enabled() bool

	// PinJSON pins a metadata document and returns its CID
	PinJSON(ctx context.Context, doc Metadata) (*Pin, error)
}

type pinataClient struct {
	httpClient adapter.HTTPClient
	cfg        Config
}

// NewClient creates a new Pinata client
func NewClient(httpClient adapter.HTTPClient, cfg Config) Client {
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &pinataClient{httpClient: httpClient, cfg: cfg}
}

// Enabled reports whether a JWT is configured
func (c *pinataClient) Enabled() bool {
	return c.cfg.JWT != ""
}

// PinJSON pins a metadata document and returns its CID
func (c *pinataClient) PinJSON(ctx context.Context, doc Metadata) (*Pin, error) {
	if !c.Enabled() {
		return nil, ErrPinningDisabled
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	// Canonical form so the same document always pins to the same CID
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize metadata: %w", err)
	}

	body, err := json.Marshal(pinRequest{
		PinataContent: canonical,
		PinataOptions: pinOptions{CIDVersion: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pin request: %w", err)
	}

	url := fmt.Sprintf("%s/pinning/pinJSONToIPFS", c.cfg.APIURL)
	headers := map[string]string{
		"Authorization": "Bearer " + c.cfg.JWT,
	}

	respBody, err := c.httpClient.PostJSON(ctx, url, headers, body)
	if err != nil {
		return nil, fmt.Errorf("failed to pin metadata: %w", err)
	}

	var resp pinResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode pinata response: %w", err)
	}
	if resp.IpfsHash == "" {
		return nil, ErrMissingCID
	}

	logger.InfoCtx(ctx, "Metadata pinned", zap.String("provider", PROVIDER_NAME), zap.String("cid", resp.IpfsHash), zap.Int64("size", resp.PinSize))

	return &Pin{
		CID:        resp.IpfsHash,
		IPFSURI:    "ipfs://" + resp.IpfsHash,
		GatewayURL: metadata.GatewayURL(c.cfg.GatewayURL, resp.IpfsHash),
	}, nil
}
