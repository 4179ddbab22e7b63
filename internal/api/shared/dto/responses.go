package dto

// HealthResponse is the body of GET /health
type HealthResponse struct {
	OK bool `json:"ok"`
}

// ClaimResponse is the body of a successful claim.
// Exactly one of TxHash and AlreadyOwned is set.
type ClaimResponse struct {
	Success      bool   `json:"success"`
	TxHash       string `json:"txHash,omitempty"`
	AlreadyOwned bool   `json:"alreadyOwned,omitempty"`
}

// ClaimDevResponse is the body of a successful legacy collectible mint
type ClaimDevResponse struct {
	Success  bool   `json:"success"`
	TxHash   string `json:"txHash"`
	TokenID  string `json:"tokenId"`
	To       string `json:"to"`
	ArtID    string `json:"artId"`
	TokenURI string `json:"tokenURI"`
}

// EditionItem is one owned edition
type EditionItem struct {
	ID       string                 `json:"id"`
	URI      string                 `json:"uri,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// EditionsResponse is the body of GET /editions
type EditionsResponse struct {
	Items       []EditionItem `json:"items"`
	Contract    string        `json:"contract"`
	IncludeMeta bool          `json:"includeMeta"`
}

// SetEditionURIResponse is the body of a successful URI update.
// URI is the value read back from the contract after confirmation.
type SetEditionURIResponse struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash"`
	ID      uint64 `json:"id"`
	URI     string `json:"uri"`
}

// PinMetadataResponse is the body of a successful metadata pin
type PinMetadataResponse struct {
	Success    bool   `json:"success"`
	CID        string `json:"cid"`
	IPFSURI    string `json:"ipfsUri"`
	GatewayURL string `json:"gatewayUrl"`
}
