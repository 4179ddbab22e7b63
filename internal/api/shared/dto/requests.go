package dto

import "github.com/corduroy/collector/internal/providers/pinata"

// ClaimRequest is the body of POST /claim.
// Name, description and image are validated for client compatibility and otherwise unused.
type ClaimRequest struct {
	To          string  `json:"to" binding:"required,eth_checksum"`
	PIN         *string `json:"pin" binding:"omitempty,min=1,max=100"`
	ArtID       *string `json:"artId" binding:"omitempty,min=1,max=20"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Image       *string `json:"image" binding:"omitempty,url,max=500"`
}

// ClaimDevRequest is the body of POST /claim-dev
type ClaimDevRequest struct {
	To       string  `json:"to" binding:"required,eth_addr"`
	ArtID    string  `json:"artId" binding:"required,min=1"`
	TokenURI *string `json:"tokenURI" binding:"omitempty,url"`
}

// EditionsQuery is the query string of GET /editions
type EditionsQuery struct {
	Wallet    string  `form:"wallet" binding:"required,eth_checksum"`
	FromBlock *string `form:"fromBlock"`
	Meta      *string `form:"meta"`
}

// IncludeMeta reports whether metadata should be dereferenced, anything but "0" means yes
func (q EditionsQuery) IncludeMeta() bool {
	return q.Meta == nil || *q.Meta != "0"
}

// SetEditionURIRequest is the body of POST /admin/edition.
// ID is a pointer so that edition 0 passes the required check; non-integer ids fail decoding.
type SetEditionURIRequest struct {
	ID  *uint64 `json:"id" binding:"required"`
	URI string  `json:"uri" binding:"required,min=1"`
}

// PinMetadataRequest is the body of POST /admin/metadata
type PinMetadataRequest struct {
	Name        string             `json:"name" binding:"required,min=1,max=200"`
	Description string             `json:"description" binding:"max=2000"`
	Image       string             `json:"image" binding:"omitempty,max=500"`
	Attributes  []pinata.Attribute `json:"attributes" binding:"omitempty,max=50"`
}
