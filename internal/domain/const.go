package domain

const (
	// Gateway constants
	DEFAULT_IPFS_GATEWAY = "https://gateway.pinata.cloud"

	// Blockchain constants
	MOONBASE_ALPHA_CHAIN = 1287
	MOONBASE_ALPHA_RPC   = "https://rpc.api.moonbase.moonbeam.network"

	// DEFAULT_COLLECTIBLE_TOKEN_URI is minted for legacy collectibles when no URI is supplied
	DEFAULT_COLLECTIBLE_TOKEN_URI = "https://example.com/metadata.json"
)
