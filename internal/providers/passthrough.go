package providers

import "context"

// PassthroughName identifies the no-key client variant.
const PassthroughName = "passthrough"

// PassthroughClient is the VisionClient used when no API key is
// configured: it returns the user content unchanged and never calls
// out. The variant is chosen once at construction, so call sites never
// branch on configuration.
type PassthroughClient struct{}

// NewPassthroughClient creates a passthrough client.
func NewPassthroughClient() *PassthroughClient {
	return &PassthroughClient{}
}

// Name returns the client identifier.
func (c *PassthroughClient) Name() string {
	return PassthroughName
}

// Complete returns the user content unchanged.
func (c *PassthroughClient) Complete(_ context.Context, _, userContent string, _ [][]byte) (string, error) {
	return userContent, nil
}

var _ VisionClient = (*PassthroughClient)(nil)
