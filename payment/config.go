package payment

import "errors"

const (
	snapProductionURL = "https://app.midtrans.com/snap/v1/transactions"
	snapSandboxURL    = "https://app.sandbox.midtrans.com/snap/v1/transactions"
)

var (
	ErrSnapMissingServerKey = errors.New("snap: missing server key")
	ErrSnapMissingClientKey = errors.New("snap: missing client key")
)

// SnapConfig configures the Snap payment gateway.
type SnapConfig struct {
	ServerKey string
	ClientKey string
	IsSandbox bool
}

func (c *SnapConfig) Validate() error {
	if c.ServerKey == "" {
		return ErrSnapMissingServerKey
	}
	if c.ClientKey == "" {
		return ErrSnapMissingClientKey
	}
	return nil
}

func (c *SnapConfig) endpoint() string {
	if c.IsSandbox {
		return snapSandboxURL
	}
	return snapProductionURL
}
