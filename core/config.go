package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config lendpool node config
type Config struct {
	App        App              `json:"app"`
	DB         db.Config        `json:"db"`
	Oracle     Oracle           `json:"oracle"`
	Liquidator LiquidatorConfig `json:"liquidator"`
	Sync       SyncConfig       `json:"sync"`
	Admins     []string         `json:"admins"`
}

// App app config
type App struct {
	ChainID        int64  `json:"chain_id"`
	RouterID       string `json:"router_id"`
	ConfiguratorID string `json:"configurator_id"`
	Genesis        int64  `json:"genesis"`
	Location       string `json:"location"`
}

// Oracle price oracle config
type Oracle struct {
	EndPoint string `json:"end_point"`
}

// LiquidatorConfig external collateral manager config
type LiquidatorConfig struct {
	EndPoint string `json:"end_point"`
}

// SyncConfig cross-chain sync config
type SyncConfig struct {
	Signers   []SyncSigner `json:"signers"`
	Threshold int          `json:"threshold"`
}

// SyncSigner one registered sync signer, public key base64 encoded.
type SyncSigner struct {
	Index     uint64 `json:"index"`
	PublicKey string `json:"public_key"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}
