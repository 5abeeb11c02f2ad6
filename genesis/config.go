// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/provenet/ledger/ledger"
)

// Config is user customized genesis.
type Config struct {
	Name            string         `json:"name" yaml:"name"`
	Domain          string         `json:"domain" yaml:"domain"`
	Auctioneer      ledger.Address `json:"auctioneer" yaml:"auctioneer"`
	Verifier        ledger.Address `json:"verifier" yaml:"verifier"`
	Treasury        ledger.Address `json:"treasury" yaml:"treasury"`
	ProtocolFeeBips uint64         `json:"protocolFeeBips" yaml:"protocolFeeBips"`
	OnchainTxID     uint64         `json:"onchainTxId" yaml:"onchainTxId"`
	Accounts        []Account      `json:"accounts" yaml:"accounts"`
	Provers         []Prover       `json:"provers" yaml:"provers"`
}

// Account is an account funded at genesis.
type Account struct {
	Address ledger.Address `json:"address" yaml:"address"`
	Balance *Amount        `json:"balance" yaml:"balance"`
}

// Prover is a prover registered at genesis.
type Prover struct {
	Vault         ledger.Address `json:"vault" yaml:"vault"`
	Owner         ledger.Address `json:"owner" yaml:"owner"`
	Signer        ledger.Address `json:"signer,omitempty" yaml:"signer,omitempty"`
	StakerFeeBips uint64         `json:"stakerFeeBips" yaml:"stakerFeeBips"`
}

// Amount is a 256-bit amount, given as hex or decimal.
type Amount uint256.Int

// Int returns the amount as uint256.
func (a *Amount) Int() *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return (*uint256.Int)(a)
}

func (a *Amount) parse(s string) error {
	bigint, ok := math.ParseBig256(s)
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", s)
	}
	v, overflow := uint256.FromBig(bigint)
	if overflow {
		return fmt.Errorf("integer %q overflows 256 bits", s)
	}
	*a = Amount(*v)
	return nil
}

// UnmarshalJSON accepts a JSON number or string.
func (a *Amount) UnmarshalJSON(input []byte) error {
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return a.parse(string(input))
	}
	return a.parse(s)
}

// MarshalJSON implements the json.Marshaler interface.
func (a Amount) MarshalJSON() ([]byte, error) {
	v := uint256.Int(a)
	return json.Marshal(v.Dec())
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	return a.parse(node.Value)
}

// LoadConfig reads a genesis config file. Files with a .yaml or .yml extension are
// decoded as YAML, others as JSON.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis config")
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode genesis config %v", path)
	}
	return &cfg, nil
}

// NewCustomNet creates genesis from config.
func NewCustomNet(cfg *Config) (*Genesis, error) {
	if cfg.Treasury.IsZero() {
		return nil, errors.New("treasury must be set")
	}
	if cfg.Auctioneer.IsZero() {
		return nil, errors.New("auctioneer must be set")
	}

	builder := new(Builder).
		Domain([]byte(cfg.Domain)).
		Authorities(cfg.Auctioneer, cfg.Verifier).
		Treasury(cfg.Treasury, cfg.ProtocolFeeBips).
		OnchainCursor(cfg.OnchainTxID)

	for _, a := range cfg.Accounts {
		if a.Balance == nil {
			return nil, fmt.Errorf("%v: balance must be set", a.Address)
		}
		builder.Balance(a.Address, a.Balance.Int())
	}
	for _, p := range cfg.Provers {
		builder.Prover(p.Vault, p.Owner, p.Signer, p.StakerFeeBips)
	}

	root, err := builder.ComputeRoot()
	if err != nil {
		return nil, err
	}
	name := cfg.Name
	if name == "" {
		name = "customnet"
	}
	return &Genesis{builder, root, name}, nil
}
