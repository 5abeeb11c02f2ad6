// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/provenet/ledger/auth"
	"github.com/provenet/ledger/ledger"
)

// DevAccount account for development.
type DevAccount struct {
	Address    ledger.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for development networks.
// The first three act as auctioneer, verifier and treasury.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{auth.Address(&pk.PublicKey), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// DevnetDomain is the signing domain of the development network.
const DevnetDomain = "provenet-devnet"

// NewDevnet creates genesis for development.
func NewDevnet() *Genesis {
	accs := DevAccounts()
	bal, _ := uint256.FromDecimal("1000000000000000000000000")

	builder := new(Builder).
		Domain([]byte(DevnetDomain)).
		Authorities(accs[0].Address, accs[1].Address).
		Treasury(accs[2].Address, 200)
	for _, a := range accs[3:] {
		builder.Balance(a.Address, bal)
	}

	root, err := builder.ComputeRoot()
	if err != nil {
		panic(err)
	}
	return &Genesis{builder, root, "devnet"}
}
