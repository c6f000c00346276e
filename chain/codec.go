package chain

import (
	"hash/fnv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	bip39 "github.com/tyler-smith/go-bip39"

	"github.com/moonrake/cashier-go/config"
	"github.com/moonrake/cashier-go/models"
)

// coin type constants from SLIP-44, used as the second path level.
const (
	btcCoinType uint32 = 0
	ethCoinType uint32 = 60
)

// AddressCodec derives per-user deposit addresses from the service HD seed
// and validates destination address formats. Derivation is deterministic:
// the same (user, currency, index) always maps to the same path, so a
// user's deposit address survives restarts without being stored.
type AddressCodec struct {
	master *hdkeychain.ExtendedKey
	params *chaincfg.Params
}

func NewAddressCodec(cfg *config.Config) (*AddressCodec, error) {
	params := &chaincfg.TestNet3Params
	if cfg.Wallet.MainNet {
		params = &chaincfg.MainNetParams
	}

	seed := bip39.NewSeed(cfg.Wallet.Mnemonic, cfg.Wallet.Passphrase)
	master, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, err
	}

	return &AddressCodec{master: master, params: params}, nil
}

// DeriveAddress returns the deposit address at the given index for a user
// and currency. BTC addresses are legacy P2PKH for the configured network;
// ETH addresses are EIP-55 hex.
func (c *AddressCodec) DeriveAddress(userID string, currency models.Currency, index uint32) (string, error) {
	key, err := c.deriveKey(userID, currency, index)
	if err != nil {
		return "", err
	}

	switch currency {
	case models.BTC:
		addr, err := key.Address(c.params)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil
	case models.ETH:
		priv, err := key.ECPrivKey()
		if err != nil {
			return "", err
		}
		ecdsaKey, err := crypto.ToECDSA(priv.Serialize())
		if err != nil {
			return "", err
		}
		return crypto.PubkeyToAddress(ecdsaKey.PublicKey).Hex(), nil
	default:
		panic("unreachable")
	}
}

// ValidateAddress is format-only: prefix, charset, length and checksum where
// the encoding carries one. It says nothing about the address being live or
// funded.
func (c *AddressCodec) ValidateAddress(address string, currency models.Currency) bool {
	switch currency {
	case models.BTC:
		addr, err := btcutil.DecodeAddress(address, c.params)
		if err != nil {
			return false
		}
		return addr.IsForNet(c.params)
	case models.ETH:
		return strings.HasPrefix(address, "0x") && common.IsHexAddress(address)
	default:
		panic("unreachable")
	}
}

// deriveKey walks purpose'/coin'/account'/0/index below the master key.
// The account level is a hardened index hashed from the user id, which pins
// each user to their own subtree without a lookup table.
func (c *AddressCodec) deriveKey(userID string, currency models.Currency, index uint32) (*hdkeychain.ExtendedKey, error) {
	var coin uint32
	switch currency {
	case models.BTC:
		coin = btcCoinType
	case models.ETH:
		coin = ethCoinType
	default:
		panic("unreachable")
	}

	indices := []uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + coin,
		hdkeychain.HardenedKeyStart + accountIndex(userID),
		0,
		index,
	}

	key := c.master
	var err error
	for _, idx := range indices {
		key, err = key.Derive(idx)
		if err != nil {
			return nil, err
		}
	}
	return key, nil
}

// hotWalletKey is the spend key payouts are signed with, one per currency at
// index 0 of the service's own subtree.
func (c *AddressCodec) hotWalletKey(currency models.Currency) (*hdkeychain.ExtendedKey, error) {
	return c.deriveKey("hot-wallet", currency, 0)
}

func accountIndex(userID string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return h.Sum32() % hdkeychain.HardenedKeyStart
}
