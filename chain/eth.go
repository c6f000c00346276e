package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/config"
	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/models"
	"github.com/moonrake/cashier-go/utils"
)

const ethTransferGasLimit = 21000

// ETHBroadcaster signs a dynamic-fee transfer with the hot-wallet key and
// submits it over JSON-RPC.
type ETHBroadcaster struct {
	rpc     string
	chainID *big.Int
	codec   *AddressCodec
	log     *zap.Logger
}

func NewETHBroadcaster(cfg *config.Config, codec *AddressCodec, log *zap.Logger) *ETHBroadcaster {
	var chainID *big.Int
	if cfg.ETH.ChainID != 0 {
		chainID = big.NewInt(cfg.ETH.ChainID)
	}
	return &ETHBroadcaster{
		rpc:     cfg.ETH.RPC,
		chainID: chainID,
		codec:   codec,
		log:     log,
	}
}

func (e *ETHBroadcaster) Currency() models.Currency {
	return models.ETH
}

func (e *ETHBroadcaster) Broadcast(ctx context.Context, withdrawal *models.Withdrawal) (string, error) {
	client, err := ethclient.DialContext(ctx, e.rpc)
	if err != nil {
		return "", errors.NewFailedDependencyError(err.Error())
	}
	defer client.Close()

	chainID := e.chainID
	if chainID == nil {
		chainID, err = client.NetworkID(ctx)
		if err != nil {
			return "", errors.NewFailedDependencyError(err.Error())
		}
	}

	key, err := e.codec.hotWalletKey(models.ETH)
	if err != nil {
		return "", err
	}
	ecPriv, err := key.ECPrivKey()
	if err != nil {
		return "", err
	}
	priv, err := crypto.ToECDSA(ecPriv.Serialize())
	if err != nil {
		return "", err
	}

	fromAddr := crypto.PubkeyToAddress(priv.PublicKey)
	nonce, err := client.PendingNonceAt(ctx, fromAddr)
	if err != nil {
		return "", errors.NewFailedDependencyError(err.Error())
	}

	tip, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return "", errors.NewFailedDependencyError(err.Error())
	}
	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return "", errors.NewFailedDependencyError(err.Error())
	}
	// double the base fee leaves headroom for the next few blocks
	feeCap := new(big.Int).Add(new(big.Int).Mul(header.BaseFee, big.NewInt(2)), tip)

	toAddr := common.HexToAddress(withdrawal.DestinationAddress)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       ethTransferGasLimit,
		To:        &toAddr,
		Value:     utils.ToWei(withdrawal.Amount),
	})

	signedTx, err := types.SignTx(tx, types.NewLondonSigner(chainID), priv)
	if err != nil {
		return "", err
	}

	if err := client.SendTransaction(ctx, signedTx); err != nil {
		return "", errors.NewFailedDependencyError(err.Error())
	}

	e.log.Info("broadcasted ETH withdrawal",
		zap.String("withdrawal_id", withdrawal.ID),
		zap.String("tx_hash", signedTx.Hash().Hex()),
	)
	return signedTx.Hash().Hex(), nil
}
