package chain

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/config"
	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/models"
	"github.com/moonrake/cashier-go/utils"
)

// BTCBroadcaster hands payouts to a BlockCypher-style push endpoint. The
// endpoint is the custody side of the house: it selects inputs from the hot
// wallet's UTXO set, co-signs and relays. This service only shapes the
// payment output.
type BTCBroadcaster struct {
	pushURL string
	params  *chaincfg.Params
	client  *http.Client
	log     *zap.Logger
}

func NewBTCBroadcaster(cfg *config.Config, log *zap.Logger) *BTCBroadcaster {
	params := &chaincfg.TestNet3Params
	if cfg.Wallet.MainNet {
		params = &chaincfg.MainNetParams
	}
	return &BTCBroadcaster{
		pushURL: cfg.BTC.PushURL,
		params:  params,
		client:  http.DefaultClient,
		log:     log,
	}
}

func (b *BTCBroadcaster) Currency() models.Currency {
	return models.BTC
}

func (b *BTCBroadcaster) Broadcast(ctx context.Context, withdrawal *models.Withdrawal) (string, error) {
	addr, err := btcutil.DecodeAddress(withdrawal.DestinationAddress, b.params)
	if err != nil {
		return "", errors.NewValidationError(fmt.Sprintf("invalid BTC address format: %s", withdrawal.DestinationAddress))
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return "", err
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(utils.ToSatoshis(withdrawal.Amount), script))

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", err
	}

	body, err := json.Marshal(map[string]string{"tx": hex.EncodeToString(buf.Bytes())})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.pushURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := b.client.Do(req)
	if err != nil {
		return "", errors.NewFailedDependencyError(err.Error())
	}
	defer res.Body.Close()

	var result struct {
		Tx struct {
			Hash string `json:"hash"`
		} `json:"tx"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return "", errors.NewFailedDependencyError(err.Error())
	}
	if res.StatusCode >= 300 || result.Tx.Hash == "" {
		if result.Error == "" {
			result.Error = fmt.Sprintf("push service returned status %d", res.StatusCode)
		}
		return "", errors.NewFailedDependencyError(result.Error)
	}

	b.log.Info("broadcasted BTC withdrawal",
		zap.String("withdrawal_id", withdrawal.ID),
		zap.String("tx_hash", result.Tx.Hash),
	)
	return result.Tx.Hash, nil
}
