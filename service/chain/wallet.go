package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/auctionhouse/base/ctx"
	eth "github.com/x-xyz/auctionhouse/base/ethereum"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
)

// TxBackend is the part of ethclient.Client the wallet needs.
type TxBackend interface {
	bind.DeployBackend
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

type WalletCfg struct {
	PrivateKey   string
	ChainId      int64
	ValueUnitWei *big.Int
}

// Wallet signs and sends transactions from the escrow account. A transaction
// succeeds when it is mined with receipt status 1.
type Wallet struct {
	mu      sync.Mutex
	key     *ecdsa.PrivateKey
	address common.Address
	signer  types.Signer
	unit    *big.Int
	backend TxBackend
}

func NewWallet(cfg *WalletCfg, backend TxBackend) (*Wallet, error) {
	key, err := crypto.HexToECDSA(cfg.PrivateKey)
	if err != nil {
		return nil, xerrors.Errorf("invalid escrow key: %w", err)
	}
	unit := cfg.ValueUnitWei
	if unit == nil || unit.Sign() <= 0 {
		unit = eth.Gwei
	}
	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		signer:  types.LatestSignerForChainID(big.NewInt(cfg.ChainId)),
		unit:    unit,
		backend: backend,
	}, nil
}

func (w *Wallet) Address() domain.Address {
	return domain.ToAddress(w.address)
}

func (w *Wallet) Unit() *big.Int {
	return w.unit
}

// Send pays amount engine units to `to`.
func (w *Wallet) Send(ctx bCtx.Ctx, to domain.Address, amount uint64) (bool, error) {
	return w.Transact(ctx, to.ToCommon(), eth.ToWei(amount, w.unit), nil)
}

// Transact sends value and data to `to` and waits until it is mined. A call
// the node refuses to estimate, or a mined transaction with a failed status,
// returns false. Errors are reserved for rpc failures.
func (w *Wallet) Transact(ctx bCtx.Ctx, to common.Address, value *big.Int, data []byte) (bool, error) {
	ctx = bCtx.WithFields(ctx, log.Fields{"to": to.Hex(), "value": value})

	signed, err := w.sign(ctx, to, value, data)
	if err != nil {
		return false, err
	}
	if signed == nil {
		return false, nil
	}

	receipt, err := bind.WaitMined(ctx, w.backend, signed)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "tx": signed.Hash().Hex()}).Error("bind.WaitMined failed")
		return false, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		ctx.WithField("tx", signed.Hash().Hex()).Warn("transaction reverted")
		return false, nil
	}
	return true, nil
}

// sign builds, signs and submits the transaction. It returns nil when the
// node predicts a revert.
func (w *Wallet) sign(ctx bCtx.Ctx, to common.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	gas, err := w.backend.EstimateGas(ctx, ethereum.CallMsg{From: w.address, To: &to, Value: value, Data: data})
	if IsRevert(err) {
		ctx.WithField("err", err).Warn("transaction would revert")
		return nil, nil
	} else if err != nil {
		ctx.WithField("err", err).Error("backend.EstimateGas failed")
		return nil, err
	}
	nonce, err := w.backend.PendingNonceAt(ctx, w.address)
	if err != nil {
		ctx.WithField("err", err).Error("backend.PendingNonceAt failed")
		return nil, err
	}
	gasPrice, err := w.backend.SuggestGasPrice(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("backend.SuggestGasPrice failed")
		return nil, err
	}

	tx := types.NewTransaction(nonce, to, value, gas, gasPrice, data)
	signed, err := types.SignTx(tx, w.signer, w.key)
	if err != nil {
		ctx.WithField("err", err).Error("types.SignTx failed")
		return nil, err
	}
	if err := w.backend.SendTransaction(ctx, signed); err != nil {
		ctx.WithField("err", err).Error("backend.SendTransaction failed")
		return nil, err
	}
	return signed, nil
}
