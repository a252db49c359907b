package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

const testKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

type fakeBackend struct {
	nonce       uint64
	estimateErr error
	sendErr     error
	status      uint64
	sent        []*types.Transaction
}

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return nil, nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	for _, tx := range f.sent {
		if tx.Hash() == hash {
			return &types.Receipt{TxHash: hash, Status: f.status}, nil
		}
	}
	return nil, ethereum.NotFound
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 21000, f.estimateErr
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	f.nonce++
	return nil
}

type WalletTestSuite struct {
	suite.Suite

	ctx     bCtx.Ctx
	backend *fakeBackend
	wallet  *Wallet
}

func TestWalletTestSuite(t *testing.T) {
	suite.Run(t, new(WalletTestSuite))
}

func (s *WalletTestSuite) SetupTest() {
	s.ctx = bCtx.Background()
	s.backend = &fakeBackend{status: types.ReceiptStatusSuccessful}
	wallet, err := NewWallet(&WalletCfg{PrivateKey: testKey, ChainId: 1337}, s.backend)
	s.Require().NoError(err)
	s.wallet = wallet
}

func (s *WalletTestSuite) TestAddress() {
	key, err := crypto.HexToECDSA(testKey)
	s.Require().NoError(err)
	s.Equal(domain.ToAddress(crypto.PubkeyToAddress(key.PublicKey)), s.wallet.Address())
}

func (s *WalletTestSuite) TestInvalidKey() {
	_, err := NewWallet(&WalletCfg{PrivateKey: "not-hex"}, s.backend)
	s.Error(err)
}

func (s *WalletTestSuite) TestSend() {
	to := domain.Address("0x94ead797046c7b654cab82c1c27ad223b6501f1f")
	ok, err := s.wallet.Send(s.ctx, to, 3)
	s.NoError(err)
	s.True(ok)

	s.Require().Len(s.backend.sent, 1)
	tx := s.backend.sent[0]
	s.Equal(to.ToCommon(), *tx.To())
	s.Equal(big.NewInt(3_000_000_000), tx.Value())
	s.Equal(uint64(0), tx.Nonce())

	signer := types.LatestSignerForChainID(big.NewInt(1337))
	from, err := types.Sender(signer, tx)
	s.NoError(err)
	s.Equal(s.wallet.Address(), domain.ToAddress(from))

	_, err = s.wallet.Send(s.ctx, to, 1)
	s.NoError(err)
	s.Equal(uint64(1), s.backend.sent[1].Nonce())
}

func (s *WalletTestSuite) TestPredictedRevert() {
	s.backend.estimateErr = errors.New("execution reverted")
	ok, err := s.wallet.Send(s.ctx, domain.EmptyAddress, 1)
	s.NoError(err)
	s.False(ok)
	s.Empty(s.backend.sent)
}

func (s *WalletTestSuite) TestMinedRevert() {
	s.backend.status = types.ReceiptStatusFailed
	ok, err := s.wallet.Send(s.ctx, domain.EmptyAddress, 1)
	s.NoError(err)
	s.False(ok)
}

func (s *WalletTestSuite) TestRpcFailure() {
	s.backend.sendErr = errors.New("connection refused")
	ok, err := s.wallet.Send(s.ctx, domain.EmptyAddress, 1)
	s.Error(err)
	s.False(ok)
}
