package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	baseabi "github.com/x-xyz/auctionhouse/base/abi"
	bCtx "github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/auction"
	"github.com/x-xyz/auctionhouse/service/chain"
)

// Transactor submits a state changing call from the escrow account.
type Transactor interface {
	Transact(ctx bCtx.Ctx, to common.Address, value *big.Int, data []byte) (bool, error)
}

// Erc721Registry reads through eth_call and writes through the escrow wallet.
type Erc721Registry struct {
	client     chain.Client
	transactor Transactor
	address    common.Address
}

func NewErc721Registry(client chain.Client, transactor Transactor, address domain.Address) *Erc721Registry {
	return &Erc721Registry{
		client:     client,
		transactor: transactor,
		address:    address.ToCommon(),
	}
}

// GetOwner returns the empty address for tokens that were never minted.
func (e *Erc721Registry) GetOwner(ctx bCtx.Ctx, assetId uint64) (domain.Address, error) {
	unpacked, err := e.client.Call(ctx, e.address, nil, baseabi.ERC721ABI, "ownerOf", new(big.Int).SetUint64(assetId))
	if chain.IsRevert(err) {
		return domain.EmptyAddress, nil
	} else if err != nil {
		return domain.EmptyAddress, err
	}
	return domain.ToAddress(unpacked[0].(common.Address)), nil
}

func (e *Erc721Registry) IsApprovedForAll(ctx bCtx.Ctx, owner, operator domain.Address) (bool, error) {
	unpacked, err := e.client.Call(ctx, e.address, nil, baseabi.ERC721ABI, "isApprovedForAll", owner.ToCommon(), operator.ToCommon())
	if chain.IsRevert(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *Erc721Registry) TransferFrom(ctx bCtx.Ctx, from, to domain.Address, assetId uint64) (bool, error) {
	return e.transact(ctx, "transferFrom", from, to, assetId)
}

func (e *Erc721Registry) SafeTransferFrom(ctx bCtx.Ctx, from, to domain.Address, assetId uint64) (bool, error) {
	return e.transact(ctx, "safeTransferFrom", from, to, assetId)
}

func (e *Erc721Registry) transact(ctx bCtx.Ctx, method string, from, to domain.Address, assetId uint64) (bool, error) {
	data, err := baseabi.ERC721ABI.Pack(method, from.ToCommon(), to.ToCommon(), new(big.Int).SetUint64(assetId))
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "method": method}).Error("abi.Pack failed")
		return false, err
	}
	return e.transactor.Transact(ctx, e.address, big.NewInt(0), data)
}

type erc721Provider struct {
	client     chain.Client
	transactor Transactor
}

// NewErc721Provider serves a live registry for every asset contract.
func NewErc721Provider(client chain.Client, transactor Transactor) auction.RegistryProvider {
	return &erc721Provider{
		client:     client,
		transactor: transactor,
	}
}

func (p *erc721Provider) Registry(ctx bCtx.Ctx, contract domain.Address) (auction.AssetRegistry, error) {
	if contract.IsEmpty() || contract.IsZero() {
		return nil, domain.ErrInvalidAddress
	}
	return NewErc721Registry(p.client, p.transactor, contract), nil
}
