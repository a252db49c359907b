package simulated

import (
	"errors"
	"sync"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/auction"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	errRejected          = errors.New("rejected")
)

type SendHook func(c ctx.Ctx, to domain.Address, amount uint64) error

type TransferHook func(c ctx.Ctx, contract, from, to domain.Address, assetId uint64) error

type operatorKey struct {
	contract domain.Address
	owner    domain.Address
	operator domain.Address
}

type state struct {
	balances  map[domain.Address]uint64
	owners    map[auction.Id]domain.Address
	operators map[operatorKey]bool
}

func (s *state) clone() *state {
	res := &state{
		balances:  make(map[domain.Address]uint64, len(s.balances)),
		owners:    make(map[auction.Id]domain.Address, len(s.owners)),
		operators: make(map[operatorKey]bool, len(s.operators)),
	}
	for k, v := range s.balances {
		res.balances[k] = v
	}
	for k, v := range s.owners {
		res.owners[k] = v
	}
	for k, v := range s.operators {
		res.operators[k] = v
	}
	return res
}

// Chain is a deterministic in-memory host for the engine: ERC-721 style
// registries, native balances and a block height. Attach it to the store so
// that balances and ownership roll back with an aborted call.
type Chain struct {
	mu     sync.Mutex
	tx     domain.TxRunner
	engine domain.Address
	block  domain.BlockNumber
	st     *state

	failTransfers map[domain.Address]bool
	failSendTo    map[domain.Address]bool
	rejectReceive map[domain.Address]bool
	onSend        SendHook
	onTransfer    TransferHook
}

// New returns a chain at block where engine is the escrow account. tx is the
// store the chain is attached to; sends and transfers run in nested
// transactions of it so a rejecting recipient reverts its own callbacks.
func New(engine domain.Address, block domain.BlockNumber, tx domain.TxRunner) *Chain {
	return &Chain{
		tx:     tx,
		engine: engine.ToLower(),
		block:  block,
		st: &state{
			balances:  map[domain.Address]uint64{},
			owners:    map[auction.Id]domain.Address{},
			operators: map[operatorKey]bool{},
		},
		failTransfers: map[domain.Address]bool{},
		failSendTo:    map[domain.Address]bool{},
		rejectReceive: map[domain.Address]bool{},
	}
}

func (ch *Chain) Engine() domain.Address {
	return ch.engine
}

func (ch *Chain) Block() domain.BlockNumber {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.block
}

func (ch *Chain) SetBlock(block domain.BlockNumber) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.block = block
}

// Msg builds a call envelope for the current block.
func (ch *Chain) Msg(sender domain.Address, value uint64) auction.Msg {
	return auction.Msg{Sender: sender.ToLower(), Value: value, Block: ch.Block()}
}

func (ch *Chain) Fund(addr domain.Address, amount uint64) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.st.balances[addr.ToLower()] += amount
}

func (ch *Chain) Balance(addr domain.Address) uint64 {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.st.balances[addr.ToLower()]
}

func (ch *Chain) Mint(contract domain.Address, assetId uint64, owner domain.Address) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.st.owners[auction.Id{Contract: contract.ToLower(), AssetId: assetId}] = owner.ToLower()
}

func (ch *Chain) OwnerOf(contract domain.Address, assetId uint64) domain.Address {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	owner, ok := ch.st.owners[auction.Id{Contract: contract.ToLower(), AssetId: assetId}]
	if !ok {
		return domain.EmptyAddress
	}
	return owner
}

func (ch *Chain) SetApprovalForAll(contract, owner, operator domain.Address, approved bool) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.st.operators[operatorKey{contract.ToLower(), owner.ToLower(), operator.ToLower()}] = approved
}

// FailTransfers makes every transfer of contract's registry report failure.
func (ch *Chain) FailTransfers(contract domain.Address, fail bool) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.failTransfers[contract.ToLower()] = fail
}

// FailSendTo makes every currency send to addr report failure.
func (ch *Chain) FailSendTo(addr domain.Address, fail bool) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.failSendTo[addr.ToLower()] = fail
}

// RejectSafeReceive makes addr refuse assets delivered with SafeTransferFrom,
// like a contract without an onERC721Received handler.
func (ch *Chain) RejectSafeReceive(addr domain.Address, reject bool) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.rejectReceive[addr.ToLower()] = reject
}

// OnSend installs a hook run when currency arrives at its recipient. The
// hook may call back into the engine; an error rejects the send.
func (ch *Chain) OnSend(hook SendHook) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.onSend = hook
}

// OnTransfer installs a hook run after a registry transfer. The hook may
// call back into the engine; an error rejects the transfer.
func (ch *Chain) OnTransfer(hook TransferHook) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.onTransfer = hook
}

// Execute runs fn as a call from msg.Sender carrying msg.Value to the
// engine. The value moves inside the transaction so an aborted call returns
// it to the sender.
func (ch *Chain) Execute(c ctx.Ctx, msg auction.Msg, fn func(ctx.Ctx) error) error {
	return ch.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		if msg.Value > 0 {
			if !ch.move(msg.Sender, ch.engine, msg.Value) {
				return ErrInsufficientFunds
			}
		}
		return fn(c)
	})
}

func (ch *Chain) move(from, to domain.Address, amount uint64) bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	from, to = from.ToLower(), to.ToLower()
	if ch.st.balances[from] < amount {
		return false
	}
	ch.st.balances[from] -= amount
	ch.st.balances[to] += amount
	return true
}

// Send pays amount from the engine's balance.
func (ch *Chain) Send(c ctx.Ctx, to domain.Address, amount uint64) (bool, error) {
	to = to.ToLower()
	ch.mu.Lock()
	fail, hook := ch.failSendTo[to], ch.onSend
	ch.mu.Unlock()

	if fail {
		return false, nil
	}
	err := ch.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		if !ch.move(ch.engine, to, amount) {
			return errRejected
		}
		if hook != nil {
			return hook(c, to, amount)
		}
		return nil
	})
	if err != nil {
		c.WithFields(log.Fields{"err": err, "to": to, "amount": amount}).Warn("send rejected")
		return false, nil
	}
	return true, nil
}

func (ch *Chain) Registry(c ctx.Ctx, contract domain.Address) (auction.AssetRegistry, error) {
	return &registry{ch: ch, contract: contract.ToLower()}, nil
}

func (ch *Chain) Snapshot() interface{} {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.st.clone()
}

func (ch *Chain) Restore(snap interface{}) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.st = snap.(*state)
}
