package ethereum

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

var (
	ErrNotUnitMultiple = errors.New("value is not a multiple of the unit")
	ErrUnitOverflow    = errors.New("value overflows uint64 units")

	// Gwei is the default engine unit.
	Gwei = big.NewInt(1e9)
	// Ether in wei
	Ether = big.NewInt(1e18)
)

func GenerateKey() (*ecdsa.PrivateKey, common.Address, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, common.Address{}, err
	}
	return privateKey, crypto.PubkeyToAddress(privateKey.PublicKey), nil
}

// ToWei converts an amount of engine units into wei.
func ToWei(amount uint64, unitWei *big.Int) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(amount), unitWei)
}

// FromWei converts wei into engine units. wei must be an exact multiple of
// unitWei and the result must fit into uint64.
func FromWei(wei *big.Int, unitWei *big.Int) (uint64, error) {
	q, r := new(big.Int).QuoRem(wei, unitWei, new(big.Int))
	if r.Sign() != 0 {
		return 0, ErrNotUnitMultiple
	}
	if !q.IsUint64() {
		return 0, ErrUnitOverflow
	}
	return q.Uint64(), nil
}

// ToEther renders engine units as a decimal amount of ether.
func ToEther(amount uint64, unitWei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(ToWei(amount, unitWei), 0).Div(decimal.NewFromBigInt(Ether, 0))
}
