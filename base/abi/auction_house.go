package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// AuctionHouseABI describes the calls users send to the escrow address. The
// auctioneer decodes transaction input with it.
var AuctionHouseABI abi.ABI

func init() {
	_abi, err := abi.JSON(strings.NewReader(auctionHouseABIJson))
	if err != nil {
		panic("Failed to parse ABI")
	}
	AuctionHouseABI = _abi
}

var auctionHouseABIJson = `
[
  {
    "inputs": [
      { "internalType": "address", "name": "assetContract", "type": "address" },
      { "internalType": "uint64", "name": "assetId", "type": "uint64" },
      { "internalType": "uint64", "name": "startingPrice", "type": "uint64" },
      { "internalType": "uint64", "name": "duration", "type": "uint64" }
    ],
    "name": "auction",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      { "internalType": "address", "name": "assetContract", "type": "address" },
      { "internalType": "uint64", "name": "assetId", "type": "uint64" }
    ],
    "name": "bid",
    "outputs": [],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "refund",
    "outputs": [
      { "internalType": "bool", "name": "", "type": "bool" }
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      { "internalType": "address", "name": "assetContract", "type": "address" },
      { "internalType": "uint64", "name": "assetId", "type": "uint64" }
    ],
    "name": "auctionEnd",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]
`
