package mongoclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMakeBsonM(t *testing.T) {
	type auctionSelector struct {
		Contract string  `bson:"contract"`
		AssetId  uint64  `bson:"assetId"`
		Seller   *string `bson:"seller,omitempty"`
		Ended    *bool   `bson:"ended,omitempty"`
		skipped  string
	}

	ended := false
	seller := "0xabc"
	updater, err := MakeBsonM(&auctionSelector{
		Contract: "0x1",
		Seller:   &seller,
		Ended:    &ended,
		skipped:  "x",
	})

	assert.NoError(t, err)
	assert.Equal(
		t,
		bson.M{
			"contract": "0x1",
			// assetId is zero, so ignored
			"seller": "0xabc",
			"ended":  false,
		},
		updater,
	)
}
