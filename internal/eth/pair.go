package eth

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/nulln0ne/amm-estimator/pkg/u128"
)

// Storage layout of UniswapV2Pair:
//
//	slot 6: address token0
//	slot 7: address token1
//	slot 8: uint112 reserve0 | uint112 reserve1 | uint32 blockTimestampLast
const (
	slotToken0   = 6
	slotToken1   = 7
	slotReserves = 8
)

// Pair is a snapshot of a Uniswap V2 pair at one block.
type Pair struct {
	Address  common.Address
	Block    uint64
	Token0   common.Address
	Token1   common.Address
	Reserve0 u128.Uint128
	Reserve1 u128.Uint128
}

// PairReader loads pair snapshots by reading contract storage directly,
// which needs no ABI and costs one round trip per slot.
type PairReader struct {
	client *ethclient.Client
}

func NewPairReader(client *ethclient.Client) *PairReader {
	return &PairReader{client: client}
}

// ReadPair reads tokens and reserves of pool at the latest block.
func (r *PairReader) ReadPair(ctx context.Context, pool common.Address) (*Pair, error) {
	bn, err := r.client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("block number: %w", err)
	}
	blockNum := new(big.Int).SetUint64(bn)

	b0, err := r.readSlot(ctx, pool, blockNum, slotToken0)
	if err != nil {
		return nil, err
	}
	b1, err := r.readSlot(ctx, pool, blockNum, slotToken1)
	if err != nil {
		return nil, err
	}
	br, err := r.readSlot(ctx, pool, blockNum, slotReserves)
	if err != nil {
		return nil, err
	}
	reserve0, reserve1, err := parseReserves(br)
	if err != nil {
		return nil, fmt.Errorf("reserves of pool %s: %w", pool.Hex(), err)
	}

	return &Pair{
		Address:  pool,
		Block:    bn,
		Token0:   common.BytesToAddress(b0),
		Token1:   common.BytesToAddress(b1),
		Reserve0: reserve0,
		Reserve1: reserve1,
	}, nil
}

func (r *PairReader) readSlot(ctx context.Context, pool common.Address, blockNum *big.Int, slot uint64) ([]byte, error) {
	key := common.BigToHash(new(big.Int).SetUint64(slot))
	b, err := r.client.StorageAt(ctx, pool, key, blockNum)
	if err != nil {
		return nil, fmt.Errorf("storageAt slot %d (pool %s, block %s): %w",
			slot, pool.Hex(), blockNum.String(), err)
	}
	return b, nil
}

var mask112 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1))

// parseReserves unpacks two uint112 reserves from the 32-byte storage word:
//
//	[ 32 bits timestamp | 112 bits reserve1 | 112 bits reserve0 ]
//
// Values are big-endian within the 256-bit word.
func parseReserves(b []byte) (reserve0, reserve1 u128.Uint128, err error) {
	v := new(big.Int).SetBytes(b)

	reserve0, err = u128.FromBig(new(big.Int).And(v, mask112))
	if err != nil {
		return u128.Zero, u128.Zero, err
	}
	reserve1, err = u128.FromBig(new(big.Int).And(new(big.Int).Rsh(v, 112), mask112))
	if err != nil {
		return u128.Zero, u128.Zero, err
	}
	return reserve0, reserve1, nil
}
