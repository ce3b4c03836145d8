// Package ethtest serves a fake Ethereum node over an in-process RPC
// connection for tests that read pair storage.
package ethtest

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// ErrUnavailable is returned by a Node whose Down flag is set.
var ErrUnavailable = errors.New("node unavailable")

// Node answers eth_blockNumber and eth_getStorageAt from memory.
type Node struct {
	mu          sync.Mutex
	blockNumber uint64
	down        bool
	// storage[address][positionHash] = 32-byte value
	storage map[common.Address]map[common.Hash][]byte
}

func NewNode(blockNumber uint64) *Node {
	return &Node{
		blockNumber: blockNumber,
		storage:     make(map[common.Address]map[common.Hash][]byte),
	}
}

// SetDown makes every later call fail with ErrUnavailable.
func (n *Node) SetDown(down bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.down = down
}

func (n *Node) BlockNumber(ctx context.Context) (hexutil.Uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.down {
		return 0, ErrUnavailable
	}
	return hexutil.Uint64(n.blockNumber), nil
}

func (n *Node) GetStorageAt(ctx context.Context, addr common.Address, position common.Hash, _ gethrpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.down {
		return nil, ErrUnavailable
	}
	if m, ok := n.storage[addr]; ok {
		if v, ok := m[position]; ok {
			return hexutil.Bytes(v), nil
		}
	}
	return hexutil.Bytes(make([]byte, 32)), nil
}

// SetStorage stores a raw 32-byte word at slot of addr.
func (n *Node) SetStorage(addr common.Address, slot uint64, word []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	m, ok := n.storage[addr]
	if !ok {
		m = make(map[common.Hash][]byte)
		n.storage[addr] = m
	}
	m[common.BigToHash(new(big.Int).SetUint64(slot))] = word
}

// SetPair lays out a Uniswap V2 pair at pool.
func (n *Node) SetPair(pool, token0, token1 common.Address, reserve0, reserve1 *big.Int) {
	n.SetStorage(pool, 6, AddressWord(token0))
	n.SetStorage(pool, 7, AddressWord(token1))
	n.SetStorage(pool, 8, PackReserves(reserve0, reserve1, 0))
}

// Client registers n under the eth namespace and returns a client bound to it.
func (n *Node) Client(t testing.TB) *ethclient.Client {
	t.Helper()
	srv := gethrpc.NewServer()
	if err := srv.RegisterName("eth", n); err != nil {
		t.Fatalf("register rpc service: %v", err)
	}
	c := gethrpc.DialInProc(srv)
	t.Cleanup(func() {
		c.Close()
		srv.Stop()
	})
	return ethclient.NewClient(c)
}

func Word(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) > 32 {
		panic("value does not fit in 32 bytes")
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// PackReserves builds the reserve slot word: timestamp | reserve1 | reserve0.
func PackReserves(reserve0, reserve1 *big.Int, ts uint32) []byte {
	v := new(big.Int).SetUint64(uint64(ts))
	v.Lsh(v, 112)
	v.Or(v, reserve1)
	v.Lsh(v, 112)
	v.Or(v, reserve0)
	return Word(v)
}

// AddressWord right-aligns addr in 32 bytes, as it is read from storage.
func AddressWord(addr common.Address) []byte {
	out := make([]byte, 32)
	copy(out[12:], addr.Bytes())
	return out
}
