package wallet

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/cellforge/tonwallet-go/address"
	"github.com/cellforge/tonwallet-go/tlb"
	"github.com/cellforge/tonwallet-go/tvm/cell"
)

const (
	MasterchainID int8 = -1
	BasechainID   int8 = 0
)

// DefaultWalletID is the base wallet id, the effective default is
// offset by the workchain so the same key gets distinct wallets per
// chain.
const DefaultWalletID = 698983191

var (
	ErrInvalidWorkchain = errors.New("invalid workchain id")
	ErrInvalidPubKey    = errors.New("public key should be 32 bytes")
	ErrInvalidSecretKey = errors.New("secret key should be 64 bytes")
	ErrNoMessages       = errors.New("at least one message is required")
	ErrTooManyMessages  = errors.New("max 4 messages can be sent at once")
	ErrNoProvider       = errors.New("no state provider is attached")
)

// Wallet is an immutable descriptor of a wallet contract. The address
// is derived from the embedded code and the initial data cell, so the
// same workchain, key and wallet id always describe the same contract.
type Wallet struct {
	workchain int8
	pubKey    ed25519.PublicKey
	walletID  uint32
	addr      *address.Address
	code      *cell.Cell
	data      *cell.Cell

	provider StateProvider
	signer   Signer
}

type config struct {
	walletID *uint32
	provider StateProvider
	signer   Signer
}

type Option func(*config)

// WithWalletID overrides the workchain-derived default wallet id.
func WithWalletID(id uint32) Option {
	return func(c *config) {
		c.walletID = &id
	}
}

// WithProvider attaches the chain gateway used by Balance, Seqno and Send.
func WithProvider(p StateProvider) Option {
	return func(c *config) {
		c.provider = p
	}
}

// WithSigner replaces the default in-process signer, for keys held
// outside the process.
func WithSigner(s Signer) Option {
	return func(c *config) {
		c.signer = s
	}
}

// Create validates the inputs, builds the initial data cell with
// seqno 0 and derives the contract address.
func Create(workchain int8, publicKey ed25519.PublicKey, opts ...Option) (*Wallet, error) {
	if workchain != MasterchainID && workchain != BasechainID {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkchain, workchain)
	}

	if len(publicKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidPubKey, len(publicKey))
	}

	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	walletID := uint32(int64(DefaultWalletID) + int64(workchain))
	if cfg.walletID != nil {
		walletID = *cfg.walletID
	}

	code, err := walletCodeCell()
	if err != nil {
		return nil, fmt.Errorf("failed to get embedded wallet code: %w", err)
	}

	data := BuildData(0, walletID, publicKey)

	state := &tlb.StateInit{Code: code, Data: data}
	addr, err := state.CalcAddress(workchain)
	if err != nil {
		return nil, fmt.Errorf("failed to derive address: %w", err)
	}

	return &Wallet{
		workchain: workchain,
		pubKey:    append(ed25519.PublicKey{}, publicKey...),
		walletID:  walletID,
		addr:      addr,
		code:      code,
		data:      data,
		provider:  cfg.provider,
		signer:    cfg.signer,
	}, nil
}

// BuildData packs wallet state into a data cell. Cells are immutable,
// advancing the seqno means building a fresh cell.
func BuildData(seqno, walletID uint32, publicKey ed25519.PublicKey) *cell.Cell {
	return cell.BeginCell().
		MustStoreUInt(uint64(seqno), 32).
		MustStoreUInt(uint64(walletID), 32).
		MustStoreSlice(publicKey, 256).
		MustStoreBoolBit(false). // empty plugins dict
		EndCell()
}

func (w *Wallet) Address() *address.Address {
	return w.addr
}

func (w *Wallet) Workchain() int8 {
	return w.workchain
}

func (w *Wallet) PublicKey() ed25519.PublicKey {
	return w.pubKey
}

func (w *Wallet) WalletID() uint32 {
	return w.walletID
}

func (w *Wallet) Code() *cell.Cell {
	return w.code
}

func (w *Wallet) Data() *cell.Cell {
	return w.data
}

func (w *Wallet) StateInit() *tlb.StateInit {
	return &tlb.StateInit{Code: w.code, Data: w.data}
}
