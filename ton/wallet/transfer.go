package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/cellforge/tonwallet-go/address"
	"github.com/cellforge/tonwallet-go/tlb"
	"github.com/cellforge/tonwallet-go/tvm/cell"
)

const (
	CarryAllRemainingBalance       = 128
	CarryAllRemainingIncomingValue = 64
	DestroyAccountIfZero           = 32
	IgnoreErrors                   = 2
	PayGasSeparately               = 1
)

// DefaultMessagesTTL bounds how long an unconfirmed transfer stays valid.
const DefaultMessagesTTL = 3 * time.Minute

// mockable for tests
var timeNow = time.Now

type Message struct {
	Mode            uint8
	InternalMessage *tlb.InternalMessage
}

// Signer produces a 64-byte ed25519 signature of the payload cell.
// It is the seam for external key holders, the transfer builder never
// sees the signing algorithm.
type Signer func(ctx context.Context, payload *cell.Cell) ([]byte, error)

// CellSigner signs in-process with the given key.
func CellSigner(key ed25519.PrivateKey) Signer {
	return func(ctx context.Context, payload *cell.Cell) ([]byte, error) {
		if payload == nil {
			return nil, fmt.Errorf("cannot sign: cell is nil")
		}
		return payload.Sign(key), nil
	}
}

type TransferArgs struct {
	Seqno     uint32
	WalletID  uint32 // 0 means the wallet's own id
	SecretKey ed25519.PrivateKey
	Messages  []*Message
	Timeout   time.Duration // 0 means DefaultMessagesTTL
}

// CreateTransfer validates the arguments and hands construction and
// signing over to the wallet's signer. The returned cell is the signed
// transfer body, ready to be wrapped into an external message.
func (w *Wallet) CreateTransfer(ctx context.Context, args TransferArgs) (*cell.Cell, error) {
	if len(args.SecretKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSecretKey, len(args.SecretKey))
	}

	if len(args.Messages) == 0 {
		return nil, ErrNoMessages
	}

	if len(args.Messages) > 4 {
		return nil, fmt.Errorf("%w, got %d", ErrTooManyMessages, len(args.Messages))
	}

	if args.WalletID == 0 {
		args.WalletID = w.walletID
	}

	signer := w.signer
	if signer == nil {
		signer = CellSigner(args.SecretKey)
	}

	return CreateWalletTransfer(ctx, signer, args)
}

// CreateWalletTransfer builds the transfer body, wallet id, expiry and
// seqno followed by up to four mode+message pairs, and prepends the
// signature produced by the signer.
func CreateWalletTransfer(ctx context.Context, signer Signer, args TransferArgs) (*cell.Cell, error) {
	ttl := args.Timeout
	if ttl <= 0 {
		ttl = DefaultMessagesTTL
	}

	payload := cell.BeginCell().
		MustStoreUInt(uint64(args.WalletID), 32).
		MustStoreUInt(uint64(timeNow().Add(ttl).UTC().Unix()), 32).
		MustStoreUInt(uint64(args.Seqno), 32)

	for i, message := range args.Messages {
		if message == nil || message.InternalMessage == nil {
			return nil, fmt.Errorf("message %d is empty", i)
		}

		intMsg, err := message.InternalMessage.ToCell()
		if err != nil {
			return nil, fmt.Errorf("failed to convert internal message %d to cell: %w", i, err)
		}

		payload.MustStoreUInt(uint64(message.Mode), 8).MustStoreRef(intMsg)
	}

	sign, err := signer(ctx, payload.EndCell())
	if err != nil {
		return nil, fmt.Errorf("failed to sign transfer: %w", err)
	}
	if len(sign) != ed25519.SignatureSize {
		return nil, fmt.Errorf("signer returned %d bytes, want %d", len(sign), ed25519.SignatureSize)
	}

	return cell.BeginCell().MustStoreSlice(sign, 512).MustStoreBuilder(payload).EndCell(), nil
}

// BuildTransfer prepares a single value transfer, with an optional
// text comment, for CreateTransfer or Send.
func (w *Wallet) BuildTransfer(to *address.Address, amount uint64, bounce bool, comment string) (*Message, error) {
	var body *cell.Cell
	if comment != "" {
		var err error
		body, err = CreateCommentCell(comment)
		if err != nil {
			return nil, err
		}
	}

	return &Message{
		Mode: PayGasSeparately + IgnoreErrors,
		InternalMessage: &tlb.InternalMessage{
			IHRDisabled: true,
			Bounce:      bounce,
			DstAddr:     to,
			Amount:      amount,
			Body:        body,
		},
	}, nil
}

func CreateCommentCell(text string) (*cell.Cell, error) {
	// comment ident
	root := cell.BeginCell().MustStoreUInt(0, 32)

	if err := root.StoreStringSnake(text); err != nil {
		return nil, fmt.Errorf("failed to build comment: %w", err)
	}

	return root.EndCell(), nil
}
