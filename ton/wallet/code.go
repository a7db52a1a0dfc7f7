package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/cellforge/tonwallet-go/tvm/cell"
)

// https://github.com/toncenter/tonweb/blob/master/src/contract/wallet/WalletSources.md#revision-2-2
const _WalletCodeHex = "B5EE9C724101010100710000DEFF0020DD2082014C97BA218201339CBAB19F71B0ED44D0D31FD31F31D70BFFE304E0A4F2608308D71820D31FD31FD31FF82313BBF263ED44D0D31FD31FD3FFD15132BAF2A15144BAF2A204F901541055F910F2A3F8009320D74A96D307D402FB00E8D101A4C8CB1FCB1FCBFFC9ED5410BD6DAD"

// walletCodeCell decodes the embedded contract code. The constant is
// fixed at build time, a failure here means the blob was corrupted.
func walletCodeCell() (*cell.Cell, error) {
	codeBOC, err := hex.DecodeString(_WalletCodeHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex of wallet code: %w", err)
	}

	code, err := cell.FromBOC(codeBOC)
	if err != nil {
		return nil, fmt.Errorf("failed to decode wallet code boc: %w", err)
	}

	return code, nil
}
