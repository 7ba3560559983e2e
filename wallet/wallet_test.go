package wallet_test

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"math/big"
	"sync"
	"testing"

	"charm-faucet-tui/network"
	"charm-faucet-tui/provider"
	"charm-faucet-tui/wallet"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend answers the chain id and nothing else.
type stubBackend struct {
	id *big.Int
}

func (b stubBackend) ChainID(context.Context) (*big.Int, error) { return b.id, nil }
func (stubBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return nil, errors.New("not implemented")
}
func (stubBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 0, errors.New("not implemented")
}
func (stubBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return nil, errors.New("not implemented")
}
func (stubBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 0, errors.New("not implemented")
}
func (stubBackend) SendTransaction(context.Context, *types.Transaction) error {
	return errors.New("not implemented")
}
func (stubBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	return nil, ethereum.NotFound
}

var mainnet = network.Descriptor{
	ChainID:        "0x1",
	ChainName:      "Ethereum",
	RPCURLs:        []string{"https://eth.example"},
	NativeCurrency: network.Currency{Name: "Ether", Symbol: "ETH", Decimals: 18},
}

var sepolia = network.Descriptor{
	ChainID:        "0xaa36a7",
	ChainName:      "Sepolia",
	RPCURLs:        []string{"https://sepolia.example"},
	NativeCurrency: network.Currency{Name: "Sepolia Ether", Symbol: "ETH", Decimals: 18},
}

// recorder counts approvals and answers with a fixed decision.
type recorder struct {
	mu     sync.Mutex
	answer bool
	seen   []wallet.ApprovalKind
}

func (r *recorder) Approve(_ context.Context, req wallet.Approval) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, req.Kind)
	return r.answer, nil
}

func (r *recorder) kinds() []wallet.ApprovalKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]wallet.ApprovalKind(nil), r.seen...)
}

func newKeys(t *testing.T, n int) []*ecdsa.PrivateKey {
	t.Helper()
	keys := make([]*ecdsa.PrivateKey, n)
	for i := range keys {
		k, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys[i] = k
	}
	return keys
}

func newWallet(t *testing.T, approver wallet.Approver, opts ...wallet.Option) *wallet.Wallet {
	t.Helper()
	opts = append([]wallet.Option{
		wallet.WithChain(mainnet, stubBackend{id: big.NewInt(1)}),
		wallet.WithChain(sepolia, stubBackend{id: big.NewInt(11155111)}),
		wallet.WithApprover(approver),
	}, opts...)
	w, err := wallet.New(newKeys(t, 2), opts...)
	require.NoError(t, err)
	return w
}

func call(t *testing.T, w *wallet.Wallet, result any, method string, params ...any) error {
	t.Helper()
	raw, err := w.Request(context.Background(), method, params...)
	if err != nil {
		return err
	}
	if result != nil {
		require.NoError(t, json.Unmarshal(raw, result))
	}
	return nil
}

type events struct {
	mu     sync.Mutex
	chains []string
	accts  [][]string
}

func watch(w *wallet.Wallet) *events {
	ev := &events{}
	w.On(provider.ChainChanged, func(e provider.Event) {
		ev.mu.Lock()
		ev.chains = append(ev.chains, e.ChainID)
		ev.mu.Unlock()
	})
	w.On(provider.AccountsChanged, func(e provider.Event) {
		ev.mu.Lock()
		ev.accts = append(ev.accts, e.Accounts)
		ev.mu.Unlock()
	})
	return ev
}

func TestNewRequiresKeys(t *testing.T) {
	_, err := wallet.New(nil)
	assert.ErrorIs(t, err, wallet.ErrNoKeys)
}

func TestChainIDIsActiveChain(t *testing.T) {
	w := newWallet(t, wallet.AutoApprove)
	var id string
	require.NoError(t, call(t, w, &id, provider.MethodChainID))
	assert.Equal(t, "0x1", id)
	assert.Equal(t, "Ethereum", w.ActiveChain().ChainName)
}

func TestRequestAccounts(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		w := newWallet(t, &recorder{answer: false})
		err := call(t, w, nil, provider.MethodRequestAccounts)
		assert.True(t, provider.IsUserRejection(err))
		assert.False(t, w.Authorized())

		var accounts []string
		require.NoError(t, call(t, w, &accounts, provider.MethodAccounts))
		assert.Empty(t, accounts)
	})

	t.Run("approved once", func(t *testing.T) {
		r := &recorder{answer: true}
		w := newWallet(t, r)
		ev := watch(w)

		var accounts []string
		require.NoError(t, call(t, w, &accounts, provider.MethodRequestAccounts))
		assert.Equal(t, []string{w.Selected().Hex()}, accounts)
		require.NoError(t, call(t, w, &accounts, provider.MethodRequestAccounts))

		assert.Equal(t, []wallet.ApprovalKind{wallet.ApproveConnect}, r.kinds())
		assert.Equal(t, [][]string{{w.Selected().Hex()}}, ev.accts)
	})
}

func TestSwitchChain(t *testing.T) {
	t.Run("unknown chain", func(t *testing.T) {
		w := newWallet(t, wallet.AutoApprove)
		err := call(t, w, nil, provider.MethodSwitchChain, provider.SwitchChainParams{ChainID: "0x45A"})
		assert.True(t, provider.IsCode(err, provider.CodeUnrecognizedChain), "got %v", err)
	})

	t.Run("already active", func(t *testing.T) {
		r := &recorder{answer: true}
		w := newWallet(t, r)
		ev := watch(w)
		require.NoError(t, call(t, w, nil, provider.MethodSwitchChain, provider.SwitchChainParams{ChainID: "0x01"}))
		assert.Empty(t, r.kinds())
		assert.Empty(t, ev.chains)
	})

	t.Run("approved", func(t *testing.T) {
		w := newWallet(t, wallet.AutoApprove)
		ev := watch(w)
		require.NoError(t, call(t, w, nil, provider.MethodSwitchChain, map[string]string{"chainId": "0xAA36A7"}))
		assert.Equal(t, []string{"0xaa36a7"}, ev.chains)
		assert.Equal(t, "Sepolia", w.ActiveChain().ChainName)
	})

	t.Run("rejected", func(t *testing.T) {
		w := newWallet(t, wallet.RejectAll)
		err := call(t, w, nil, provider.MethodSwitchChain, provider.SwitchChainParams{ChainID: "0xaa36a7"})
		assert.True(t, provider.IsUserRejection(err))
		assert.Equal(t, "Ethereum", w.ActiveChain().ChainName)
	})
}

func TestAddChain(t *testing.T) {
	dialer := func(id int64) wallet.DialFunc {
		return func(context.Context, string) (wallet.Backend, error) {
			return stubBackend{id: big.NewInt(id)}, nil
		}
	}

	t.Run("adds and switches", func(t *testing.T) {
		r := &recorder{answer: true}
		w := newWallet(t, r, wallet.WithDialer(dialer(1114)))
		ev := watch(w)

		require.NoError(t, call(t, w, nil, provider.MethodAddChain, network.CoreTestnet2()))

		assert.Equal(t, []wallet.ApprovalKind{wallet.ApproveAddChain}, r.kinds())
		assert.Equal(t, []string{"0x45a"}, ev.chains)
		assert.Equal(t, "Core Testnet 2", w.ActiveChain().ChainName)
		assert.Len(t, w.Chains(), 3)
	})

	t.Run("rpc reports another chain", func(t *testing.T) {
		w := newWallet(t, wallet.AutoApprove, wallet.WithDialer(dialer(1)))
		err := call(t, w, nil, provider.MethodAddChain, network.CoreTestnet2())
		assert.True(t, provider.IsCode(err, provider.CodeInvalidParams), "got %v", err)
		assert.Len(t, w.Chains(), 2)
	})

	t.Run("dial fails", func(t *testing.T) {
		w := newWallet(t, wallet.AutoApprove, wallet.WithDialer(func(context.Context, string) (wallet.Backend, error) {
			return nil, errors.New("connection refused")
		}))
		err := call(t, w, nil, provider.MethodAddChain, network.CoreTestnet2())
		assert.True(t, provider.IsCode(err, provider.CodeInternal), "got %v", err)
	})

	t.Run("invalid descriptor", func(t *testing.T) {
		r := &recorder{answer: true}
		w := newWallet(t, r)
		bad := network.CoreTestnet2()
		bad.NativeCurrency.Decimals = 8
		err := call(t, w, nil, provider.MethodAddChain, bad)
		assert.True(t, provider.IsCode(err, provider.CodeInvalidParams), "got %v", err)
		assert.Empty(t, r.kinds())
	})

	t.Run("rejected", func(t *testing.T) {
		w := newWallet(t, wallet.RejectAll, wallet.WithDialer(dialer(1114)))
		err := call(t, w, nil, provider.MethodAddChain, network.CoreTestnet2())
		assert.True(t, provider.IsUserRejection(err))
		assert.Len(t, w.Chains(), 2)
	})

	t.Run("known chain switches", func(t *testing.T) {
		r := &recorder{answer: true}
		w := newWallet(t, r)
		require.NoError(t, call(t, w, nil, provider.MethodAddChain, sepolia))
		assert.Equal(t, []wallet.ApprovalKind{wallet.ApproveSwitchChain}, r.kinds())
		assert.Equal(t, "Sepolia", w.ActiveChain().ChainName)
	})
}

func TestSendTransactionNeedsAuthorizedAccount(t *testing.T) {
	w := newWallet(t, wallet.AutoApprove)
	to := common.HexToAddress("0x80705Cc3B81A41c4e9AE785004d2F65445782a18")
	req := provider.TxRequest{From: w.Selected(), To: &to}

	err := call(t, w, nil, provider.MethodSendTransaction, req)
	assert.True(t, provider.IsCode(err, provider.CodeUnauthorized), "got %v", err)

	require.NoError(t, call(t, w, nil, provider.MethodRequestAccounts))
	req.From = w.Accounts()[1]
	err = call(t, w, nil, provider.MethodSendTransaction, req)
	assert.True(t, provider.IsCode(err, provider.CodeUnauthorized), "got %v", err)
}

func TestReceiptNotFoundIsNull(t *testing.T) {
	w := newWallet(t, wallet.AutoApprove)
	raw, err := w.Request(context.Background(), provider.MethodTransactionReceipt, common.Hash{}.Hex())
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(raw))
}

func TestUnsupportedMethod(t *testing.T) {
	w := newWallet(t, wallet.AutoApprove)
	err := call(t, w, nil, "eth_sign")
	assert.True(t, provider.IsCode(err, provider.CodeUnsupportedMethod), "got %v", err)
}

func TestWalletSideActions(t *testing.T) {
	w := newWallet(t, wallet.AutoApprove)
	ev := watch(w)

	// account changes are private until the dapp is authorized
	w.NextAccount()
	assert.Empty(t, ev.accts)

	require.NoError(t, call(t, w, nil, provider.MethodRequestAccounts))
	second := w.Selected()
	first := w.NextAccount()
	assert.NotEqual(t, second, first)

	w.Lock()
	w.Lock()

	assert.Equal(t, [][]string{{second.Hex()}, {first.Hex()}, {}}, ev.accts)

	assert.Equal(t, "Sepolia", w.NextChain().ChainName)
	assert.Equal(t, "Ethereum", w.NextChain().ChainName)
	assert.Equal(t, []string{"0xaa36a7", "0x1"}, ev.chains)
	assert.Error(t, w.UseChain("0x45a"))
	assert.Error(t, w.SelectAccount(5))
}

func TestRemoveListener(t *testing.T) {
	w := newWallet(t, wallet.AutoApprove)
	n := 0
	remove := w.On(provider.ChainChanged, func(provider.Event) { n++ })
	require.NoError(t, w.UseChain("0xaa36a7"))
	remove()
	require.NoError(t, w.UseChain("0x1"))
	assert.Equal(t, 1, n)
}

func TestApprovalText(t *testing.T) {
	to := common.HexToAddress("0x80705Cc3B81A41c4e9AE785004d2F65445782a18")
	a := wallet.Approval{
		Kind:    wallet.ApproveTransaction,
		Account: common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"),
		Chain:   network.CoreTestnet2(),
		Tx:      &provider.TxRequest{To: &to, Data: []byte{0xde, 0x5f, 0x72, 0xfd}},
	}
	assert.Equal(t, "Sign transaction?", a.Title())
	assert.Contains(t, a.Description(), "To 0x8070...2a18")
	assert.Contains(t, a.Description(), "Data 4 bytes")
	assert.Contains(t, a.Description(), "Network Core Testnet 2")

	add := wallet.Approval{Kind: wallet.ApproveAddChain, Chain: network.CoreTestnet2()}
	assert.Equal(t, "Add Core Testnet 2?", add.Title())
	assert.Contains(t, add.Description(), "http://rpc.test2.btcs.network/")
}

func TestKeyFromHex(t *testing.T) {
	key, err := wallet.KeyFromHex("0xb71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	require.NoError(t, err)
	assert.Equal(t, "0x71562b71999873DB5b286dF957af199Ec94617F7", crypto.PubkeyToAddress(key.PublicKey).Hex())

	_, err = wallet.KeyFromHex("not-a-key")
	assert.Error(t, err)
}
