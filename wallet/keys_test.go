package wallet_test

import (
	"testing"

	"charm-faucet-tui/wallet"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFromKeystore(t *testing.T) {
	acct, err := keystore.StoreKey(t.TempDir(), "hunter2", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	key, err := wallet.KeyFromKeystore(acct.URL.Path, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, acct.Address, crypto.PubkeyToAddress(key.PublicKey))

	_, err = wallet.KeyFromKeystore(acct.URL.Path, "wrong")
	assert.Error(t, err)

	_, err = wallet.KeyFromKeystore(t.TempDir()+"/missing.json", "hunter2")
	assert.Error(t, err)
}
