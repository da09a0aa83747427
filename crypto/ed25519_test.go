package crypto

import (
	"bytes"
	"testing"

	"github.com/iov-one/swapvault/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	require.NoError(t, err)
	sig2, err := private.Sign(msg2)
	require.NoError(t, err)

	if bytes.Equal(sig, sig2) {
		t.Fatal("different messages produce the same signature")
	}

	assert.True(t, public.Verify(msg, sig))
	assert.True(t, public.Verify(msg2, sig2))
	assert.False(t, public.Verify(msg, sig2))
	assert.False(t, public.Verify(msg2, sig))
	assert.False(t, public.Verify(msg, nil))

	other := GenPrivKeyEd25519().PublicKey()
	assert.False(t, other.Verify(msg, sig))
}

func TestEd25519Address(t *testing.T) {
	private := GenPrivKeyEd25519()
	addr := private.Address()
	require.NoError(t, addr.Validate())
	assert.Equal(t, []byte(private.PublicKey()), []byte(addr))
}

func TestPrivKeyFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := PrivKeyEd25519FromSeed(seed)
	require.NoError(t, err)
	b, err := PrivKeyEd25519FromSeed(a.Seed())
	require.NoError(t, err)
	assert.Equal(t, a.PublicKey(), b.PublicKey())

	_, err = PrivKeyEd25519FromSeed([]byte("short"))
	assert.True(t, errors.ErrInvalidInput.Is(err))

	var empty PrivateKey
	_, err = empty.Sign([]byte("x"))
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
