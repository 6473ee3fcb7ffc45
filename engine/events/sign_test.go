package events

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey    = "5c6c5b6b0b6a8b4e5e7b4f0a1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f7a8b9c0d"
	testPubkey = pubkeyE
	curveOrder = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
)

func helloTemplate() EventTemplate {
	return EventTemplate{Kind: 1, Tags: Tags{}, Content: "hello", CreatedAt: 1700362009}
}

func TestPublicKey(t *testing.T) {
	tests := []struct {
		sk, pk string
	}{
		{"0000000000000000000000000000000000000000000000000000000000000001", "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"},
		{"0000000000000000000000000000000000000000000000000000000000000003", "f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9"},
		{"b7e151628aed2a6abf7158809cf4f3c762e7160f38b4da56a784d9045190cfef", "dff1d77f2a671c5f36183726db2341be58feae1da2deced843240f7b502ba659"},
		{testKey, testPubkey},
	}
	for _, tt := range tests {
		pk, err := PublicKey(tt.sk)
		require.NoError(t, err)
		assert.Equal(t, tt.pk, pk)
	}
}

func TestParsePrivateKeyErrors(t *testing.T) {
	for name, sk := range map[string]string{
		"empty":    "",
		"short":    strings.Repeat("1", 62),
		"long":     strings.Repeat("1", 66),
		"not hex":  strings.Repeat("g", 64),
		"zero":     strings.Repeat("0", 64),
		"order":    curveOrder,
		"overflow": strings.Repeat("f", 64),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := PublicKey(sk)
			var kerr *KeyError
			require.ErrorAs(t, err, &kerr)
			assert.ErrorIs(t, err, ErrKey)

			_, err = Sign(helloTemplate(), sk)
			assert.ErrorIs(t, err, ErrKey)
			assert.ErrorIs(t, err, ErrSigning)
			assert.NotErrorIs(t, err, ErrValidation)
		})
	}
}

func TestGeneratePrivateKey(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 16; i++ {
		sk := GeneratePrivateKey()
		assert.True(t, lowerHex64.MatchString(sk))
		_, err := PublicKey(sk)
		require.NoError(t, err)
		assert.False(t, seen[sk])
		seen[sk] = true
	}
}

func TestSignHelloVector(t *testing.T) {
	e, err := Sign(helloTemplate(), testKey)
	require.NoError(t, err)
	assert.Equal(t, testPubkey, e.PubKey)
	assert.Equal(t, "3c835eb5c1298d79e83c68b45b4d97ca819f6597ae43088567701c0819a0ebe7", e.ID)
	assert.Regexp(t, `^[a-f0-9]{128}$`, e.Sig)
	assert.True(t, e.Verify())

	again, err := Sign(helloTemplate(), testKey)
	require.NoError(t, err)
	assert.Equal(t, e.ID, again.ID)
	assert.Equal(t, e.Sig, again.Sig)

	// A fresh copy without the cached verdict verifies on its own.
	fresh := &Event{ID: e.ID, PubKey: e.PubKey, CreatedAt: e.CreatedAt, Kind: e.Kind, Tags: e.Tags, Content: e.Content, Sig: e.Sig}
	assert.True(t, fresh.Verify())
}

func TestSignCopiesTags(t *testing.T) {
	tmpl := EventTemplate{Kind: 1, Tags: Tags{{"t", "a"}}, Content: "x"}
	e, err := Sign(tmpl, testKey)
	require.NoError(t, err)
	tmpl.Tags[0][1] = "b"
	assert.Equal(t, "a", e.Tags[0][1])
	assert.True(t, e.Verify())
}

func TestSignRejectsInvalidTemplate(t *testing.T) {
	_, err := Sign(EventTemplate{Kind: -1}, testKey)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = Sign(EventTemplate{Kind: 1, Content: "\xff"}, testKey)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSignUnsigned(t *testing.T) {
	e, err := SignUnsigned(UnsignedEvent{Kind: 1, Content: "hello", CreatedAt: 1700362009}, testKey)
	require.NoError(t, err)
	assert.Equal(t, testPubkey, e.PubKey)
	assert.True(t, e.Verify())

	e, err = SignUnsigned(helloTemplate().Unsigned(testPubkey), testKey)
	require.NoError(t, err)
	assert.Equal(t, "3c835eb5c1298d79e83c68b45b4d97ca819f6597ae43088567701c0819a0ebe7", e.ID)

	_, err = SignUnsigned(helloTemplate().Unsigned(pubkeyA), testKey)
	var serr *SigningError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, ErrSigning)
}

func TestFinalizeEvent(t *testing.T) {
	e, err := FinalizeEvent(helloTemplate(), testKey)
	require.NoError(t, err)
	assert.True(t, e.Verify())
}

func TestVerifyDetectsTampering(t *testing.T) {
	tamper := map[string]func(e *Event){
		"content":    func(e *Event) { e.Content = "hellO" },
		"kind":       func(e *Event) { e.Kind = 2 },
		"created_at": func(e *Event) { e.CreatedAt++ },
		"tags":       func(e *Event) { e.Tags = append(e.Tags, Tag{"t", "x"}) },
		"tag value":  func(e *Event) { e.Tags[0][1] = "y" },
		"pubkey":     func(e *Event) { e.PubKey = "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798" },
		"id":         func(e *Event) { e.ID = strings.Repeat("0", 64) },
	}
	for name, mutate := range tamper {
		t.Run(name, func(t *testing.T) {
			tmpl := helloTemplate()
			tmpl.Tags = Tags{{"t", "x"}}
			e, err := Sign(tmpl, testKey)
			require.NoError(t, err)
			require.True(t, e.Verify())

			mutate(e)
			assert.False(t, e.Verify())
			assert.False(t, VerifyEvent(e))
		})
	}
}

func TestVerifyIsCached(t *testing.T) {
	e, err := Sign(helloTemplate(), testKey)
	require.NoError(t, err)
	require.True(t, e.Verify())

	// The cached verdict survives a corrupted signature.
	e.Sig = strings.Repeat("0", 128)
	assert.True(t, e.Verify())

	// Without a cached verdict the same event fails.
	fresh := &Event{ID: e.ID, PubKey: e.PubKey, CreatedAt: e.CreatedAt, Kind: e.Kind, Tags: e.Tags, Content: e.Content, Sig: e.Sig}
	assert.False(t, fresh.Verify())

	// A cached negative verdict is not turned positive by fixing the signature.
	good, err := Sign(helloTemplate(), testKey)
	require.NoError(t, err)
	fresh.Sig = good.Sig
	assert.False(t, fresh.Verify())
}

func TestVerifyMalformed(t *testing.T) {
	e, err := Sign(helloTemplate(), testKey)
	require.NoError(t, err)
	base := func() *Event {
		return &Event{ID: e.ID, PubKey: e.PubKey, CreatedAt: e.CreatedAt, Kind: e.Kind, Tags: e.Tags, Content: e.Content, Sig: e.Sig}
	}
	for name, mutate := range map[string]func(*Event){
		"empty sig":       func(e *Event) { e.Sig = "" },
		"non hex sig":     func(e *Event) { e.Sig = strings.Repeat("z", 128) },
		"short sig":       func(e *Event) { e.Sig = e.Sig[:126] },
		"uppercase id":    func(e *Event) { e.ID = strings.ToUpper(e.ID) },
		"bad pubkey":      func(e *Event) { e.PubKey = "not a key" },
		"negative kind":   func(e *Event) { e.Kind = -1 },
		"invalid content": func(e *Event) { e.Content = "\xff" },
	} {
		t.Run(name, func(t *testing.T) {
			ev := base()
			mutate(ev)
			assert.NotPanics(t, func() {
				assert.False(t, ev.Verify())
			})
		})
	}
	assert.False(t, VerifyEvent(nil))
	assert.False(t, (&Event{}).Verify())
}

func TestVerifySignatureBIP340(t *testing.T) {
	const msg = "243f6a8885a308d313198a2e03707344a4093822299f31d0082efa98ec4e6c89"
	assert.True(t, verifySignature(msg,
		"6896bd60eeae296db48a229ff71dfe071bde413e6d43f917dc8dcf8c78de33418906d11ac976abccb20b091292bff4ea897efcb639ea871cfa95f6de339e4b0a",
		"dff1d77f2a671c5f36183726db2341be58feae1da2deced843240f7b502ba659"))
	// R has an odd y coordinate.
	assert.False(t, verifySignature(msg,
		"fff97bd5755eeea420453a14355235d382f6472f8568a18b2f057a14602975563cc27944640ac607cd107ae10923d9ef7a73c643e166be5ebeafa34b1ac553e2",
		"dff1d77f2a671c5f36183726db2341be58feae1da2deced843240f7b502ba659"))
	// Public key is not on the curve.
	assert.False(t, verifySignature(msg,
		"6cff5c3ba86c69ea4b7376f31a9bcb4f74c1976089b2d9963da2e5543e17776969e89b4c5564d00349106b8497785dd7d1d713a8ae82b32fa79d5f7fc407d39b",
		"eefdea4cdb677750a420fee807eacf21eb9898ae79b9768766e4faa04a2d4a34"))
}

func TestVerifyConcurrently(t *testing.T) {
	e, err := Sign(helloTemplate(), testKey)
	require.NoError(t, err)
	fresh := &Event{ID: e.ID, PubKey: e.PubKey, CreatedAt: e.CreatedAt, Kind: e.Kind, Tags: e.Tags, Content: e.Content, Sig: e.Sig}

	var wg sync.WaitGroup
	results := make([]bool, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = fresh.Verify()
		}(i)
	}
	wg.Wait()
	for _, ok := range results {
		assert.True(t, ok)
	}
}

func TestKeySigner(t *testing.T) {
	s, err := NewKeySigner(testKey)
	require.NoError(t, err)
	pk, err := s.GetPublicKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testPubkey, pk)

	e := &Event{Kind: 1, Tags: Tags{}, Content: "hello", CreatedAt: 1700362009}
	require.NoError(t, s.SignEvent(context.Background(), e))
	assert.Equal(t, "3c835eb5c1298d79e83c68b45b4d97ca819f6597ae43088567701c0819a0ebe7", e.ID)
	assert.True(t, e.Verify())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.SignEvent(ctx, &Event{Kind: 1}), context.Canceled)

	_, err = NewKeySigner("nope")
	assert.ErrorIs(t, err, ErrKey)
}

func TestSignVerifyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("signed events verify", prop.ForAll(
		func(u UnsignedEvent) bool {
			e, err := Sign(u.Template(), testKey)
			if err != nil {
				return false
			}
			fresh := &Event{ID: e.ID, PubKey: e.PubKey, CreatedAt: e.CreatedAt, Kind: e.Kind, Tags: e.Tags, Content: e.Content, Sig: e.Sig}
			return e.Verify() && fresh.Verify()
		},
		genUnsigned(),
	))

	properties.Property("changing content breaks verification", prop.ForAll(
		func(u UnsignedEvent, suffix string) bool {
			e, err := Sign(u.Template(), testKey)
			if err != nil {
				return false
			}
			e.Content += "!" + suffix
			return !e.Verify()
		},
		genUnsigned(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
