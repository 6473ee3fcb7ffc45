package events

// Well known kinds. Any non-negative kind is legal, these are only the ones
// this module refers to by name.
const (
	KindProfileMetadata        = 0
	KindTextNote               = 1
	KindRecommendServer        = 2
	KindContactList            = 3
	KindEncryptedDirectMessage = 4
	KindDeletion               = 5
	KindRepost                 = 6
	KindReaction               = 7
	KindGenericRepost          = 16
	KindChannelCreation        = 40
	KindChannelMessage         = 42
	KindReporting              = 1984
	KindZapRequest             = 9734
	KindZap                    = 9735
	KindRelayList              = 10002
	KindClientAuth             = 22242
	KindNostrConnect           = 24133
	KindHTTPAuth               = 27235
	KindArticle                = 30023
)

// IsRegularKind reports whether relays are expected to store every event of kind.
func IsRegularKind(kind int) bool {
	return kind == 1 || kind == 2 || (kind >= 4 && kind < 45) || (kind >= 1000 && kind < 10000)
}

// IsReplaceableKind reports whether only the latest event per pubkey and kind is kept.
func IsReplaceableKind(kind int) bool {
	return kind == 0 || kind == 3 || (kind >= 10000 && kind < 20000)
}

// IsEphemeralKind reports whether events of kind are not expected to be stored.
func IsEphemeralKind(kind int) bool {
	return kind >= 20000 && kind < 30000
}

// IsAddressableKind reports whether only the latest event per pubkey, kind and d tag is kept.
func IsAddressableKind(kind int) bool {
	return kind >= 30000 && kind < 40000
}
