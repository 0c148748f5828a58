package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const notePrefix = "go-notes:note:"

// NoteUUID derives the primary key stored for a note from its document id
// using go-hashid. Document ids are opaque and case sensitive, so they are
// hashed without normalization.
func NoteUUID(documentID string) uuid.UUID {
	if strings.TrimSpace(documentID) == "" {
		return uuid.Nil
	}
	key := notePrefix + documentID
	uid, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(false))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
	}
	return uid
}
