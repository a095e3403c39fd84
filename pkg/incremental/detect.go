package incremental

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/entrhq/contextpack/pkg/pack"
)

// contentHashPrefixLen bounds how much of each message body feeds the
// conversation content hash.
const contentHashPrefixLen = 100

// DetectNewConversations returns the conversations in the current export
// that are new or changed relative to the previous export. A conversation is
// included if any of the following holds: its ID is unknown, its updated_at
// is strictly newer, its message count differs, or its content hash differs.
//
// The any-of trigger means a bare updated_at bump with byte-identical
// messages is still reported as changed.
func DetectNewConversations(current, previous pack.ParsedExport) []pack.Conversation {
	prevByID := make(map[string]pack.Conversation, len(previous.Conversations))
	for _, conv := range previous.Conversations {
		prevByID[conv.ID] = conv
	}

	var out []pack.Conversation
	for _, conv := range current.Conversations {
		prev, known := prevByID[conv.ID]
		if !known || conversationChanged(conv, prev) {
			out = append(out, conv)
		}
	}
	return out
}

func conversationChanged(current, previous pack.Conversation) bool {
	if current.UpdatedAt.After(previous.UpdatedAt) {
		return true
	}
	if len(current.Messages) != len(previous.Messages) {
		return true
	}
	return ContentHash(current) != ContentHash(previous)
}

// ContentHash is a pure function of a conversation value: a hash over the
// title, message count, and a bounded prefix of each message body. There is
// deliberately no cache of prior hashes.
func ContentHash(conv pack.Conversation) string {
	var sb strings.Builder
	sb.WriteString(conv.Title)
	sb.WriteString("|")
	sb.WriteString(strconv.Itoa(len(conv.Messages)))
	for _, msg := range conv.Messages {
		content := msg.Content
		if len(content) > contentHashPrefixLen {
			// Back off to a rune boundary so the canonical string stays
			// valid UTF-8 instead of ending in a dangling lead byte
			cut := contentHashPrefixLen
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = content[:cut]
		}
		sb.WriteString("|")
		sb.WriteString(string(msg.Role))
		sb.WriteString(":")
		sb.WriteString(content)
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
