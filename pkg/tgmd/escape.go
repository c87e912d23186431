// Package tgmd prepares plain text for Telegram's MarkdownV2 parse mode.
//
// MarkdownV2 is strict: every reserved character must be escaped wherever
// it appears, not only around markup tokens. Escaping here is therefore
// blind, with no markup parsing at all.
package tgmd

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLen is Telegram's hard per-message size limit.
const MaxMessageLen = 4096

// truncateAt leaves headroom below MaxMessageLen for the marker.
const truncateAt = 4000

// truncationMarker is appended to clamped messages. It is already valid
// MarkdownV2 ("…" is not reserved, the brackets are pre-escaped), so the
// clamped text never needs a second escape pass.
const truncationMarker = "… \\[message truncated\\]"

const reserved = "_*[]()~`>#+-=|{}.!"

// Escape backslash-prefixes every reserved MarkdownV2 character in s.
// Empty or whitespace-only input yields ""; callers treat that as a
// dropped message.
func Escape(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for _, r := range s {
		if r < utf8.RuneSelf && strings.ContainsRune(reserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Clamp bounds already-escaped text to Telegram's message limit.
// Text longer than MaxMessageLen runes is cut at 4000 runes and a
// truncation marker is appended. The cut can strand the backslash of an
// escape pair; a dangling one is dropped so the result stays valid.
func Clamp(s string) string {
	if utf8.RuneCountInString(s) <= MaxMessageLen {
		return s
	}
	cut := truncateAt
	count := 0
	end := len(s)
	for i := range s {
		if count == cut {
			end = i
			break
		}
		count++
	}
	head := s[:end]
	if danglingBackslash(head) {
		head = head[:len(head)-1]
	}
	return head + truncationMarker
}

// danglingBackslash reports whether s ends with an unpaired backslash,
// i.e. an odd-length run of trailing backslashes.
func danglingBackslash(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}
