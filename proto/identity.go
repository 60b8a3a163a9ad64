package proto

import (
	"strings"
	"unicode/utf8"
)

const MaxNameLength = 36

const (
	ltrEmbed    = '‪'
	rtlEmbed    = '‫'
	ltrOverride = '‭'
	rtlOverride = '‮'
	ltrIsolate  = '⁦'
	rtlIsolate  = '⁧'
	fsIsolate   = '⁨'

	bidiExplicitPop = '‬'
	bidiIsolatePop  = '⁩'
)

// A UserID identifies an authenticated user. It is opaque to the session
// layer and stable across connections; identity issuance happens upstream.
type UserID string

func (uid UserID) String() string { return string(uid) }

// An Identity is the verified persona bound to a connection at handshake
// time. The session layer trusts it for the life of the connection.
type Identity interface {
	ID() UserID
	Name() string
	Avatar() string
	View() *IdentityView
}

// A Cursor is the last reported pointer position of a participant.
type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// An IdentityView is a participant as seen by other members of a room.
type IdentityView struct {
	ID        UserID  `json:"id"`
	Name      string  `json:"name"`
	Avatar    string  `json:"avatar,omitempty"`
	Color     string  `json:"color"`
	IsDrawing bool    `json:"isDrawing"`
	Cursor    *Cursor `json:"cursor,omitempty"`
}

// NormalizeName validates and normalizes a display name:
//
// 1. Remove leading and trailing whitespace
// 2. Collapse all internal whitespace to single spaces
// 3. Close any dangling bidi embeddings or isolates
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return "", ErrInvalidName
	}
	normalized := strings.Join(strings.Fields(name), " ")
	if utf8.RuneCountInString(normalized) > MaxNameLength {
		return "", ErrInvalidName
	}
	return normalizeBidi(normalized), nil
}

// normalizeBidi attempts to prevent names from using bidi control codes to
// screw up the layout of anything that displays them
func normalizeBidi(name string) string {
	bidiExplicitDepth := 0
	bidiIsolateDepth := 0

	for _, c := range name {
		switch c {
		case ltrEmbed, rtlEmbed, ltrOverride, rtlOverride:
			bidiExplicitDepth++
		case bidiExplicitPop:
			bidiExplicitDepth--
		case ltrIsolate, rtlIsolate, fsIsolate:
			bidiIsolateDepth++
		case bidiIsolatePop:
			bidiIsolateDepth--
		}
	}

	// Unmatched pops leave a depth negative; only dangling opens need
	// closing, so each depth floors at zero.
	if bidiExplicitDepth < 0 {
		bidiExplicitDepth = 0
	}
	if bidiIsolateDepth < 0 {
		bidiIsolateDepth = 0
	}

	if bidiExplicitDepth+bidiIsolateDepth > 0 {
		pops := make([]byte,
			bidiExplicitDepth*utf8.RuneLen(bidiExplicitPop)+bidiIsolateDepth*utf8.RuneLen(bidiIsolatePop))
		i := 0
		for ; bidiExplicitDepth > 0; bidiExplicitDepth-- {
			i += utf8.EncodeRune(pops[i:], bidiExplicitPop)
		}
		for ; bidiIsolateDepth > 0; bidiIsolateDepth-- {
			i += utf8.EncodeRune(pops[i:], bidiIsolatePop)
		}
		return name + string(pops[:i])
	}
	return name
}
