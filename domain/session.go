package domain

import (
	"sort"
	"strings"
)

// ChatID identifies a two-party session. It is a pure function of both
// participant ids, so either side derives the same value without coordination.
type ChatID string

// chatIDSeparator joins the two sorted participant ids.
const chatIDSeparator = ":"

// DeriveChatID builds the session identity from the two participant ids.
// The ids are sorted first, so DeriveChatID(a, b) == DeriveChatID(b, a).
func DeriveChatID(idA, idB string) ChatID {
	ids := []string{idA, idB}
	sort.Strings(ids)
	return ChatID(strings.Join(ids, chatIDSeparator))
}

// HasParticipant reports whether userID is one of the two ids the ChatID was
// derived from. Participant ids must not contain the separator.
func (c ChatID) HasParticipant(userID string) bool {
	if userID == "" {
		return false
	}
	s := string(c)
	return strings.HasPrefix(s, userID+chatIDSeparator) ||
		strings.HasSuffix(s, chatIDSeparator+userID)
}

// PartnerLink lets a returning participant recover their active session
// without holding the invitation code. One record exists per participant.
type PartnerLink struct {
	ChatID          ChatID `json:"chat_id"`
	PartnerID       string `json:"partner_id"`
	PartnerName     string `json:"partner_name"`
	PartnerLanguage string `json:"partner_language"`
}
