// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package session

import (
	"fmt"
	"strings"
	"time"
)

// VoteType is a member's stance on a restaurant.
type VoteType string

const (
	VoteApprove VoteType = "approve"
	VoteVeto    VoteType = "veto"
	VoteNeutral VoteType = "neutral"
)

// Vote holds the approvals and vetoes for one restaurant in a session.
type Vote struct {
	SessionID    string    `json:"-" bson:"session_id"`
	RestaurantID string    `json:"restaurant_id" bson:"restaurant_id"`
	Approvals    []string  `json:"approvals" bson:"approvals"`
	Vetoes       []string  `json:"vetoes" bson:"vetoes"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// ParseVoteType accepts "approve", "veto" or "neutral", case-insensitively.
func ParseVoteType(s string) (VoteType, error) {
	switch VoteType(strings.ToLower(strings.TrimSpace(s))) {
	case VoteApprove:
		return VoteApprove, nil
	case VoteVeto:
		return VoteVeto, nil
	case VoteNeutral:
		return VoteNeutral, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVote, s)
	}
}

// ApplyVote removes uid from both lists and then records the new stance.
// A neutral vote only clears. The input is not modified.
func ApplyVote(v Vote, uid string, t VoteType) Vote {
	out := v
	out.Approvals = without(v.Approvals, uid)
	out.Vetoes = without(v.Vetoes, uid)
	switch t {
	case VoteApprove:
		out.Approvals = append(out.Approvals, uid)
	case VoteVeto:
		out.Vetoes = append(out.Vetoes, uid)
	}
	return out
}

// ConsensusThreshold is the number of approvals needed in a group of n.
func ConsensusThreshold(memberCount int) int {
	return (memberCount + 1) / 2
}

// HasConsensus reports whether at least half the members approve and nobody
// vetoes.
func HasConsensus(v Vote, memberCount int) bool {
	if memberCount <= 0 {
		return false
	}
	return len(v.Vetoes) == 0 && len(v.Approvals) >= ConsensusThreshold(memberCount)
}

// CanFinalize reports whether a user may finalize v.
func CanFinalize(isHost bool, v Vote, memberCount int) bool {
	return isHost || HasConsensus(v, memberCount)
}

func without(list []string, uid string) []string {
	out := make([]string, 0, len(list))
	for _, id := range list {
		if id != uid {
			out = append(out, id)
		}
	}
	return out
}
