// Package scoring computes the time-decayed engagement score used to rank
// community posts. The score is a pure function of the post's counters and
// an injected reference time; persistence is the caller's job.
package scoring

import (
	"math"
	"time"
)

const (
	replyBonusWeight  = 0.5
	professionalBonus = 2.0
	decayHalfScale    = 6.0 // hours until the decay factor halves
	decayFloor        = 0.1 // very old posts keep a minimum weight
)

// Engagement returns the engagement score for a post.
//
// raw votes plus a reply bonus and a professional-verification bonus,
// multiplied by a decay factor that falls with age but never below the
// floor. The raw vote delta is not floored, so heavily downvoted posts
// score negative.
func Engagement(upvotes, downvotes, replyCount int64, professionalVerified bool, createdAt, now time.Time) float64 {
	rawScore := float64(upvotes - downvotes)
	commentBonus := float64(replyCount) * replyBonusWeight

	profBonus := 0.0
	if professionalVerified {
		profBonus = professionalBonus
	}

	return round2((rawScore + commentBonus + profBonus) * Decay(createdAt, now))
}

// Decay returns the age-based weight for a post created at createdAt as of
// now, clamped to [decayFloor, 1]. A post in the future decays as if brand
// new.
func Decay(createdAt, now time.Time) float64 {
	hours := now.Sub(createdAt).Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Max(decayFloor, 1/(1+hours/decayHalfScale))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
