package loadtest

import "time"

// Defaults applied to zero Config fields.
const (
	DefaultBaseURL      = "http://localhost:9080"
	DefaultRole         = "Backend Developer"
	DefaultLearners     = 1000
	DefaultTopN         = 10
	DefaultReplays      = 10
	DefaultTimeout      = 30 * time.Second
	DefaultWait         = 2 * time.Minute
	DefaultPollInterval = 200 * time.Millisecond
)

// Submission outcomes.
const (
	resultAccepted  = "accepted"
	resultDuplicate = "duplicate"
	resultRejected  = "rejected"
	resultFailed    = "failed"
)

const (
	reportInterval       = time.Second
	percentageMultiplier = 100
	// skipSkillOdds is the chance a learner leaves out a required skill.
	skipSkillOdds = 0.2
	// extraSkill is added to some learners so the comparison has a non-required row.
	extraSkill = "Public Speaking"
)
