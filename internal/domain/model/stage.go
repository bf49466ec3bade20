package model

// Stage represents a step of the video processing pipeline.
type Stage string

const (
	StageCheckingCache Stage = "CHECKING_CACHE"
	StageDownloading   Stage = "DOWNLOADING"
	StageTranscribing  Stage = "TRANSCRIBING"
	StageStructuring   Stage = "STRUCTURING"
	StageCaching       Stage = "CACHING"
	StageDone          Stage = "DONE"
	StageError         Stage = "ERROR"
)

// Valid stage transitions:
// CHECKING_CACHE -> DOWNLOADING -> TRANSCRIBING -> STRUCTURING -> CACHING -> DONE
//
//	\-> DONE (hit)  \-> ERROR         \-> ERROR
//
// STRUCTURING never fails; it falls back to the raw transcript.
var stageTransitions = map[Stage][]Stage{
	StageCheckingCache: {StageDownloading, StageDone},
	StageDownloading:   {StageTranscribing, StageError},
	StageTranscribing:  {StageStructuring, StageError},
	StageStructuring:   {StageCaching},
	StageCaching:       {StageDone},
	StageDone:          {},
	StageError:         {},
}

func (s Stage) IsValid() bool {
	_, ok := stageTransitions[s]
	return ok
}

func (s Stage) CanTransitionTo(next Stage) bool {
	allowed, exists := stageTransitions[s]
	if !exists {
		return false
	}
	for _, stage := range allowed {
		if stage == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Stage) IsTerminal() bool {
	return s == StageDone || s == StageError
}

func (s Stage) String() string {
	return string(s)
}
