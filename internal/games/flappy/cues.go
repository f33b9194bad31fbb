package flappy

// Cue identifies a sound the simulation asks the host to play.
type Cue int

const (
	CueJump Cue = iota
	CueScore
	CueCrash
)

func (c Cue) String() string {
	switch c {
	case CueJump:
		return "jump"
	case CueScore:
		return "score"
	case CueCrash:
		return "crash"
	default:
		return "unknown"
	}
}

// Cues is the sound sink. Play is fire-and-forget and must not block the
// tick; StopAll cancels every voice still playing.
type Cues interface {
	Play(Cue)
	StopAll()
}

// NopCues discards every cue.
type NopCues struct{}

func (NopCues) Play(Cue) {}
func (NopCues) StopAll() {}
