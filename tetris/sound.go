package tetris

// Sound is a fire-and-forget effect request for the audio collaborator.
type Sound int

const (
	SoundMove Sound = iota
	SoundLine
	SoundTetris
	SoundRotate
	SoundLevelUp
	SoundDrop

	SoundCount
)

var soundNames = [SoundCount]string{"move", "line", "tetris", "rotate", "levelup", "drop"}

func (s Sound) String() string {
	if s < 0 || s >= SoundCount {
		return "unknown"
	}
	return soundNames[s]
}

// Speaker plays sounds. Implementations must not block the frame.
type Speaker interface {
	Play(Sound)
}

type muteSpeaker struct{}

func (muteSpeaker) Play(Sound) {}
