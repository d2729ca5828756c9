package stt

// Audio capabilities advertised by the provider. These are fixed constants:
// the provider asserts its input format rather than negotiating it.
const (
	FormatWAV       = "wav"
	CodecPCM        = "pcm"
	BitRate16       = 16
	SampleRate16kHz = 16000
	ChannelMono     = 1
)

// ResultState is the terminal outcome of a transcription call.
type ResultState int

const (
	// StateError is the single failure outcome. Every failure mode maps
	// to it with no diagnostic payload.
	StateError ResultState = iota
	// StateSuccess carries the transcribed text.
	StateSuccess
)

// String returns the state name for logging.
func (s ResultState) String() string {
	switch s {
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// SpeechMetadata describes the audio handed over by the host. Sample width
// is fixed at 2 bytes (16-bit PCM) and is not part of the metadata.
type SpeechMetadata struct {
	Channels   int
	SampleRate int
}

// SpeechResult is the value returned to the host: transcribed text on
// success, empty text on error.
type SpeechResult struct {
	Text  string
	State ResultState
}

func errorResult() SpeechResult {
	return SpeechResult{State: StateError}
}

func successResult(text string) SpeechResult {
	return SpeechResult{Text: text, State: StateSuccess}
}
