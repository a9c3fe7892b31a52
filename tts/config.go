package tts

import "time"

// Voice identifies a synthesis voice.
type Voice string

// Voices supported by the Zhipu CogTTS backend.
const (
	VoiceTongtong Voice = "tongtong"
	VoiceChuichui Voice = "chuichui"
	VoiceXiaochen Voice = "xiaochen"
	VoiceJam      Voice = "jam"
	VoiceKazi     Voice = "kazi"
	VoiceDouji    Voice = "douji"
	VoiceLuodo    Voice = "luodo"
)

func (v Voice) String() string { return string(v) }

// Model identifies the chat model used for semantic text splitting.
type Model string

// Split models supported by the Zhipu backend.
const (
	ModelGLM47      Model = "glm-4.7"
	ModelGLM46      Model = "glm-4.6"
	ModelGLM45      Model = "glm-4.5"
	ModelGLM45Flash Model = "glm-4.5-flash"
	ModelGLM45Air   Model = "glm-4.5-air"
)

func (m Model) String() string { return string(m) }

// Configuration defaults and bounds. Out-of-range values are clamped,
// not rejected.
const (
	DefaultSpeed = 1.0
	MinSpeed     = 0.5
	MaxSpeed     = 2.0

	DefaultVolume = 1.0
	MinVolume     = 0.0
	MaxVolume     = 10.0

	DefaultMaxSegmentLength = 500
	MinMaxSegmentLength     = 100
	MaxMaxSegmentLength     = 1024

	DefaultParallelism = 3
	MinParallelism     = 1
	MaxParallelism     = 10

	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 100 * time.Millisecond
)

// Config is an immutable snapshot of the parameters for one conversion.
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	// Voice selects the synthesis voice.
	Voice Voice

	// Speed is the speech rate multiplier, clamped to [0.5, 2.0].
	Speed float64

	// Volume is the loudness multiplier, clamped to [0.0, 10.0].
	Volume float64

	// Model selects the chat model used for semantic splitting.
	Model Model

	// MaxSegmentLength is the maximum segment size in runes,
	// clamped to [100, 1024]. Text at or under this length is
	// converted directly without calling the segmentation provider.
	MaxSegmentLength int

	// Parallelism bounds concurrently in-flight synthesis requests,
	// clamped to [1, 10]. 1 runs segments strictly sequentially.
	Parallelism int

	// MaxAttempts is the per-segment synthesis attempt budget (>= 1).
	MaxAttempts int

	// RetryDelay is the base backoff delay; attempt n waits
	// RetryDelay * 2^(n-1) before the next try.
	RetryDelay time.Duration

	// RequestRate optionally caps provider requests per second across
	// all workers. 0 disables rate limiting.
	RequestRate float64
}

// DefaultConfig returns the default conversion configuration.
func DefaultConfig() Config {
	return Config{
		Voice:            VoiceTongtong,
		Speed:            DefaultSpeed,
		Volume:           DefaultVolume,
		Model:            ModelGLM45Flash,
		MaxSegmentLength: DefaultMaxSegmentLength,
		Parallelism:      1,
		MaxAttempts:      DefaultMaxAttempts,
		RetryDelay:       DefaultRetryDelay,
	}
}

// normalized returns a copy of the config with every numeric field
// clamped into its documented range.
func (c Config) normalized() Config {
	c.Speed = clampFloat(c.Speed, MinSpeed, MaxSpeed)
	c.Volume = clampFloat(c.Volume, MinVolume, MaxVolume)
	c.MaxSegmentLength = clampInt(c.MaxSegmentLength, MinMaxSegmentLength, MaxMaxSegmentLength)
	c.Parallelism = clampInt(c.Parallelism, MinParallelism, MaxParallelism)
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.RequestRate < 0 {
		c.RequestRate = 0
	}
	return c
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
