// Package main provides the entry point for the text2audio CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/text2audio/tts"
	"github.com/dgnsrekt/text2audio/tts/audio"
	"github.com/dgnsrekt/text2audio/tts/openai"
	"github.com/dgnsrekt/text2audio/tts/sentence"
	"github.com/dgnsrekt/text2audio/tts/zhipu"
	"github.com/dgnsrekt/text2audio/utils"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile       string
	outputPath       string
	voiceName        string
	speed            float64
	volume           float64
	modelName        string
	maxSegmentLength int
	parallel         int
	maxAttempts      int
	retryDelay       time.Duration
	requestRate      float64
	providerName     string
	splitterName     string
	thinking         bool
	codingPlan       bool
	playAfter        bool
	debug            bool

	rootCmd = &cobra.Command{
		Use:   "text2audio [TEXT|FILE|-]",
		Short: "Convert text to speech, one WAV file out",
		Long: "Convert arbitrary-length text into a single WAV file. Long text is\n" +
			"split into semantic segments by a chat model, each segment is\n" +
			"synthesized with bounded parallelism and retries, and the audio is\n" +
			"assembled in original text order.",
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// envSettings is read from the environment at startup.
type envSettings struct {
	ZhipuAPIKey  string `env:"ZHIPU_API_KEY"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	Debug        bool   `env:"TEXT2AUDIO_DEBUG"`
}

func validateOptions(cmd *cobra.Command) error {
	// grab config values from Viper
	outputPath = viper.GetString("output")
	voiceName = viper.GetString("voice")
	speed = viper.GetFloat64("speed")
	volume = viper.GetFloat64("volume")
	modelName = viper.GetString("model")
	maxSegmentLength = viper.GetInt("max-segment-length")
	parallel = viper.GetInt("parallel")
	maxAttempts = viper.GetInt("retries")
	retryDelay = viper.GetDuration("retry-delay")
	requestRate = viper.GetFloat64("request-rate")
	providerName = viper.GetString("provider")
	splitterName = viper.GetString("splitter")

	switch providerName {
	case "zhipu", "openai":
	default:
		return fmt.Errorf("unknown provider %q (want zhipu or openai)", providerName)
	}
	switch splitterName {
	case "ai", "local":
	default:
		return fmt.Errorf("unknown splitter %q (want ai or local)", splitterName)
	}

	// Each provider has its own voice set; follow the provider's default
	// voice when none was chosen explicitly.
	if !cmd.Flags().Changed("voice") && !viper.InConfig("voice") && providerName == "openai" {
		voiceName = "alloy"
	}

	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// readInput resolves the positional argument into the text to convert:
// piped stdin, an explicit "-", an existing file path, or literal text.
func readInput(args []string) (string, error) {
	if yes, err := stdinIsPipe(); err != nil {
		return "", err
	} else if yes {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read stdin: %w", err)
		}
		return string(b), nil
	}

	if len(args) == 0 {
		return "", errors.New("missing input: pass text, a file path, or - for stdin")
	}

	arg := args[0]
	if arg == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read stdin: %w", err)
		}
		return string(b), nil
	}

	path := utils.ExpandPath(arg)
	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("unable to read file: %w", err)
		}
		return string(b), nil
	}

	return arg, nil
}

// buildProviders assembles the segmenter and synthesizer for the
// selected provider and splitter.
func buildProviders(envCfg envSettings) (tts.Segmenter, tts.Synthesizer, error) {
	var (
		segmenter tts.Segmenter
		synth     tts.Synthesizer
	)

	switch providerName {
	case "zhipu":
		if envCfg.ZhipuAPIKey == "" {
			return nil, nil, errors.New("ZHIPU_API_KEY is not set")
		}
		client := zhipu.NewClient(zhipu.Config{
			APIKey:     envCfg.ZhipuAPIKey,
			Model:      tts.Model(modelName),
			Thinking:   thinking,
			CodingPlan: codingPlan,
		})
		segmenter = zhipu.NewSplitter(client)
		synth = zhipu.NewSynthesizer(client)

	case "openai":
		if envCfg.OpenAIAPIKey == "" {
			return nil, nil, errors.New("OPENAI_API_KEY is not set")
		}
		provider := openai.New(openai.Config{APIKey: envCfg.OpenAIAPIKey})
		segmenter = provider
		synth = provider
	}

	if splitterName == "local" {
		segmenter = sentence.NewSplitter()
	}

	return segmenter, synth, nil
}

func execute(cmd *cobra.Command, args []string) error {
	envCfg, err := env.ParseAs[envSettings]()
	if err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}
	if debug || envCfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	text, err := readInput(args)
	if err != nil {
		return err
	}

	segmenter, synth, err := buildProviders(envCfg)
	if err != nil {
		return err
	}

	converter := tts.New(segmenter, synth, tts.Config{
		Voice:            tts.Voice(voiceName),
		Speed:            speed,
		Volume:           volume,
		Model:            tts.Model(modelName),
		MaxSegmentLength: maxSegmentLength,
		Parallelism:      parallel,
		MaxAttempts:      maxAttempts,
		RetryDelay:       retryDelay,
		RequestRate:      requestRate,
	})

	started := time.Now()
	buf, err := converter.Convert(cmd.Context(), text)
	if err != nil {
		return err
	}

	if err := writeOutput(buf); err != nil {
		return err
	}

	log.Info("conversion finished",
		"output", outputPath,
		"size", humanize.Bytes(uint64(len(buf.Data))),
		"audio", buf.Duration().Round(time.Millisecond),
		"elapsed", time.Since(started).Round(time.Millisecond))

	if playAfter {
		if err := audio.Play(cmd.Context(), buf); err != nil {
			return fmt.Errorf("playback: %w", err)
		}
	}
	return nil
}

func writeOutput(buf *audio.Buffer) error {
	if outputPath == "-" {
		// Raw WAV bytes on a terminal are never useful.
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("refusing to write WAV data to a terminal; redirect stdout or use -o")
		}
		return audio.Write(os.Stdout, buf)
	}

	path := utils.ExpandPath(outputPath)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
	}
	return audio.WriteFile(path, buf)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "output.wav", "output WAV path (- for stdout)")
	rootCmd.Flags().StringVar(&voiceName, "voice", string(tts.VoiceTongtong), "synthesis voice")
	rootCmd.Flags().Float64Var(&speed, "speed", tts.DefaultSpeed, "speech speed multiplier (0.5-2.0)")
	rootCmd.Flags().Float64Var(&volume, "volume", tts.DefaultVolume, "speech volume multiplier (0.0-10.0)")
	rootCmd.Flags().StringVar(&modelName, "model", string(tts.ModelGLM45Flash), "chat model for semantic splitting")
	rootCmd.Flags().IntVar(&maxSegmentLength, "max-segment-length", tts.DefaultMaxSegmentLength, "maximum segment length in characters (100-1024)")
	rootCmd.Flags().IntVarP(&parallel, "parallel", "j", 1, "concurrent synthesis requests (1-10, 1 = sequential)")
	rootCmd.Flags().IntVar(&maxAttempts, "retries", tts.DefaultMaxAttempts, "synthesis attempts per segment")
	rootCmd.Flags().DurationVar(&retryDelay, "retry-delay", tts.DefaultRetryDelay, "base retry delay (doubles per attempt)")
	rootCmd.Flags().Float64Var(&requestRate, "request-rate", 0, "max provider requests per second (0 = unlimited)")
	rootCmd.Flags().StringVar(&providerName, "provider", "zhipu", "speech provider (zhipu or openai)")
	rootCmd.Flags().StringVar(&splitterName, "splitter", "ai", "text splitter (ai or local)")
	rootCmd.Flags().BoolVar(&thinking, "thinking", false, "enable thinking mode for AI splitting (zhipu only)")
	rootCmd.Flags().BoolVar(&codingPlan, "coding-plan", false, "use the coding-plan endpoint (zhipu only)")
	rootCmd.Flags().BoolVar(&playAfter, "play", false, "play the result after writing it")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Config bindings
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("speed", rootCmd.Flags().Lookup("speed"))
	_ = viper.BindPFlag("volume", rootCmd.Flags().Lookup("volume"))
	_ = viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("max-segment-length", rootCmd.Flags().Lookup("max-segment-length"))
	_ = viper.BindPFlag("parallel", rootCmd.Flags().Lookup("parallel"))
	_ = viper.BindPFlag("retries", rootCmd.Flags().Lookup("retries"))
	_ = viper.BindPFlag("retry-delay", rootCmd.Flags().Lookup("retry-delay"))
	_ = viper.BindPFlag("request-rate", rootCmd.Flags().Lookup("request-rate"))
	_ = viper.BindPFlag("provider", rootCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("splitter", rootCmd.Flags().Lookup("splitter"))

	viper.SetDefault("output", "output.wav")
	viper.SetDefault("voice", string(tts.VoiceTongtong))
	viper.SetDefault("provider", "zhipu")
	viper.SetDefault("splitter", "ai")

	rootCmd.AddCommand(configCmd, manCmd)
}

func gapScope() *gap.Scope {
	return gap.NewScope(gap.User, "text2audio")
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gapScope()
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "text2audio")}, dirs...)
	}

	if c := os.Getenv("TEXT2AUDIO_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("text2audio")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("text2audio")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return
		}
		log.Warn("Could not parse configuration file", "error", err)
	}
}
