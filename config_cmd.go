package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# speech provider: zhipu or openai
provider: "zhipu"
# text splitter: ai (chat model) or local (offline sentence splitter)
splitter: "ai"

# synthesis voice (zhipu: tongtong, chuichui, xiaochen, jam, kazi,
# douji, luodo; openai: alloy, echo, fable, onyx, nova, shimmer)
voice: "tongtong"
# speech speed multiplier (0.5 to 2.0)
speed: 1.0
# speech volume multiplier (0.0 to 10.0)
volume: 1.0

# chat model used for splitting (zhipu provider)
model: "glm-4.5-flash"
# maximum segment length in characters (100 to 1024)
max-segment-length: 500
# concurrent synthesis requests (1 to 10, 1 = sequential)
parallel: 1
# synthesis attempts per segment
retries: 3
# base retry delay, doubled on each subsequent attempt
retry-delay: "100ms"
# max provider requests per second (0 = unlimited)
request-rate: 0

# default output path (- for stdout)
output: "output.wav"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the text2audio config file",
	Long:    "Edit the text2audio config file. We'll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.",
	Example: "text2audio config\ntext2audio config --config path/to/config.yml",
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("text2audio", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if configFile == "" {
			scope := gapScope()
			dir, err := scope.ConfigPath("")
			if err != nil {
				return fmt.Errorf("could not determine config path: %w", err)
			}
			configFile = filepath.Join(dir, "text2audio.yml")
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
