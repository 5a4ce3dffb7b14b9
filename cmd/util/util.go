package util

import (
	"fmt"
	"strings"

	"github.com/apache/activemq-openwire-sub001/lib/common"
	"github.com/apache/activemq-openwire-sub001/lib/openwire"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// Logger is used by all owire subcommands
var Logger = logger.GetLogger("cli")

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupFormatFlags adds the wire format options to a command
func SetupFormatFlags(cmd *cobra.Command) {
	def := openwire.DefaultConfig()

	key := "version"
	cmd.PersistentFlags().Int(key, def.Version, WrapString(fmt.Sprintf("OpenWire protocol version (%d..%d)", openwire.MinVersion, openwire.MaxVersion)))

	key = "encoding"
	cmd.PersistentFlags().String(key, "tight", WrapString("Wire encoding to use (tight, loose)"))

	key = "cache"
	cmd.PersistentFlags().Bool(key, def.CacheEnabled, WrapString("Whether to enable the object cache for cached properties"))

	key = "cache-size"
	cmd.PersistentFlags().Int(key, def.CacheSize, WrapString(fmt.Sprintf("Number of entries of the object cache (max %d)", openwire.MaxCacheSize)))

	key = "size-prefix"
	cmd.PersistentFlags().Bool(key, def.SizePrefix, WrapString("Whether frames carry a 4 byte size prefix"))

	key = "max-frame-size"
	cmd.PersistentFlags().Int(key, def.MaxFrameSize, WrapString("The largest accepted frame (in bytes)"))

	key = "stack-traces"
	cmd.PersistentFlags().Bool(key, def.StackTraceEnabled, WrapString("Whether exceptions carry their stack trace"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warning", WrapString("Log level (debug, info, warning, error), optionally per logger (e.g. warn,openwire=debug)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("owire")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// InitLogging sets up the module loggers at the configured level
func InitLogging() error {
	return common.InitLoggers(viper.GetString("log-level"))
}

// GetFormatConfig reads the wire format options from viper
func GetFormatConfig() (openwire.Config, error) {
	conf := openwire.Config{
		Version:           viper.GetInt("version"),
		CacheEnabled:      viper.GetBool("cache"),
		CacheSize:         viper.GetInt("cache-size"),
		SizePrefix:        viper.GetBool("size-prefix"),
		MaxFrameSize:      viper.GetInt("max-frame-size"),
		StackTraceEnabled: viper.GetBool("stack-traces"),
	}

	switch encoding := viper.GetString("encoding"); encoding {
	case "tight":
		conf.TightEncoding = true
	case "loose":
		conf.TightEncoding = false
	default:
		return conf, fmt.Errorf("invalid encoding %s", encoding)
	}

	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

// GetFormat creates a wire format based on configuration
func GetFormat() (*openwire.Format, error) {
	conf, err := GetFormatConfig()
	if err != nil {
		return nil, err
	}
	Logger.Debugf("using format %+v", conf)
	return openwire.NewFormat(conf)
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
