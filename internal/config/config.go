// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Files    FileConfig
	Forecast ForecastConfig
	Pipeline PipelineConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type FileConfig struct {
	RawFile      string // historical usage workbook
	LeadTimeFile string // SKU -> lead-time-in-days workbook
	OutFile      string // formatted output workbook
}

// ForecastConfig is the externally overridable tuning surface for the
// segmentation, forecasting and capping rules.
type ForecastConfig struct {
	Horizon         int     // number of future months to forecast
	ContRatio       float64 // hit ratio at or above which demand is continuous
	MinHits         int     // below this many hits a SKU is a buy-out candidate
	CapMult         float64 // cap multiplier, 1.00 = hard cap
	SeasonLength    int     // season length for the continuous-demand model
	AlphaDemand     float64 // TSB demand-size smoothing
	AlphaProb       float64 // TSB demand-probability smoothing
	WinsorizeMedian bool    // winsorize the trailing median before capping
}

type PipelineConfig struct {
	WorkerCount int
	LogLevel    string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "release")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("RAW_FILE", "./data/input/historical_usage.xlsx")
		viper.SetDefault("LEADTIME_FILE", "./data/input/lead_times.xlsx")
		viper.SetDefault("OUT_FILE", "./data/output/buyouts_forecast.xlsx")
		viper.SetDefault("HORIZON", 20)
		viper.SetDefault("CONT_RATIO", 0.80)
		viper.SetDefault("MIN_HITS", 4)
		viper.SetDefault("CAP_MULT", 1.00)
		viper.SetDefault("SEASON_LENGTH", 12)
		viper.SetDefault("TSB_ALPHA_D", 0.3)
		viper.SetDefault("TSB_ALPHA_P", 0.3)
		viper.SetDefault("WINSORIZE_MEDIAN", false)
		viper.SetDefault("WORKER_COUNT", 4)
		viper.SetDefault("LOG_LEVEL", "info")

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Files: FileConfig{
				RawFile:      viper.GetString("RAW_FILE"),
				LeadTimeFile: viper.GetString("LEADTIME_FILE"),
				OutFile:      viper.GetString("OUT_FILE"),
			},
			Forecast: ForecastConfig{
				Horizon:         viper.GetInt("HORIZON"),
				ContRatio:       viper.GetFloat64("CONT_RATIO"),
				MinHits:         viper.GetInt("MIN_HITS"),
				CapMult:         viper.GetFloat64("CAP_MULT"),
				SeasonLength:    viper.GetInt("SEASON_LENGTH"),
				AlphaDemand:     viper.GetFloat64("TSB_ALPHA_D"),
				AlphaProb:       viper.GetFloat64("TSB_ALPHA_P"),
				WinsorizeMedian: viper.GetBool("WINSORIZE_MEDIAN"),
			},
			Pipeline: PipelineConfig{
				WorkerCount: viper.GetInt("WORKER_COUNT"),
				LogLevel:    viper.GetString("LOG_LEVEL"),
			},
		}
	})

	return instance
}

// DefaultForecastConfig returns the tuning surface with stock defaults,
// independent of the environment. Used by tests and as a CLI baseline.
func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		Horizon:      20,
		ContRatio:    0.80,
		MinHits:      4,
		CapMult:      1.00,
		SeasonLength: 12,
		AlphaDemand:  0.3,
		AlphaProb:    0.3,
	}
}
