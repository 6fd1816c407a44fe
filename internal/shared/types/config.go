package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Input        string   `json:"input" yaml:"input" toml:"input"`
	Verbose      bool     `json:"verbose" yaml:"verbose" toml:"verbose"`
	ReportName   string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType   []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir          string   `json:"dir" yaml:"dir" toml:"dir"`
	Upload       string   `json:"upload" yaml:"upload" toml:"upload"`
	AWSProfile   string   `json:"aws_profile" yaml:"aws_profile" toml:"aws_profile"`
	Region       string   `json:"region" yaml:"region" toml:"region"`
	Summary      bool     `json:"summary" yaml:"summary" toml:"summary"`
	Top          int      `json:"top" yaml:"top" toml:"top"`
	Color        bool     `json:"color" yaml:"color" toml:"color"`
	HotThreshold int      `json:"hot_threshold" yaml:"hot_threshold" toml:"hot_threshold"`
	LogLevel     string   `json:"log_level" yaml:"log_level" toml:"log_level"`
}
