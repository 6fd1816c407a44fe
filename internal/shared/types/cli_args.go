package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile   string
	Input        string
	Verbose      int
	ReportName   string
	ReportType   []string
	Dir          string
	Upload       string
	AWSProfile   string
	Region       string
	Summary      bool
	Top          int
	Color        bool
	HotThreshold int
	LogLevel     string
	CheckUpdate  bool
}

// IsVerbose reports whether -v was given at least once.
func (a *CLIArgs) IsVerbose() bool {
	return a.Verbose > 0
}
