package cli

import (
	"fmt"

	"github.com/diillson/es-profile-report/pkg/console"
	"github.com/diillson/es-profile-report/pkg/version"
)

// welcomeBanner monta o banner exibido no texto de ajuda.
func welcomeBanner() string {
	banner := `
     ______  _____  ____   _____
    |  ____|/ ____||  _ \ |  __ \
    | |__  | (___  | |_) || |__) |
    |  __|  \___ \ |  __/ |  _  /
    | |____ ____) || |    | | \ \
    |______|_____/ |_|    |_|  \_\
`
	return fmt.Sprintf("%s\n%s\n\n%s",
		console.BoldRed(banner),
		console.BrightBlue(fmt.Sprintf("ES Profile Report CLI (v%s)", version.FormatVersion())),
		"Reads an Elasticsearch profile response (stdin by default) and prints\n"+
			"every query and aggregation tree as an indented timing report.",
	)
}
