package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/rohmanhakim/movie-info-server/internal/config"
	"github.com/rohmanhakim/movie-info-server/internal/metadata"
	"github.com/spf13/cobra"
)

var lookupEncoded bool

// lookupCmd fetches one title through the configured provider, bypassing
// the socket server. Handy for checking an API key.
var lookupCmd = &cobra.Command{
	Use:   "lookup <title>",
	Short: "Fetch one movie document and print it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFiles...); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		cfg, err := InitConfigWithError(os.LookupEnv)
		if err != nil {
			return err
		}
		logger, err := metadata.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel(), cfg.LogFormat())
		if err != nil {
			return fmt.Errorf("%w: %s", config.ErrInvalidConfig, err.Error())
		}

		movieProvider, err := NewProvider(cfg, metadata.NewRecorder(logger))
		if err != nil {
			return err
		}

		title := strings.Join(args, " ")
		if !lookupEncoded {
			title = EncodeTitle(title)
		}
		doc, fetchErr := movieProvider.FetchMovieData(cmd.Context(), title)
		if fetchErr != nil {
			return fetchErr
		}
		fmt.Fprintln(cmd.OutOrStdout(), doc)
		return nil
	},
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupEncoded, "encoded", false, "the title is already percent-encoded")
}

// EncodeTitle percent-encodes a title the way the search page does,
// spaces included as %20.
func EncodeTitle(title string) string {
	return strings.ReplaceAll(url.QueryEscape(title), "+", "%20")
}
