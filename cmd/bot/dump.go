package main

import (
	"errors"
	"fmt"

	"github.com/eliseohh/ytbot/internal/youtube"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <playlist-url>",
		Short: "Print every video link of a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := youtube.PlaylistID(args[0])
			if !ok {
				return fmt.Errorf("not a playlist link: %s", args[0])
			}

			links, res, err := youtube.PlaylistLinks(cmd.Context(), a.newYouTube(), id, a.log)
			if err != nil {
				return err
			}
			if res.Stop == youtube.StopFailed {
				if len(links) == 0 {
					return fmt.Errorf("fetch playlist %s: %w", id, res.Err)
				}
				a.log.Warn("playlist is incomplete",
					zap.Int("links", len(links)),
					zap.Error(res.Err))
			}
			if len(links) == 0 {
				return errors.New("playlist is empty")
			}

			out := cmd.OutOrStdout()
			if _, err := out.Write(youtube.ExportText(links)); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out)
			return err
		},
	}
}
