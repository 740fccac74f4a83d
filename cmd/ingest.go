package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/linkbase/internal/bot"
	"github.com/ziadkadry99/linkbase/internal/linkdetect"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <url>",
	Short: "Extract, summarize, and index a link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		if linkdetect.ExtractURL(url) == "" {
			return fmt.Errorf("%q is not a valid URL", url)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := buildApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		replies, err := a.bot.Handle(cmd.Context(), bot.Incoming{UserID: userID, Text: url})
		if err != nil {
			return err
		}
		for _, reply := range replies {
			fmt.Println(reply)
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
