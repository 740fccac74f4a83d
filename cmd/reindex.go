package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/linkbase/internal/extract"
	"github.com/ziadkadry99/linkbase/internal/linkdetect"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Re-extract and re-embed all saved documents",
	Long: `Walks every saved document for the user, re-runs extraction against its
URL, and upserts the fresh content into the index. Useful after changing the
embedding model or when source pages have changed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := buildApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		mgr, err := a.registry.Manager(userID)
		if err != nil {
			return err
		}
		docs, err := mgr.Index().List(cmd.Context())
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println("No documents to reindex.")
			return nil
		}

		bar := progressbar.NewOptions(len(docs),
			progressbar.OptionSetDescription("reindexing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		var failed int
		for _, doc := range docs {
			contentType := linkdetect.Classify(doc.URL)
			extractor := extract.New(contentType, a.deps)

			content, err := extractor.ExtractContent(cmd.Context(), doc.URL)
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "\n%s: %v\n", doc.URL, err)
				bar.Add(1)
				continue
			}

			title := extractor.DocumentName(cmd.Context(), doc.URL, content)
			if _, err := mgr.AddDocument(cmd.Context(), doc.URL, content, title, string(contentType)); err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "\n%s: %v\n", doc.URL, err)
			}
			bar.Add(1)
		}

		fmt.Printf("Reindexed %d document(s), %d failed.\n", len(docs)-failed, failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
