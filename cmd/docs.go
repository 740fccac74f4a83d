package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage your saved documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved documents",
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
			fmt.Println("No documents yet. Run `linkbase ingest <url>` to add one.")
			return nil
		}
		for i, d := range docs {
			fmt.Printf("%d. %s (%s)\n", i+1, d.Title, d.URL)
			fmt.Printf("   Type: %s | Added: %s\n", d.ContentType, d.AddedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <number>",
	Short: "Delete a document by its list position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid number %q", args[0])
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

		mgr, err := a.registry.Manager(userID)
		if err != nil {
			return err
		}
		docs, err := mgr.Index().List(cmd.Context())
		if err != nil {
			return err
		}
		if n < 1 || n > len(docs) {
			return fmt.Errorf("invalid document number: you have %d documents", len(docs))
		}

		doc := docs[n-1]
		deleted, err := mgr.Index().Delete(cmd.Context(), doc.DocID)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("document not found")
		}
		fmt.Printf("Deleted: %s\n", doc.Title)
		return nil
	},
}

var docsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all saved documents",
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
		count, err := mgr.Index().Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Cleared %d document(s).\n", count)
		return nil
	},
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	docsCmd.AddCommand(docsClearCmd)
	rootCmd.AddCommand(docsCmd)
}
