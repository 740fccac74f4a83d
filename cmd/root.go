package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	userID  string
)

var rootCmd = &cobra.Command{
	Use:   "linkbase",
	Short: "Personal link summarization and question answering",
	Long: `Linkbase ingests links (web pages, videos, PDFs, repository READMEs),
extracts and summarizes their content, and maintains a per-user searchable
index that a question-answering flow queries alongside conversation history.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".linkbase.yml", "config file path")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "default", "user id to operate on")
}
