package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moviechat/moviechat/internal/recommend"
)

var (
	askType     string
	askLang     string
	askPage     int
	askPageSize int
	askLimit    int
)

var askCmd = &cobra.Command{
	Use:   "ask <text>",
	Short: "Print recommendations for a prompt as JSON",
	Long: `Run one recommendation request and print the response envelope.

Examples:
  moviechat ask "hindi comedy movies released after 2015"
  moviechat ask "something like inception" --limit 5
  moviechat ask "tom cruise movies" --page 2 --page-size 20`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askType, "type", "t", "", "Content type override (movie or series)")
	askCmd.Flags().StringVarP(&askLang, "lang", "l", "", "Original language override (ISO 639-1)")
	askCmd.Flags().IntVarP(&askPage, "page", "p", 0, "Catalog page")
	askCmd.Flags().IntVar(&askPageSize, "page-size", 0, "Items per page")
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 0, "Return the top N items across prefetched pages")
}

func runAsk(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return errors.New("text is required")
	}
	if askPage < 0 || askPageSize < 0 || askLimit < 0 {
		return errors.New("page, page-size and limit must not be negative")
	}

	// Logs go to stderr so stdout carries only the JSON document.
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.service.Recommend(cmd.Context(), recommend.Request{
		Text:        text,
		ContentType: askType,
		Language:    askLang,
		Page:        askPage,
		PageSize:    askPageSize,
		Limit:       askLimit,
	})
	if err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	return writeJSON(cmd.OutOrStdout(), resp)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
