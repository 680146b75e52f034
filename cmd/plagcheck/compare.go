package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"plagcheck/internal/app"
	"plagcheck/internal/domain/models"
	"plagcheck/internal/services/highlight"
)

var (
	compareJSON        bool
	compareMaxText     int
	compareSuspectText string
	compareSourceText  string
)

var errCompareInputs = errors.New("compare needs exactly one suspect and one source")

var compareCmd = &cobra.Command{
	Use:   "compare [suspect] [source]",
	Short: "Compare a suspect document against a source document",
	Long: `Scores how much of the suspect document appears in the source document and
prints both texts with the shared content highlighted. Highlighted page images
of scanned documents are written to the configured output directory.

Either side may be given as text instead of a file: with --suspect-text or
--source-text, or as "-" to read it from stdin. File arguments fill the
sides not given as text, suspect first.`,
	Args:     cobra.MaximumNArgs(2),
	PreRunE:  setupApp,
	RunE:     runCompare,
	PostRunE: teardownApp,
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "output the report as JSON")
	compareCmd.Flags().IntVar(&compareMaxText, "max-text", 3000, "truncate displayed texts to this many bytes (0 disables)")
	compareCmd.Flags().StringVar(&compareSuspectText, "suspect-text", "", "suspect text given inline instead of a file")
	compareCmd.Flags().StringVar(&compareSourceText, "source-text", "", "source text given inline instead of a file")
	rootCmd.AddCommand(compareCmd)
}

// compareInputs pairs the inline texts and positional arguments into the
// suspect and source inputs. Only one side can be read from stdin.
func compareInputs(stdin io.Reader, args []string) ([2]app.Input, error) {
	inputs := [2]app.Input{app.TextInput(compareSuspectText), app.TextInput(compareSourceText)}

	stdinUsed := false
	for i := range inputs {
		if inputs[i].Text != "" {
			continue
		}
		if len(args) == 0 {
			return inputs, errCompareInputs
		}
		arg := args[0]
		args = args[1:]

		if arg != "-" {
			inputs[i] = app.FileInput(arg)
			continue
		}
		if stdinUsed {
			return inputs, fmt.Errorf("%w: stdin can feed only one side", errCompareInputs)
		}
		stdinUsed = true
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return inputs, fmt.Errorf("read stdin: %w", err)
		}
		inputs[i] = app.TextInput(string(raw))
	}
	if len(args) > 0 {
		return inputs, errCompareInputs
	}
	return inputs, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	inputs, err := compareInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	result, err := application.Compare(cmd.Context(), inputs[0], inputs[1])
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	report := result.Report
	if compareJSON {
		return printJSON(cmd, struct {
			Report     any      `json:"report"`
			SavedPages []string `json:"saved_pages,omitempty"`
		}{report, result.SavedPages})
	}

	cmd.Println(titleStyle.Render(fmt.Sprintf("%s vs %s", report.SuspectName, report.SourceName)))
	cmd.Printf("  %s %s\n", labelStyle.Render("similarity:"), formatScore(report.Result.SimilarityScore))
	cmd.Printf("  %s %.2f%%  %s %.2f%%\n",
		labelStyle.Render("k-gram:"), report.Result.RabinKarpScore,
		labelStyle.Render("word overlap:"), report.Result.JaccardScore)
	cmd.Printf("  %s %s\n", labelStyle.Render("check id:"), report.ID)
	cmd.Println()

	if report.Result.HasMatches() {
		cmd.Println(titleStyle.Render(fmt.Sprintf("Matched fragments: %d", len(report.Result.Fragments))))
		cmd.Println("  " + strings.Join(report.Result.Texts(), " | "))
		cmd.Println()
	}

	marker := highlight.NewTerminalMarker()
	for _, doc := range []*models.Document{result.Suspect, result.Source} {
		cmd.Println(titleStyle.Render(doc.Name))
		cmd.Println(highlight.Project(highlight.PrepareForDisplay(doc.RawText, compareMaxText), report.Result.Fragments, marker))
		cmd.Println()
	}

	for _, p := range result.SavedPages {
		cmd.Printf("  %s %s\n", labelStyle.Render("saved:"), p)
	}

	return nil
}
