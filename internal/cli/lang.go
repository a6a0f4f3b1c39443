package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasklog/tasklog/internal/langgate"
	"github.com/tasklog/tasklog/pkg/errclass"
)

var langUnset bool

type langInfo struct {
	Project string `json:"project"`
	Lang    string `json:"lang,omitempty"`
}

var langCmd = &cobra.Command{
	Use:   "lang [code]",
	Short: "Set or show expected language for the current project",
	Long: `Set or show the expected language for the current project.

When set, task create rejects titles and descriptions detected to be in
another language. Codes are ISO 639-1 (ja, en) or ISO 639-3 (jpn, eng) and
are stored in their ISO 639-1 form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := requireContext()
		if err != nil {
			return err
		}

		switch {
		case langUnset:
			if err := ctx.langs.Unset(ctx.project); err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(langInfo{Project: ctx.project})
			}
			fmt.Println("Language setting removed.")

		case len(args) == 1:
			code, ok := langgate.Canonical(args[0])
			if !ok {
				err := errclass.ErrLangUnsupported.WithMessagef("unsupported language code: '%s'", args[0])
				return withHint(err, "  Supported: "+strings.Join(langgate.SupportedCodes(), ", "))
			}
			if err := ctx.langs.Set(ctx.project, code); err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(langInfo{Project: ctx.project, Lang: code})
			}
			fmt.Printf("Language set to '%s'.\n", code)

		default:
			code, ok := ctx.langs.Get(ctx.project)
			if jsonOutput {
				return outputJSON(langInfo{Project: ctx.project, Lang: code})
			}
			if !ok {
				fmt.Println("Language not set.")
				return nil
			}
			fmt.Println(code)
		}
		return nil
	},
}

func init() {
	langCmd.Flags().BoolVar(&langUnset, "unset", false, "remove language setting")
	rootCmd.AddCommand(langCmd)
}
