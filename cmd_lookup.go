package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"word_etymology/render"
)

var (
	lookupJSON bool
	lookupHTML bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <word>",
	Short: "Look up a single word and print the answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if lookupJSON && lookupHTML {
			return errors.New("--json and --html are mutually exclusive")
		}
		agent, err := buildAgent(loaded)
		if err != nil {
			return err
		}
		word := args[0]
		ans, err := agent.Lookup(cmd.Context(), word)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case lookupJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(ans.Record)
		case lookupHTML:
			body, err := render.HTML(render.Markdown(word, ans.Record))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, render.Page(word, body))
			return err
		default:
			text, err := render.Terminal(render.Markdown(word, ans.Record), 0)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, text)
			if ans.Degraded {
				fmt.Fprintln(os.Stderr, "warning: the model reply could not be parsed")
			}
			return err
		}
	},
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print the raw JSON record")
	lookupCmd.Flags().BoolVar(&lookupHTML, "html", false, "print an HTML page")
}
