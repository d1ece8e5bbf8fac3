package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"research-tools/backend/internal/adapter"
	"research-tools/backend/internal/constants"
	"research-tools/backend/internal/htmltext"
	"research-tools/backend/internal/tools"
	apperrors "research-tools/backend/pkg/errors"
)

// toolRunner executes one tool call
type toolRunner interface {
	Execute(ctx context.Context, call adapter.ToolCall) *tools.ToolResult
}

func newRootCmd(runner toolRunner) *cobra.Command {
	root := &cobra.Command{
		Use:           "toolctl",
		Short:         "Run research tools from the command line",
		SilenceUsage: true,
	}
	root.AddCommand(newListCmd(), newRunCmd(runner), newExtractCmd())
	return root
}

func newListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all := tools.GetAllTools()
			sort.Slice(all, func(i, j int) bool { return all[i].Function.Name < all[j].Function.Name })

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), all)
			}
			for _, t := range all {
				params := make([]string, 0, len(t.Function.Required()))
				for _, r := range t.Function.Required() {
					params = append(params, "<"+r+">")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", t.Function.Name, strings.Join(params, " "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tool definitions as JSON")
	return cmd
}

func newRunCmd(runner toolRunner) *cobra.Command {
	var asMarkdown bool

	cmd := &cobra.Command{
		Use:   "run <tool> [key=value ...] [text ...]",
		Short: "Run a tool and print its result",
		Long: `Runs one tool. Parameters are given as key=value pairs; any other
words are joined and passed as the first required parameter not already set.

  toolctl run wikipedia_search alan turing
  toolctl run reddit_list subreddit=golang sort=top t=week
  toolctl run fetch_url url=https://go.dev --markdown`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			tool, ok := tools.LookupTool(name)
			if !ok {
				return apperrors.NewToolNotFound(name)
			}
			toolArgs, err := parseToolArgs(tool, args[1:])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.ToolCallTimeout)
			defer cancel()

			result := runner.Execute(ctx, adapter.ToolCall{Name: name, Arguments: toolArgs})
			if asMarkdown {
				fmt.Fprint(cmd.OutOrStdout(), tools.RenderMarkdown(name, result))
			} else if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("%s failed", name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "print the result as Markdown")
	return cmd
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file]",
		Short: "Print the readable text of an HTML document",
		Long:  "Reads HTML from file, or from standard input when no file is given, and prints its text content.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			markup, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), htmltext.Extract(string(markup)))
			return nil
		},
	}
}

// parseToolArgs reads key=value pairs for declared parameters. Other words
// are joined into the first required parameter that is still unset.
func parseToolArgs(tool adapter.Tool, words []string) (map[string]interface{}, error) {
	declared := map[string]bool{}
	for _, p := range tool.Function.Properties() {
		declared[p] = true
	}

	args := map[string]interface{}{}
	var free []string
	for _, w := range words {
		if key, value, ok := strings.Cut(w, "="); ok && declared[key] {
			args[key] = value
			continue
		}
		free = append(free, w)
	}
	if len(free) == 0 {
		return args, nil
	}

	for _, name := range tool.Function.Required() {
		if _, ok := args[name]; !ok {
			args[name] = strings.Join(free, " ")
			return args, nil
		}
	}
	return nil, apperrors.NewInvalidArgument(strings.Join(free, " "), "unexpected text; use key=value")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
