package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasklog/tasklog/internal/tracker"
	"github.com/tasklog/tasklog/pkg/model"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for task.

To load completions for your shell:

Bash:
  # To load completions for each session, execute once:
  # Linux:
  task completion bash > /etc/bash_completion.d/task
  # macOS:
  task completion bash > /usr/local/etc/bash_completion.d/task

  # Or add to your ~/.bashrc or ~/.bash_profile:
  source <(task completion bash)

Zsh:
  # To load completions for each session, execute once:
  task completion zsh > "${fpath[1]}/_task"

  # Or add to your ~/.zshrc:
  source <(task completion zsh)

  # You may need to force rebuild the completion cache:
  rm -f ~/.zcompdump
  compinit

Fish:
  # To load completions for each session, execute once:
  task completion fish > ~/.config/fish/completions/task.fish

  # Or add to your ~/.config/fish/config.fish:
  task completion fish | source

PowerShell:
  # To load completions for each session, run:
  task completion powershell | Out-String | Invoke-Expression

  # Or add to your PowerShell profile:
  # (Microsoft.PowerShell_profile.ps1 or profile.ps1)
  task completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.ExactValidArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := args[0]

		var err error
		switch shell {
		case "bash":
			err = cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			err = cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			err = cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			err = cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			err = fmt.Errorf("unsupported shell type: %s", shell)
		}

		if err != nil {
			return fmt.Errorf("generate completion for %s: %w", shell, err)
		}
		return nil
	},
}

// completeTaskIDs offers ids of the current project's tasks as the first
// argument, with titles as descriptions.
func completeTaskIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx, err := requireContext()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	tasks, err := ctx.tracker.List(tracker.ListRequest{Project: ctx.project})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, toComplete) {
			out = append(out, t.ID+"\t"+t.Title)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeStatus offers known statuses as the second argument of update.
func completeStatus(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, 0, len(model.KnownStatuses))
	for _, s := range model.KnownStatuses {
		out = append(out, string(s))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	getCmd.ValidArgsFunction = completeTaskIDs
	updateCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return completeTaskIDs(cmd, args, toComplete)
		}
		return completeStatus(cmd, args, toComplete)
	}
	rootCmd.AddCommand(completionCmd)
}
