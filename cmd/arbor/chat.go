package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Starts a REPL talking to a single agent. The agent may call its local
tools (calculator, search, weather) while answering.

Commands inside the session:
  /reset   start a fresh conversation
  /tools   list the registered tools
  exit     leave the session`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		settings, err := config.Load(configPath)
		if err != nil {
			return err
		}

		logger := cli.NewLogger(settings)
		provider, err := cli.NewProvider(settings, logger)
		if err != nil {
			return err
		}
		reg := cli.NewRegistry()
		agent, err := cli.NewAgent(settings, provider, reg, logger, domain.LifecycleHooks{}, "")
		if err != nil {
			return err
		}

		interactive := term.IsTerminal(int(os.Stdout.Fd()))
		render := func(s string) string { return s }
		if interactive {
			tui.PrintBanner()
			fmt.Printf("Model: %s — type 'exit' to leave.\n\n", settings.Agent.Model)
			markdown := tui.NewRenderer()
			render = func(s string) string {
				out, err := markdown(s)
				if err != nil {
					return s
				}
				return strings.TrimRight(out, "\n") + "\n"
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		scanner := bufio.NewScanner(os.Stdin)
		for {
			if interactive {
				fmt.Print("> ")
			}
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())

			switch input {
			case "":
				continue
			case "exit", "quit":
				return nil
			case "/reset":
				agent.Reset(true)
				fmt.Println("Conversation reset.")
				continue
			case "/tools":
				for _, tool := range reg.List() {
					fmt.Printf("  %s — %s\n", tool.Name, tool.Description)
				}
				continue
			}

			response, err := agent.Chat(ctx, input)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			fmt.Print(render(response))
			if calls := agent.LastToolCalls(); len(calls) > 0 && interactive {
				names := make([]string, len(calls))
				for i, call := range calls {
					names[i] = call.Name
				}
				fmt.Printf("  (tools used: %s)\n", strings.Join(names, ", "))
			}
		}
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
