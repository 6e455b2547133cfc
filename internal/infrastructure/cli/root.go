package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coaxialdolor/termai/internal/app"
	"github.com/coaxialdolor/termai/internal/application/dispatch"
	"github.com/coaxialdolor/termai/internal/application/query"
	"github.com/coaxialdolor/termai/internal/domain"
)

// Version is stamped by the build; "dev" otherwise.
var Version = "dev"

type rootFlags struct {
	yes      bool
	verbose  bool
	long     bool
	chat     bool
	evalMode bool
	provider string
	readFile string
	explain  string
}

// NewRootCmd builds the command tree. The container is built lazily inside
// RunE so that `termai --help` works without a usable config.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "termai [question]",
		Short: "AI assistant for the terminal",
		Long: "termai answers questions in the terminal, extracts the shell commands from " +
			"the answer, and walks you through confirming and running them.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd.Context(), flags, args)
		},
	}

	root.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Auto-confirm commands that are neither risky nor stateful")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	root.Flags().BoolVarP(&flags.long, "long", "l", false, "Ask for a detailed answer that explains each command")
	root.Flags().BoolVarP(&flags.chat, "chat", "c", false, "Hold a conversation instead of a single query")
	root.Flags().BoolVar(&flags.evalMode, "eval-mode", false, "Shell-integration mode: stdout carries only a confirmed command")
	root.Flags().StringVar(&flags.provider, "provider", "", "Override the configured provider for this invocation")
	root.Flags().StringVar(&flags.readFile, "read-file", "", "Attach the contents of a file to the question")
	root.Flags().StringVar(&flags.explain, "explain", "", "Ask for an explanation of a file")
	root.MarkFlagsMutuallyExclusive("read-file", "explain")
	root.MarkFlagsMutuallyExclusive("chat", "eval-mode")

	root.AddCommand(newIntegrationCommand(flags))
	root.AddCommand(newHistoryCommand(flags))
	root.AddCommand(newConfigCommand(flags))
	root.AddCommand(newDoctorCommand(flags))
	root.AddCommand(newVersionCommand())
	return root
}

func runRoot(ctx context.Context, flags *rootFlags, args []string) error {
	container, err := app.Build(ctx, flags.verbose)
	if err != nil {
		return err
	}
	defer container.Close()

	sinks := dispatch.StandardSinks(flags.evalMode)
	renderer := NewRenderer(sinks.Human)
	in := bufio.NewReader(os.Stdin)

	mode := domain.ModeDirect
	switch {
	case flags.chat:
		mode = domain.ModeChat
	case len(args) == 0 && flags.readFile == "" && flags.explain == "":
		mode = domain.ModeInteractive
	}

	svc := container.NewQueryService(app.SessionOptions{
		Mode:             mode,
		Sinks:            sinks,
		Renderer:         renderer,
		In:               in,
		AutoConfirm:      flags.yes,
		ProviderOverride: flags.provider,
	})

	switch mode {
	case domain.ModeChat:
		return runChat(ctx, svc, in, sinks.Human, strings.Join(args, " "), flags.long)
	case domain.ModeInteractive:
		return runInteractive(ctx, svc, in, sinks.Human, flags.long)
	default:
		req, err := buildRequest(flags, args)
		if err != nil {
			return err
		}
		_, err = svc.Run(ctx, req)
		return err
	}
}

// buildRequest assembles the direct-query request, attaching file contents
// when --read-file or --explain is set.
func buildRequest(flags *rootFlags, args []string) (query.Request, error) {
	prompt := strings.Join(args, " ")
	req := query.Request{ProviderOverride: flags.provider, Detailed: flags.long}

	switch {
	case flags.explain != "":
		content, err := os.ReadFile(flags.explain)
		if err != nil {
			return query.Request{}, err
		}
		req.Prompt = fmt.Sprintf("Explain what this file does.\n\nFile %s:\n```\n%s\n```",
			filepath.Base(flags.explain), content)
		req.AnswerOnly = true
	case flags.readFile != "":
		content, err := os.ReadFile(flags.readFile)
		if err != nil {
			return query.Request{}, err
		}
		if prompt == "" {
			prompt = "What can you tell me about this file?"
		}
		req.Prompt = fmt.Sprintf("%s\n\nFile %s:\n```\n%s\n```",
			prompt, filepath.Base(flags.readFile), content)
	default:
		req.Prompt = prompt
	}
	return req, nil
}

// runInteractive asks for a single question, runs it, and exits.
func runInteractive(ctx context.Context, svc *query.Service, in *bufio.Reader, out io.Writer, long bool) error {
	fmt.Fprint(out, "What would you like to do? ")
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return nil
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	_, err = svc.Run(ctx, query.Request{Prompt: line, Detailed: long})
	return err
}

// runChat keeps a conversation until the user quits. Commands suggested in
// any turn still pass through the full confirmation flow, but stateful
// commands never emit in chat mode.
func runChat(ctx context.Context, svc *query.Service, in *bufio.Reader, out io.Writer, opening string, long bool) error {
	var turns []domain.ChatMessage
	fmt.Fprintln(out, "Chat mode. Type 'exit' or 'quit' to leave.")

	prompt := strings.TrimSpace(opening)
	for {
		if prompt == "" {
			fmt.Fprint(out, "you> ")
			line, err := in.ReadString('\n')
			if err != nil && line == "" {
				return nil
			}
			prompt = strings.TrimSpace(line)
		}
		switch prompt {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		result, err := svc.Run(ctx, query.Request{Prompt: prompt, History: turns, Detailed: long})
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			prompt = ""
			continue
		}
		turns = append(turns,
			domain.ChatMessage{Role: domain.RoleUser, Content: prompt},
			domain.ChatMessage{Role: domain.RoleAssistant, Content: result.Answer},
		)
		prompt = ""
	}
}
