// Command console is a terminal client for the refinement relay: it
// streams assistant replies live and renders the work-item draft panel
// as fields are recognized.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"draftdeck.app/refinery/common/id"
	"draftdeck.app/refinery/internal/client"
	"draftdeck.app/refinery/internal/model"
)

var (
	serverURL string
	itemType  string
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle     = lipgloss.NewStyle().Bold(true)
	readyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Faint(true)
)

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Chat with the refinement assistant from the terminal",
	Long: `Interactive refinement session against a running refinery server.

Type a message and watch the assistant's reply stream in. When the
assistant emits a template update, the draft panel below the chat
reflects it. Commands:

  /type <story|feature|epic|bug|issue>   switch work-item type (resets the draft)
  /draft                                 print the current draft panel
  /quit                                  exit`,
	RunE: run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Refinery server base URL")
	rootCmd.Flags().StringVar(&itemType, "type", "story", "Initial work-item type")
}

func run(cmd *cobra.Command, args []string) error {
	if err := id.Init(1); err != nil {
		return fmt.Errorf("initializing id generator: %w", err)
	}

	startType := model.WorkItemType(itemType)
	if !startType.Valid() {
		return fmt.Errorf("unknown work-item type %q", itemType)
	}

	session := client.NewSession(serverURL, startType)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, dimStyle.Render("Refining a "+string(startType)+". Type a message, or /quit to exit."))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, userStyle.Render("> "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if done := handleCommand(out, session, line); done {
				return nil
			}
			continue
		}

		streamReply(cmd, session, line)

		if session.Draft().Ready() {
			fmt.Fprintln(out, readyStyle.Render("✓ draft is ready to hand off"))
			fmt.Fprintln(out, renderDraft(session))
		}
	}
}

func handleCommand(out io.Writer, session *client.Session, line string) bool {
	switch {
	case line == "/quit":
		return true
	case line == "/draft":
		fmt.Fprintln(out, renderDraft(session))
	case strings.HasPrefix(line, "/type "):
		next := model.WorkItemType(strings.TrimSpace(strings.TrimPrefix(line, "/type ")))
		if !next.Valid() {
			fmt.Fprintln(out, dimStyle.Render("unknown type; expected story, feature, epic, bug, or issue"))
			return false
		}
		session.SelectType(next)
		fmt.Fprintln(out, dimStyle.Render("switched to "+string(next)+" (draft reset)"))
	default:
		fmt.Fprintln(out, dimStyle.Render("commands: /type <t>, /draft, /quit"))
	}
	return false
}

// streamReply sends the message and repaints the assistant line as
// deltas arrive.
func streamReply(cmd *cobra.Command, session *client.Session, text string) {
	out := cmd.OutOrStdout()

	printed := 0
	session.OnUpdate = func() {
		msgs := session.Messages()
		if len(msgs) == 0 {
			return
		}
		last := msgs[len(msgs)-1]
		if last.Role != model.RoleAssistant {
			return
		}
		if len(last.Content) > printed {
			fmt.Fprint(out, assistantStyle.Render(last.Content[printed:]))
			printed = len(last.Content)
		}
	}
	defer func() { session.OnUpdate = nil }()

	_ = session.Send(cmd.Context(), text)
	fmt.Fprintln(out)
}

func renderDraft(session *client.Session) string {
	tpl := session.Draft().Template()

	var b strings.Builder
	b.WriteString(labelStyle.Render(tpl.Label) + "\n\n")
	b.WriteString(labelStyle.Render(tpl.TitleLabel+": ") + tpl.Title + "\n")
	b.WriteString(labelStyle.Render(tpl.DescriptionLabel+": ") + tpl.Description + "\n")
	b.WriteString(labelStyle.Render(tpl.ListLabel+":") + "\n")
	for i, item := range tpl.Acceptance {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, item)
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}
