package matrixbot

import (
	"fmt"
	"strings"

	"github.com/beeper/search-bot/pkg/commands"
)

func (b *Bot) registerHelp() {
	b.registry.Register(commands.Definition{
		Name:        "help",
		Description: "Show this help",
		Args:        "[command]",
		Handler:     b.handleHelp,
	})
}

func (b *Bot) handleHelp(ce *commands.Event) commands.Outcome {
	if name := strings.TrimSpace(ce.RawArgs); name != "" {
		def := b.registry.Get(strings.TrimPrefix(name, b.prefix))
		if def == nil {
			ce.Reply("Unknown command %q.", name)
			return commands.NoLimit
		}
		ce.Reply(b.describe(def, true))
		return commands.NoLimit
	}
	defs := b.registry.All()
	lines := make([]string, 0, len(defs))
	for _, def := range defs {
		lines = append(lines, b.describe(def, false))
	}
	ce.Reply(strings.Join(lines, "\n"))
	return commands.NoLimit
}

func (b *Bot) describe(def *commands.Definition, verbose bool) string {
	var sb strings.Builder
	sb.WriteString(b.prefix + def.Name)
	if def.Args != "" {
		sb.WriteString(" " + def.Args)
	}
	if def.Description != "" {
		sb.WriteString(" - " + def.Description)
	}
	if len(def.Aliases) > 0 {
		_, _ = fmt.Fprintf(&sb, " (aliases: %s)", strings.Join(def.Aliases, ", "))
	}
	if verbose {
		for _, example := range def.Examples {
			sb.WriteString("\nExample: " + b.prefix + example)
		}
	}
	return sb.String()
}
