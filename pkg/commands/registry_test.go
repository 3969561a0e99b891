package commands

import (
	"context"
	"slices"
	"testing"
)

type recordingResponder struct {
	replies []string
	says    []string
}

func (r *recordingResponder) Reply(_ context.Context, text string) { r.replies = append(r.replies, text) }
func (r *recordingResponder) Say(_ context.Context, text string)   { r.says = append(r.says, text) }

func TestRegistryAliases(t *testing.T) {
	reg := NewRegistry()
	handler := func(ce *Event) Outcome { return Counted }
	reg.Register(Definition{Name: "search", Aliases: []string{"ddg", "G"}, Handler: handler})
	reg.Register(Definition{Name: "gsuggest", Handler: handler})

	for _, name := range []string{"search", "DDG", "g"} {
		def := reg.Get(name)
		if def == nil || def.Name != "search" {
			t.Fatalf("expected %q to resolve to search, got %#v", name, def)
		}
	}
	if reg.Get("unknown") != nil {
		t.Fatalf("expected nil for unknown command")
	}
	if got := reg.Names(); !slices.Equal(got, []string{"gsuggest", "search"}) {
		t.Fatalf("unexpected names %v", got)
	}
	if all := reg.All(); len(all) != 2 || all[0].Name != "gsuggest" {
		t.Fatalf("unexpected All() order")
	}
}

func TestRegistryIgnoresIncompleteDefinitions(t *testing.T) {
	reg := NewRegistry()
	if reg.Register(Definition{Name: "nohandler"}) != nil {
		t.Fatalf("expected nil for definition without handler")
	}
	if len(reg.Names()) != 0 {
		t.Fatalf("expected empty registry")
	}
}

func TestDefinitionRunAppliesOutputPrefix(t *testing.T) {
	resp := &recordingResponder{}
	def := Definition{
		Name:         "echo",
		OutputPrefix: "[search] ",
		Handler: func(ce *Event) Outcome {
			ce.Reply("hi %s", ce.RawArgs)
			ce.Say("100% literal")
			return NoLimit
		},
	}
	ce := &Event{Ctx: context.Background(), Command: "echo", RawArgs: "there", Responder: resp}
	if got := def.Run(ce); got != NoLimit {
		t.Fatalf("expected outcome to be passed through, got %v", got)
	}
	if !slices.Equal(resp.replies, []string{"[search] hi there"}) {
		t.Fatalf("unexpected replies %#v", resp.replies)
	}
	if !slices.Equal(resp.says, []string{"[search] 100% literal"}) {
		t.Fatalf("unexpected says %#v", resp.says)
	}
	if ce.Responder != resp {
		t.Fatalf("original event responder was modified")
	}
}
