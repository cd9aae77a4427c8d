package telegram

import (
	"testing"

	"hadithbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestListCommandsFiltersHiddenAndAdmin(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/hadith", commands.Command{Description: "random hadith", Handler: noop})
	reg.RegisterCommand("/favorites", commands.Command{Description: "list favorites", Handler: noop})
	reg.RegisterCommand("/stats", commands.Command{Description: "totals", Handler: noop, AdminOnly: true, Hidden: true})

	visible := reg.ListCommands(true)
	if len(visible) != 2 {
		t.Fatalf("visible commands = %d, want 2", len(visible))
	}
	// Sorted by name, so the menu order is stable.
	if visible[0].Text != "/favorites" || visible[1].Text != "/hadith" {
		t.Fatalf("unexpected menu order: %v", visible)
	}

	all := reg.ListCommands(false)
	if len(all) != 3 {
		t.Fatalf("all commands = %d, want 3", len(all))
	}
}

func TestLookupCommandResolvesAliases(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/favorites", commands.Command{
		Description: "list favorites",
		Handler:     noop,
		Aliases:     []string{"/favs"},
	})

	key, _, ok := reg.LookupCommand("/favs")
	if !ok {
		t.Fatal("alias /favs not resolved")
	}
	if key != "/favorites" {
		t.Fatalf("alias resolved to %q, want /favorites", key)
	}

	if key, _, ok = reg.LookupCommand("favorites"); !ok || key != "/favorites" {
		t.Fatalf("slashless lookup: key=%q ok=%v", key, ok)
	}

	if _, _, ok = reg.LookupCommand("/missing"); ok {
		t.Fatal("unknown command resolved")
	}
}

func TestRegisterCommandRejectsInvalid(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("nohadith", commands.Command{Description: "missing slash", Handler: noop})
	reg.RegisterCommand("/blank", commands.Command{Handler: noop})
	reg.RegisterCommand("", commands.Command{Description: "empty", Handler: noop})

	if n := len(reg.Commands()); n != 0 {
		t.Fatalf("invalid registrations accepted: %d", n)
	}
}
