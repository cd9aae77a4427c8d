// Package commands defines the registry's command metadata.
package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command couples a handler with the metadata the registry and the Telegram
// command menu need. AdminOnly commands are wrapped with the admin check at
// route build time; Hidden keeps a command out of the menu. Aliases are
// alternative slash names resolved by the text router.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}
