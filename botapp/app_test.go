package botapp

import (
	"testing"
)

func TestTelegramRunOptionsRegistersAdminCommand(t *testing.T) {
	app := newTestApp(&stubStore{}, 99)
	app.cfg.Core.Telegram.AdminID = 99

	opts, err := app.TelegramRunOptions()
	if err != nil {
		t.Fatalf("run options: %v", err)
	}

	cmds := opts.Registry.Commands()
	admin, ok := cmds["/admin"]
	if !ok {
		t.Fatal("/admin not registered")
	}
	if !admin.AdminOnly {
		t.Error("/admin must be admin-only")
	}
	start, ok := cmds["/start"]
	if !ok {
		t.Fatal("/start not registered")
	}
	if start.AdminOnly {
		t.Error("/start must be open to everyone")
	}

	// The admin-only command is hidden from the public command menu.
	for _, c := range opts.Registry.ListCommands(true) {
		if c.Text == "/admin" {
			t.Error("/admin leaked into the visible command list")
		}
	}

	for _, key := range []string{
		"add_location", "view_map", "list_locations", "my_locations",
		"admin_panel", "pending_approvals", "approve", "reject", "delete", "locate",
	} {
		if _, ok := opts.Registry.GetCallback(key); !ok {
			t.Errorf("callback %q not registered", key)
		}
	}

	if len(opts.Routes) == 0 {
		t.Fatal("no routes built")
	}
}
