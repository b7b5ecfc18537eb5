package migrations

import (
	"regexp"
	"strings"
	"testing"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	b, err := Migrations.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(b)
}

func TestAllMigrationsEmbedded(t *testing.T) {
	entries, err := Migrations.ReadDir(".")
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("expected 4 embedded migrations, got %d", len(entries))
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".sql") {
			t.Errorf("unexpected embedded file %s", e.Name())
		}
	}
}

// Deleting a user leaves that user's events behind as orphaned rows, so the
// events table must not carry a foreign key to users.
func TestEventsTableHasNoUserForeignKey(t *testing.T) {
	sql := readMigration(t, "00002_events.sql")

	table := regexp.MustCompile(`(?s)CREATE TABLE events \((.*?)\);`).FindStringSubmatch(sql)
	if table == nil {
		t.Fatal("events table definition not found")
	}
	for _, col := range strings.Split(table[1], "\n") {
		if strings.Contains(col, "user_id") && strings.Contains(col, "REFERENCES") {
			t.Errorf("user_id must stay a logical reference, got: %s", strings.TrimSpace(col))
		}
	}
}

// Reset tokens hang off the user row and must not survive it.
func TestPasswordResetsCascadeOnUserDelete(t *testing.T) {
	sql := readMigration(t, "00003_password_resets.sql")
	if !strings.Contains(sql, "REFERENCES users (id) ON DELETE CASCADE") {
		t.Error("expected password_resets.user_id to cascade on user delete")
	}
}

func TestBootstrapAdminSeeded(t *testing.T) {
	sql := readMigration(t, "00004_bootstrap_admin.sql")

	if !strings.Contains(sql, "group_id, email, password_hash") {
		t.Error("expected an admin user insert")
	}
	if !strings.Contains(sql, "VALUES (fn_generate_user_id(), 1,") {
		t.Error("expected the seeded account in the admin group")
	}
	// bcrypt via pgcrypto, so the application's hash check accepts it
	if !strings.Contains(sql, "gen_salt('bf'") {
		t.Error("expected a bcrypt-hashed bootstrap password")
	}
	if !strings.Contains(sql, "ON CONFLICT (email) DO NOTHING") {
		t.Error("expected re-running the migration to keep an existing admin")
	}
}
